package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/scott-cotton/cli"
	"go.uber.org/zap"

	"display-generator/internal/gen"
)

func (cfg *genConfig) run(cc *cli.Context, args []string) error {
	_, err := cfg.Parse(cc, args)
	if err != nil {
		return err
	}

	log := newLogger(cfg.Verbose)
	defer func() { _ = log.Sync() }()

	colorize(cc.Out)

	files, dir, err := generate(log, cc.Out, source{schema: cfg.Schema, pkg: cfg.Pkg, strict: cfg.Strict}, cfg.Out, cfg.Verbose)
	if err != nil {
		return err
	}

	if err := gen.WriteFiles(files, dir); err != nil {
		return err
	}

	for _, f := range files {
		log.Info("wrote file", zap.String("path", filepath.Join(dir, f.Filename)), zap.Int("bytes", len(f.Content)))
	}

	_, _ = fmt.Fprintf(cc.Out, "generated %d files in %s\n", len(files), dir)

	return nil
}

// generate resolves the schema and generates its files. It returns the
// output directory the files belong in.
func generate(log *zap.Logger, w io.Writer, src source, out string, verbose bool) ([]gen.GeneratedFile, string, error) {
	l, err := load(log, src)
	if l != nil && l.plan != nil {
		printDiagnostics(w, &l.plan.Diagnostics, verbose)
	}

	if err != nil {
		return nil, "", err
	}

	if out == "" {
		out = l.dir
	}

	pkgName := l.pkgName
	if pkgName == "" {
		abs, err := filepath.Abs(out)
		if err != nil {
			return nil, "", err
		}

		pkgName = filepath.Base(abs)
	}

	generator := gen.NewGenerator(gen.GeneratorConfig{
		PackageName: pkgName,
		OutputDir:   out,
		PkgPath:     l.pkgPath,
	})

	files, err := generator.Generate(l.plan)
	if err != nil {
		return nil, "", err
	}

	return files, out, nil
}
