package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"go.uber.org/zap"

	"display-generator/internal/gen"
)

func (cfg *checkConfig) run(cc *cli.Context, args []string) error {
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

	diffs, err := gen.DiffFiles(files, dir)
	if err != nil {
		return err
	}

	if len(diffs) == 0 {
		log.Debug("generated files are up to date", zap.Int("files", len(files)))
		return nil
	}

	for _, d := range diffs {
		_, _ = fmt.Fprint(cc.Out, d.Pretty())
	}

	_, _ = fmt.Fprintf(cc.Out, "%d of %d generated files are stale; run display-generator gen\n", len(diffs), len(files))

	return cli.ExitCodeErr(1)
}
