package main

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"display-generator/internal/analyze"
	"display-generator/internal/plan"
	"display-generator/schema"
)

// source names the inputs of a run.
type source struct {
	schema string
	pkg    string
	strict bool
}

// loaded is a resolved schema with the package it describes.
type loaded struct {
	plan *plan.Plan
	// pkgName and pkgPath are empty when no package was analyzed.
	pkgName string
	pkgPath string
	// dir is the directory of the schema file.
	dir string
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}

	return logger
}

// load reads the schema, analyzes the package and resolves the plan. The
// plan is returned with its diagnostics even when resolution fails.
func load(log *zap.Logger, src source) (*loaded, error) {
	if src.schema == "" {
		return nil, fmt.Errorf("-schema is required")
	}

	file, err := schema.LoadFile(src.schema)
	if err != nil {
		return nil, err
	}

	log.Debug("loaded schema", zap.String("path", src.schema), zap.Int("types", len(file.Types)))

	out := &loaded{dir: filepath.Dir(src.schema)}

	var graph *analyze.Graph

	if src.pkg != "" {
		analyzer := analyze.NewAnalyzer()

		graph, err = analyzer.LoadPackages(src.pkg)
		if err != nil {
			return nil, err
		}

		for path, info := range graph.Packages {
			out.pkgPath, out.pkgName = path, info.Name
		}

		if len(graph.Packages) != 1 {
			return nil, fmt.Errorf("-pkg %s matched %d packages, want 1", src.pkg, len(graph.Packages))
		}

		log.Debug("analyzed package", zap.String("path", out.pkgPath), zap.Int("shapes", len(graph.Shapes)))
	}

	resolver := plan.NewResolver(file, graph, plan.Config{PkgPath: out.pkgPath, StrictMode: src.strict})

	p, err := resolver.Resolve()
	out.plan = p

	if p != nil {
		log.Debug("resolved plan",
			zap.Int("types", len(p.Types)),
			zap.Int("errors", len(p.Diagnostics.Errors)),
			zap.Int("warnings", len(p.Diagnostics.Warnings)))
	}

	return out, err
}
