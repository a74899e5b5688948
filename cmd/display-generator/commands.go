package main

import (
	"github.com/scott-cotton/cli"
)

// RootCommand returns the root command for display-generator.
func RootCommand() *cli.Command {
	return cli.NewCommand("display-generator").
		WithSynopsis("display-generator command [opts]").
		WithDescription("display-generator compiles display schemas into Go text codecs.").
		WithSubs(
			GenCommand(),
			CheckCommand(),
			ExplainCommand(),
		)
}

type genConfig struct {
	*cli.Command
	Schema  string `cli:"name=schema aliases=s desc='display schema file'"`
	Pkg     string `cli:"name=pkg aliases=p desc='Go package declaring the display types'"`
	Out     string `cli:"name=out aliases=o desc='output directory (default: the schema directory)'"`
	Strict  bool   `cli:"name=strict desc='fail on warnings'"`
	Verbose bool   `cli:"name=v desc='verbose logging'"`
}

// GenCommand returns the gen subcommand.
func GenCommand() *cli.Command {
	cfg := &genConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}

	return cli.NewCommandAt(&cfg.Command, "gen").
		WithSynopsis("gen -schema display.yaml [-pkg ./types] [-out dir]").
		WithDescription("generate display code for every type of a schema").
		WithOpts(opts...).
		WithRun(cfg.run)
}

type checkConfig struct {
	*cli.Command
	Schema  string `cli:"name=schema aliases=s desc='display schema file'"`
	Pkg     string `cli:"name=pkg aliases=p desc='Go package declaring the display types'"`
	Out     string `cli:"name=out aliases=o desc='directory holding the generated files'"`
	Strict  bool   `cli:"name=strict desc='fail on warnings'"`
	Verbose bool   `cli:"name=v desc='verbose logging'"`
}

// CheckCommand returns the check subcommand.
func CheckCommand() *cli.Command {
	cfg := &checkConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}

	return cli.NewCommandAt(&cfg.Command, "check").
		WithSynopsis("check -schema display.yaml [-pkg ./types] [-out dir]").
		WithDescription("exit non-zero when generated display code is missing or stale").
		WithOpts(opts...).
		WithRun(cfg.run)
}

type explainConfig struct {
	*cli.Command
	Schema  string `cli:"name=schema aliases=s desc='display schema file'"`
	Pkg     string `cli:"name=pkg aliases=p desc='Go package declaring the display types'"`
	Type    string `cli:"name=type aliases=t desc='only explain this type'"`
	Dump    bool   `cli:"name=dump desc='dump the compiled programs'"`
	Verbose bool   `cli:"name=v desc='verbose logging'"`
}

// ExplainCommand returns the explain subcommand.
func ExplainCommand() *cli.Command {
	cfg := &explainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}

	return cli.NewCommandAt(&cfg.Command, "explain").
		WithSynopsis("explain -schema display.yaml [-pkg ./types] [-type Name] [-dump]").
		WithDescription("print what each display type renders and accepts").
		WithOpts(opts...).
		WithRun(cfg.run)
}
