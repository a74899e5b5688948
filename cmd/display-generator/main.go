// Package main provides the CLI entrypoint for display-generator.
//
// display-generator compiles display schemas into Go code:
//   - gen writes String, MarshalText, UnmarshalText and Parse functions
//   - check fails when the generated files on disk are stale
//   - explain prints the compiled patterns, bounds and variant bindings
package main

import (
	"context"

	"github.com/scott-cotton/cli"
)

func main() {
	cli.MainContext(context.Background(), RootCommand())
}
