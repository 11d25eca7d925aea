// locsearch is an interactive location picker for the terminal.
// The same binary is built from ./cmd/locsearch; this entry point lets
// `go run .` and `go install` work from the repository root.
package main

import (
	"context"
	"os"

	"locsearch/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(context.Background(), version, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}
