package main

import (
	"context"
	"os"

	"locsearch/internal/cli"
)

// Version is injected at build time
var Version = "dev"

func main() {
	runMain(os.Args, os.Exit)
}

func runMain(args []string, exit func(int)) {
	if err := cli.Execute(context.Background(), Version, args[1:], os.Stdout, os.Stderr); err != nil {
		exit(1)
	}
}
