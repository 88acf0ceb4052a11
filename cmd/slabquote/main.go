package main

import (
	"os"

	"github.com/piwi3910/SlabQuote/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
