package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/maax3v3/colorreduce/internal/cli"
	"github.com/maax3v3/colorreduce/internal/pipeline"
)

func main() {
	cfg, err := cli.Parse()
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := pipeline.Run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
