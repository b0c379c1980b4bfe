package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/maax3v3/colorreduce/internal/server"
)

// Version information, set by ldflags during build.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	cfg := server.DefaultConfig()

	fs := flag.NewFlagSet("colorreduce-server", flag.ExitOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.Int64Var(&cfg.MaxBodyBytes, "max-body", cfg.MaxBodyBytes, "maximum request body size in bytes")
	fs.IntVar(&cfg.DefaultThreshold, "threshold", cfg.DefaultThreshold, "default area threshold in pixels")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "mapping goroutines per request (0 = NumCPU)")
	version := fs.Bool("version", false, "print version information")
	fs.Parse(os.Args[1:])

	if *version {
		fmt.Printf("colorreduce-server %s (commit %s)\n", Version, GitCommit)
		return
	}
	if cfg.DefaultThreshold <= 0 {
		fmt.Fprintf(os.Stderr, "Error: --threshold must be positive, got %d\n", cfg.DefaultThreshold)
		os.Exit(1)
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Printf("colorreduce-server %s listening on %s", Version, cfg.Addr)

	srv := server.New(cfg)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
