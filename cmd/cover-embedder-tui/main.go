package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/cover-embedder/internal/config"
	"github.com/handiism/cover-embedder/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to settings file")
	flag.Parse()

	path := *configFlag
	if path == "" {
		path = config.DefaultPath()
	}

	settings, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		os.Exit(1)
	}
	if err := settings.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(settings, path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
