package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/okian/footstats/internal/config"
	"github.com/okian/footstats/internal/snapshot"
	"github.com/okian/footstats/pkg/logger"
)

const defaultRunTimeout = 2 * time.Minute

func main() {
	var (
		outDir  = flag.String("out", snapshot.DefaultOutDir, "Output directory")
		baseURL = flag.String("url", "", "Upstream API root (default from configuration)")
		timeout = flag.Duration("timeout", 0, "Upstream request timeout (default from configuration)")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		snapshot.ShowHelp()
		return
	}

	cfg, err := config.Load(context.Background())
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.InitWithOptions(logger.Options{Format: cfg.LogFormat, Output: os.Stderr}); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if cfg.APIToken == "" {
		os.Stderr.WriteString("Missing API token: set FOOTSTATS_API_TOKEN or FOOTBALL_DATA_TOKEN\n")
		os.Exit(1)
	}

	run := &snapshot.Config{
		Codes:     flag.Args(),
		OutDir:    *outDir,
		BaseURL:   cfg.APIBaseURL,
		Token:     cfg.APIToken,
		Timeout:   cfg.APITimeout,
		RateLimit: cfg.RateLimitPerMinute,
	}
	if *baseURL != "" {
		run.BaseURL = *baseURL
	}
	if *timeout > 0 {
		run.Timeout = *timeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	results, err := snapshot.Run(ctx, run)
	if err != nil {
		os.Stderr.WriteString("Snapshot failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
	for _, r := range results {
		fmt.Printf("Saved %d teams to %s and %s\n", r.Teams, r.JSONPath, r.CSVPath)
	}
}
