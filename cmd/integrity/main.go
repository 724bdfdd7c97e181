package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"shinypull/internal/api/config"
	"shinypull/internal/pkg/database"
	"shinypull/internal/pkg/logger"
	"shinypull/internal/wire"
)

// Audits stored metrics for the top creators on each platform and exits
// non-zero when any check fails, so it can gate a monitoring alert.
// Usage: integrity [top-n]
func main() {
	topN := positionalInt(0)

	if err := config.LoadConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}
	logger.InitLogger()

	db, err := database.NewGormDB(&config.Cfg.DB)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to connect to store:", err)
		os.Exit(1)
	}

	pipeline, err := wire.BuildPipeline(db, config.Cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build pipeline:", err)
		os.Exit(1)
	}
	defer pipeline.Instagram.Close()

	tally, reports, err := pipeline.IntegrityJob.RunOnce(context.Background(), topN)
	if err != nil {
		fmt.Fprintln(os.Stderr, "integrity run failed:", err)
		os.Exit(1)
	}

	for _, report := range reports {
		fmt.Printf("%s/%s:\n", report.Creator.Platform, report.Creator.Username)
		for _, r := range report.Results {
			fmt.Printf("  [%s] %s: %s\n", r.Status, r.Check, r.Detail)
		}
	}
	fmt.Printf("checks: %d pass, %d warn, %d fail\n", tally.Pass, tally.Warn, tally.Fail)

	if tally.Fail > 0 {
		os.Exit(1)
	}
}

func positionalInt(fallback int) int {
	if len(os.Args) < 2 {
		return fallback
	}
	n, err := strconv.Atoi(os.Args[1])
	if err != nil || n <= 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [count]\n", os.Args[0])
		os.Exit(1)
	}
	return n
}
