package main

import (
	"context"
	"fmt"
	log "log/slog"
	"os"
	"strconv"

	"shinypull/internal/api/config"
	"shinypull/internal/model"
	"shinypull/internal/pkg/database"
	"shinypull/internal/pkg/logger"
	"shinypull/internal/wire"
)

// Refreshes the least-recently-updated creators of every platform.
// Usage: refresh [batch-size]
func main() {
	batchSize := positionalInt(0)

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

	ctx := context.Background()
	for _, platformName := range model.AllPlatforms {
		refreshJob := pipeline.RefreshJobs[platformName]
		summary, err := refreshJob.RunOnce(ctx, batchSize)
		if err != nil {
			log.Error("refresh run failed", "platform", platformName, "err", err)
			continue
		}
		fmt.Printf("%s: refreshed %d, failed %d", platformName, summary.Processed, summary.Failed)
		if summary.StoppedEarly {
			fmt.Print(" (stopped early on rate limit)")
		}
		fmt.Println()
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
