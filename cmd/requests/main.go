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

// Drains pending creator requests submitted through the API.
// Usage: requests [batch-size]
func main() {
	batch := positionalInt(0)

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

	summary, err := pipeline.RequestJob.RunOnce(context.Background(), batch)
	if err != nil {
		fmt.Fprintln(os.Stderr, "request run failed:", err)
		os.Exit(1)
	}

	fmt.Printf("processed %d requests, %d failed", summary.Processed, summary.Failed)
	if summary.StoppedEarly {
		fmt.Print(" (stopped early on rate limit)")
	}
	fmt.Println()
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
