package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"daytrack/internal/cli"
	"daytrack/internal/report"
)

func main() {
	cli.LoadEnvFile()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := report.NewCommand(report.NewViper(), report.Options{})
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
