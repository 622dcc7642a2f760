package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"futures-review/internal/cli"
)

func main() {
	// Cancel in-flight work on Ctrl-C
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
