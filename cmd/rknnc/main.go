package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rknnc/internal/cli"
)

func main() {
	// Ctrl+C / SIGTERM kill the toolkit bridge through the context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
