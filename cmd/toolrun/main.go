// Command toolrun drives tool-using agents from the command line.
//
// Usage:
//
//	toolrun ask --folder ./src "the file that parses config"
//	toolrun find --folder ./src "tests for the HTTP handlers"
//	toolrun prompt "Summarize the Go memory model in one paragraph"
//	toolrun mcp --folder ./src
//
// Configuration comes from the environment (and a .env file); flags
// override it. See config.Load for the variables.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
