// Package main is the entry point for the pds installer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jss-tech/pencil-design-system/cmd/pds/commands"
	"github.com/jss-tech/pencil-design-system/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Execute(ctx)
	stop()
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "\n  Error: %v\n", err)
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "  %s\n", exitErr.Suggestion)
	}
	fmt.Fprintln(os.Stderr)
	os.Exit(errors.ExitCode(err))
}
