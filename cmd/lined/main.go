// Package main is the entry point for the lined editor.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/lined/internal/app"
	"github.com/dshills/lined/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	var opts app.Options

	cmd := &cobra.Command{
		Use:   "lined",
		Short: "lined - a small modal line editor",
		Long: `lined is a modal line editor.

On a terminal it runs full screen: press a to append, : for a command,
Esc to leave a mode. With input from a pipe it reads ed-style commands:

  <n>a   append after the end of line n, end input with a lone "."
  <n>p   print line n
  ,p     print the whole document
  <n>    go to line n
  q, q!  quit`,
		Example: `  lined
  printf '0a\nhello\n.\n,p\nq\n' | lined
  lined --frontend line --start-mode command
  lined --script init.lua`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Stdin = cmd.InOrStdin()
			opts.Stdout = cmd.OutOrStdout()
			opts.Stderr = cmd.ErrOrStderr()
			return runEditor(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "path to configuration file (default "+config.DefaultPath()+")")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.LogFile, "log-file", "", "write logs to this file instead of stderr")
	flags.StringVar(&opts.Frontend, "frontend", "", "frontend to use (auto, line, screen)")
	flags.StringVar(&opts.StartMode, "start-mode", "", "initial mode (normal, command)")
	flags.StringVar(&opts.Script, "script", "", "Lua script to run before reading input")

	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "lined %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}

func runEditor(ctx context.Context, opts app.Options) error {
	application, err := app.New(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer application.Close()

	return application.Run(ctx)
}
