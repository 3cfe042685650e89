package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tomz197/termfolio/internal/browser"
	"github.com/tomz197/termfolio/internal/cli"
	"github.com/tomz197/termfolio/internal/loop"
)

var flags cli.Flags

var rootCmd = &cobra.Command{
	Use:           "portfolio",
	Short:         "Show the portfolio in this terminal",
	Long:          "Runs the portfolio page with its particle background in the current terminal. Press Ctrl+K for commands and q to quit.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags.Register(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// Anything written to the terminal while drawing would tear the frame,
	// so logs only go somewhere when log.file is set.
	cfg, logger, closer, err := flags.Setup("portfolio", io.Discard)
	if err != nil {
		return err
	}
	defer closer.Close()

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("stdin is not a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	logger.Info("starting local session")
	return loop.Run(ctx, bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Config:  cfg,
		Logger:  logger,
		OpenURL: browser.Open,
	})
}
