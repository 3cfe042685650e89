package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/spf13/cobra"

	"github.com/tomz197/termfolio/internal/cli"
	"github.com/tomz197/termfolio/internal/config"
	"github.com/tomz197/termfolio/internal/draw"
	"github.com/tomz197/termfolio/internal/loop/client"
	"github.com/tomz197/termfolio/internal/loop/server"
	"github.com/tomz197/termfolio/internal/page"
)

var flags cli.Flags

var rootCmd = &cobra.Command{
	Use:           "ssh",
	Short:         "Serve the portfolio over SSH",
	Long:          "Starts an SSH server. Every connection gets its own portfolio session; sessions share a visitor counter.",
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
	cfg, logger, closer, err := flags.Setup("ssh", os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	content, err := page.Load(cfg.ContentFile)
	if err != nil {
		return err
	}
	params, err := cfg.Particles.Params()
	if err != nil {
		return fmt.Errorf("particles: %w", err)
	}

	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", "err", workErr)
	}
	logger.Info("ssh config", "host", cfg.SSH.Host, "port", cfg.SSH.Port, "hostKeyPath", cfg.SSH.HostKeyPath, "workingDir", workingDir)

	// Shared hub: all SSH sessions register here
	hubCtx, cancelHub := context.WithCancel(context.Background())
	defer cancelHub()
	hub := server.NewHub(cfg.SSH.MaxSessions)
	go hub.Run(hubCtx)
	logger.Info("session hub started", "maxSessions", cfg.SSH.MaxSessions)

	sessions := &sessionHandler{
		hub:    hub,
		logger: logger,
		opts: client.ClientOptions{
			Content:     content,
			Particles:   params,
			Render:      cfg.Render,
			IdleWarning: cfg.SSH.IdleWarning,
			IdleTimeout: cfg.SSH.IdleTimeout,
			Logger:      logger,
		},
	}

	s, err := newServer(cfg.SSH, sessions, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting SSH server", "addr", net.JoinHostPort(cfg.SSH.Host, cfg.SSH.Port))
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	// Notify visitors and wait for their sessions to end
	logger.Info("notifying connected sessions about shutdown", "online", hub.Stats().Online)
	hub.Shutdown(cfg.SSH.ShutdownGrace)
	cancelHub()
	logger.Info("session hub stopped", "served", hub.Stats().Served)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

// newServer builds the wish server with the session middleware chain.
func newServer(cfg config.SSHConfig, sessions *sessionHandler, logger *log.Logger) (*ssh.Server, error) {
	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithMiddleware(
			sessions.middleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY so mouse motion is not batched by Nagle
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if cfg.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.HostKeyPath))
	}

	return wish.NewServer(opts...)
}

// sessionHandler runs one portfolio client per SSH session.
type sessionHandler struct {
	hub    server.SessionHub
	logger *log.Logger
	opts   client.ClientOptions
}

func (h *sessionHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		h.logger.Info("new session", "user", sess.User(), "terminal", pty.Term, "size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		opts := h.opts
		opts.TermSizeFunc = sizeTracker.getSize
		opts.Username = sess.User()

		c, err := client.NewClient(h.hub, bufio.NewReader(sess), sess, opts)
		if err != nil {
			h.logger.Warn("session refused", "user", sess.User(), "err", err)
			fmt.Fprintln(sess, refusal(err))
			return
		}
		if err := c.Run(sess.Context()); err != nil {
			h.logger.Error("session error", "user", sess.User(), "err", err)
		}

		h.logger.Info("session ended", "user", sess.User())
		next(sess)
	}
}

// refusal is the message shown when the hub turns a session away.
func refusal(err error) string {
	switch {
	case errors.Is(err, server.ErrFull):
		return "Too many visitors right now. Please try again in a minute."
	case errors.Is(err, server.ErrClosed):
		return "The server is restarting. Please reconnect in a moment."
	}
	return "Could not start a session."
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
