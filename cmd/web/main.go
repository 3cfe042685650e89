package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tomz197/termfolio/internal/cli"
	"github.com/tomz197/termfolio/internal/config"
	"github.com/tomz197/termfolio/internal/page"
)

//go:embed index.html
var htmlPage string

var pageTemplate = template.Must(template.New("index").Parse(htmlPage))

var flags cli.Flags

var rootCmd = &cobra.Command{
	Use:           "web",
	Short:         "Serve the landing page that points visitors at the SSH host",
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
	cfg, logger, closer, err := flags.Setup("web", os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	content, err := page.Load(cfg.ContentFile)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(cfg.Web.Host, cfg.Web.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newHandler(cfg.Web, content, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting web server", "addr", "http://"+addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// pageData is what index.html is rendered with.
type pageData struct {
	*page.Content
	SSHCommand string
}

// sshCommand is the command line shown to visitors.
func sshCommand(cfg config.WebConfig) string {
	if cfg.SSHPort == "" || cfg.SSHPort == "22" {
		return "ssh " + cfg.SSHHost
	}
	return fmt.Sprintf("ssh -p %s %s", cfg.SSHPort, cfg.SSHHost)
}

func newHandler(cfg config.WebConfig, content *page.Content, logger *log.Logger) http.Handler {
	data := pageData{Content: content, SSHCommand: sshCommand(cfg)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTemplate.Execute(w, data); err != nil {
			logger.Error("rendering page", "err", err)
		}
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	})
	return mux
}
