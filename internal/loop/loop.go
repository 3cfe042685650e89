// Package loop runs the portfolio in the local terminal.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/termfolio/internal/config"
	"github.com/tomz197/termfolio/internal/draw"
	"github.com/tomz197/termfolio/internal/loop/client"
	"github.com/tomz197/termfolio/internal/page"
)

// Options configures a local run. A nil Config uses the defaults.
type Options struct {
	Config       *config.Config
	Logger       *log.Logger
	OpenURL      func(url string) error
	TermSizeFunc draw.TermSizeFunc
}

// Run shows the portfolio on w, reading keys and mouse reports from r, until
// the user quits or ctx is cancelled. The terminal must already be in raw mode.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	content, err := page.Load(cfg.ContentFile)
	if err != nil {
		return err
	}
	params, err := cfg.Particles.Params()
	if err != nil {
		return fmt.Errorf("particles: %w", err)
	}

	c, err := client.NewClient(nil, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Username:     "local",
		Content:      content,
		Particles:    params,
		Render:       cfg.Render,
		OpenURL:      opts.OpenURL,
		Logger:       opts.Logger,
	})
	if err != nil {
		return err
	}
	return c.Run(ctx)
}
