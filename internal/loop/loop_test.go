package loop

import (
	"bufio"
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/termfolio/internal/config"
)

func fixedSize() (int, int, error) { return 80, 24, nil }

func TestRunQuits(t *testing.T) {
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- Run(context.Background(), bufio.NewReader(strings.NewReader("jjq")), &out, Options{TermSizeFunc: fixedSize})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after q")
	}
	if !strings.Contains(out.String(), "\033[?1049l") {
		t.Error("alternate screen not left")
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// A reader that never yields keeps the session alive until ctx ends.
	r := bufio.NewReader(blockingReader{})
	if err := Run(ctx, r, &bytes.Buffer{}, Options{TermSizeFunc: fixedSize}); err != nil {
		t.Errorf("Run after cancel = %v, want nil", err)
	}
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) { select {} }

func TestRunBadContent(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ContentFile = filepath.Join(t.TempDir(), "missing.yml")

	err := Run(context.Background(), bufio.NewReader(strings.NewReader("")), &bytes.Buffer{}, Options{Config: cfg, TermSizeFunc: fixedSize})
	if err == nil {
		t.Fatal("expected error for missing content file")
	}
}

func TestRunBadColor(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Particles.Color = "cyan"

	err := Run(context.Background(), bufio.NewReader(strings.NewReader("")), &bytes.Buffer{}, Options{Config: cfg, TermSizeFunc: fixedSize})
	if err == nil || !strings.Contains(err.Error(), "particles") {
		t.Errorf("err = %v", err)
	}
}
