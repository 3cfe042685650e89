// Package browser opens URLs with the operating system's default handler.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Open starts the default browser on url without waiting for it.
func Open(url string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("refusing to open %q: not an http(s) URL", url)
	}
	if err := Command(runtime.GOOS, url).Start(); err != nil {
		return fmt.Errorf("opening %s: %w", url, err)
	}
	return nil
}

// Command returns the opener command for the given GOOS.
func Command(goos, url string) *exec.Cmd {
	switch goos {
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		return exec.Command("open", url)
	default:
		return exec.Command("xdg-open", url)
	}
}
