package shared

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNoBrowser means no command could be found to show the consent page.
var ErrNoBrowser = errors.New("no browser available")

// OpenBrowser starts the platform browser on url without waiting for it to exit.
func OpenBrowser(url string) error {
	argv, err := launcher(runtime.GOOS, url, os.Getenv)
	if err != nil {
		return err
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNoBrowser, argv[0], err)
	}
	go cmd.Wait()
	return nil
}

// launcher picks the argv that opens url on goos.
//
// A $BROWSER value wins everywhere. A Linux session with neither DISPLAY nor
// WAYLAND_DISPLAY (ssh, containers) has nothing to draw on, so the caller
// falls back to printing the URL.
func launcher(goos, url string, getenv func(string) string) ([]string, error) {
	if browser := strings.TrimSpace(getenv("BROWSER")); browser != "" {
		return append(strings.Fields(browser), url), nil
	}

	switch goos {
	case "darwin":
		return []string{"open", url}, nil
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler", url}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		if getenv("DISPLAY") == "" && getenv("WAYLAND_DISPLAY") == "" {
			return nil, fmt.Errorf("%w: no graphical session", ErrNoBrowser)
		}
		return []string{"xdg-open", url}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported platform %s", ErrNoBrowser, goos)
	}
}
