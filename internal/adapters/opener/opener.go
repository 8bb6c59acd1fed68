// Package opener hands bookmark URLs to the operating system's default
// browser.
package opener

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Browser implements ports.URLOpener via the platform launcher.
type Browser struct{}

// NewBrowser creates a new browser opener.
func NewBrowser() *Browser {
	return &Browser{}
}

// OpenURL hands the address to the system browser. The launch is not
// waited on; browsers routinely outlive the caller.
func (b *Browser) OpenURL(rawURL string) error {
	if err := checkURL(rawURL); err != nil {
		return err
	}

	name, args, err := launcher(runtime.GOOS)
	if err != nil {
		return err
	}
	return exec.Command(name, append(args, rawURL)...).Start()
}

// checkURL accepts web addresses only; other schemes never reach a launcher.
func checkURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("not a valid URL: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
		return nil
	default:
		return fmt.Errorf("refusing to open scheme %q", u.Scheme)
	}
}

// launcher returns the command that hands a URL to the default browser.
func launcher(goos string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", nil, nil
	case "linux":
		return "xdg-open", nil, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler"}, nil
	default:
		return "", nil, fmt.Errorf("unsupported operating system: %s", goos)
	}
}
