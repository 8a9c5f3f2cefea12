package fallback

import (
	"fmt"
	"os/exec"
	"runtime"
)

var execCommand = exec.Command

// Opener hands a URL to the user's default handler
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to Opener
type OpenerFunc func(url string) error

// Open calls f(url)
func (f OpenerFunc) Open(url string) error {
	return f(url)
}

// SystemOpener opens URLs with the platform's default handler
type SystemOpener struct{}

// Open launches the mail handler for url without waiting for it to exit
func (SystemOpener) Open(url string) error {
	name, args := openCommand(runtime.GOOS, url)
	cmd := execCommand(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", name, err)
	}
	go cmd.Wait() //nolint:errcheck
	return nil
}

func openCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}
