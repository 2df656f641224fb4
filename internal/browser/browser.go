package browser

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/abrezinsky/hockeyscorer/internal/logger"
)

// Commander starts an external command without waiting for it
type Commander interface {
	Start(name string, args ...string) error
}

// RealCommander executes actual commands
type RealCommander struct{}

// Start executes a command and starts it
func (RealCommander) Start(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Launcher opens pages of the running server in the desktop browser
type Launcher struct {
	log       logger.Logger
	commander Commander
	goos      string
}

// New returns a Launcher for the current platform
func New(log logger.Logger) *Launcher {
	return NewWithCommander(log, RealCommander{}, runtime.GOOS)
}

// NewWithCommander returns a Launcher that runs commands through commander
// as if on goos
func NewWithCommander(log logger.Logger, commander Commander, goos string) *Launcher {
	return &Launcher{log: log, commander: commander, goos: goos}
}

// Open opens url in the default browser
func (l *Launcher) Open(url string) error {
	name, args, err := openCommand(l.goos, url)
	if err != nil {
		return err
	}
	if err := l.commander.Start(name, args...); err != nil {
		l.log.Warn("Failed to open browser", "url", url, "error", err)
		return err
	}
	l.log.Debug("Opened browser", "url", url)
	return nil
}

func openCommand(goos, url string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{url}, nil
	case "darwin":
		return "open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}
