package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/abrezinsky/hockeyscorer/internal/browser"
	"github.com/abrezinsky/hockeyscorer/internal/logger"
)

// listenForKeyboard reads single key presses from a terminal stdin and
// performs the shortcut actions. It returns when stdin is not a terminal,
// when ctx ends, or after calling quit.
func listenForKeyboard(ctx context.Context, scoreboardURL string, appLog *logger.SlogLogger, quit context.CancelFunc) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return
	}
	defer term.Restore(fd, oldState)

	launcher := browser.New(appLog)
	keys := make(chan byte)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				close(keys)
				return
			}
			if n == 1 {
				keys <- buf[0]
			}
		}
	}()

	for {
		var key byte
		select {
		case <-ctx.Done():
			return
		case k, ok := <-keys:
			if !ok {
				return
			}
			key = k
		}

		switch strings.ToLower(string(key)) {
		case "s":
			printRaw("%sOpening scoreboard in browser...%s", cyan, reset)
			if err := launcher.Open(scoreboardURL); err != nil {
				printRaw("%sError opening browser: %v%s", red, err, reset)
			}
		case "h":
			if appLog.IsHTTPLoggingEnabled() {
				appLog.DisableHTTPLogging()
				printRaw("%sHTTP logging disabled%s", yellow, reset)
			} else {
				appLog.EnableHTTPLogging()
				printRaw("%sHTTP logging enabled%s", green, reset)
			}
		case "l":
			printRaw("%sLog level: %s%s%s", green, yellow, cycleLogLevel(appLog), reset)
		case "?":
			printKeyboardHelp("\r\n")
		case "q", "\x03": // q or Ctrl+C
			printRaw("%sShutting down server...%s", yellow, reset)
			quit()
			return
		}
	}
}

// printRaw prints one line while the terminal is in raw mode, where a bare
// newline does not return the carriage
func printRaw(format string, args ...any) {
	fmt.Printf(format+"\r\n", args...)
}
