package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/abrezinsky/hockeyscorer/internal/app"
	"github.com/abrezinsky/hockeyscorer/internal/config"
	"github.com/abrezinsky/hockeyscorer/internal/logger"
)

// ANSI escape codes
const (
	clearLine = "\033[2K"
	moveUp    = "\033[%dA"
	reset     = "\033[0m"
	yellow    = "\033[33m"
	red       = "\033[31m"
	green     = "\033[32m"
	cyan      = "\033[36m"
	bold      = "\033[1m"
)

var version = "dev"

// showStartupBanner prints the logo and, unless skipped, knocks a ball
// across the pitch into the goal
func showStartupBanner(skipAnimation bool) {
	const width = 56
	border := strings.Repeat("═", width)
	logo := []string{
		"   _   _            _                                 ",
		"  | | | | ___   ___| | _____ _   _                    ",
		"  | |_| |/ _ \\ / __| |/ / _ \\ | | |  Scorer           ",
		"  |  _  | (_) | (__|   <  __/ |_| |                   ",
		"  |_| |_|\\___/ \\___|_|\\_\\___|\\__, |                   ",
		"                             |___/                    ",
	}

	fmt.Printf("\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		fmt.Printf("  %s║%s%-*s%s║%s\n", cyan, yellow, width, line, cyan, reset)
	}
	fmt.Printf("  %s╚%s╝%s\n", cyan, border, reset)
	if skipAnimation {
		fmt.Print("\n")
		return
	}

	goal := width - 2
	for pos := 0; pos <= goal; pos += 3 {
		pitch := strings.Repeat(" ", pos) + green + "o" + reset + strings.Repeat(" ", goal-pos)
		fmt.Printf("%s  %s║%s%s]%s║%s\n", clearLine, cyan, pitch, bold, cyan, reset)
		time.Sleep(30 * time.Millisecond)
		fmt.Printf(moveUp, 1)
	}
	fmt.Printf("%s  %s║%s%-*s%s║%s\n\n", clearLine, cyan, yellow, width, strings.Repeat(" ", goal/2-3)+"GOAL!", cyan, reset)
}

// cycleLogLevel moves to the next level, debug -> info -> warn -> error -> debug
func cycleLogLevel(appLog *logger.SlogLogger) string {
	next := map[string]string{
		"DEBUG": "info",
		"INFO":  "warn",
		"WARN":  "error",
		"ERROR": "debug",
	}[appLog.GetLevel().String()]
	if next == "" {
		next = "info"
	}
	appLog.SetLevel(logger.ParseLevel(next))
	return next
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp(eol string) {
	fmt.Printf("%s%s%s  Keyboard shortcuts:%s%s", eol, bold, green, reset, eol)
	fmt.Printf("    %ss%s      - Open the scoreboard in a browser%s", cyan, reset, eol)
	fmt.Printf("    %sh%s      - Toggle HTTP request logging%s", cyan, reset, eol)
	fmt.Printf("    %sl%s      - Cycle log level (debug → info → warn → error)%s", cyan, reset, eol)
	fmt.Printf("    %sq%s      - Quit server%s", cyan, reset, eol)
	fmt.Printf("    %s?%s      - Show this help%s%s", cyan, reset, eol, eol)
}

func main() {
	port := flag.Int("port", 0, "HTTP server port (default 8082)")
	dataDir := flag.String("data", "", `Directory holding the stored database (default "data")`)
	logLevel := flag.String("loglevel", "", "Log level (debug, info, warn, error)")
	baseURL := flag.String("baseurl", "", "URL the scoreboard is shared under (default: LAN address)")
	envFile := flag.String("env", "", "Environment file to load (default .env if present)")
	noAnimate := flag.Bool("noanimate", false, "Show logo only, skip animation")
	noKeyboard := flag.Bool("nokeyboard", false, "Disable keyboard shortcuts")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `HockeyScorer - Field Hockey Scorekeeper

Usage:
  hockeyscorer [options]

Options:
  -port int        HTTP server port (default 8082)
  -data string     Directory holding the stored database (default "data")
  -loglevel str    Log level: debug, info, warn, error (default "info")
  -baseurl str     URL the scoreboard is shared under (default: LAN address)
  -env string      Environment file to load (default .env if present)
  -noanimate       Show logo only, skip animation
  -nokeyboard      Disable keyboard shortcuts
  -version         Show version and exit
  -help            Show this help message

Every option can also be set in the environment as HOCKEYSCORER_<NAME>,
e.g. HOCKEYSCORER_PORT=9000 or HOCKEYSCORER_MAINTENANCE_INTERVAL=1h.
Flags win over the environment.

`)
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("hockeyscorer %s\n", version)
		os.Exit(0)
	}

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "data":
			cfg.DataDir = *dataDir
		case "loglevel":
			cfg.LogLevel = *logLevel
		case "baseurl":
			cfg.BaseURL = *baseURL
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	showStartupBanner(*noAnimate)

	appLog := logger.NewWithLevel(logger.ParseLevel(cfg.LogLevel))

	a, err := app.New(cfg, appLog)
	if err != nil {
		log.Fatal("Failed to initialize application: ", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scoreboardURL := a.BaseURL() + "/"
	appLog.Info("Scoreboard URL", "url", scoreboardURL)

	keyboardDone := make(chan struct{})
	if !*noKeyboard {
		printKeyboardHelp("\n")
		go func() {
			defer close(keyboardDone)
			listenForKeyboard(ctx, scoreboardURL, appLog, stop)
		}()
	} else {
		close(keyboardDone)
		fmt.Printf("\n%sKeyboard shortcuts disabled (use -nokeyboard=false to enable)%s\n\n", yellow, reset)
	}

	err = a.Run(ctx)
	stop()
	// Let the keyboard listener put the terminal back
	select {
	case <-keyboardDone:
	case <-time.After(time.Second):
	}
	if err != nil {
		appLog.Error("Server stopped", "error", err)
		a.Close()
		os.Exit(1)
	}
}
