package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gadaielektronik/pawndesk/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (optional, defaults to ~/.config/pawndesk/config.toml)")
	prefsPath := flag.String("prefs", "", "UI preferences path (optional)")
	apiURL := flag.String("api", "", "order service base URL (overrides config)")
	pollSeconds := flag.Int("poll", 0, "auto-refresh interval in seconds (optional, defaults to 30s)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		APIURL:     *apiURL,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollSeconds = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "pawndesk: %v\n", err)
		return 1
	}
	return 0
}
