package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gadaielektronik/pawndesk/internal/config"
	"github.com/gadaielektronik/pawndesk/internal/logging"
	"github.com/gadaielektronik/pawndesk/internal/metrics"
	"github.com/gadaielektronik/pawndesk/internal/orders"
	"github.com/gadaielektronik/pawndesk/internal/prefs"
	"github.com/gadaielektronik/pawndesk/internal/state"
	"github.com/gadaielektronik/pawndesk/internal/ui"
)

// Options configure the pawndesk application. Flag values override the
// config file and environment when set.
type Options struct {
	ConfigPath  string
	PrefsPath   string // empty uses default ~/.config/pawndesk/prefs.toml
	APIURL      string
	PollSeconds int
}

// components is everything Run wires together, built without touching the
// terminal so it can be tested.
type components struct {
	cfg       config.Config
	prefs     prefs.Prefs
	prefsPath string
	log       *zap.Logger
	rec       *metrics.Recorder
	client    *orders.Client
	store     *state.Store
}

// Run boots the console until the operator quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	c, err := build(opts)
	if err != nil {
		return err
	}
	defer c.close()

	if c.cfg.MetricsAddr != "" {
		addr, errc, err := c.rec.Serve(ctx, c.cfg.MetricsAddr)
		if err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
		c.log.Info("metrics listening", zap.String("addr", addr.String()))
		go func() {
			if err := <-errc; err != nil {
				c.log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	auto := c.store.StartAutoRefresh(ctx, c.cfg.PollInterval())
	defer auto.Stop()

	c.log.Info("console started",
		zap.String("api_url", c.client.BaseURL()),
		zap.Duration("poll_interval", auto.Interval()))

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     c.store,
		Logger:    c.log,
		Prefs:     c.prefs,
		PrefsPath: c.prefsPath,
		APIURL:    c.client.BaseURL(),
		PollEvery: auto.Interval(),
	})
}

func build(opts Options) (*components, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	if opts.PollSeconds > 0 {
		cfg.PollSeconds = opts.PollSeconds
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		return nil, fmt.Errorf("load prefs: %w", err)
	}

	logger, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	var clientOpts []orders.Option
	if t := cfg.Timeout(); t > 0 {
		clientOpts = append(clientOpts, orders.WithTimeout(t))
	}
	client, err := orders.NewClient(cfg.APIURL, clientOpts...)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("init order client: %w", err)
	}

	rec := metrics.New()
	store := state.NewStore(client,
		state.WithLogger(logger),
		state.WithRecorder(rec),
	)

	return &components{
		cfg:       cfg,
		prefs:     userPrefs,
		prefsPath: prefsPath,
		log:       logger,
		rec:       rec,
		client:    client,
		store:     store,
	}, nil
}

func (c *components) close() {
	c.store.Close()
	c.log.Info("console stopped")
	_ = c.log.Sync()
}
