package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rubiojr/docsearch/pkg/config"
	"github.com/rubiojr/docsearch/pkg/health"
	"github.com/rubiojr/docsearch/pkg/index"
	"github.com/rubiojr/docsearch/pkg/log"
	"github.com/rubiojr/docsearch/pkg/realtime"
	"github.com/rubiojr/docsearch/pkg/session"
	"github.com/rubiojr/docsearch/pkg/storage"
	"github.com/urfave/cli/v3"
)

var (
	logger = log.ForService("cmd")

	errNoIndex = errors.New("no index source configured: set index_source in the config file or pass --index")
)

// env bundles what a command needs to talk to a search session.
type env struct {
	cfg     *config.Config
	store   storage.Store
	hub     *realtime.Hub
	monitor *health.Monitor
	svc     *session.Service
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if source := c.String("index"); source != "" {
		cfg.IndexSource = source
	}
	if user := c.String("user"); user != "" {
		cfg.User = user
	}
	return cfg, nil
}

// openEnv builds a session for the configured user. When withIndex is
// set the index is loaded too; a failed load leaves the index empty and is
// only logged, matching the session's degraded mode.
func openEnv(ctx context.Context, c *cli.Command, withIndex bool) (*env, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	if withIndex && cfg.IndexSource == "" {
		return nil, errNoIndex
	}

	var store storage.Store
	if c.Bool("ephemeral") {
		store = storage.NewMemoryStore()
	} else {
		store, err = storage.OpenDir(cfg.StorageDir)
		if err != nil {
			return nil, fmt.Errorf("opening storage: %w", err)
		}
	}

	hub := realtime.NewHub(0)
	monitor := health.NewMonitor(hub)
	svc := session.New(session.Config{
		Store:     store,
		Loader:    index.NewLoader(),
		User:      cfg.User,
		Reporter:  monitor,
		Publisher: hub,
		Keywords:  cfg.Search.Keywords,
		Defaults:  cfg.DefaultFilters(),
	})

	rt := &env{cfg: cfg, store: store, hub: hub, monitor: monitor, svc: svc}
	if withIndex {
		if err := svc.LoadIndex(ctx, cfg.IndexSource); err != nil {
			logger.Warnf("continuing with an empty index: %v", err)
		}
	}
	return rt, nil
}

func (rt *env) Close() {
	if err := rt.store.Close(); err != nil {
		logger.Warnf("failed to close storage: %v", err)
	}
}

// output returns the writer commands print to.
func output(c *cli.Command) io.Writer {
	return c.Root().Writer
}
