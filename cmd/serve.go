package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rubiojr/docsearch/pkg/api"
	"github.com/rubiojr/docsearch/pkg/core"
	"github.com/rubiojr/docsearch/pkg/index"
	"github.com/rubiojr/docsearch/pkg/scheduler"
	"github.com/rubiojr/docsearch/pkg/storage"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the search API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Address to listen on (overrides the config file)",
			},
			&cli.BoolFlag{
				Name:  "no-watch",
				Usage: "Do not reload a local index when it changes",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, c)
		},
	}
}

func serve(ctx context.Context, c *cli.Command) error {
	e, err := openEnv(ctx, c, true)
	if err != nil {
		return err
	}
	defer e.Close()

	addr := e.cfg.Listen
	if l := c.String("listen"); l != "" {
		addr = l
	}

	apiServer := api.NewServer(e.svc, e.hub, e.monitor, api.WithSuggestionLimit(e.cfg.Search.SuggestionLimit))
	mux := http.NewServeMux()
	apiServer.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              addr,
		Handler:           api.CorsMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Infof("serving %d documents on http://%s", e.svc.DocumentCount(), addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Infof("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), e.cfg.ShutdownTimeout.Duration)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	reload := func() {
		if err := e.svc.ReloadIndex(gctx); err != nil {
			logger.Warnf("keeping the previous index: %v", err)
		}
	}

	if e.cfg.WatchIndex && !c.Bool("no-watch") && index.IsLocal(e.cfg.IndexSource) {
		g.Go(func() error {
			if err := index.Watch(gctx, e.cfg.IndexSource, reload); err != nil {
				logger.Warnf("index reloads on change disabled: %v", err)
				e.monitor.Report(core.NewDiagnostic("serve", "watch index", err))
			}
			return nil
		})
	}

	tasks := scheduler.New()
	if !index.IsLocal(e.cfg.IndexSource) {
		if err := tasks.Add("index refresh", e.cfg.RefreshInterval.Duration, func(ctx context.Context) error {
			return e.svc.ReloadIndex(ctx)
		}); err != nil {
			return err
		}
	}
	if store, ok := e.store.(*storage.SQLiteStore); ok {
		if err := tasks.Add("optimize", e.cfg.OptimizeInterval.Duration, func(ctx context.Context) error {
			return store.Optimize()
		}); err != nil {
			return err
		}
	}
	if tasks.Len() > 0 {
		g.Go(func() error {
			return tasks.Run(gctx)
		})
	}

	g.Go(func() error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-hup:
				logger.Infof("received SIGHUP, reloading index")
				reload()
			}
		}
	})

	return g.Wait()
}
