package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"PriceForecaster/internal/collector"
	"PriceForecaster/internal/config"
	"PriceForecaster/internal/forecast"
	"PriceForecaster/internal/logger"
	"PriceForecaster/internal/pricecache"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	cfgPath string
	cfg     *config.Config
	log     *zap.SugaredLogger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "forecaster",
		Short:        "Forecast a stock price with geometric Brownian motion",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.log = logger.New()
			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", cfgPath, "path to the YAML config file")

	root.AddCommand(newRunCmd(a), newBotCmd(a), newServeCmd(a))
	return root
}

// signalContext is cancelled on SIGINT or SIGTERM and carries the app logger.
func (a *app) signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return logger.NewContext(ctx, a.log), cancel
}

// newRunner wires fetcher, cache and collector from the config. The returned
// close func releases the cache.
func (a *app) newRunner() (*forecast.Runner, *pricecache.SQLiteCache, func(), error) {
	fetcher, err := a.newFetcher()
	if err != nil {
		return nil, nil, nil, err
	}
	a.log.Infow("data source selected", "provider", fetcher.Name())

	var (
		cache  pricecache.Cache = pricecache.NewNoopCache()
		sqlite *pricecache.SQLiteCache
	)
	if a.cfg.Cache.SQLitePath != "" {
		sc, err := pricecache.NewSQLiteCache(a.cfg.Cache.SQLitePath)
		if err != nil {
			a.log.Warnw("init sqlite cache failed, using noop", "path", a.cfg.Cache.SQLitePath, "error", err)
		} else {
			cache, sqlite = sc, sc
		}
	}
	closeFn := func() {
		if err := cache.Close(); err != nil {
			a.log.Warnw("close price cache", "error", err)
		}
	}
	return forecast.NewRunner(collector.NewCollector(fetcher, cache)), sqlite, closeFn, nil
}

func (a *app) newFetcher() (collector.Fetcher, error) {
	switch a.cfg.DataSource.Provider {
	case "yahoo":
		return collector.NewYahooFetcher(a.cfg.Proxy), nil
	case "finance":
		return collector.NewFinanceFetcher(), nil
	case "csv":
		return collector.NewCSVFetcher(a.cfg.DataSource.CSVPath), nil
	case "mock":
		return &collector.MockFetcher{Price: 100}, nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", a.cfg.DataSource.Provider)
	}
}
