package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"PriceForecaster/internal/api"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve forecasts over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			if os.Getenv("FORECASTER_ENV") != "dev" {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, cancel := a.signalContext()
			defer cancel()

			runner, _, closeCache, err := a.newRunner()
			if err != nil {
				return err
			}
			defer closeCache()

			srv := api.Server{Runner: runner, Defaults: a.cfg.Request()}
			if err := srv.Start(ctx, a.cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			a.log.Info("api stopped")
			return nil
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port")
	return cmd
}
