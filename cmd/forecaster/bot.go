package main

import (
	"fmt"
	"os"

	"PriceForecaster/internal/notifier"
	"PriceForecaster/internal/scheduler"

	"github.com/spf13/cobra"
)

func newBotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Send scheduled forecasts to Telegram and answer commands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			if err := a.cfg.ValidateTelegram(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			log := a.log

			ctx, cancel := a.signalContext()
			defer cancel()

			runner, cache, closeCache, err := a.newRunner()
			if err != nil {
				return err
			}
			defer closeCache()

			tn, err := notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy)
			if err != nil {
				return err
			}

			sched := scheduler.NewScheduler(ctx, runner, tn, a.cfg.Request())
			if cache != nil {
				sched.Cache = cache
			}
			if err := sched.RegisterAll(a.cfg.Schedule.ForecastCron); err != nil {
				return fmt.Errorf("register cron tasks: %w", err)
			}
			sched.Start()
			defer sched.Stop()

			go tn.StartPolling(ctx, sched.HandleCommand)
			log.Info("telegram polling started")

			if os.Getenv("RUN_ON_START") == "true" {
				log.Info("RUN_ON_START enabled, executing forecast task now")
				go sched.RunForecastNow()
			}

			log.Infow("forecaster bot is running", "symbol", a.cfg.Forecast.Symbol, "cron", a.cfg.Schedule.ForecastCron)
			<-ctx.Done()
			log.Info("shutdown signal received, stopping")
			return nil
		},
	}
}
