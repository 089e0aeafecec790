package main

import (
	"fmt"
	"io"
	"os"

	"PriceForecaster/internal/calculator"
	"PriceForecaster/internal/model"
	"PriceForecaster/internal/render"

	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		ticker    string
		history   int
		horizon   int
		seed      int64
		chartPath string
		csvPath   string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one forecast and print a summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("ticker") {
				a.cfg.Forecast.Symbol = ticker
			}
			if flags.Changed("history") {
				a.cfg.Forecast.HistoryWindow = history
			}
			if flags.Changed("horizon") {
				a.cfg.Forecast.ForecastHorizon = horizon
			}
			if flags.Changed("seed") {
				a.cfg.Forecast.Seed = seed
			}
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}

			ctx, cancel := a.signalContext()
			defer cancel()

			runner, _, closeCache, err := a.newRunner()
			if err != nil {
				return err
			}
			defer closeCache()

			f, err := runner.Run(ctx, a.cfg.Request())
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), f)

			if chartPath != "" {
				img, err := render.Chart(f)
				if err != nil {
					return err
				}
				if err := os.WriteFile(chartPath, img, 0o644); err != nil {
					return fmt.Errorf("write chart: %w", err)
				}
				a.log.Infow("chart written", "path", chartPath)
			}
			if csvPath != "" {
				return writeCSV(cmd.OutOrStdout(), csvPath, f)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&ticker, "ticker", "t", "", "symbol to forecast")
	cmd.Flags().IntVar(&history, "history", 0, "trailing trading days used for calibration")
	cmd.Flags().IntVar(&horizon, "horizon", 0, "trading days to forecast")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().StringVar(&chartPath, "chart", "", "write a PNG chart to this path")
	cmd.Flags().StringVar(&csvPath, "csv", "", `write forecast rows to this path ("-" for stdout)`)
	return cmd
}

func writeCSV(stdout io.Writer, path string, f *model.Forecast) error {
	if path == "-" {
		return render.WriteCSV(stdout, f)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer file.Close()
	return render.WriteCSV(file, f)
}

func printSummary(w io.Writer, f *model.Forecast) {
	fmt.Fprintln(w, render.Title(f))
	if f.History != nil {
		fmt.Fprintf(w, "  history:   %d closes from %s\n", len(f.History.Points), f.History.Source)
	}
	fmt.Fprintf(w, "  mu:        %.6f\n", f.Params.Mu)
	fmt.Fprintf(w, "  sigma:     %.6f\n", f.Params.Sigma)
	fmt.Fprintf(w, "  seed:      %d\n", f.Seed)
	fmt.Fprintf(w, "  start:     %.2f\n", f.InitialPrice)
	fmt.Fprintf(w, "  terminal:  %.2f (%+.2f%%)\n", f.Terminal(), calculator.PercentChange(f.InitialPrice, f.Terminal()))
	fmt.Fprintf(w, "  run id:    %s\n", f.RunID)
}
