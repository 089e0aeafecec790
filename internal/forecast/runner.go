package forecast

import (
	"context"
	"time"

	"PriceForecaster/internal/collector"
	"PriceForecaster/internal/gbm"
	"PriceForecaster/internal/logger"
	"PriceForecaster/internal/model"

	"github.com/google/uuid"
)

// Runner executes fetch, calibrate, path generation and simulation in order.
// It holds no per-run state and is safe for concurrent use.
type Runner struct {
	Collector *collector.Collector
	Now       func() time.Time
}

// NewRunner creates a Runner backed by the given collector.
func NewRunner(col *collector.Collector) *Runner {
	return &Runner{Collector: col, Now: time.Now}
}

// Run fetches history for req and simulates a forecast from it.
func (r *Runner) Run(ctx context.Context, req Request) (*model.Forecast, error) {
	start := r.Now()
	if err := req.Validate(); err != nil {
		runsTotal.WithLabelValues(StageIdle.String()).Inc()
		return nil, &StageError{Stage: StageIdle, Err: err}
	}

	series, err := r.Collector.Collect(ctx, req.Symbol, req.HistoryWindow)
	if err != nil {
		runsTotal.WithLabelValues(StageFetching.String()).Inc()
		logger.FromContext(ctx).Errorw("forecast run failed", "symbol", req.Symbol, "stage", StageFetching.String(), "error", err)
		return nil, &StageError{Stage: StageFetching, Err: err}
	}

	f, err := r.RunSeries(ctx, req, series)
	if err != nil {
		return nil, err
	}
	runDuration.Observe(r.Now().Sub(start).Seconds())
	return f, nil
}

// RunSeries simulates a forecast from an already collected series. The last
// close is the initial price.
func (r *Runner) RunSeries(ctx context.Context, req Request, series *model.HistoricalSeries) (*model.Forecast, error) {
	runID := uuid.New()
	log := logger.FromContext(ctx).With("run_id", runID.String(), "symbol", req.Symbol)

	stage := StageIdle
	fail := func(err error) (*model.Forecast, error) {
		runsTotal.WithLabelValues(stage.String()).Inc()
		log.Errorw("forecast run failed", "stage", stage.String(), "error", err)
		return nil, &StageError{Stage: stage, Err: err}
	}

	if err := req.Validate(); err != nil {
		return fail(err)
	}

	stage = StageCalibrating
	closes := series.Closes()
	params, err := gbm.Calibrate(closes)
	if err != nil {
		return fail(err)
	}
	log.Debugw("calibrated", "mu", params.Mu, "sigma", params.Sigma, "points", len(closes))

	stage = StagePathGenerating
	path, err := gbm.GeneratePath(gbm.NewSource(req.Seed), req.Horizon)
	if err != nil {
		return fail(err)
	}

	stage = StageSimulating
	initial := closes[len(closes)-1]
	prices, err := gbm.Simulate(initial, params, path, req.Horizon)
	if err != nil {
		return fail(err)
	}

	stage = StageDone
	runsTotal.WithLabelValues(stage.String()).Inc()

	f := &model.Forecast{
		RunID:        runID,
		Symbol:       req.Symbol,
		Seed:         req.Seed,
		Horizon:      req.Horizon,
		InitialPrice: initial,
		Params:       params,
		Path:         path,
		TimeAxis:     gbm.TimeAxisFor(req.Horizon),
		XAxis:        xAxis(series.Window, req.Horizon),
		Prices:       prices,
		History:      series,
		GeneratedAt:  r.Now(),
	}
	log.Infow("forecast run done",
		"mu", params.Mu, "sigma", params.Sigma, "initial_price", initial,
		"terminal_price", f.Terminal(), "horizon", req.Horizon, "seed", req.Seed)
	return f, nil
}

// xAxis continues the history day index: window, window+1, ..., window+steps.
func xAxis(window, steps int) []float64 {
	axis := make([]float64, steps+1)
	for i := range axis {
		axis[i] = float64(window + i)
	}
	return axis
}
