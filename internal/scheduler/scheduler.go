package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"PriceForecaster/internal/forecast"
	"PriceForecaster/internal/logger"
	"PriceForecaster/internal/model"
	"PriceForecaster/internal/notifier"
	"PriceForecaster/internal/render"

	"github.com/robfig/cron/v3"
)

// Notifier delivers reports to the configured chat.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
	SendPhotoWithRetry(ctx context.Context, name string, png []byte, caption string, maxRetries int) error
}

// Pruner drops cached price series older than a cutoff.
type Pruner interface {
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// CacheRetention is how long cached price series are kept.
const CacheRetention = 7 * 24 * time.Hour

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   *forecast.Runner
	Notifier Notifier
	Cache    Pruner // optional
	Request  forecast.Request
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler running req on every tick.
func NewScheduler(ctx context.Context, runner *forecast.Runner, n Notifier, req forecast.Request) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   runner,
		Notifier: n,
		Request:  req,
		Ctx:      ctx,
	}
}

// RegisterAll registers the forecast task and, with a cache, the nightly prune.
func (s *Scheduler) RegisterAll(forecastCron string) error {
	if _, err := s.Cron.AddFunc(forecastCron, s.forecastTask); err != nil {
		return fmt.Errorf("register forecast task: %w", err)
	}
	if s.Cache != nil {
		if _, err := s.Cron.AddFunc("0 0 3 * * *", s.pruneTask); err != nil {
			return fmt.Errorf("register cache prune: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logger.FromContext(s.Ctx).Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	logger.FromContext(s.Ctx).Info("scheduler stopped")
}

// RunForecastNow executes the forecast task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunForecastNow() {
	s.forecastTask()
}

func (s *Scheduler) forecastTask() {
	log := logger.FromContext(s.Ctx)
	log.Infow("running forecast task", "symbol", s.Request.Symbol)

	f, err := s.Runner.Run(s.Ctx, s.Request)
	if err != nil {
		s.trySend(notifier.FormatFailure(s.Request.Symbol, err))
		return
	}
	s.trySend(notifier.FormatForecastReport(f))

	img, err := render.Chart(f)
	if err != nil {
		log.Warnw("forecast chart skipped", "symbol", f.Symbol, "error", err)
		return
	}
	if err := s.Notifier.SendPhotoWithRetry(s.Ctx, chartName(f), img, render.Title(f), 3); err != nil {
		log.Errorw("send forecast chart", "error", err)
	}
}

func (s *Scheduler) pruneTask() {
	log := logger.FromContext(s.Ctx)
	n, err := s.Cache.Prune(s.Ctx, time.Now().Add(-CacheRetention))
	if err != nil {
		log.Errorw("prune price cache", "error", err)
		return
	}
	log.Infow("price cache pruned", "rows", n)
}

// HandleCommand processes a user command and returns a reply.
//
//	/forecast [SYMBOL] [SEED]
//	/help
func (s *Scheduler) HandleCommand(ctx context.Context, command string) notifier.Reply {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.Reply{Text: notifier.FormatHelp()}
	}
	// Group chats address commands as /forecast@botname.
	name, _, _ := strings.Cut(fields[0], "@")

	switch name {
	case "/forecast":
		req, err := s.parseForecastArgs(fields[1:])
		if err != nil {
			return notifier.Reply{Text: notifier.FormatFailure(s.Request.Symbol, err)}
		}
		f, err := s.Runner.Run(ctx, req)
		if err != nil {
			return notifier.Reply{Text: notifier.FormatFailure(req.Symbol, err)}
		}
		reply := notifier.Reply{Text: notifier.FormatForecastReport(f)}
		if img, err := render.Chart(f); err == nil {
			reply.Photo = img
			reply.PhotoName = chartName(f)
		} else {
			logger.FromContext(ctx).Warnw("forecast chart skipped", "symbol", f.Symbol, "error", err)
		}
		return reply
	default:
		return notifier.Reply{Text: notifier.FormatHelp()}
	}
}

func (s *Scheduler) parseForecastArgs(args []string) (forecast.Request, error) {
	req := s.Request
	if len(args) > 0 {
		req.Symbol = strings.ToUpper(args[0])
	}
	if len(args) > 1 {
		seed, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return req, fmt.Errorf("seed %q is not an integer", args[1])
		}
		req.Seed = seed
	}
	return req, nil
}

func chartName(f *model.Forecast) string {
	return fmt.Sprintf("%s_gbm_%d.png", strings.ToLower(f.Symbol), f.Horizon)
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		logger.FromContext(s.Ctx).Errorw("send notification", "error", err)
	}
}
