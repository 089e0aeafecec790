package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"PriceForecaster/internal/collector"
	"PriceForecaster/internal/forecast"
	"PriceForecaster/internal/gbm"
	"PriceForecaster/internal/logger"
	"PriceForecaster/internal/model"
	"PriceForecaster/internal/render"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes forecast runs over HTTP.
type Server struct {
	Runner   *forecast.Runner
	Defaults forecast.Request // symbol is taken from the path
}

// Router builds the gin engine with all routes registered.
func (s Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(logRequestMiddleware)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/forecast/:symbol", s.forecast)
	router.GET("/forecast/:symbol/chart", s.chart)
	router.GET("/forecast/:symbol/csv", s.csv)
	return router
}

// Start serves on port until ctx is cancelled.
func (s Server) Start(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.FromContext(ctx).Infow("api listening", "port", port)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type forecastResponse struct {
	RunID         uuid.UUID  `json:"run_id"`
	Symbol        string     `json:"symbol"`
	Seed          int64      `json:"seed"`
	Horizon       int        `json:"horizon"`
	HistoryWindow int        `json:"history_window"`
	HistoryPoints int        `json:"history_points"`
	Source        string     `json:"source"`
	InitialPrice  float64    `json:"initial_price"`
	Mu            *float64   `json:"mu"`
	Sigma         *float64   `json:"sigma"`
	TimeAxis      []float64  `json:"time_axis"`
	XAxis         []float64  `json:"x_axis"`
	Prices        []*float64 `json:"prices"`
	Terminal      *float64   `json:"terminal_price"`
	GeneratedAt   time.Time  `json:"generated_at"`
}

// nullable maps NaN and infinities to JSON null.
func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func newForecastResponse(f *model.Forecast) forecastResponse {
	out := forecastResponse{
		RunID:        f.RunID,
		Symbol:       f.Symbol,
		Seed:         f.Seed,
		Horizon:      f.Horizon,
		InitialPrice: f.InitialPrice,
		Mu:           nullable(f.Params.Mu),
		Sigma:        nullable(f.Params.Sigma),
		TimeAxis:     f.TimeAxis,
		XAxis:        f.XAxis,
		Prices:       make([]*float64, len(f.Prices)),
		Terminal:     nullable(f.Terminal()),
		GeneratedAt:  f.GeneratedAt,
	}
	for i, p := range f.Prices {
		out.Prices[i] = nullable(p)
	}
	if f.History != nil {
		out.HistoryWindow = f.History.Window
		out.HistoryPoints = len(f.History.Points)
		out.Source = f.History.Source
	}
	return out
}

func (s Server) forecast(c *gin.Context) {
	f, ok := s.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newForecastResponse(f))
}

func (s Server) chart(c *gin.Context) {
	f, ok := s.run(c)
	if !ok {
		return
	}
	img, err := render.Chart(f)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, render.ErrNonFinite) {
			code = http.StatusUnprocessableEntity
		}
		returnErrorJsonCode(err, c, code)
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

func (s Server) csv(c *gin.Context) {
	f, ok := s.run(c)
	if !ok {
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_gbm.csv", strings.ToLower(f.Symbol)))
	c.Status(http.StatusOK)
	if err := render.WriteCSV(c.Writer, f); err != nil {
		_ = c.Error(err)
	}
}

// run parses the request and executes it, writing the error response itself
// when the run fails.
func (s Server) run(c *gin.Context) (*model.Forecast, bool) {
	req, err := s.parseRequest(c)
	if err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return nil, false
	}
	f, err := s.Runner.Run(c.Request.Context(), req)
	if err != nil {
		returnErrorJsonCode(err, c, statusFor(err))
		return nil, false
	}
	return f, true
}

func (s Server) parseRequest(c *gin.Context) (forecast.Request, error) {
	req := s.Defaults
	req.Symbol = strings.ToUpper(c.Param("symbol"))

	if v := c.Query("window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("window: %w", err)
		}
		req.HistoryWindow = n
	}
	if v := c.Query("horizon"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("horizon: %w", err)
		}
		req.Horizon = n
	}
	if v := c.Query("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return req, fmt.Errorf("seed: %w", err)
		}
		req.Seed = n
	}
	return req, nil
}

func statusFor(err error) int {
	var invalid *gbm.InvalidParameterError
	var insufficient *gbm.InsufficientDataError
	var stageErr *forecast.StageError
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &insufficient):
		return http.StatusUnprocessableEntity
	case errors.Is(err, collector.ErrNoData):
		return http.StatusNotFound
	case errors.As(err, &stageErr) && stageErr.Stage == forecast.StageFetching:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

func logRequestMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()

	log := logger.FromContext(c.Request.Context())
	fields := []interface{}{
		"method", c.Request.Method,
		"route", c.FullPath(),
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if c.Writer.Status() >= http.StatusInternalServerError {
		log.Errorw("request failed", append(fields, "errors", c.Errors.String())...)
		return
	}
	log.Infow("request", fields...)
}
