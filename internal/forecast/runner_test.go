package forecast

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"PriceForecaster/internal/collector"
	mock_collector "PriceForecaster/internal/collector/mocks"
	"PriceForecaster/internal/gbm"
	"PriceForecaster/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func bars(closes ...float64) []model.DailyBar {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make([]model.DailyBar, len(closes))
	for i, c := range closes {
		out[i] = model.DailyBar{Time: start.AddDate(0, 0, i), Close: c}
	}
	return out
}

func newTestRunner(t *testing.T, closes ...float64) *Runner {
	ctrl := gomock.NewController(t)
	fetcher := mock_collector.NewMockFetcher(ctrl)
	fetcher.EXPECT().Name().Return("stub").AnyTimes()
	fetcher.EXPECT().
		FetchDailyBars(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(bars(closes...), nil).
		AnyTimes()
	return NewRunner(collector.NewCollector(fetcher, nil))
}

func TestRun_EndToEndScenario(t *testing.T) {
	r := newTestRunner(t, 100, 101, 99, 102, 103)
	req := Request{Symbol: "TEST", HistoryWindow: 5, Horizon: 3, Seed: 42}

	f, err := r.Run(context.Background(), req)
	require.NoError(t, err)

	wantParams, err := gbm.Calibrate([]float64{100, 101, 99, 102, 103})
	require.NoError(t, err)
	require.Equal(t, wantParams, f.Params)

	require.Len(t, f.Path, 3)
	require.Len(t, f.Prices, 4)
	require.Equal(t, 103.0, f.Prices[0])
	require.Equal(t, 103.0, f.InitialPrice)
	require.Equal(t, model.TimeAxis{0, 1.0 / 3, 2.0 / 3, 1}, f.TimeAxis)
	require.Equal(t, []float64{5, 6, 7, 8}, f.XAxis)
	require.Equal(t, f.Prices[3], f.Terminal())

	again, err := r.Run(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "", cmp.Diff(f.Prices, again.Prices))
	require.NotEqual(t, f.RunID, again.RunID)
}

func TestRun_ConcurrentRunsDoNotInterfere(t *testing.T) {
	r := newTestRunner(t, 100, 101, 99, 102, 103, 104, 102)
	ctx := context.Background()

	want := map[int64]model.ForecastSeries{}
	for _, seed := range []int64{1, 2, 3} {
		f, err := r.Run(ctx, Request{Symbol: "X", HistoryWindow: 7, Horizon: 50, Seed: seed})
		require.NoError(t, err)
		want[seed] = f.Prices
	}

	var wg sync.WaitGroup
	errs := make(chan error, 30)
	for i := 0; i < 30; i++ {
		seed := int64(i%3 + 1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, err := r.Run(ctx, Request{Symbol: "X", HistoryWindow: 7, Horizon: 50, Seed: seed})
			if err != nil {
				errs <- err
				return
			}
			if d := cmp.Diff(want[seed], f.Prices); d != "" {
				errs <- errors.New(d)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestRun_InvalidRequest(t *testing.T) {
	r := newTestRunner(t, 1, 2, 3)
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{"empty symbol", Request{HistoryWindow: 3, Horizon: 3}, "symbol"},
		{"zero window", Request{Symbol: "X", Horizon: 3}, "historyWindow"},
		{"negative horizon", Request{Symbol: "X", HistoryWindow: 3, Horizon: -1}, "forecastHorizon"},
		{"window above max", Request{Symbol: "X", HistoryWindow: MaxHistoryWindow + 1, Horizon: 3}, "historyWindow"},
		{"horizon above max", Request{Symbol: "X", HistoryWindow: 3, Horizon: MaxHorizon + 1}, "forecastHorizon"},
		{"horizon max int", Request{Symbol: "X", HistoryWindow: 30, Horizon: math.MaxInt}, "forecastHorizon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Run(context.Background(), tt.req)
			var stageErr *StageError
			require.True(t, errors.As(err, &stageErr))
			require.Equal(t, StageIdle, stageErr.Stage)

			var invalid *gbm.InvalidParameterError
			require.True(t, errors.As(err, &invalid))
			require.Equal(t, tt.want, invalid.Name)
		})
	}
}

func TestRun_InsufficientHistoryFailsInCalibration(t *testing.T) {
	r := newTestRunner(t, 100)
	f, err := r.Run(context.Background(), Request{Symbol: "X", HistoryWindow: 1, Horizon: 3, Seed: 1})
	require.Nil(t, f)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	require.Equal(t, StageCalibrating, stageErr.Stage)

	var insufficient *gbm.InsufficientDataError
	require.True(t, errors.As(err, &insufficient))
}

func TestRun_TwoPointsGivesNaNForecast(t *testing.T) {
	r := newTestRunner(t, 100, 101)
	f, err := r.Run(context.Background(), Request{Symbol: "X", HistoryWindow: 2, Horizon: 4, Seed: 1})
	require.NoError(t, err)
	require.Equal(t, 101.0, f.Prices[0])
	for i := 1; i < len(f.Prices); i++ {
		require.NotEqual(t, f.Prices[i], f.Prices[i], "index %d should be NaN", i)
	}
}

func TestRun_FetchFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock_collector.NewMockFetcher(ctrl)
	fetcher.EXPECT().Name().Return("stub").AnyTimes()
	fetcher.EXPECT().FetchDailyBars(gomock.Any(), "X", 10).Return(nil, collector.ErrNoData)

	_, err := NewRunner(collector.NewCollector(fetcher, nil)).
		Run(context.Background(), Request{Symbol: "X", HistoryWindow: 10, Horizon: 5})

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	require.Equal(t, StageFetching, stageErr.Stage)
	require.True(t, errors.Is(err, collector.ErrNoData))
}

func TestStage_String(t *testing.T) {
	require.Equal(t, "path_generating", StagePathGenerating.String())
	require.Equal(t, "stage(42)", Stage(42).String())
}
