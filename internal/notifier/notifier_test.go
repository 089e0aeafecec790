package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"PriceForecaster/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func sampleForecast() *model.Forecast {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	return &model.Forecast{
		RunID:        uuid.MustParse("6f1c2d3e-4a5b-4c6d-8e7f-8091a2b3c4d5"),
		Symbol:       "MSFT",
		Seed:         20,
		Horizon:      2,
		InitialPrice: 103,
		Params:       model.CalibratedParameters{Mu: 0.1234, Sigma: 0.25},
		Prices:       model.ForecastSeries{103, 110.5, 113.3},
		History: &model.HistoricalSeries{
			Symbol: "MSFT",
			Window: 3,
			Source: "mock",
			Points: []model.PricePoint{
				{Date: day.AddDate(0, 0, -2), Close: 100},
				{Date: day.AddDate(0, 0, -1), Close: 98},
				{Date: day, Close: 103},
			},
		},
		GeneratedAt: day,
	}
}

func TestFormatForecastReport(t *testing.T) {
	report := FormatForecastReport(sampleForecast())

	for _, want := range []string{
		"<b>MSFT GBM forecast</b> | 2024-03-04",
		"Last close: 103.00 (2024-03-04)",
		"History: 3 days, high 103.00 | low 98.00",
		"Range position: 100%",
		"Drift μ: +12.34%",
		"Volatility σ: +25.00%",
		"Next 2 trading days</b> (seed 20)",
		"Terminal price: 113.30 (+10.00%)",
		"Path high: 113.30 | low: 103.00",
		"6f1c2d3e-4a5b-4c6d-8e7f-8091a2b3c4d5",
	} {
		require.Contains(t, report, want)
	}
	require.NotContains(t, report, "undefined")
}

func TestFormatForecastReport_NaNForecast(t *testing.T) {
	f := sampleForecast()
	f.Params.Sigma = math.NaN()
	f.Prices = model.ForecastSeries{103, math.NaN(), math.NaN()}

	report := FormatForecastReport(f)
	require.Contains(t, report, "Volatility σ: n/a")
	require.Contains(t, report, "Terminal price: n/a (n/a)")
	require.Contains(t, report, "forecast is undefined")
}

func TestFormatFailure_EscapesHTML(t *testing.T) {
	msg := FormatFailure("<X>", errors.New("a < b"))
	require.Contains(t, msg, "&lt;X&gt;")
	require.Contains(t, msg, "a &lt; b")
}

// fakeTelegram answers the Bot API methods the notifier uses. updates are
// served by the first getUpdates call; later calls return none.
func fakeTelegram(t *testing.T, failFirst int32, updates ...map[string]any) (*httptest.Server, *int32) {
	t.Helper()
	var sends, polls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			result := []map[string]any{}
			if atomic.AddInt32(&polls, 1) == 1 {
				result = updates
			} else {
				time.Sleep(20 * time.Millisecond)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": result})
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			_ = json.NewEncoder(w).Encode(map[string]any{
				"ok":     true,
				"result": map[string]any{"id": 1, "is_bot": true, "first_name": "forecaster", "username": "forecaster_bot"},
			})
		case strings.HasSuffix(r.URL.Path, "/sendMessage"), strings.HasSuffix(r.URL.Path, "/sendPhoto"):
			n := atomic.AddInt32(&sends, 1)
			if n <= failFirst {
				_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error_code": 500, "description": "temporary failure"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"ok":     true,
				"result": map[string]any{"message_id": n, "date": 0, "chat": map[string]any{"id": 42, "type": "private"}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &sends
}

func TestTelegramNotifier_SendWithRetry(t *testing.T) {
	srv, sends := fakeTelegram(t, 2)
	tn, err := newTelegramNotifier("token", 42, srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)
	tn.Backoff = time.Millisecond

	require.NoError(t, tn.SendWithRetry(context.Background(), "hello", 3))
	require.Equal(t, int32(3), atomic.LoadInt32(sends))
}

func TestTelegramNotifier_RetriesExhausted(t *testing.T) {
	srv, sends := fakeTelegram(t, 100)
	tn, err := newTelegramNotifier("token", 42, srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)
	tn.Backoff = time.Millisecond

	err = tn.SendPhotoWithRetry(context.Background(), "chart.png", []byte("\x89PNG"), "caption", 1)
	require.ErrorContains(t, err, "all 2 retries exhausted")
	require.Equal(t, int32(2), atomic.LoadInt32(sends))
}

func textUpdate(id int, chatID int64, text string) map[string]any {
	return map[string]any{
		"update_id": id,
		"message": map[string]any{
			"message_id": id,
			"date":       0,
			"chat":       map[string]any{"id": chatID, "type": "private"},
			"text":       text,
		},
	}
}

func TestStartPolling_IgnoresOtherChats(t *testing.T) {
	srv, sends := fakeTelegram(t, 0,
		textUpdate(1, 99, "/forecast EVIL"),
		textUpdate(2, 42, "/help"),
	)
	tn, err := newTelegramNotifier("token", 42, srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan string, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		tn.StartPolling(ctx, func(_ context.Context, command string) Reply {
			received <- command
			return Reply{Text: "ok"}
		})
	}()

	select {
	case cmd := <-received:
		require.Equal(t, "/help", cmd)
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called for the configured chat")
	}
	cancel()
	<-done

	require.Empty(t, received)
	require.Equal(t, int32(1), atomic.LoadInt32(sends))
}
