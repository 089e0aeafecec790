package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"

	"PriceForecaster/internal/calculator"
	"PriceForecaster/internal/model"

	"github.com/shopspring/decimal"
)

// FormatForecastReport formats a forecast run into a Telegram message.
func FormatForecastReport(f *model.Forecast) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📈 <b>%s GBM forecast</b> | %s\n\n", html.EscapeString(f.Symbol), f.GeneratedAt.Format("2006-01-02")))

	// History
	if f.History != nil {
		closes := f.History.Closes()
		if last, ok := f.History.Last(); ok {
			b.WriteString(fmt.Sprintf("Last close: %s (%s)\n", money(last.Close), last.Date.Format("2006-01-02")))
		}
		if high, low, err := calculator.SeriesRange(closes); err == nil {
			b.WriteString(fmt.Sprintf("History: %d days, high %s | low %s\n", len(closes), money(high), money(low)))
			if pos, err := calculator.RangePosition(f.InitialPrice, high, low); err == nil {
				b.WriteString(fmt.Sprintf("Range position: %.0f%%\n", pos*100))
			}
		}
		if f.History.Source != "" {
			b.WriteString(fmt.Sprintf("Source: %s\n", html.EscapeString(f.History.Source)))
		}
	}
	b.WriteString("\n")

	// Calibration
	b.WriteString("🧮 <b>Calibration:</b>\n")
	b.WriteString(fmt.Sprintf("  Drift μ: %s\n", percent(f.Params.Mu*100)))
	b.WriteString(fmt.Sprintf("  Volatility σ: %s\n\n", percent(f.Params.Sigma*100)))

	// Outlook
	terminal := f.Terminal()
	b.WriteString(fmt.Sprintf("🔮 <b>Next %d trading days</b> (seed %d):\n", f.Horizon, f.Seed))
	b.WriteString(fmt.Sprintf("  Terminal price: %s (%s)\n", money(terminal), percent(calculator.PercentChange(f.InitialPrice, terminal))))
	if high, low, err := calculator.SeriesRange(f.Prices); err == nil {
		b.WriteString(fmt.Sprintf("  Path high: %s | low: %s\n", money(high), money(low)))
	}

	if !finite(terminal) {
		b.WriteString("\n⚠️ Not enough history to estimate volatility, the forecast is undefined.\n")
	}
	b.WriteString(fmt.Sprintf("\n<code>%s</code>", f.RunID))
	return b.String()
}

// FormatFailure formats a failed forecast run.
func FormatFailure(symbol string, err error) string {
	return fmt.Sprintf("❌ <b>%s forecast failed</b>\n\n%s", html.EscapeString(symbol), html.EscapeString(err.Error()))
}

// FormatHelp lists the supported commands.
func FormatHelp() string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	b.WriteString("• /forecast  (configured symbol)\n")
	b.WriteString("• /forecast SYMBOL  (another symbol)\n")
	b.WriteString("• /forecast SYMBOL SEED  (fixed seed)\n")
	b.WriteString("• /help")
	return b.String()
}

func money(v float64) string {
	if !finite(v) {
		return "n/a"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

func percent(v float64) string {
	if !finite(v) {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", v)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
