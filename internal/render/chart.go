package render

import (
	"errors"
	"fmt"
	"math"

	"PriceForecaster/internal/model"

	"github.com/vicanso/go-charts/v2"
)

// ErrNonFinite is returned when a forecast holds NaN or infinite prices and
// cannot be plotted.
var ErrNonFinite = errors.New("forecast has non-finite prices")

// Title is the chart heading for a forecast.
func Title(f *model.Forecast) string {
	return fmt.Sprintf("Geometric Brownian Motion of %s over next %d trading days", f.Symbol, f.Horizon)
}

// Chart renders the history and the forecast on one day-indexed axis as a PNG.
// The forecast line starts at the last historical close.
func Chart(f *model.Forecast) ([]byte, error) {
	if len(f.Prices) < 2 {
		return nil, errors.New("not enough forecast points")
	}
	for _, p := range f.Prices {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, ErrNonFinite
		}
	}

	labels, actual, predicted := chartSeries(f)
	yMin, yMax := valueBounds(actual, predicted)

	seriesList := charts.NewSeriesListDataFromValues([][]float64{actual, predicted}, charts.ChartTypeLine)
	names := []string{"Actual", "Forecast"}
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}

	split := 10
	if len(labels) < split {
		split = len(labels)
	}
	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(Title(f)),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag(), SplitNumber: split}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names, Left: charts.PositionRight}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(1000),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return painter.Bytes()
}

// chartSeries lays history and forecast out on a shared axis. Missing values
// are the chart library's null value so each line only covers its own span.
func chartSeries(f *model.Forecast) (labels []string, actual, predicted []float64) {
	var history []model.PricePoint
	if f.History != nil {
		history = f.History.Points
	}
	null := charts.GetNullValue()

	offset := 0
	if len(history) > 0 {
		offset = len(history) - 1
	}
	n := offset + len(f.Prices)
	labels = make([]string, n)
	actual = make([]float64, n)
	predicted = make([]float64, n)

	for i := range labels {
		actual[i] = null
		predicted[i] = null
	}
	for i, p := range history {
		labels[i] = p.Date.Format("2006-01-02")
		actual[i] = p.Close
	}
	for i, p := range f.Prices {
		predicted[offset+i] = p
		if i > 0 || len(history) == 0 {
			labels[offset+i] = fmt.Sprintf("T+%d", i)
		}
	}
	return labels, actual, predicted
}

func valueBounds(series ...[]float64) (yMin, yMax float64) {
	null := charts.GetNullValue()
	first := true
	for _, values := range series {
		for _, v := range values {
			if v == null {
				continue
			}
			if first {
				yMin, yMax = v, v
				first = false
				continue
			}
			yMin = math.Min(yMin, v)
			yMax = math.Max(yMax, v)
		}
	}
	pad := (yMax - yMin) * 0.05
	if pad < yMax*0.002 {
		pad = yMax * 0.002
	}
	yMin -= pad
	if yMin < 0 {
		yMin = 0
	}
	return yMin, yMax + pad
}
