package render

import (
	"fmt"
	"io"

	"PriceForecaster/internal/model"

	"github.com/gocarina/gocsv"
)

// ForecastRow is one step of a forecast in CSV form.
type ForecastRow struct {
	Step  int     `csv:"step"`
	X     float64 `csv:"x"`
	T     float64 `csv:"t"`
	Price float64 `csv:"price"`
}

// Rows flattens a forecast into one row per step, step 0 being the initial price.
func Rows(f *model.Forecast) []*ForecastRow {
	rows := make([]*ForecastRow, len(f.Prices))
	for i, p := range f.Prices {
		row := &ForecastRow{Step: i, Price: p}
		if i < len(f.XAxis) {
			row.X = f.XAxis[i]
		}
		if i < len(f.TimeAxis) {
			row.T = f.TimeAxis[i]
		}
		rows[i] = row
	}
	return rows
}

// WriteCSV writes the forecast rows with a header line.
func WriteCSV(w io.Writer, f *model.Forecast) error {
	rows := Rows(f)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write forecast csv: %w", err)
	}
	return nil
}
