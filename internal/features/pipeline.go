// Package features turns a raw daily price series into the supervised table
// the training engine consumes, and into single rows for inference.
package features

import (
	"math"

	"StockCast/internal/domain/errs"
	"StockCast/internal/domain/models"
)

const (
	shortWindow = 7
	longWindow  = 21
)

// MinSeriesLen is the shortest series that yields at least one supervised row:
// the long rolling window plus the shifted next-day target.
const MinSeriesLen = longWindow + 1

// BuildTrainingTable derives the feature matrix and next-day close targets
// from a price series. Rows without a full rolling window or a defined target
// are dropped. Series shorter than MinSeriesLen produce no rows and fail.
func BuildTrainingTable(series models.PriceSeries) (models.TrainingTable, error) {
	rows := engineer(series)

	table := models.TrainingTable{}
	// the last engineered row has no next-day close, so it never trains
	for i := longWindow - 1; i < len(rows)-1; i++ {
		table.Rows = append(table.Rows, rows[i])
		table.Targets = append(table.Targets, series[i+1].Close)
	}

	if table.Len() == 0 {
		return models.TrainingTable{}, errs.Newf(errs.KindDataInsufficient,
			"not enough price history: got %d rows, need at least %d", len(series), MinSeriesLen)
	}
	return table, nil
}

// LatestFeatureRow derives the feature row for the most recent observation.
// Inference has no target, so the final row is kept rather than dropped.
func LatestFeatureRow(series models.PriceSeries) (models.FeatureRow, error) {
	rows := engineer(series)
	if len(rows) < longWindow {
		return models.FeatureRow{}, errs.Newf(errs.KindDataInsufficient,
			"not enough price history for inference: got %d rows, need at least %d", len(series), longWindow)
	}
	return rows[len(rows)-1], nil
}

// engineer computes per-row features over the whole series. Rows before a
// full long window carry zeroed rolling stats and are filtered by callers.
func engineer(series models.PriceSeries) []models.FeatureRow {
	series.SortByDate()
	closes := series.Closes()

	rows := make([]models.FeatureRow, len(series))
	for i, rec := range series {
		row := models.FeatureRow{
			Open:   rec.Open,
			High:   rec.High,
			Low:    rec.Low,
			Close:  rec.Close,
			Volume: rec.Volume,
		}
		if i > 0 && closes[i-1] != 0 {
			row.Return = (closes[i]-closes[i-1])/closes[i-1]
		}
		if i >= shortWindow-1 {
			row.MA7 = rollingMean(closes, i, shortWindow)
			row.STD7 = rollingStd(closes, i, shortWindow)
		}
		if i >= longWindow-1 {
			row.MA21 = rollingMean(closes, i, longWindow)
			row.STD21 = rollingStd(closes, i, longWindow)
		}
		rows[i] = row
	}
	return rows
}

// rollingMean averages the window ending at index i inclusive.
func rollingMean(xs []float64, i, window int) float64 {
	sum := 0.0
	for j := i - window + 1; j <= i; j++ {
		sum += xs[j]
	}
	return sum / float64(window)
}

// rollingStd computes the sample standard deviation of the window ending at
// index i inclusive.
func rollingStd(xs []float64, i, window int) float64 {
	mean := rollingMean(xs, i, window)
	sum2 := 0.0
	for j := i - window + 1; j <= i; j++ {
		d := xs[j] - mean
		sum2 += d * d
	}
	variance := sum2 / float64(window-1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}
