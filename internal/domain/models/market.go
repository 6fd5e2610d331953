package models

import (
	"sort"
	"time"
)

// PriceRecord is one trading day's OHLCV observation.
type PriceRecord struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is an ordered sequence of daily observations, ascending by date.
type PriceSeries []PriceRecord

// SortByDate sorts the series ascending by date in place. Inputs are usually
// already sorted; this keeps the pipeline deterministic either way.
func (s PriceSeries) SortByDate() {
	sort.Slice(s, func(i, j int) bool { return s[i].Date.Before(s[j].Date) })
}

// Closes returns the close column.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, r := range s {
		out[i] = r.Close
	}
	return out
}
