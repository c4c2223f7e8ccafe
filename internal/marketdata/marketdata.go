// Package marketdata loads OHLCV price series from CSV, the input shape
// cmd/tacli's compute and serve subcommands both operate on. It replaces
// the teacher's internal/data package, which the retrieval pack never
// included a copy of (its HTML-scraping implementation is not
// reconstructable from what's available, and fabricating one would
// invent an untraceable dependency) — CSV is the input format every
// other pack repo that touches tabular data (iwanlebron-stock-analysis's
// own Price type, ja7ad-consumption's config loaders) already assumes.
package marketdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Price is a single OHLCV candle, carried over from the teacher's
// internal/models.Price unchanged in shape.
type Price struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Frame holds a named series of candles, carried over from the teacher's
// internal/models.PriceFrame.
type Frame struct {
	Ticker    string
	Frequency string
	Prices    []Price
}

// Closes, Opens, Highs, Lows and Volumes return the frame's OHLCV columns
// as plain float64 slices, the shape every tawindow operator expects.
func (f *Frame) Closes() []float64  { return f.column(func(p Price) float64 { return p.Close }) }
func (f *Frame) Opens() []float64   { return f.column(func(p Price) float64 { return p.Open }) }
func (f *Frame) Highs() []float64   { return f.column(func(p Price) float64 { return p.High }) }
func (f *Frame) Lows() []float64    { return f.column(func(p Price) float64 { return p.Low }) }
func (f *Frame) Volumes() []float64 { return f.column(func(p Price) float64 { return p.Volume }) }

func (f *Frame) column(sel func(Price) float64) []float64 {
	out := make([]float64, len(f.Prices))
	for i, p := range f.Prices {
		out[i] = sel(p)
	}
	return out
}

// LoadCSV reads a "date,open,high,low,close,volume" CSV (header row
// required) into a Frame. Each row's date is parsed as RFC3339, falling
// back to the bare "2006-01-02" layout.
func LoadCSV(r io.Reader, ticker, frequency string) (*Frame, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("marketdata: reading csv: %w", err)
	}
	if len(rows) < 2 {
		return &Frame{Ticker: ticker, Frequency: frequency}, nil
	}

	prices := make([]Price, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 6 {
			return nil, fmt.Errorf("marketdata: row %q has fewer than 6 columns", row)
		}
		date, err := parseDate(row[0])
		if err != nil {
			return nil, fmt.Errorf("marketdata: parsing date %q: %w", row[0], err)
		}
		vals, err := parseFloats(row[1:6])
		if err != nil {
			return nil, err
		}
		prices = append(prices, Price{
			Date:   date,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}

	return &Frame{Ticker: ticker, Frequency: frequency, Prices: prices}, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func parseFloats(cols []string) ([]float64, error) {
	out := make([]float64, len(cols))
	for i, c := range cols {
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return nil, fmt.Errorf("marketdata: parsing %q as float: %w", c, err)
		}
		out[i] = v
	}
	return out, nil
}
