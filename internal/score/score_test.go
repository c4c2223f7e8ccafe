package score

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tawindow/internal/marketdata"
)

func syntheticFrame(n int) *marketdata.Frame {
	f := &marketdata.Frame{Ticker: "TEST", Frequency: "1d"}
	price := 100.0
	for i := 0; i < n; i++ {
		price += math.Sin(float64(i)/7.0) * 1.5
		f.Prices = append(f.Prices, marketdata.Price{
			Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1000 + float64(i%5)*10,
		})
	}
	return f
}

func TestComputeProducesOneResultPerBar(t *testing.T) {
	frame := syntheticFrame(80)
	results := Compute(frame, DefaultConfig, "en")
	require.Len(t, results, 80)
}

func TestComputeWarmsUpThenProducesFiniteScores(t *testing.T) {
	frame := syntheticFrame(80)
	results := Compute(frame, DefaultConfig, "en")

	last := results[len(results)-1]
	assert.False(t, math.IsNaN(last.Score))
	assert.NotEqual(t, "-", last.Label)
}

func TestLabelFromScoreBoundaries(t *testing.T) {
	assert.Equal(t, "Extreme Fear", LabelFromScore(10, "en"))
	assert.Equal(t, "Fear", LabelFromScore(30, "en"))
	assert.Equal(t, "Neutral", LabelFromScore(50, "en"))
	assert.Equal(t, "Greed", LabelFromScore(70, "en"))
	assert.Equal(t, "Extreme Greed", LabelFromScore(90, "en"))
	assert.Equal(t, "极度恐惧", LabelFromScore(10, "zh"))
	assert.Equal(t, "-", LabelFromScore(math.NaN(), "en"))
}

func TestComputeEmptyFrame(t *testing.T) {
	f := &marketdata.Frame{Ticker: "EMPTY"}
	assert.Nil(t, Compute(f, DefaultConfig, "en"))
}
