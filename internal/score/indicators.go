// Package score computes a composite "fear & greed" style sentiment score
// from OHLCV data: one sub-score per technical indicator, each normalised
// to a 0-100 rolling percentile and combined by a configurable weighted
// sum. Adapted from the teacher's internal/calc package — every hand-rolled
// indicator loop there is replaced here by a call into the root tawindow
// package, so this package now dogfoods the library it once duplicated by
// hand.
package score

import (
	"math"

	"tawindow"
)

func mustSeries(n int) []float64 {
	return make([]float64, n)
}

// sma is the teacher's SMA, now backed by tawindow.MA.
func sma(values []float64, window int) []float64 {
	out := mustSeries(len(values))
	_ = tawindow.MA(tawindow.Context{Flags: tawindow.FlagStrictlyCycle}, out, values, window)
	return out
}

// ema is the teacher's EMA (pandas ewm(adjust=False) recurrence), now
// backed by tawindow.EMA.
func ema(values []float64, span int) []float64 {
	out := mustSeries(len(values))
	_ = tawindow.EMA(tawindow.Context{}, out, values, span)
	return out
}

// momentum is (close[i]/close[i-window])-1, backed by tawindow.Ref so the
// lookback itself goes through the library's shared NaN/out-of-range
// handling instead of a second hand-rolled bounds check.
func momentum(values []float64, window int) []float64 {
	ref := mustSeries(len(values))
	_ = tawindow.Ref(tawindow.Context{}, ref, values, window)
	out := mustSeries(len(values))
	for i := range values {
		if ref[i] == 0 || math.IsNaN(ref[i]) {
			out[i] = math.NaN()
			continue
		}
		out[i] = values[i]/ref[i] - 1.0
	}
	return out
}

// rsi is Wilder's RSI: the average gain/loss smoothing Wilder describes is
// exactly tawindow.SMMA with alpha = 1/window, so both legs are backed by
// the library's EMA-family core instead of a hand-rolled recurrence.
func rsi(values []float64, window int) []float64 {
	n := len(values)
	gains := mustSeries(n)
	losses := mustSeries(n)
	for i := 1; i < n; i++ {
		diff := values[i] - values[i-1]
		if diff > 0 {
			gains[i] = diff
		} else {
			losses[i] = -diff
		}
	}

	avgGain := mustSeries(n)
	avgLoss := mustSeries(n)
	_ = tawindow.SMMA(tawindow.Context{Start: 1}, avgGain, gains, window, 1)
	_ = tawindow.SMMA(tawindow.Context{Start: 1}, avgLoss, losses, window, 1)

	out := mustSeries(n)
	for i := range out {
		out[i] = math.NaN()
	}
	for i := 1; i < n; i++ {
		if math.IsNaN(avgGain[i]) || math.IsNaN(avgLoss[i]) {
			continue
		}
		var rs float64
		switch {
		case avgLoss[i] != 0:
			rs = avgGain[i] / avgLoss[i]
		case avgGain[i] == 0:
			rs = 0
		default:
			rs = 1e9
		}
		out[i] = 100 - (100 / (1 + rs))
	}
	return out
}

// macd is the MACD histogram: fast EMA minus slow EMA, minus the signal
// line (itself an EMA of that difference).
func macd(values []float64) []float64 {
	fast := ema(values, 12)
	slow := ema(values, 26)
	n := len(values)
	macdLine := mustSeries(n)
	for i := range macdLine {
		macdLine[i] = fast[i] - slow[i]
	}
	signal := ema(macdLine, 9)
	hist := mustSeries(n)
	for i := range hist {
		hist[i] = macdLine[i] - signal[i]
	}
	return hist
}

// bollingerPercentB is %B: where close sits between the lower and upper
// Bollinger band, backed by tawindow.MA and tawindow.StdDev for the
// moving average and sample standard deviation legs.
func bollingerPercentB(close []float64, window int, numStdDev float64) []float64 {
	n := len(close)
	mean := mustSeries(n)
	sd := mustSeries(n)
	_ = tawindow.MA(tawindow.Context{Flags: tawindow.FlagStrictlyCycle}, mean, close, window)
	_ = tawindow.StdDev(tawindow.Context{Flags: tawindow.FlagStrictlyCycle}, sd, close, window)

	out := mustSeries(n)
	for i := range out {
		if math.IsNaN(mean[i]) || math.IsNaN(sd[i]) {
			out[i] = math.NaN()
			continue
		}
		upper := mean[i] + sd[i]*numStdDev
		lower := mean[i] - sd[i]*numStdDev
		if upper == lower {
			out[i] = 0.5
			continue
		}
		out[i] = (close[i] - lower) / (upper - lower)
	}
	return out
}

// mfi is the Money Flow Index, backed by tawindow.SumIf for the positive/
// negative money flow rolling sums.
func mfi(high, low, close, volume []float64, window int) []float64 {
	n := len(close)
	out := mustSeries(n)
	for i := range out {
		out[i] = math.NaN()
	}
	if n < window+1 {
		return out
	}

	typicalPrice := mustSeries(n)
	rawFlow := mustSeries(n)
	for i := range close {
		typicalPrice[i] = (high[i] + low[i] + close[i]) / 3.0
		rawFlow[i] = typicalPrice[i] * volume[i]
	}

	rising := make([]bool, n)
	falling := make([]bool, n)
	for i := 1; i < n; i++ {
		switch {
		case typicalPrice[i] > typicalPrice[i-1]:
			rising[i] = true
		case typicalPrice[i] < typicalPrice[i-1]:
			falling[i] = true
		}
	}

	posFlow := mustSeries(n)
	negFlow := mustSeries(n)
	_ = tawindow.SumIf(tawindow.Context{Flags: tawindow.FlagStrictlyCycle}, posFlow, rawFlow, rising, window)
	_ = tawindow.SumIf(tawindow.Context{Flags: tawindow.FlagStrictlyCycle}, negFlow, rawFlow, falling, window)

	for i := window; i < n; i++ {
		if math.IsNaN(posFlow[i]) || math.IsNaN(negFlow[i]) {
			continue
		}
		var mfr float64
		switch {
		case negFlow[i] != 0:
			mfr = posFlow[i] / negFlow[i]
		case posFlow[i] > 0:
			mfr = 1e9
		default:
			mfr = 0
		}
		out[i] = 100.0 - (100.0 / (1.0 + mfr))
	}
	return out
}

// drawdown is how far close sits below its trailing peak, backed by
// tawindow.HHV for the rolling high.
func drawdown(close []float64, window int) []float64 {
	n := len(close)
	peak := mustSeries(n)
	_ = tawindow.HHV(tawindow.Context{}, peak, close, window)
	out := mustSeries(n)
	for i := range out {
		if peak[i] == 0 || math.IsNaN(peak[i]) {
			continue
		}
		out[i] = close[i]/peak[i] - 1.0
	}
	return out
}

// realizedVol is the annualised rolling standard deviation of returns,
// backed by tawindow.StdDev.
func realizedVol(close []float64, window int) []float64 {
	n := len(close)
	returns := mustSeries(n)
	for i := 1; i < n; i++ {
		if close[i-1] != 0 {
			returns[i] = close[i]/close[i-1] - 1.0
		}
	}
	sd := mustSeries(n)
	_ = tawindow.StdDev(tawindow.Context{Flags: tawindow.FlagStrictlyCycle}, sd, returns, window)
	out := mustSeries(n)
	for i := range out {
		out[i] = sd[i] * math.Sqrt(252)
	}
	return out
}

// rollingScore is the teacher's RollingScore (a 0-100 rolling percentile),
// now backed directly by tawindow.TSRank — direction < 0 flips the sign
// before ranking so "lower is better" series (realized volatility) still
// score high when calm. TSRank itself returns a plain 1-based tie-averaged
// rank (1..window), not a percentile, so this derives the 0-100 score
// locally from that rank and the window size.
func rollingScore(values []float64, window int, direction int) []float64 {
	n := len(values)
	signed := mustSeries(n)
	for i, v := range values {
		signed[i] = v * float64(direction)
	}
	rank := mustSeries(n)
	_ = tawindow.TSRank(tawindow.Context{Flags: tawindow.FlagStrictlyCycle}, rank, signed, window)

	out := mustSeries(n)
	for i := range out {
		out[i] = math.NaN()
	}
	if window < 2 {
		return out
	}
	for i, r := range rank {
		if math.IsNaN(r) {
			continue
		}
		pct := (r - 1) / float64(window-1) * 100
		if pct < 0 {
			pct = 0
		} else if pct > 100 {
			pct = 100
		}
		out[i] = pct
	}
	return out
}
