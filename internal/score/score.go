package score

import (
	"math"
	"time"

	"tawindow/internal/marketdata"
)

// Config mirrors the teacher's calc.Config: the lookback windows feeding
// each sub-indicator and the percentile-normalisation window.
type Config struct {
	NormWindow int
	MAFast     int
	MASlow     int
	MomWindow  int
	VolWindow  int
	RSIWindow  int
	DDWindow   int
}

// DefaultConfig mirrors the teacher's calc.DefaultConfig.
var DefaultConfig = Config{
	NormWindow: 252,
	MAFast:     20,
	MASlow:     60,
	MomWindow:  20,
	VolWindow:  20,
	RSIWindow:  14,
	DDWindow:   252,
}

// Weights is the per-component weight applied before summing sub-scores
// into the composite score, carried over unchanged from the teacher.
var Weights = map[string]float64{
	"trend":      0.15,
	"momentum":   0.15,
	"rsi":        0.10,
	"macd":       0.10,
	"drawdown":   0.10,
	"volatility": 0.10,
	"mfi":        0.15,
	"bb_pct_b":   0.15,
}

// Subscores holds the normalised (0-100) component scores behind one
// day's composite result.
type Subscores struct {
	Trend    float64 `json:"trend"`
	Momentum float64 `json:"momentum"`
	RSI      float64 `json:"rsi"`
	MACD     float64 `json:"macd"`
	Drawdown float64 `json:"drawdown"`
	Vol      float64 `json:"volatility"`
	MFI      float64 `json:"mfi"`
	BB       float64 `json:"bb_pct_b"`
}

// Result is one day's composite score, mirroring the teacher's
// models.ScoreResult shape.
type Result struct {
	Date      time.Time `json:"date"`
	Score     float64   `json:"score"`
	Label     string    `json:"label"`
	Price     float64   `json:"price"`
	Values    Subscores `json:"values"`
	Raw       Subscores `json:"raw"`
}

// Compute derives one Result per bar in frame, mirroring the teacher's
// calc.Compute: raw indicators are each normalised to a rolling
// percentile and combined by Weights into a single composite score.
func Compute(frame *marketdata.Frame, cfg Config, lang string) []Result {
	n := len(frame.Prices)
	if n == 0 {
		return nil
	}

	closes := frame.Closes()
	volumes := frame.Volumes()
	highs := frame.Highs()
	lows := frame.Lows()

	normWindow := cfg.NormWindow
	if n < normWindow {
		normWindow = n
	}
	if normWindow < 10 {
		normWindow = 10
	}

	maFast := sma(closes, cfg.MAFast)
	maSlow := sma(closes, cfg.MASlow)
	trendRaw := make([]float64, n)
	for i := 0; i < n; i++ {
		var t1, t2 float64
		if maFast[i] > 0 {
			t1 = closes[i]/maFast[i] - 1.0
		}
		if maSlow[i] > 0 {
			t2 = closes[i]/maSlow[i] - 1.0
		}
		trendRaw[i] = 0.5*t1 + 0.5*t2
	}

	momRaw := momentum(closes, cfg.MomWindow)
	rsiRaw := rsi(closes, cfg.RSIWindow)
	macdRaw := macd(closes)
	volRaw := realizedVol(closes, cfg.VolWindow)
	mfiRaw := mfi(highs, lows, closes, volumes, 14)
	bbRaw := bollingerPercentB(closes, 20, 2.0)
	ddRaw := drawdown(closes, cfg.DDWindow)

	sTrend := rollingScore(trendRaw, normWindow, 1)
	sMom := rollingScore(momRaw, normWindow, 1)
	sRSI := rollingScore(rsiRaw, normWindow, 1)
	sMACD := rollingScore(macdRaw, normWindow, 1)
	sDD := rollingScore(ddRaw, normWindow, 1)
	sVol := rollingScore(volRaw, normWindow, -1)
	sMFI := rollingScore(mfiRaw, normWindow, 1)
	sBB := rollingScore(bbRaw, normWindow, 1)

	results := make([]Result, n)
	for i := 0; i < n; i++ {
		res := Result{
			Date:  frame.Prices[i].Date,
			Price: closes[i],
		}
		res.Raw = Subscores{
			Trend: trendRaw[i], Momentum: momRaw[i], RSI: rsiRaw[i],
			MACD: macdRaw[i], Drawdown: ddRaw[i], Vol: volRaw[i],
			MFI: mfiRaw[i], BB: bbRaw[i],
		}
		res.Values = Subscores{
			Trend: sTrend[i], Momentum: sMom[i], RSI: sRSI[i],
			MACD: sMACD[i], Drawdown: sDD[i], Vol: sVol[i],
			MFI: sMFI[i], BB: sBB[i],
		}

		var scoreSum, wSum float64
		add := func(key string, val float64) {
			if !math.IsNaN(val) {
				w := Weights[key]
				scoreSum += val * w
				wSum += w
			}
		}
		add("trend", sTrend[i])
		add("momentum", sMom[i])
		add("rsi", sRSI[i])
		add("macd", sMACD[i])
		add("drawdown", sDD[i])
		add("volatility", sVol[i])
		add("mfi", sMFI[i])
		add("bb_pct_b", sBB[i])

		if wSum > 0 {
			res.Score = scoreSum / wSum
			res.Label = LabelFromScore(res.Score, lang)
		} else {
			res.Score = math.NaN()
			res.Label = "-"
		}
		results[i] = res
	}

	return results
}

// LabelFromScore maps a composite score to its bilingual Fear & Greed
// label, carried over unchanged from the teacher's calc.LabelFromScore.
func LabelFromScore(s float64, lang string) string {
	if math.IsNaN(s) {
		return "-"
	}
	if lang == "en" {
		switch {
		case s < 25:
			return "Extreme Fear"
		case s < 45:
			return "Fear"
		case s <= 55:
			return "Neutral"
		case s <= 75:
			return "Greed"
		default:
			return "Extreme Greed"
		}
	}
	switch {
	case s < 25:
		return "极度恐惧"
	case s < 45:
		return "恐惧"
	case s <= 55:
		return "中性"
	case s <= 75:
		return "贪婪"
	default:
		return "极度贪婪"
	}
}
