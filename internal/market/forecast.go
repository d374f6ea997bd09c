package market

import "math"

// Forecast is a short-horizon price estimate built from simple moving
// averages. Best-effort heuristic with no invariants; only the ledger
// cares about exact arithmetic.
type Forecast struct {
	Symbol     string  `json:"symbol"`
	Source     string  `json:"source"`
	Current    float64 `json:"current_price"`
	Tomorrow   float64 `json:"tomorrow"`
	Week       float64 `json:"week"`
	Month      float64 `json:"month"`
	Trend      string  `json:"trend"`
	Volatility float64 `json:"volatility"`
	Confidence int     `json:"confidence"`
}

const (
	minForecastPoints = 10

	minConfidence = 60
	maxConfidence = 95
)

// ForecastSeries blends SMA(5), SMA(10) and SMA(20) into a trend and
// projects it over three horizons. Returns false when the series is too
// short to say anything.
func ForecastSeries(series Series) (Forecast, bool) {
	if len(series.Points) < minForecastPoints {
		return Forecast{}, false
	}

	closes := make([]float64, len(series.Points))
	for i, p := range series.Points {
		closes[i] = p.Close
	}
	latest := closes[len(closes)-1]

	trend := (tailSMA(closes, 5)+tailSMA(closes, 10)+tailSMA(closes, 20))/3 - latest
	volatility := returnsStddev(closes)

	direction := "down"
	if trend > 0 {
		direction = "up"
	}

	return Forecast{
		Symbol:     series.Symbol,
		Source:     series.Source,
		Current:    latest,
		Tomorrow:   clampPrice(latest + trend*0.1),
		Week:       clampPrice(latest + trend*0.7),
		Month:      clampPrice(latest + trend*3),
		Trend:      direction,
		Volatility: volatility,
		Confidence: confidence(len(closes), volatility),
	}, true
}

// tailSMA averages the last window closes, falling back to the latest
// close when the series is shorter than the window.
func tailSMA(closes []float64, window int) float64 {
	if len(closes) < window {
		return closes[len(closes)-1]
	}
	var sum float64
	for _, c := range closes[len(closes)-window:] {
		sum += c
	}
	return sum / float64(window)
}

func returnsStddev(closes []float64) float64 {
	if len(closes) < 2 {
		return 0.02
	}

	returns := make([]float64, 0, len(closes)-1)
	var mean float64
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		r := closes[i]/closes[i-1] - 1
		returns = append(returns, r)
		mean += r
	}
	if len(returns) == 0 {
		return 0.02
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))
	return math.Sqrt(variance)
}

func confidence(sampleSize int, volatility float64) int {
	dataQuality := math.Min(100, float64(sampleSize)*2)
	volatilityFactor := math.Max(0, 100-volatility*1000)
	c := int((dataQuality + volatilityFactor) / 2)
	if c < minConfidence {
		return minConfidence
	}
	if c > maxConfidence {
		return maxConfidence
	}
	return c
}

func clampPrice(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
