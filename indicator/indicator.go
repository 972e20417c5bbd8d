package indicator

import (
	"fmt"
	"math"
	"strings"
)

// MACDResult holds the three MACD components.
type MACDResult struct {
	Line      float64 `json:"macdLine"`
	Signal    float64 `json:"signalLine"`
	Histogram float64 `json:"histogram"`
}

// SimpleMovingAverage returns the arithmetic mean of the last period
// elements. The caller must ensure len(prices) >= period.
func SimpleMovingAverage(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(prices) < period {
		return 0, fmt.Errorf("need at least %d prices, got %d", period, len(prices))
	}
	var sum float64
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	return sum / float64(period), nil
}

// ExponentialMovingAverage seeds with the first element and runs the
// recurrence over the entire sequence with multiplier 2/(period+1).
// A single-element input is returned unchanged for any period; MACD's
// signal line depends on that.
func ExponentialMovingAverage(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(prices) == 0 {
		return 0, fmt.Errorf("no prices provided")
	}
	k := 2.0 / float64(period+1)
	ema := prices[0]
	for _, p := range prices[1:] {
		ema = p*k + ema*(1-k)
	}
	return ema, nil
}

// RelativeStrengthIndex computes RSI over the last period transitions.
// When no losses occurred in the window the result saturates at 100.
func RelativeStrengthIndex(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(prices) <= period {
		return 0, fmt.Errorf("need more than %d prices, got %d", period, len(prices))
	}
	var gains, losses float64
	window := prices[len(prices)-period-1:]
	for i := 1; i < len(window); i++ {
		delta := window[i] - window[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses += -delta
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return 100, nil
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), nil
}

// MACD computes the 12/26 moving average convergence divergence. The
// signal line is the EMA of the single-element MACD line sequence, so it
// always equals the line and the histogram is zero. That mirrors the
// upstream analytics exactly; do not "fix" it.
func MACD(prices []float64) (MACDResult, error) {
	fast, err := ExponentialMovingAverage(prices, 12)
	if err != nil {
		return MACDResult{}, err
	}
	slow, err := ExponentialMovingAverage(prices, 26)
	if err != nil {
		return MACDResult{}, err
	}
	line := fast - slow
	signal, err := ExponentialMovingAverage([]float64{line}, 9)
	if err != nil {
		return MACDResult{}, err
	}
	return MACDResult{Line: line, Signal: signal, Histogram: line - signal}, nil
}

// TrendSignal joins rule-based labels from RSI and MACD. The sma argument
// is accepted for interface stability but does not participate in any
// rule.
func TrendSignal(sma, rsi float64, macd MACDResult) string {
	_ = sma
	var labels []string
	if rsi > 70 {
		labels = append(labels, "Overbought")
	} else if rsi < 30 {
		labels = append(labels, "Oversold")
	}
	if macd.Line > macd.Signal {
		labels = append(labels, "Bullish MACD Crossover")
	} else if macd.Line < macd.Signal {
		labels = append(labels, "Bearish MACD Crossover")
	}
	if len(labels) == 0 {
		return "Neutral"
	}
	return strings.Join(labels, ", ")
}

// Volatility returns the population standard deviation of values.
func Volatility(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("no values provided")
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return math.Sqrt(variance), nil
}

// TrendClassification labels the percent change between the first and
// last value: above +5% is Upward, below -5% is Downward, anything in
// between is Sideways.
func TrendClassification(values []float64) (string, error) {
	if len(values) < 2 {
		return "", fmt.Errorf("need at least 2 values, got %d", len(values))
	}
	first, last := values[0], values[len(values)-1]
	if first == 0 {
		return "", fmt.Errorf("first value is zero; percent change undefined")
	}
	change := (last - first) / first * 100
	switch {
	case change > 5:
		return "Upward", nil
	case change < -5:
		return "Downward", nil
	default:
		return "Sideways", nil
	}
}

// Momentum compares a short-term SMA against a long-term SMA:
// (shortSMA - longSMA) / longSMA.
func Momentum(prices []float64, shortPeriod, longPeriod int) (float64, error) {
	if len(prices) < longPeriod {
		return 0, fmt.Errorf("need at least %d prices, got %d", longPeriod, len(prices))
	}
	short, err := SimpleMovingAverage(prices, shortPeriod)
	if err != nil {
		return 0, err
	}
	long, err := SimpleMovingAverage(prices, longPeriod)
	if err != nil {
		return 0, err
	}
	if long == 0 {
		return 0, fmt.Errorf("long-term SMA is zero")
	}
	return (short - long) / long, nil
}

// RiskAdjustedReturn is a simplified Sharpe ratio with a zero risk-free
// rate: mean of consecutive returns divided by their sample standard
// deviation. Zero volatility yields +Inf.
func RiskAdjustedReturn(prices []float64) (float64, error) {
	if len(prices) < 2 {
		return 0, fmt.Errorf("need at least 2 prices, got %d", len(prices))
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			return 0, fmt.Errorf("zero price at index %d; return undefined", i-1)
		}
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
	}
	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	if len(returns) < 2 {
		return math.Inf(1), nil
	}
	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns) - 1)
	vol := math.Sqrt(variance)
	if vol == 0 {
		return math.Inf(1), nil
	}
	return mean / vol, nil
}

// PriceStabilityScore scores how tightly the last period prices cluster
// around their mean: 1/(1+d) where d is the mean absolute deviation
// normalized by the SMA. Higher is more stable, max 1.
func PriceStabilityScore(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(prices) < period {
		return 0, fmt.Errorf("need at least %d prices, got %d", period, len(prices))
	}
	recent := prices[len(prices)-period:]
	var sma float64
	for _, p := range recent {
		sma += p
	}
	sma /= float64(period)
	var dev float64
	for _, p := range recent {
		dev += math.Abs(p - sma)
	}
	dev /= float64(period)
	if sma != 0 {
		dev /= sma
	}
	return 1 / (1 + dev), nil
}
