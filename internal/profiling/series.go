package profiling

import (
	"fmt"
	"math"

	"goadf/domain/stationarity"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// SeriesProfiler computes descriptive summaries of numeric series
type SeriesProfiler struct{}

// NewSeriesProfiler creates a new series profiler
func NewSeriesProfiler() *SeriesProfiler {
	return &SeriesProfiler{}
}

// Summarize profiles the finite values of series. NaN entries are ignored,
// matching the default missing-value policy of the test itself.
func (sp *SeriesProfiler) Summarize(series []float64) (*stationarity.SeriesSummary, error) {
	data := make(stats.Float64Data, 0, len(series))
	for _, v := range series {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			data = append(data, v)
		}
	}
	if len(data) < 2 {
		return nil, fmt.Errorf("summary needs at least 2 finite values, got %d", len(data))
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return nil, err
	}

	stdDev, err := stats.StandardDeviationPopulation(data)
	if err != nil {
		return nil, err
	}

	min, err := stats.Min(data)
	if err != nil {
		return nil, err
	}

	max, err := stats.Max(data)
	if err != nil {
		return nil, err
	}

	median, err := stats.Median(data)
	if err != nil {
		return nil, err
	}

	quartiles, err := stats.Quartile(data)
	if err != nil {
		return nil, err
	}

	summary := &stationarity.SeriesSummary{
		N:        len(data),
		Min:      min,
		Max:      max,
		Mean:     mean,
		StdDev:   stdDev,
		Median:   median,
		Q1:       quartiles.Q1,
		Q3:       quartiles.Q3,
		Skewness: calculateSkewness(data, mean),
		Kurtosis: calculateExcessKurtosis(data, mean),
	}

	// Autocorrelation is undefined for a constant series
	if stdDev > 0 {
		if ac, err := stats.AutoCorrelation(data, 1); err == nil {
			summary.Autocorr1 = ac
		}
	}

	summary.VarianceRatio, summary.VariancePValue = varianceHalvesFTest(data)

	return summary, nil
}

// varianceHalvesFTest compares the sample variances of the two halves of
// the series. A constant half yields ratio 0 and p-value 1.
func varianceHalvesFTest(data []float64) (ratio, pValue float64) {
	half := len(data) / 2
	first, second := data[:half], data[half:]
	if len(first) < 2 || len(second) < 2 {
		return 0, 1
	}

	var1, _ := stats.SampleVariance(first)
	var2, _ := stats.SampleVariance(second)
	if var1 <= 0 || var2 <= 0 {
		return 0, 1
	}

	ratio = var1 / var2
	fDist := distuv.F{D1: float64(len(first) - 1), D2: float64(len(second) - 1)}
	cdf := fDist.CDF(ratio)
	// Two-sided p-value: 2*min(CDF, 1-CDF)
	pValue = math.Min(1, 2*math.Min(cdf, 1-cdf))
	return ratio, pValue
}

// calculateSkewness computes the adjusted Fisher-Pearson sample skewness
func calculateSkewness(data []float64, mean float64) float64 {
	n := float64(len(data))
	if n < 3 {
		return 0
	}

	var m2, m3 float64
	for _, x := range data {
		d := x - mean
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= n
	m3 /= n
	if m2 == 0 {
		return 0
	}

	g1 := m3 / math.Pow(m2, 1.5)
	return g1 * math.Sqrt(n*(n-1)) / (n - 2)
}

// calculateExcessKurtosis computes the bias-corrected sample excess kurtosis
func calculateExcessKurtosis(data []float64, mean float64) float64 {
	n := float64(len(data))
	if n < 4 {
		return 0
	}

	var m2, m4 float64
	for _, x := range data {
		d := x - mean
		d2 := d * d
		m2 += d2
		m4 += d2 * d2
	}
	m2 /= n
	m4 /= n
	if m2 == 0 {
		return 0
	}

	g2 := m4/(m2*m2) - 3
	return ((n+1)*g2 + 6) * (n - 1) / ((n - 2) * (n - 3))
}
