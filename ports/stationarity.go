package ports

import (
	"goadf/domain/stationarity"
)

// StationarityTester runs a unit-root test on one series
type StationarityTester interface {
	Test(series []float64, cfg stationarity.Config) (stationarity.TestResult, error)
}

// SeriesProfiler summarizes a series for reporting alongside a test result
type SeriesProfiler interface {
	Summarize(series []float64) (*stationarity.SeriesSummary, error)
}
