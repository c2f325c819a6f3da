package adf

import (
	"fmt"
	"math"

	"goadf/domain/core"
	"goadf/domain/stationarity"
)

// prepared is the cleaned input shared read-only by every candidate fit.
type prepared struct {
	levels []float64 // y_0 .. y_{n-1}
	diffs  []float64 // diffs[i] = y_{i+1} - y_i, length n-1
	maxLag int       // effective lag bound; the exact order under LagFixed
	warns  []stationarity.Warning
}

func (p prepared) n() int { return len(p.levels) }

// prepare validates the series and configuration and derives the
// difference series and the effective lag bound.
func prepare(series []float64, cfg stationarity.Config) (prepared, error) {
	if err := cfg.Validate(); err != nil {
		return prepared{}, err
	}

	levels := make([]float64, 0, len(series))
	dropped := 0
	for i, v := range series {
		switch {
		case math.IsInf(v, 0):
			return prepared{}, core.NewInvalidSeriesError(i, v)
		case math.IsNaN(v):
			if cfg.Missing == stationarity.MissingReject {
				return prepared{}, core.NewInvalidSeriesError(i, v)
			}
			dropped++
			continue
		}
		levels = append(levels, v)
	}
	if len(levels) < stationarity.MinObservations {
		return prepared{}, core.NewInsufficientDataError(len(levels), stationarity.MinObservations)
	}

	p := prepared{
		levels: levels,
		diffs:  make([]float64, len(levels)-1),
		maxLag: cfg.Lag.Lags,
	}
	for i := range p.diffs {
		d := levels[i+1] - levels[i]
		if math.IsInf(d, 0) {
			return prepared{}, core.NewDifferenceOverflowError(i+1, levels[i], levels[i+1])
		}
		p.diffs[i] = d
	}

	if dropped > 0 {
		p.warns = append(p.warns, stationarity.Warning{
			Code:    stationarity.WarningMissingDropped,
			Message: fmt.Sprintf("%d missing values dropped, %d remain", dropped, len(levels)),
		})
	}

	if cfg.Lag.Method.IsSearch() {
		if limit := clampMaxLag(p.n(), cfg.Regression, cfg.Lag.Lags); limit < cfg.Lag.Lags {
			p.warns = append(p.warns, stationarity.Warning{
				Code:    stationarity.WarningMaxLagClamped,
				Message: fmt.Sprintf("max lag reduced from %d to %d for %d observations", cfg.Lag.Lags, limit, p.n()),
			})
			p.maxLag = limit
		}
	}
	return p, nil
}

// clampMaxLag bounds a candidate lag search to floor((n-1)/2) - 1 and then
// lowers it until the common-sample regression has residual degrees of freedom.
func clampMaxLag(n int, reg stationarity.Regression, requested int) int {
	limit := requested
	if bound := (n-1)/2 - 1; bound < limit {
		limit = bound
	}
	for limit > 0 && !feasible(n, reg, limit) {
		limit--
	}
	if limit < 0 {
		limit = 0
	}
	return limit
}

// feasible reports whether a regression with k lags, fitted on the last
// n-k-1 differences, has more observations than columns.
func feasible(n int, reg stationarity.Regression, k int) bool {
	return usableObs(n, k) > columnCount(reg, k)
}

func usableObs(n, k int) int { return n - k - 1 }

func columnCount(reg stationarity.Regression, k int) int {
	return 1 + reg.DeterministicCount() + k
}
