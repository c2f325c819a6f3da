package adf

import (
	"errors"
	"fmt"
	"math"

	"goadf/adapters/stats/ols"
	"goadf/domain/core"
	"goadf/domain/stationarity"
)

// TrimCritical is the |t| a highest-order lag must reach to survive backward
// elimination: the standard normal 95% quantile, i.e. the two-sided 10% level.
const TrimCritical = 1.6448536269514722

// TrimStep records one iteration of backward lag elimination.
type TrimStep struct {
	Lag         int     `json:"lag"`
	TStat       float64 `json:"t_stat"`
	Significant bool    `json:"significant"`
}

// Selection is the outcome of lag selection for one series.
type Selection struct {
	Lag      int
	Fit      ols.FitResult // fit supplying the reported statistic
	ICBest   float64       // minimum criterion value (AIC/BIC only)
	MaxLag   int           // effective candidate bound
	Trace    []TrimStep    // backward elimination steps (t-stat only)
	Warnings []stationarity.Warning
}

// SelectLag prepares the series and runs the configured lag policy. It
// exposes the intermediate selection state that Test folds into a result.
func SelectLag(series []float64, cfg stationarity.Config) (Selection, error) {
	p, err := prepare(series, cfg)
	if err != nil {
		return Selection{}, err
	}
	return selectLag(p, cfg)
}

func selectLag(p prepared, cfg stationarity.Config) (Selection, error) {
	var (
		sel Selection
		err error
	)
	switch cfg.Lag.Method {
	case stationarity.LagFixed:
		sel, err = selectFixed(p, cfg.Regression, cfg.Lag.Lags)
	case stationarity.LagAIC, stationarity.LagBIC:
		sel, err = selectByCriterion(p, cfg.Regression, cfg.Lag.Method, p.maxLag)
	case stationarity.LagTStat:
		sel, err = selectByTStat(p, cfg.Regression, p.maxLag)
	default:
		return Selection{}, core.NewConfigError("lag_method", fmt.Sprintf("unknown method %d", int(cfg.Lag.Method)))
	}
	if err != nil {
		return Selection{}, err
	}
	sel.MaxLag = p.maxLag
	sel.Warnings = append(append([]stationarity.Warning(nil), p.warns...), sel.Warnings...)
	return sel, nil
}

// fitAt fits lag order k on the differences from start onward.
func fitAt(p prepared, reg stationarity.Regression, k, start int) (ols.FitResult, error) {
	if start < k || !(len(p.diffs)-start > columnCount(reg, k)) {
		return ols.FitResult{}, fmt.Errorf("%w: lag %d leaves %d observations for %d regressors",
			core.ErrLagInfeasible, k, len(p.diffs)-start, columnCount(reg, k))
	}
	x, y := design(p, reg, k, start)
	fit, err := ols.Fit(x, y)
	if errors.Is(err, ols.ErrTooFewObservations) {
		return ols.FitResult{}, fmt.Errorf("%w: %v", core.ErrLagInfeasible, err)
	}
	return fit, err
}

func selectFixed(p prepared, reg stationarity.Regression, k int) (Selection, error) {
	fit, err := fitAt(p, reg, k, k)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Lag: k, Fit: fit}, nil
}

func criterion(fit ols.FitResult, method stationarity.LagMethod) float64 {
	if method == stationarity.LagBIC {
		return fit.BIC
	}
	return fit.AIC
}

// selectByCriterion fits every k in [0, maxLag] on the common sample, picks
// the minimum criterion (smaller k on ties) and refits it on its full sample.
func selectByCriterion(p prepared, reg stationarity.Regression, method stationarity.LagMethod, maxLag int) (Selection, error) {
	var (
		sel      Selection
		best     = -1
		bestIC   = math.Inf(1)
		bestFit  ols.FitResult
		lastErr  error
		singular = true
	)

	for k := 0; k <= maxLag; k++ {
		fit, err := fitAt(p, reg, k, maxLag)
		if err != nil {
			lastErr = err
			if !errors.Is(err, core.ErrSingularDesign) {
				singular = false
			}
			sel.Warnings = append(sel.Warnings, skipWarning(k, err))
			continue
		}
		ic := criterion(fit, method)
		if best < 0 || ic < bestIC {
			best, bestIC, bestFit = k, ic, fit
		}
	}

	if best < 0 {
		if singular {
			return Selection{}, lastErr
		}
		return Selection{}, fmt.Errorf("%w: all %d candidate lags failed, last: %v", core.ErrLagInfeasible, maxLag+1, lastErr)
	}

	sel.Lag = best
	sel.ICBest = bestIC
	sel.Fit = bestFit
	if best != maxLag {
		full, err := fitAt(p, reg, best, best)
		if err == nil {
			sel.Fit = full
		} else {
			sel.Warnings = append(sel.Warnings, stationarity.Warning{
				Code:    stationarity.WarningCandidateSkipped,
				Message: fmt.Sprintf("refit of lag %d on its full sample failed (%v); common-sample fit reported", best, err),
			})
		}
	}
	return sel, nil
}

// selectByTStat walks down from maxLag, keeping the first order whose
// highest lag is significant, then refits that order on its full sample.
func selectByTStat(p prepared, reg stationarity.Regression, maxLag int) (Selection, error) {
	var sel Selection
	lagCol := func(k int) int { return columnCount(reg, k) - 1 }

	k := maxLag
	var chosen ols.FitResult
	for ; k > 0; k-- {
		fit, err := fitAt(p, reg, k, maxLag)
		if err != nil {
			sel.Warnings = append(sel.Warnings, skipWarning(k, err))
			continue
		}
		t := fit.TStats[lagCol(k)]
		step := TrimStep{Lag: k, TStat: t, Significant: math.Abs(t) >= TrimCritical}
		sel.Trace = append(sel.Trace, step)
		if step.Significant {
			chosen = fit
			break
		}
	}

	sel.Lag = k
	full, err := fitAt(p, reg, k, k)
	switch {
	case err == nil:
		sel.Fit = full
	case k > 0 && k != maxLag:
		sel.Fit = chosen
		sel.Warnings = append(sel.Warnings, stationarity.Warning{
			Code:    stationarity.WarningCandidateSkipped,
			Message: fmt.Sprintf("refit of lag %d on its full sample failed (%v); common-sample fit reported", k, err),
		})
	default:
		return Selection{}, err
	}
	return sel, nil
}

func skipWarning(k int, err error) stationarity.Warning {
	return stationarity.Warning{
		Code:    stationarity.WarningCandidateSkipped,
		Message: fmt.Sprintf("lag %d excluded: %v", k, err),
	}
}
