// Package adf implements the Augmented Dickey-Fuller unit-root test.
//
// Test runs four stages: the series is validated and differenced, a lag
// order is selected (fixed, AIC/BIC search, or backward t-stat
// elimination), the auxiliary regression is fitted by QR least squares,
// and the level coefficient's t-statistic is mapped to a MacKinnon
// p-value and critical values.
package adf

import (
	"fmt"

	"goadf/adapters/stats/mackinnon"
	"goadf/domain/stationarity"
)

// Tester runs ADF tests. It holds no state; a zero Tester is ready to use
// and safe for concurrent calls.
type Tester struct{}

// NewTester creates a new ADF tester
func NewTester() *Tester {
	return &Tester{}
}

// Test runs the ADF test on series under cfg.
func (t *Tester) Test(series []float64, cfg stationarity.Config) (stationarity.TestResult, error) {
	p, err := prepare(series, cfg)
	if err != nil {
		return stationarity.TestResult{}, err
	}

	sel, err := selectLag(p, cfg)
	if err != nil {
		return stationarity.TestResult{}, err
	}

	tau := sel.Fit.TStats[0]
	pv, err := mackinnon.Approximate(tau, cfg.Regression)
	if err != nil {
		return stationarity.TestResult{}, fmt.Errorf("p-value for statistic %v: %w", tau, err)
	}
	cv, err := mackinnon.CriticalValues(cfg.Regression)
	if err != nil {
		return stationarity.TestResult{}, err
	}

	warnings := sel.Warnings
	if sel.Fit.ExactFit {
		warnings = append(warnings, stationarity.Warning{
			Code:    stationarity.WarningExactFit,
			Message: fmt.Sprintf("regression at lag %d fits exactly; statistic reported as %v", sel.Lag, tau),
		})
	}
	if pv.Tail {
		lo, hi, err := mackinnon.FittedRange(cfg.Regression)
		if err != nil {
			return stationarity.TestResult{}, err
		}
		warnings = append(warnings, stationarity.Warning{
			Code: stationarity.WarningTailApproximation,
			Message: fmt.Sprintf("statistic %.4g lies outside the fitted range [%.4g, %.4g] for regression %s; p-value extrapolated",
				tau, lo, hi, cfg.Regression),
		})
	}

	alpha := cfg.Significance.Value()
	return stationarity.TestResult{
		Statistic:         tau,
		PValue:            pv.Value,
		LagsUsed:          sel.Lag,
		CriticalValues:    cv,
		IsStationary:      pv.Value < alpha,
		RegressionType:    cfg.Regression,
		LagMethod:         cfg.Lag.Method,
		SignificanceLevel: alpha,
		NObs:              sel.Fit.NObs,
		DataLength:        p.n(),
		MaxLags:           sel.MaxLag,
		ICBest:            sel.ICBest,
		Warnings:          warnings,
	}, nil
}
