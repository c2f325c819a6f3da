// Package mackinnon maps Dickey-Fuller tau statistics to approximate
// p-values and critical values using MacKinnon's (1994) response surfaces
// for a single series (N = 1).
//
// The p-value is Phi(poly(tau)) where poly is a quadratic below the switch
// point tau* and a cubic above it. Critical values are the exact inverse of
// the same surface, so tau < cv(alpha) holds exactly when p(tau) < alpha.
package mackinnon

import (
	"fmt"
	"math"

	"goadf/domain/stationarity"

	"gonum.org/v1/gonum/stat/distuv"
)

// surface holds the fitted coefficients of one regression variant.
type surface struct {
	smallP  [3]float64 // b0 + b1*tau + b2*tau^2, for tau <= tauStar
	largeP  [4]float64 // b0 + b1*tau + b2*tau^2 + b3*tau^3, for tau > tauStar
	tauStar float64
	tauMin  float64 // lower edge of the fitted range
	tauMax  float64 // upper edge of the fitted range (+Inf when unbounded)
}

// Published coefficients are scaled: small-p by (1, 1, 1e-2), large-p by
// (1, 1e-1, 1e-1, 1e-2). The values below are already scaled.
var surfaces = map[stationarity.Regression]surface{
	stationarity.NoConstant: {
		smallP:  [3]float64{0.6344, 1.2378, 3.2496e-2},
		largeP:  [4]float64{0.4797, 9.3557e-1, -0.6999e-1, 3.3066e-2},
		tauStar: -1.04,
		tauMin:  -19.04,
		tauMax:  math.Inf(1),
	},
	stationarity.Constant: {
		smallP:  [3]float64{2.1659, 1.4412, 3.8269e-2},
		largeP:  [4]float64{1.7339, 9.3202e-1, -1.2745e-1, -1.0368e-2},
		tauStar: -1.61,
		tauMin:  -18.83,
		tauMax:  2.74,
	},
	stationarity.ConstantAndTrend: {
		smallP:  [3]float64{3.2512, 1.6047, 4.9588e-2},
		largeP:  [4]float64{2.5261, 6.1654e-1, -3.7956e-1, -6.0285e-2},
		tauStar: -2.89,
		tauMin:  -16.18,
		tauMax:  0.7,
	},
}

// criticalValues caches the inverted surface per variant; built once at init.
var criticalValues map[stationarity.Regression]stationarity.CriticalValues

func init() {
	criticalValues = make(map[stationarity.Regression]stationarity.CriticalValues, len(surfaces))
	for _, reg := range stationarity.Regressions {
		s := surfaces[reg]
		criticalValues[reg] = stationarity.CriticalValues{
			OnePct:  s.invert(stationarity.Level1Pct.Value()),
			FivePct: s.invert(stationarity.Level5Pct.Value()),
			TenPct:  s.invert(stationarity.Level10Pct.Value()),
		}
	}
}

// PValue is the outcome of mapping one statistic.
type PValue struct {
	Value float64
	Tail  bool // statistic fell outside the fitted range
}

// Approximate maps tau to its p-value under the given regression variant.
func Approximate(tau float64, reg stationarity.Regression) (PValue, error) {
	s, ok := surfaces[reg]
	if !ok {
		return PValue{}, fmt.Errorf("no response surface for regression %s", reg)
	}
	if math.IsNaN(tau) {
		return PValue{}, fmt.Errorf("statistic is NaN")
	}
	z, tail := s.z(tau)
	return PValue{Value: clamp01(distuv.UnitNormal.CDF(z)), Tail: tail}, nil
}

// CriticalValues returns the 1%, 5% and 10% critical values of a variant.
func CriticalValues(reg stationarity.Regression) (stationarity.CriticalValues, error) {
	cv, ok := criticalValues[reg]
	if !ok {
		return stationarity.CriticalValues{}, fmt.Errorf("no response surface for regression %s", reg)
	}
	return cv, nil
}

// FittedRange returns the [tauMin, tauMax] range the surface was fitted on.
func FittedRange(reg stationarity.Regression) (lo, hi float64, err error) {
	s, ok := surfaces[reg]
	if !ok {
		return 0, 0, fmt.Errorf("no response surface for regression %s", reg)
	}
	return s.tauMin, s.tauMax, nil
}

// z evaluates the normal-quantile polynomial, extending it linearly
// beyond the fitted range with a non-negative slope.
func (s surface) z(tau float64) (float64, bool) {
	switch {
	case math.IsInf(tau, 1) && math.IsInf(s.tauMax, 1):
		return math.Inf(1), true
	case tau < s.tauMin:
		return extend(s.poly(s.tauMin), s.slope(s.tauMin), tau-s.tauMin), true
	case tau > s.tauMax:
		return extend(s.poly(s.tauMax), s.slope(s.tauMax), tau-s.tauMax), true
	default:
		return s.poly(tau), false
	}
}

func (s surface) poly(tau float64) float64 {
	if tau <= s.tauStar {
		c := s.smallP
		return c[0] + tau*(c[1]+tau*c[2])
	}
	c := s.largeP
	return c[0] + tau*(c[1]+tau*(c[2]+tau*c[3]))
}

func (s surface) slope(tau float64) float64 {
	if tau <= s.tauStar {
		c := s.smallP
		return c[1] + 2*c[2]*tau
	}
	c := s.largeP
	return c[1] + tau*(2*c[2]+3*c[3]*tau)
}

func extend(z0, slope, dt float64) float64 {
	if slope < 0 {
		slope = 0
	}
	if math.IsInf(dt, 0) {
		if slope == 0 {
			return z0
		}
		return math.Copysign(math.Inf(1), dt)
	}
	return z0 + slope*dt
}

// invert solves Phi(poly(tau)) = alpha for tau.
func (s surface) invert(alpha float64) float64 {
	target := distuv.UnitNormal.Quantile(alpha)

	// Closed form on the quadratic branch: c2*tau^2 + c1*tau + (c0 - target) = 0,
	// taking the root on the increasing side of the parabola.
	c := s.smallP
	disc := c[1]*c[1] - 4*c[2]*(c[0]-target)
	if disc >= 0 {
		root := (-c[1] + math.Sqrt(disc)) / (2 * c[2])
		if root >= s.tauMin && root <= s.tauStar {
			return root
		}
	}

	// Bisection on the monotone surface over the fitted range.
	lo, hi := s.tauMin, s.tauMax
	if math.IsInf(hi, 1) {
		hi = 10
	}
	for i := 0; i < 200 && hi-lo > 1e-13; i++ {
		mid := (lo + hi) / 2
		if s.poly(mid) < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

func clamp01(p float64) float64 {
	return math.Max(0, math.Min(1, p))
}
