// Package ols fits ordinary least-squares regressions through a Householder
// QR factorization with an explicit rank check.
package ols

import (
	"errors"
	"fmt"
	"math"

	"goadf/domain/core"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// RankTolerance bounds |R_ii| / ||x_i||: the sine of the angle between a
	// column and the span of the columns before it.
	RankTolerance = 1e-10

	// exactFitTolerance bounds sqrt(RSS) / ||y|| below which the residual
	// variance is treated as zero.
	exactFitTolerance = 1e-12

	// negligibleTolerance bounds |beta_i| * ||x_i|| / ||y|| below which a
	// coefficient of an exact fit is reported with a zero t-statistic.
	negligibleTolerance = 1e-9
)

// ErrTooFewObservations is returned when the design has no residual degrees of freedom.
var ErrTooFewObservations = errors.New("observations must exceed regressors")

// FitResult holds the estimates of one regression.
type FitResult struct {
	Coeffs   []float64 // regression coefficients, in design column order
	StdErrs  []float64 // sqrt(sigma2 * diag((X'X)^-1))
	TStats   []float64 // coefficient / standard error
	PValues  []float64 // two-sided Student-t p-values
	RSS      float64   // residual sum of squares
	Sigma2   float64   // RSS / (nobs - nparams)
	LogLik   float64   // Gaussian log-likelihood at the MLE variance
	AIC      float64
	BIC      float64
	NObs     int
	NParams  int
	ExactFit bool // residual variance is numerically zero
}

// DF returns the residual degrees of freedom
func (f FitResult) DF() int {
	return f.NObs - f.NParams
}

// Fit regresses y on the columns of x.
func Fit(x mat.Matrix, y mat.Vector) (FitResult, error) {
	m, p := x.Dims()
	if y.Len() != m {
		return FitResult{}, fmt.Errorf("response has %d rows, design has %d", y.Len(), m)
	}
	if p == 0 {
		return FitResult{}, fmt.Errorf("design has no columns")
	}
	if m <= p {
		return FitResult{}, fmt.Errorf("%w: %d observations, %d regressors", ErrTooFewObservations, m, p)
	}

	colNorms := make([]float64, p)
	col := make([]float64, m)
	for j := 0; j < p; j++ {
		mat.Col(col, j, x)
		colNorms[j] = floats.Norm(col, 2)
		if colNorms[j] == 0 {
			return FitResult{}, core.NewSingularDesignError(j, m, p)
		}
	}

	var qr mat.QR
	qr.Factorize(x)

	var r mat.Dense
	qr.RTo(&r)
	for i := 0; i < p; i++ {
		if math.Abs(r.At(i, i)) <= RankTolerance*colNorms[i] {
			return FitResult{}, core.NewSingularDesignError(i, m, p)
		}
	}

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, y); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return FitResult{}, fmt.Errorf("%w: condition number %.3g", core.ErrSingularDesign, float64(cond))
		}
		return FitResult{}, fmt.Errorf("least-squares solve failed: %w", err)
	}

	// residuals
	fitted := mat.NewVecDense(m, nil)
	fitted.MulVec(x, &beta)
	resid := mat.NewVecDense(m, nil)
	resid.SubVec(y, fitted)
	rss := mat.Dot(resid, resid)
	yNorm := math.Sqrt(mat.Dot(y, y))

	// (X'X)^-1 = R^-1 R^-T
	rTri := mat.NewTriDense(p, mat.Upper, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			rTri.SetTri(i, j, r.At(i, j))
		}
	}
	var rInv mat.TriDense
	if err := rInv.InverseTri(rTri); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return FitResult{}, fmt.Errorf("%w: %v", core.ErrSingularDesign, err)
		}
	}

	res := FitResult{
		Coeffs:  make([]float64, p),
		StdErrs: make([]float64, p),
		TStats:  make([]float64, p),
		PValues: make([]float64, p),
		NObs:    m,
		NParams: p,
	}
	for i := 0; i < p; i++ {
		res.Coeffs[i] = beta.AtVec(i)
	}

	if math.Sqrt(rss) <= exactFitTolerance*yNorm {
		fillExactFit(&res, colNorms, yNorm)
		return res, nil
	}

	df := float64(m - p)
	res.RSS = rss
	res.Sigma2 = rss / df

	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	for i := 0; i < p; i++ {
		var diag float64
		for j := i; j < p; j++ {
			v := rInv.At(i, j)
			diag += v * v
		}
		res.StdErrs[i] = math.Sqrt(res.Sigma2 * diag)
		res.TStats[i] = res.Coeffs[i] / res.StdErrs[i]
		res.PValues[i] = 2 * tdist.Survival(math.Abs(res.TStats[i]))
	}

	res.LogLik = LogLikelihood(rss, m)
	res.AIC = 2*float64(p) - 2*res.LogLik
	res.BIC = float64(p)*math.Log(float64(m)) - 2*res.LogLik
	return res, nil
}

// fillExactFit reports a zero-variance fit: coefficients whose contribution
// is numerically zero carry t = 0, all others an unbounded t.
func fillExactFit(res *FitResult, colNorms []float64, yNorm float64) {
	res.ExactFit = true
	res.RSS = 0
	res.Sigma2 = 0
	for i, b := range res.Coeffs {
		switch {
		case math.Abs(b)*colNorms[i] <= negligibleTolerance*yNorm:
			res.TStats[i] = 0
			res.PValues[i] = 1
		case b > 0:
			res.TStats[i] = math.Inf(1)
		default:
			res.TStats[i] = math.Inf(-1)
		}
	}
	res.LogLik = math.Inf(1)
	res.AIC = math.Inf(-1)
	res.BIC = math.Inf(-1)
}

// LogLikelihood is the Gaussian log-likelihood implied by a residual sum of
// squares over m observations: -m/2 * (ln 2pi + ln(RSS/m) + 1).
func LogLikelihood(rss float64, m int) float64 {
	n := float64(m)
	return -n / 2 * (math.Log(2*math.Pi) + math.Log(rss/n) + 1)
}
