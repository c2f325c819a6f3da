package ols

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"goadf/domain/core"

	"gonum.org/v1/gonum/mat"
)

// helper: compare floats with tolerance
func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// y = 2 + 3x exactly, plus a known perturbation so the variance is non-zero.
func TestFit_RecoversKnownCoefficients(t *testing.T) {
	n := 200
	rng := rand.New(rand.NewSource(7))
	x := mat.NewDense(n, 2, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		xi := float64(i) / 10
		x.Set(i, 0, 1)
		x.Set(i, 1, xi)
		y.SetVec(i, 2+3*xi+rng.NormFloat64()*0.1)
	}

	fit, err := Fit(x, y)
	if err != nil {
		t.Fatalf("Fit returned error: %v", err)
	}

	if !almostEqual(fit.Coeffs[0], 2, 0.05) {
		t.Errorf("Intercept = %v, want ~2", fit.Coeffs[0])
	}
	if !almostEqual(fit.Coeffs[1], 3, 0.01) {
		t.Errorf("Slope = %v, want ~3", fit.Coeffs[1])
	}
	if fit.DF() != n-2 {
		t.Errorf("DF = %d, want %d", fit.DF(), n-2)
	}
	if fit.ExactFit {
		t.Error("Noisy regression should not be an exact fit")
	}
	if !almostEqual(fit.Sigma2, 0.01, 0.005) {
		t.Errorf("Sigma2 = %v, want ~0.01", fit.Sigma2)
	}
	if fit.PValues[1] > 1e-10 {
		t.Errorf("Slope p-value = %v, want ~0", fit.PValues[1])
	}
}

// Standard errors must match sigma2 * (X'X)^-1 computed by explicit inversion.
func TestFit_StandardErrorsMatchNormalEquations(t *testing.T) {
	data := []float64{
		1, 0.5, -1.2,
		1, 1.5, 0.3,
		1, -0.7, 2.2,
		1, 2.1, 0.1,
		1, 0.0, -0.4,
		1, 3.3, 1.7,
		1, -1.1, -2.0,
		1, 0.9, 0.8,
	}
	x := mat.NewDense(8, 3, data)
	y := mat.NewVecDense(8, []float64{1.1, 2.0, 0.4, 3.9, 0.2, 5.1, -1.3, 2.2})

	fit, err := Fit(x, y)
	if err != nil {
		t.Fatalf("Fit returned error: %v", err)
	}

	var xtx, inv mat.Dense
	xtx.Mul(x.T(), x)
	if err := inv.Inverse(&xtx); err != nil {
		t.Fatalf("inverse failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		want := math.Sqrt(fit.Sigma2 * inv.At(i, i))
		if !almostEqual(fit.StdErrs[i], want, 1e-10) {
			t.Errorf("StdErr[%d] = %v, want %v", i, fit.StdErrs[i], want)
		}
		if !almostEqual(fit.TStats[i], fit.Coeffs[i]/want, 1e-8) {
			t.Errorf("TStat[%d] = %v, want %v", i, fit.TStats[i], fit.Coeffs[i]/want)
		}
	}
}

func TestFit_InformationCriteria(t *testing.T) {
	x := mat.NewDense(6, 2, []float64{1, 1, 1, 2, 1, 3, 1, 4, 1, 5, 1, 6})
	y := mat.NewVecDense(6, []float64{1.2, 1.9, 3.2, 3.8, 5.3, 5.9})

	fit, err := Fit(x, y)
	if err != nil {
		t.Fatalf("Fit returned error: %v", err)
	}

	ll := -3 * (math.Log(2*math.Pi) + math.Log(fit.RSS/6) + 1)
	if !almostEqual(fit.LogLik, ll, 1e-12) {
		t.Errorf("LogLik = %v, want %v", fit.LogLik, ll)
	}
	if !almostEqual(fit.AIC, 4-2*ll, 1e-12) {
		t.Errorf("AIC = %v, want %v", fit.AIC, 4-2*ll)
	}
	if !almostEqual(fit.BIC, 2*math.Log(6)-2*ll, 1e-12) {
		t.Errorf("BIC = %v, want %v", fit.BIC, 2*math.Log(6)-2*ll)
	}
}

func TestFit_CollinearColumnsAreSingular(t *testing.T) {
	n := 20
	x := mat.NewDense(n, 3, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 5)
		x.Set(i, 1, 1)
		x.Set(i, 2, float64(i+1))
		y.SetVec(i, float64(i%3))
	}

	_, err := Fit(x, y)
	if !errors.Is(err, core.ErrSingularDesign) {
		t.Fatalf("Expected ErrSingularDesign, got %v", err)
	}
}

func TestFit_ZeroColumnIsSingular(t *testing.T) {
	x := mat.NewDense(5, 2, []float64{1, 0, 1, 0, 1, 0, 1, 0, 1, 0})
	y := mat.NewVecDense(5, []float64{1, 2, 3, 4, 5})

	if _, err := Fit(x, y); !errors.Is(err, core.ErrSingularDesign) {
		t.Fatalf("Expected ErrSingularDesign, got %v", err)
	}
}

func TestFit_TooFewObservations(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{1, 0, 1, 1})
	y := mat.NewVecDense(2, []float64{1, 2})

	if _, err := Fit(x, y); !errors.Is(err, ErrTooFewObservations) {
		t.Fatalf("Expected ErrTooFewObservations, got %v", err)
	}
}

// Regressing a constant difference on [level, 1] fits exactly with a zero level coefficient.
func TestFit_ExactFitReportsZeroTStat(t *testing.T) {
	n := 49
	x := mat.NewDense(n, 2, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, float64(i+1))
		x.Set(i, 1, 1)
		y.SetVec(i, 1)
	}

	fit, err := Fit(x, y)
	if err != nil {
		t.Fatalf("Fit returned error: %v", err)
	}
	if !fit.ExactFit {
		t.Fatal("Expected an exact fit")
	}
	if fit.TStats[0] != 0 {
		t.Errorf("Level t-stat = %v, want 0", fit.TStats[0])
	}
	if !math.IsInf(fit.TStats[1], 1) {
		t.Errorf("Constant t-stat = %v, want +Inf", fit.TStats[1])
	}
	if !math.IsInf(fit.AIC, -1) {
		t.Errorf("AIC = %v, want -Inf", fit.AIC)
	}
}
