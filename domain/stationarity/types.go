package stationarity

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"goadf/domain/core"
)

// MinObservations is the shortest series the engine will test.
const MinObservations = 10

// DefaultMaxLags is the default upper bound for lag searches.
const DefaultMaxLags = 10

// ============================================================================
// REGRESSION VARIANTS
// ============================================================================

// Regression selects the deterministic regressors of the auxiliary regression.
type Regression int

const (
	NoConstant       Regression = iota // "n"
	Constant                           // "c"
	ConstantAndTrend                   // "ct"
)

// Regressions lists every variant in table order.
var Regressions = []Regression{NoConstant, Constant, ConstantAndTrend}

func (r Regression) String() string {
	switch r {
	case NoConstant:
		return "n"
	case Constant:
		return "c"
	case ConstantAndTrend:
		return "ct"
	default:
		return fmt.Sprintf("Regression(%d)", int(r))
	}
}

// Description returns a human-readable label for the variant
func (r Regression) Description() string {
	switch r {
	case NoConstant:
		return "no constant"
	case Constant:
		return "constant"
	case ConstantAndTrend:
		return "constant and linear trend"
	default:
		return "unknown"
	}
}

// DeterministicCount is the number of constant/trend columns the variant adds.
func (r Regression) DeterministicCount() int {
	switch r {
	case NoConstant:
		return 0
	case Constant:
		return 1
	case ConstantAndTrend:
		return 2
	default:
		panic(fmt.Sprintf("stationarity: unhandled regression %d", int(r)))
	}
}

// HasConstant reports whether an intercept column is included
func (r Regression) HasConstant() bool { return r == Constant || r == ConstantAndTrend }

// HasTrend reports whether a linear trend column is included
func (r Regression) HasTrend() bool { return r == ConstantAndTrend }

// Valid reports whether r is one of the declared variants
func (r Regression) Valid() bool {
	return r >= NoConstant && r <= ConstantAndTrend
}

// ParseRegression accepts "n" (or "nc"), "c" and "ct".
func ParseRegression(s string) (Regression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "nc":
		return NoConstant, nil
	case "c":
		return Constant, nil
	case "ct":
		return ConstantAndTrend, nil
	default:
		return 0, core.NewConfigError("regression", fmt.Sprintf("must be one of n, c, ct (got %q)", s))
	}
}

func (r Regression) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, core.NewConfigError("regression", fmt.Sprintf("unknown variant %d", int(r)))
	}
	return []byte(r.String()), nil
}

func (r *Regression) UnmarshalText(text []byte) error {
	parsed, err := ParseRegression(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ============================================================================
// LAG POLICY
// ============================================================================

// LagMethod selects how many lagged differences enter the regression.
type LagMethod int

const (
	LagFixed LagMethod = iota // "fixed"
	LagAIC                    // "aic"
	LagBIC                    // "bic"
	LagTStat                  // "t-stat"
)

func (m LagMethod) String() string {
	switch m {
	case LagFixed:
		return "fixed"
	case LagAIC:
		return "aic"
	case LagBIC:
		return "bic"
	case LagTStat:
		return "t-stat"
	default:
		return fmt.Sprintf("LagMethod(%d)", int(m))
	}
}

// Description returns a human-readable label for the method
func (m LagMethod) Description() string {
	switch m {
	case LagFixed:
		return "fixed lag order"
	case LagAIC:
		return "Akaike information criterion"
	case LagBIC:
		return "Bayesian information criterion"
	case LagTStat:
		return "t-statistic significance trimming"
	default:
		return "unknown"
	}
}

// Valid reports whether m is one of the declared methods
func (m LagMethod) Valid() bool {
	return m >= LagFixed && m <= LagTStat
}

// IsSearch reports whether the method searches over candidate lags
func (m LagMethod) IsSearch() bool {
	return m == LagAIC || m == LagBIC || m == LagTStat
}

// ParseLagMethod accepts "fixed", "aic", "bic" and "t-stat" (also "tstat", "t").
func ParseLagMethod(s string) (LagMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed":
		return LagFixed, nil
	case "aic":
		return LagAIC, nil
	case "bic":
		return LagBIC, nil
	case "t-stat", "tstat", "t":
		return LagTStat, nil
	default:
		return 0, core.NewConfigError("lag_method", fmt.Sprintf("must be one of fixed, aic, bic, t-stat (got %q)", s))
	}
}

func (m LagMethod) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, core.NewConfigError("lag_method", fmt.Sprintf("unknown method %d", int(m)))
	}
	return []byte(m.String()), nil
}

func (m *LagMethod) UnmarshalText(text []byte) error {
	parsed, err := ParseLagMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// LagPolicy pairs a method with its lag bound: the exact order for
// LagFixed, the maximum candidate order otherwise.
type LagPolicy struct {
	Method LagMethod `json:"method" yaml:"method"`
	Lags   int       `json:"lags" yaml:"lags"`
}

func FixedLag(k int) LagPolicy { return LagPolicy{Method: LagFixed, Lags: k} }
func AICLag(maxLag int) LagPolicy { return LagPolicy{Method: LagAIC, Lags: maxLag} }
func BICLag(maxLag int) LagPolicy { return LagPolicy{Method: LagBIC, Lags: maxLag} }
func TStatLag(maxLag int) LagPolicy { return LagPolicy{Method: LagTStat, Lags: maxLag} }

func (p LagPolicy) String() string {
	return fmt.Sprintf("%s(%d)", p.Method, p.Lags)
}

// Validate rejects unknown methods and negative lag counts
func (p LagPolicy) Validate() error {
	if !p.Method.Valid() {
		return core.NewConfigError("lag_method", fmt.Sprintf("unknown method %d", int(p.Method)))
	}
	if p.Lags < 0 {
		return core.NewConfigError("lags", fmt.Sprintf("must be non-negative (got %d)", p.Lags))
	}
	return nil
}

// ============================================================================
// SIGNIFICANCE
// ============================================================================

// Significance is one of the three tabulated test sizes.
type Significance int

const (
	Level1Pct Significance = iota
	Level5Pct
	Level10Pct
)

// DefaultSignificance is the 5% level
const DefaultSignificance = Level5Pct

// Value returns the test size as a probability
func (s Significance) Value() float64 {
	switch s {
	case Level1Pct:
		return 0.01
	case Level5Pct:
		return 0.05
	case Level10Pct:
		return 0.10
	default:
		panic(fmt.Sprintf("stationarity: unhandled significance %d", int(s)))
	}
}

// Label returns the conventional percent label ("1%", "5%", "10%")
func (s Significance) Label() string {
	switch s {
	case Level1Pct:
		return "1%"
	case Level5Pct:
		return "5%"
	case Level10Pct:
		return "10%"
	default:
		return fmt.Sprintf("Significance(%d)", int(s))
	}
}

func (s Significance) String() string { return s.Label() }

// Valid reports whether s is one of the declared levels
func (s Significance) Valid() bool {
	return s >= Level1Pct && s <= Level10Pct
}

// ParseSignificance maps 0.01, 0.05 and 0.10 to their level.
func ParseSignificance(v float64) (Significance, error) {
	for _, s := range []Significance{Level1Pct, Level5Pct, Level10Pct} {
		if math.Abs(v-s.Value()) < 1e-9 {
			return s, nil
		}
	}
	return 0, core.NewConfigError("significance_level", fmt.Sprintf("must be one of 0.01, 0.05, 0.10 (got %v)", v))
}

func (s Significance) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, core.NewConfigError("significance_level", fmt.Sprintf("unknown level %d", int(s)))
	}
	return json.Marshal(s.Value())
}

func (s *Significance) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := ParseSignificance(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ============================================================================
// MISSING VALUES
// ============================================================================

// MissingPolicy controls how NaN entries are treated during preparation.
type MissingPolicy int

const (
	MissingDrop   MissingPolicy = iota // NaN entries are removed before the length check
	MissingReject                      // NaN entries are invalid, like ±Inf
)

func (p MissingPolicy) String() string {
	switch p {
	case MissingDrop:
		return "drop"
	case MissingReject:
		return "reject"
	default:
		return fmt.Sprintf("MissingPolicy(%d)", int(p))
	}
}

func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "drop", "":
		return MissingDrop, nil
	case "reject":
		return MissingReject, nil
	default:
		return 0, core.NewConfigError("missing_policy", fmt.Sprintf("must be drop or reject (got %q)", s))
	}
}

func (p MissingPolicy) MarshalText() ([]byte, error) {
	if p != MissingDrop && p != MissingReject {
		return nil, core.NewConfigError("missing_policy", fmt.Sprintf("unknown policy %d", int(p)))
	}
	return []byte(p.String()), nil
}

func (p *MissingPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseMissingPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ============================================================================
// CONFIG
// ============================================================================

// Config is the full per-call test configuration.
type Config struct {
	Regression   Regression    `json:"regression"`
	Lag          LagPolicy     `json:"lag"`
	Significance Significance  `json:"significance"`
	Missing      MissingPolicy `json:"missing"`
}

// DefaultConfig matches the tool defaults: constant, AIC over 10 lags, 5%.
func DefaultConfig() Config {
	return Config{
		Regression:   Constant,
		Lag:          AICLag(DefaultMaxLags),
		Significance: DefaultSignificance,
		Missing:      MissingDrop,
	}
}

// Validate checks every field against its closed set
func (c Config) Validate() error {
	if !c.Regression.Valid() {
		return core.NewConfigError("regression", fmt.Sprintf("unknown variant %d", int(c.Regression)))
	}
	if err := c.Lag.Validate(); err != nil {
		return err
	}
	if !c.Significance.Valid() {
		return core.NewConfigError("significance_level", fmt.Sprintf("unknown level %d", int(c.Significance)))
	}
	if c.Missing != MissingDrop && c.Missing != MissingReject {
		return core.NewConfigError("missing_policy", fmt.Sprintf("unknown policy %d", int(c.Missing)))
	}
	return nil
}

// Canonical renders the configuration as a stable string for fingerprinting
func (c Config) Canonical() string {
	return fmt.Sprintf("%s/%s/%s/%s", c.Regression, c.Lag, c.Significance.Label(), c.Missing)
}

// ============================================================================
// RESULT
// ============================================================================

// CriticalValues holds the Dickey-Fuller critical values at the tabulated sizes.
type CriticalValues struct {
	OnePct  float64 `json:"1%"`
	FivePct float64 `json:"5%"`
	TenPct  float64 `json:"10%"`
}

// At returns the critical value for a significance level
func (c CriticalValues) At(s Significance) float64 {
	switch s {
	case Level1Pct:
		return c.OnePct
	case Level5Pct:
		return c.FivePct
	case Level10Pct:
		return c.TenPct
	default:
		panic(fmt.Sprintf("stationarity: unhandled significance %d", int(s)))
	}
}

// WarningCode represents structured, non-fatal notes attached to a result
type WarningCode string

const (
	WarningTailApproximation WarningCode = "TailApproximationUsed" // statistic outside the fitted surface
	WarningMaxLagClamped     WarningCode = "MaxLagClamped"         // requested max lag infeasible for n
	WarningMissingDropped    WarningCode = "MissingValuesDropped"  // NaN entries removed
	WarningCandidateSkipped  WarningCode = "CandidateLagSkipped"   // a search candidate was unsolvable
	WarningExactFit          WarningCode = "ExactFit"              // residual variance is numerically zero
)

// Warning is an informational note surfaced alongside a result.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// TestResult is the final output of one ADF invocation.
type TestResult struct {
	Statistic         float64        `json:"statistic"`
	PValue            float64        `json:"p_value"`
	LagsUsed          int            `json:"lags_used"`
	CriticalValues    CriticalValues `json:"critical_values"`
	IsStationary      bool           `json:"is_stationary"`
	RegressionType    Regression     `json:"regression_type"`
	LagMethod         LagMethod      `json:"lag_method"`
	SignificanceLevel float64        `json:"significance_level"`
	NObs              int            `json:"nobs"`        // usable observations of the reported fit
	DataLength        int            `json:"data_length"` // observations after cleaning
	MaxLags           int            `json:"max_lags"`    // effective candidate bound
	ICBest            float64        `json:"ic_best,omitempty"`
	Warnings          []Warning      `json:"warnings,omitempty"`
}

// HasWarning reports whether a warning with the given code is attached
func (r TestResult) HasWarning(code WarningCode) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

// MarshalJSON encodes non-finite numbers (exact fits) as null and adds
// readable labels for the regression variant and lag method.
func (r TestResult) MarshalJSON() ([]byte, error) {
	type plain TestResult
	out := struct {
		plain
		Statistic             *float64 `json:"statistic"`
		ICBest                *float64 `json:"ic_best,omitempty"`
		RegressionDescription string   `json:"regression_description"`
		LagMethodDescription  string   `json:"lags_method_description"`
	}{
		plain:                 plain(r),
		RegressionDescription: r.RegressionType.Description(),
		LagMethodDescription:  r.LagMethod.Description(),
	}
	if !math.IsInf(r.Statistic, 0) && !math.IsNaN(r.Statistic) {
		out.Statistic = &r.Statistic
	}
	if r.ICBest != 0 && !math.IsInf(r.ICBest, 0) && !math.IsNaN(r.ICBest) {
		out.ICBest = &r.ICBest
	}
	return json.Marshal(out)
}
