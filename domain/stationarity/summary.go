package stationarity

// SeriesSummary holds descriptive statistics of the cleaned input series.
type SeriesSummary struct {
	N         int     `json:"n"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std"` // population (divisor n)
	Median    float64 `json:"median"`
	Q1        float64 `json:"q1"`
	Q3        float64 `json:"q3"`
	Skewness  float64 `json:"skewness"`
	Kurtosis  float64 `json:"kurtosis"` // excess kurtosis
	Autocorr1 float64 `json:"autocorr_lag1"`

	// Two-sided F-test of equal variance between the first and second half
	VarianceRatio  float64 `json:"variance_ratio"`
	VariancePValue float64 `json:"variance_p_value"`
}
