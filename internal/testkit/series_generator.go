package testkit

import (
	"math/rand"
)

// SeriesGeneratorConfig configures the synthetic series generator
type SeriesGeneratorConfig struct {
	Length int     `json:"length"`
	Sigma  float64 `json:"sigma"` // innovation standard deviation
	Start  float64 `json:"start"` // initial level
	Seed   int64   `json:"seed"`
}

// DefaultSeriesConfig returns sensible defaults for series generation
func DefaultSeriesConfig() SeriesGeneratorConfig {
	return SeriesGeneratorConfig{
		Length: 200,
		Sigma:  1.0,
		Start:  0,
		Seed:   42,
	}
}

// SeriesGenerator produces reproducible univariate series with known
// unit-root properties.
type SeriesGenerator struct {
	config SeriesGeneratorConfig
	rng    *rand.Rand
}

// NewSeriesGenerator creates a new series generator
func NewSeriesGenerator(config SeriesGeneratorConfig) *SeriesGenerator {
	return &SeriesGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

func (g *SeriesGenerator) shock() float64 {
	return g.rng.NormFloat64() * g.config.Sigma
}

// WhiteNoise returns i.i.d. Gaussian noise around Start (stationary).
func (g *SeriesGenerator) WhiteNoise() []float64 {
	out := make([]float64, g.config.Length)
	for i := range out {
		out[i] = g.config.Start + g.shock()
	}
	return out
}

// RandomWalk returns a driftless random walk (unit root).
func (g *SeriesGenerator) RandomWalk() []float64 {
	return g.AR1(1)
}

// AR1 returns y_t = phi*y_{t-1} + e_t with y_0 = Start.
func (g *SeriesGenerator) AR1(phi float64) []float64 {
	out := make([]float64, g.config.Length)
	prev := g.config.Start
	for i := range out {
		prev = phi*prev + g.shock()
		out[i] = prev
	}
	return out
}

// TrendStationary returns Start + slope*t + noise.
func (g *SeriesGenerator) TrendStationary(slope float64) []float64 {
	out := make([]float64, g.config.Length)
	for i := range out {
		out[i] = g.config.Start + slope*float64(i) + g.shock()
	}
	return out
}

// Linear returns the exact sequence Start+1, Start+2, ..., Start+Length.
func Linear(start float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = start + float64(i+1)
	}
	return out
}

// Constant returns length copies of v.
func Constant(v float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = v
	}
	return out
}
