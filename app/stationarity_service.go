package app

import (
	"context"
	"sort"
	"time"

	"goadf/domain/core"
	"goadf/domain/stationarity"
	"goadf/internal/errors"
	"goadf/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StationarityService runs ADF tests for single series and named batches
type StationarityService struct {
	tester        ports.StationarityTester
	profiler      ports.SeriesProfiler
	defaults      stationarity.Config
	maxConcurrent int
	logger        *zap.Logger
}

// TestRequest defines the inputs for a single test. A nil Config uses the
// service defaults.
type TestRequest struct {
	Name           core.SeriesKey       `json:"name,omitempty"`
	Series         []float64            `json:"series"`
	Config         *stationarity.Config `json:"config,omitempty"`
	IncludeSummary bool                 `json:"include_summary"`
}

// BatchRequest defines the inputs for a batch of named series sharing one
// configuration
type BatchRequest struct {
	Series         map[core.SeriesKey][]float64 `json:"series"`
	Config         *stationarity.Config         `json:"config,omitempty"`
	IncludeSummary bool                         `json:"include_summary"`
}

// Failure is the structured form of a fatal test error
type Failure struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// SeriesOutcome is the result of testing one series: either Result or Error is set
type SeriesOutcome struct {
	Name        core.SeriesKey              `json:"name,omitempty"`
	Fingerprint core.Hash                   `json:"fingerprint"`
	Result      *stationarity.TestResult    `json:"result,omitempty"`
	Summary     *stationarity.SeriesSummary `json:"summary,omitempty"`
	Error       *Failure                    `json:"error,omitempty"`
}

// Succeeded reports whether the series produced a result
func (o SeriesOutcome) Succeeded() bool {
	return o.Error == nil && o.Result != nil
}

// BatchResult contains the outcomes of a batch in name order
type BatchResult struct {
	BatchID   core.BatchID    `json:"batch_id"`
	Outcomes  []SeriesOutcome `json:"outcomes"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	RuntimeMs int64           `json:"runtime_ms"`
}

// NewStationarityService creates a stationarity service. maxConcurrent below
// one is treated as one; a nil logger discards output.
func NewStationarityService(tester ports.StationarityTester, profiler ports.SeriesProfiler, defaults stationarity.Config, maxConcurrent int, logger *zap.Logger) *StationarityService {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StationarityService{
		tester:        tester,
		profiler:      profiler,
		defaults:      defaults,
		maxConcurrent: maxConcurrent,
		logger:        logger.With(zap.String("component", "StationarityService")),
	}
}

// Defaults returns the configuration applied to requests without one
func (s *StationarityService) Defaults() stationarity.Config {
	return s.defaults
}

// Test runs one test. Fatal test errors are returned as *errors.AppError
// carrying the error kind.
func (s *StationarityService) Test(ctx context.Context, req TestRequest) (*SeriesOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.FromDomain(err)
	}

	outcome, err := s.run(s.logger, req.Name, req.Series, s.resolve(req.Config), req.IncludeSummary)
	if err != nil {
		return nil, err
	}
	return &outcome, nil
}

// BatchTest runs one test per named series on a bounded worker pool. A
// failing series is recorded in its outcome and never aborts the batch.
// When ctx is canceled the series not yet started are marked canceled and
// the partial result is returned with the context error.
func (s *StationarityService) BatchTest(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	startTime := time.Now()
	batchID := core.NewBatchID()
	cfg := s.resolve(req.Config)

	names := make([]core.SeriesKey, 0, len(req.Series))
	for name := range req.Series {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	log := s.logger.With(zap.String("batch_id", batchID.String()))
	log.Info("batch started",
		zap.Int("series", len(names)),
		zap.String("config", cfg.Canonical()),
		zap.Int("max_concurrent", s.maxConcurrent))

	outcomes := make([]SeriesOutcome, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for i, name := range names {
		series := req.Series[name]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i] = SeriesOutcome{
					Name:        name,
					Fingerprint: core.ComputeSeriesHash(series, cfg.Canonical()),
					Error:       failureOf(errors.FromDomain(err)),
				}
				return nil
			}
			outcomes[i], _ = s.run(log, name, series, cfg, req.IncludeSummary)
			return nil
		})
	}
	_ = g.Wait()

	result := &BatchResult{
		BatchID:   batchID,
		Outcomes:  outcomes,
		RuntimeMs: time.Since(startTime).Milliseconds(),
	}
	for _, o := range outcomes {
		if o.Succeeded() {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	log.Info("batch finished",
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
		zap.Int64("runtime_ms", result.RuntimeMs))

	if err := ctx.Err(); err != nil {
		return result, errors.FromDomain(err)
	}
	return result, nil
}

func (s *StationarityService) resolve(cfg *stationarity.Config) stationarity.Config {
	if cfg == nil {
		return s.defaults
	}
	return *cfg
}

// run tests one series; a failure is recorded on the outcome and also
// returned classified.
func (s *StationarityService) run(log *zap.Logger, name core.SeriesKey, series []float64, cfg stationarity.Config, includeSummary bool) (SeriesOutcome, error) {
	outcome := SeriesOutcome{
		Name:        name,
		Fingerprint: core.ComputeSeriesHash(series, cfg.Canonical()),
	}

	result, err := s.tester.Test(series, cfg)
	if err != nil {
		fields := []zap.Field{zap.String("series", name.String()), zap.Error(err)}
		switch {
		case core.IsInputError(err):
			log.Info("series rejected", fields...)
		case core.IsEstimationError(err):
			log.Warn("estimation failed", fields...)
		default:
			log.Error("series failed", fields...)
		}

		err = errors.FromDomain(err)
		if name != "" {
			err = errors.Wrapf(err, "series %q", name)
		}
		outcome.Error = failureOf(err)
		return outcome, err
	}
	outcome.Result = &result

	if includeSummary && s.profiler != nil {
		summary, err := s.profiler.Summarize(series)
		if err != nil {
			log.Debug("summary skipped", zap.String("series", name.String()), zap.Error(err))
		} else {
			outcome.Summary = summary
		}
	}

	log.Debug("series tested",
		zap.String("series", name.String()),
		zap.Float64("statistic", result.Statistic),
		zap.Float64("p_value", result.PValue),
		zap.Int("lags_used", result.LagsUsed),
		zap.Bool("stationary", result.IsStationary))
	return outcome, nil
}

func failureOf(err error) *Failure {
	return &Failure{Kind: errors.GetCode(err), Message: err.Error()}
}
