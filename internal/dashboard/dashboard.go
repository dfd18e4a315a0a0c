// Package dashboard ties the report core to persistent state: the attribution
// table, uploaded CSV text per manager and the last good report.
package dashboard

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/dealer-scorecard/internal/attribution"
	"github.com/sells-group/dealer-scorecard/internal/csvline"
	"github.com/sells-group/dealer-scorecard/internal/model"
	"github.com/sells-group/dealer-scorecard/internal/report"
	"github.com/sells-group/dealer-scorecard/internal/resilience"
	"github.com/sells-group/dealer-scorecard/internal/store"
)

var (
	// ErrProcessingFailed marks a run whose report could not be built.
	// The previous snapshot, if any, is returned alongside it.
	ErrProcessingFailed = eris.New("dashboard: processing failed")

	// ErrNoManager is returned when an upload has no active manager.
	ErrNoManager = eris.New("dashboard: no active manager")
)

// ProcessFunc builds a city report from CSV text. report.Process is the default.
type ProcessFunc func(csvText string, rt model.ReportType, attr model.AttributionMap, manager string) *model.CityReport

// Service runs the scorecard against stored state.
type Service struct {
	store   store.Store
	process ProcessFunc
	retry   resilience.RetryConfig
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithProcessFunc replaces the report builder.
func WithProcessFunc(fn ProcessFunc) Option {
	return func(s *Service) { s.process = fn }
}

// WithRetryConfig sets the retry policy for store writes.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(s *Service) { s.retry = cfg }
}

// New creates a Service on top of st.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:   st,
		process: report.Process,
		retry:   resilience.DefaultRetryConfig(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ImportAttribution parses text and replaces the whole attribution table with it.
func (s *Service) ImportAttribution(ctx context.Context, text string) (model.AttributionMap, error) {
	m := attribution.Parse(text)
	err := s.write(ctx, "replace attribution", func(ctx context.Context) error {
		return s.store.ReplaceAttribution(ctx, m)
	})
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: import attribution")
	}
	zap.L().Info("attribution replaced", zap.Int("dealers", len(m)))
	return m, nil
}

// Attribution returns the current attribution table.
func (s *Service) Attribution(ctx context.Context) (model.AttributionMap, error) {
	m, err := s.store.LoadAttribution(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: load attribution")
	}
	return m, nil
}

// Managers lists the distinct business managers, sorted.
func (s *Service) Managers(ctx context.Context) ([]string, error) {
	m, err := s.Attribution(ctx)
	if err != nil {
		return nil, err
	}
	return attribution.Managers(m), nil
}

// Cities lists the distinct cities of manager, sorted.
func (s *Service) Cities(ctx context.Context, manager string) ([]string, error) {
	m, err := s.Attribution(ctx)
	if err != nil {
		return nil, err
	}
	return attribution.Cities(m, manager), nil
}

// ActiveManager returns requested when set, otherwise the first listed
// manager. It returns "" when the attribution table is empty.
func (s *Service) ActiveManager(ctx context.Context, requested string) (string, error) {
	if name := csvline.Clean(requested); name != "" {
		return name, nil
	}
	managers, err := s.Managers(ctx)
	if err != nil {
		return "", err
	}
	if len(managers) == 0 {
		return "", nil
	}
	return managers[0], nil
}

// Upload stores csv as the report data for manager and rt, replacing any previous upload.
func (s *Service) Upload(ctx context.Context, manager string, rt model.ReportType, csv string) (*model.ReportUpload, error) {
	manager = csvline.Clean(manager)
	if manager == "" {
		return nil, ErrNoManager
	}
	if !rt.Valid() {
		return nil, eris.Errorf("dashboard: unknown report type %q", rt)
	}
	u, err := resilience.DoVal(ctx, s.retryFor("save report csv"), func(ctx context.Context) (*model.ReportUpload, error) {
		return s.store.SaveReportCSV(ctx, manager, rt, csv)
	})
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: upload")
	}
	zap.L().Info("report csv uploaded",
		zap.String("manager", manager),
		zap.String("type", string(rt)),
		zap.Int("bytes", len(csv)),
	)
	return u, nil
}

// CSV returns the uploaded text for manager and rt, or the built-in sample.
func (s *Service) CSV(ctx context.Context, manager string, rt model.ReportType) (string, error) {
	u, err := s.store.GetReportCSV(ctx, manager, rt)
	if err != nil {
		return "", eris.Wrap(err, "dashboard: load report csv")
	}
	if u == nil {
		zap.L().Debug("no upload, using sample csv",
			zap.String("manager", manager),
			zap.String("type", string(rt)),
		)
		return SampleCSV(rt), nil
	}
	return u.CSV, nil
}

// Refresh rebuilds the report for manager and rt and stores it as the last
// good snapshot. When the build fails the previous snapshot (possibly nil) is
// returned with an error wrapping ErrProcessingFailed.
func (s *Service) Refresh(ctx context.Context, manager string, rt model.ReportType) (*model.Snapshot, error) {
	if !rt.Valid() {
		return nil, eris.Errorf("dashboard: unknown report type %q", rt)
	}

	r, err := s.build(ctx, manager, rt)
	if err != nil {
		zap.L().Error("report build failed, serving last snapshot",
			zap.String("manager", manager),
			zap.String("type", string(rt)),
			zap.Error(err),
		)
		prev, perr := s.store.GetSnapshot(ctx, manager, rt)
		if perr != nil {
			zap.L().Warn("load last snapshot", zap.Error(perr))
			prev = nil
		}
		return prev, eris.Wrapf(ErrProcessingFailed, "%s/%s: %v", manager, rt, err)
	}

	snap := &model.Snapshot{
		Manager:    manager,
		ReportType: rt,
		Report:     r,
		CreatedAt:  s.now(),
	}
	err = s.write(ctx, "save snapshot", func(ctx context.Context) error {
		return s.store.SaveSnapshot(ctx, snap)
	})
	if err != nil {
		return snap, eris.Wrap(err, "dashboard: save snapshot")
	}

	zap.L().Info("report built",
		zap.String("manager", manager),
		zap.String("type", string(rt)),
		zap.Int("cities", r.Len()),
		zap.Int("dealers", r.DealerCount()),
	)
	return snap, nil
}

func (s *Service) retryFor(operation string) resilience.RetryConfig {
	cfg := s.retry
	cfg.OnRetry = resilience.RetryLogger(operation)
	return cfg
}

func (s *Service) write(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	return resilience.Do(ctx, s.retryFor(operation), fn)
}

func (s *Service) build(ctx context.Context, manager string, rt model.ReportType) (*model.CityReport, error) {
	attr, err := s.Attribution(ctx)
	if err != nil {
		return nil, err
	}
	text, err := s.CSV(ctx, manager, rt)
	if err != nil {
		return nil, err
	}
	return s.safeProcess(text, rt, attr, manager)
}

func (s *Service) safeProcess(text string, rt model.ReportType, attr model.AttributionMap, manager string) (r *model.CityReport, err error) {
	defer func() {
		if p := recover(); p != nil {
			r = nil
			err = eris.Errorf("panic: %v", p)
		}
	}()
	r = s.process(text, rt, attr, manager)
	if r == nil {
		return nil, eris.New("no report produced")
	}
	return r, nil
}
