package volume

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/2beens/hypertrophytoolbox/internal/telemetry/metrics"
	"github.com/2beens/hypertrophytoolbox/internal/telemetry/tracing"
	"github.com/2beens/hypertrophytoolbox/internal/training/catalog"
	"github.com/2beens/hypertrophytoolbox/internal/training/entries"
)

var ErrStoreUnavailable = errors.New("store unavailable")

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=volume_test

type EntryStore interface {
	ListEntries(ctx context.Context, source entries.Source, filter entries.Filter) ([]entries.Entry, error)
}

type ExerciseCatalog interface {
	LookupMany(ctx context.Context, names []string) (map[string]catalog.ExerciseDefinition, error)
	KnownMuscleGroups(ctx context.Context) ([]catalog.MuscleGroup, error)
}

type SummaryParams struct {
	Source string
	Method string
	Filter entries.Filter
	// IncludeAllMuscleGroups zero fills the result against every known
	// muscle group.
	IncludeAllMuscleGroups bool
}

type Service struct {
	entryStore     EntryStore
	catalog        ExerciseCatalog
	classifier     *Classifier
	weights        Weights
	metricsManager *metrics.Manager
}

// NewService creates the volume service. metricsManager can be nil.
func NewService(
	entryStore EntryStore,
	catalog ExerciseCatalog,
	classifier *Classifier,
	weights Weights,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		entryStore:     entryStore,
		catalog:        catalog,
		classifier:     classifier,
		weights:        weights,
		metricsManager: metricsManager,
	}
}

// snapshot is everything a computation needs, read from the stores before
// any aggregation starts.
type snapshot struct {
	source    entries.Source
	method    Method
	rawMethod string
	entries   []entries.Entry
	defs      map[string]catalog.ExerciseDefinition
	universe  []catalog.MuscleGroup
	fillAll   bool
}

func (s snapshot) options(w Weights) AggregateOptions {
	opts := AggregateOptions{
		Method:  s.method,
		Weights: w,
	}
	if s.fillAll {
		opts.MuscleGroups = s.universe
	}
	return opts
}

func (s snapshot) methodValid() bool {
	return s.rawMethod == ""
}

func (s *Service) load(ctx context.Context, params SummaryParams) (_ snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "volume.service.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	source, err := entries.ParseSource(params.Source)
	if err != nil {
		return snapshot{}, err
	}
	if err := params.Filter.ValidFor(source); err != nil {
		return snapshot{}, err
	}

	snap := snapshot{
		source:  source,
		fillAll: params.IncludeAllMuscleGroups,
	}
	method, ok := ParseMethod(params.Method)
	snap.method = method
	if !ok {
		snap.rawMethod = params.Method
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.entryStore.ListEntries(gCtx, source, params.Filter)
		if err != nil {
			return fmt.Errorf("%w: list %s entries: %w", ErrStoreUnavailable, source, err)
		}
		snap.entries = list
		return nil
	})
	g.Go(func() error {
		universe, err := s.catalog.KnownMuscleGroups(gCtx)
		if err != nil {
			return fmt.Errorf("%w: known muscle groups: %w", ErrStoreUnavailable, err)
		}
		snap.universe = universe
		return nil
	})
	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}

	names := make([]string, 0, len(snap.entries))
	for _, e := range snap.entries {
		names = append(names, e.Exercise)
	}
	defs, err := s.catalog.LookupMany(ctx, catalog.DistinctNames(names))
	if err != nil {
		return snapshot{}, fmt.Errorf("%w: lookup exercises: %w", ErrStoreUnavailable, err)
	}
	snap.defs = defs

	return snap, nil
}

func (s *Service) ComputeVolumeSummary(ctx context.Context, params SummaryParams) (*ClassifiedSummary, error) {
	start := time.Now()
	snap, err := s.load(ctx, params)
	if err != nil {
		return nil, err
	}

	summary := Aggregate(snap.entries, snap.defs, snap.options(s.weights))
	if !snap.methodValid() {
		summary.Diagnostics.markInvalidMethod(snap.rawMethod)
	}

	classified := s.classifier.ClassifySummary(summary, snap.universe)
	s.observe("summary", snap, classified.Diagnostics, start)
	return &classified, nil
}

// ComputeSessionSummary computes the volume of every routine on its own.
func (s *Service) ComputeSessionSummary(ctx context.Context, params SummaryParams) (*SessionSummary, error) {
	start := time.Now()
	snap, err := s.load(ctx, params)
	if err != nil {
		return nil, err
	}

	routines, diag := AggregateByRoutine(snap.entries, snap.defs, snap.options(s.weights))
	if !snap.methodValid() {
		diag.markInvalidMethod(snap.rawMethod)
	}

	summary := s.classifier.ClassifyRoutines(snap.method, routines, diag, snap.universe)
	s.observe("sessions", snap, summary.Diagnostics, start)
	return &summary, nil
}

func (s *Service) ComputeCategorySummary(ctx context.Context, params SummaryParams) (*CategorySummary, error) {
	start := time.Now()
	snap, err := s.load(ctx, params)
	if err != nil {
		return nil, err
	}

	summary := SummarizeCategories(snap.entries, snap.defs)
	s.observe("categories", snap, summary.Diagnostics, start)
	return &summary, nil
}

func (s *Service) ComputeIsolatedSummary(ctx context.Context, params SummaryParams) (*IsolatedSummary, error) {
	start := time.Now()
	snap, err := s.load(ctx, params)
	if err != nil {
		return nil, err
	}

	summary := SummarizeIsolated(snap.entries, snap.defs, snap.options(s.weights))
	if !snap.methodValid() {
		summary.Diagnostics.markInvalidMethod(snap.rawMethod)
	}

	s.observe("isolated", snap, summary.Diagnostics, start)
	return &summary, nil
}

// Export computes the volume, category and isolated muscle tables over a
// single read of the stores.
func (s *Service) Export(ctx context.Context, params SummaryParams) (*Export, Diagnostics, error) {
	start := time.Now()
	snap, err := s.load(ctx, params)
	if err != nil {
		return nil, Diagnostics{}, err
	}

	opts := snap.options(s.weights)
	summary := Aggregate(snap.entries, snap.defs, opts)
	if !snap.methodValid() {
		summary.Diagnostics.markInvalidMethod(snap.rawMethod)
	}
	classified := s.classifier.ClassifySummary(summary, snap.universe)

	export := &Export{
		Volume:     classified.Rows(),
		Categories: SummarizeCategories(snap.entries, snap.defs).Rows(),
		Isolated:   SummarizeIsolated(snap.entries, snap.defs, opts).Rows(),
	}

	s.observe("export", snap, classified.Diagnostics, start)
	return export, classified.Diagnostics, nil
}

func (s *Service) Classify(value float64, role string) (Classification, error) {
	r, err := ParseRole(role)
	if err != nil {
		return Classification{}, err
	}
	return s.classifier.Classify(value, r), nil
}

func (s *Service) observe(kind string, snap snapshot, diag Diagnostics, start time.Time) {
	if diag.Degraded() {
		log.WithFields(log.Fields{
			"kind":       kind,
			"source":     snap.source,
			"unresolved": diag.UnresolvedEntries,
			"malformed":  diag.MalformedEntries,
			"method":     diag.InvalidMethod,
		}).Warnf("degraded volume %s: %v", kind, diag.Warnings)
	} else {
		log.Debugf("volume %s computed from %d entries", kind, diag.TotalEntries)
	}

	if s.metricsManager == nil {
		return
	}
	s.metricsManager.CounterSummaries.WithLabelValues(kind, string(snap.source), string(snap.method)).Inc()
	s.metricsManager.HistSummaryDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	s.metricsManager.CounterUnresolvedEntries.Add(float64(diag.UnresolvedEntries))
	s.metricsManager.CounterMalformedEntries.Add(float64(diag.MalformedEntries))
	if diag.InvalidMethod != "" {
		s.metricsManager.CounterInvalidMethods.Inc()
	}
}
