package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/tagcount/internal/classify"
	"github.com/nao1215/tagcount/internal/counter"
	"github.com/nao1215/tagcount/internal/fetch"
	"github.com/nao1215/tagcount/internal/model"
	"github.com/nao1215/tagcount/internal/report"
)

// Step names.
const (
	StepFetch    = "fetch"
	StepCount    = "count"
	StepClassify = "classify"
	StepReport   = "report"
	StepRecord   = "record"
)

// FetchStep downloads the page and stores its body, status and digest.
type FetchStep struct {
	fetcher fetch.Fetcher
	logger  *slog.Logger
}

// NewFetchStep creates a FetchStep.
func NewFetchStep(fetcher fetch.Fetcher, logger *slog.Logger) *FetchStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &FetchStep{fetcher: fetcher, logger: logger}
}

// Name returns the step name.
func (s *FetchStep) Name() string { return StepFetch }

// Do fetches result.URL.
func (s *FetchStep) Do(ctx context.Context, result *model.Result) error {
	page, err := s.fetcher.Fetch(ctx, result.URL)
	if err != nil {
		return err
	}

	result.StatusCode = page.StatusCode
	result.ContentType = page.ContentType
	result.Body = page.Body
	result.BodyDigest = model.Digest(page.Body)

	s.logger.Debug("page fetched",
		"url", result.URL,
		"status", page.StatusCode,
		"bytes", len(page.Body),
		"digest", result.BodyDigest,
	)
	return nil
}

// CountStep counts result.Tag in the fetched body with a pinned strategy.
type CountStep struct {
	strategy counter.Strategy
}

// NewCountStep creates a CountStep for strategy.
func NewCountStep(strategy counter.Strategy) *CountStep {
	return &CountStep{strategy: strategy}
}

// Name returns the step name.
func (s *CountStep) Name() string { return StepCount }

// Do counts the elements.
func (s *CountStep) Do(_ context.Context, result *model.Result) error {
	n, err := counter.Count(result.Body, result.Tag, s.strategy)
	if err != nil {
		return err
	}
	result.Count = n
	result.Parser = s.strategy.String()
	return nil
}

// ClassifyStep computes the divisor set of result.Count.
type ClassifyStep struct {
	classifier *classify.Classifier
}

// NewClassifyStep creates a ClassifyStep.
func NewClassifyStep(classifier *classify.Classifier) *ClassifyStep {
	return &ClassifyStep{classifier: classifier}
}

// Name returns the step name.
func (s *ClassifyStep) Name() string { return StepClassify }

// Do classifies the count.
func (s *ClassifyStep) Do(_ context.Context, result *model.Result) error {
	set, err := s.classifier.Classify(result.Count)
	if err != nil {
		return err
	}
	result.Divisors = set.Ints()
	result.Label = set.Label()
	return nil
}

// ReportStep appends the report line to the log file and prints it.
type ReportStep struct {
	reporter *report.Reporter
}

// NewReportStep creates a ReportStep.
func NewReportStep(reporter *report.Reporter) *ReportStep {
	return &ReportStep{reporter: reporter}
}

// Name returns the step name.
func (s *ReportStep) Name() string { return StepReport }

// Do reports the result.
func (s *ReportStep) Do(_ context.Context, result *model.Result) error {
	return s.reporter.ReportResult(result)
}

// ResultStore persists completed runs.
type ResultStore interface {
	SaveResult(ctx context.Context, result *model.Result) (int64, error)
}

// RecordStep saves the result to the history store.
type RecordStep struct {
	store  ResultStore
	logger *slog.Logger
}

// NewRecordStep creates a RecordStep.
func NewRecordStep(store ResultStore, logger *slog.Logger) *RecordStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordStep{store: store, logger: logger}
}

// Name returns the step name.
func (s *RecordStep) Name() string { return StepRecord }

// Do records the result.
func (s *RecordStep) Do(ctx context.Context, result *model.Result) error {
	id, err := s.store.SaveResult(ctx, result)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	s.logger.Info("run recorded", "id", id, "url", result.URL, "tag", result.Tag)
	return nil
}

// Dependencies are the components of the default pipeline.
type Dependencies struct {
	// Fetcher downloads the page.
	Fetcher fetch.Fetcher

	// Strategy is the pinned counting strategy.
	Strategy counter.Strategy

	// Classifier computes the divisor set.
	Classifier *classify.Classifier

	// Reporter writes the report line.
	Reporter *report.Reporter

	// Store records the run when not nil.
	Store ResultStore

	// Logger is used by the pipeline and its steps.
	Logger *slog.Logger
}

// DefaultPipeline builds fetch → count → classify → report, followed by
// record when deps.Store is set.
func DefaultPipeline(deps Dependencies) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p := New(WithLogger(logger))
	p.AddSteps(
		NewFetchStep(deps.Fetcher, logger),
		NewCountStep(deps.Strategy),
		NewClassifyStep(deps.Classifier),
		NewReportStep(deps.Reporter),
	)
	if deps.Store != nil {
		p.AddStep(NewRecordStep(deps.Store, logger))
	}
	return p
}
