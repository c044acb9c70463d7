package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/tagcount/internal/model"
)

// Step is one stage of a run.
type Step interface {
	// Do executes the step, reading and updating result.
	// A returned error stops the pipeline.
	Do(ctx context.Context, result *model.Result) error

	// Name returns the step's name for logging and PerformedSteps.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends several steps.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps in order. It stops at the first failing step,
// stores the error on result and returns it. Cancellation is checked before
// each step; a step in flight observes ctx itself.
func (p *Pipeline) Execute(ctx context.Context, result *model.Result) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled", "step", step.Name(), "reason", err)
			p.fail(result, err)
			return err
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"url", result.URL,
			"tag", result.Tag,
		)

		if err := step.Do(ctx, result); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"url", result.URL,
				"error", err,
			)
			p.fail(result, err)
			return err
		}

		p.logger.Debug("step completed", "step", step.Name())
		result.PerformedSteps = append(result.PerformedSteps, step.Name())
	}
	return nil
}

// fail records err on result.
func (p *Pipeline) fail(result *model.Result, err error) {
	result.Error = err
	result.ErrorMessage = err.Error()
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
