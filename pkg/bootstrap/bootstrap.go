// Package bootstrap executes a sequence of named steps strictly in order.
//
// Execution is deliberately sequential and fail-fast: a step runs only
// after the previous one succeeded, there is no retry, and the first
// failure stops the sequence. Observers receive progress after every step,
// including the failed one.
package bootstrap

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Func is the unit of work a step executes.
type Func func(ctx context.Context) error

// NoOp is a Func that does nothing.
func NoOp(_ context.Context) error {
	return nil
}

// Step pairs a unique name with the work it performs. The summary
// describes the effect of the step for display purposes.
type Step struct {
	Name    string
	Summary string
	Run     Func
}

// Progress reports one completed step.
//
// Progress satisfies the error interface, yielding the step failure, if
// any: Err is nil when the step succeeded.
type Progress struct {
	Step    string
	Index   int // zero-based position in the sequence
	Total   int
	Elapsed time.Duration
	Err     error
}

// Error returns the step failure message, or the empty string on success.
func (p Progress) Error() string {
	if p.Err == nil {
		return ""
	}
	return p.Err.Error()
}

// Observer receives progress after each step completes.
type Observer func(Progress)

// Option is a functional option for a sequence
type Option func(*Sequence)

// Logger overrides the zap logger used while running the sequence
func Logger(l *zap.Logger) Option {
	return func(s *Sequence) {
		if l != nil {
			s.l = l
		}
	}
}

// WithObserver registers an observer notified after each step
func WithObserver(o Observer) Option {
	return func(s *Sequence) {
		s.observer = o
	}
}

// Sequence is an ordered list of named steps.
type Sequence struct {
	name     string
	steps    []Step
	l        *zap.Logger
	observer Observer
}

// New creates a named, empty sequence.
func New(name string, opts ...Option) *Sequence {
	s := &Sequence{
		name: name,
		l:    zap.NewNop(),
	}
	for _, apply := range opts {
		apply(s)
	}
	return s
}

// Append adds a step at the end of the sequence. Append returns the
// sequence so registrations can be chained.
func (s *Sequence) Append(name, summary string, run Func) *Sequence {
	s.steps = append(s.steps, Step{Name: name, Summary: summary, Run: run})
	return s
}

// Name returns the sequence name.
func (s *Sequence) Name() string {
	return s.name
}

// Len returns the number of registered steps.
func (s *Sequence) Len() int {
	return len(s.steps)
}

// Names returns the step names in execution order.
func (s *Sequence) Names() []string {
	names := make([]string, 0, len(s.steps))
	for _, step := range s.steps {
		names = append(names, step.Name)
	}
	return names
}

// Steps returns a copy of the registered steps in execution order.
func (s *Sequence) Steps() []Step {
	steps := make([]Step, len(s.steps))
	copy(steps, s.steps)
	return steps
}

// String renders the execution order of the sequence.
func (s *Sequence) String() string {
	return strings.Join(s.Names(), " > ")
}

// Validate verifies that the sequence can run: at least one step, unique
// step names, no nil functions.
func (s *Sequence) Validate() error {
	if len(s.steps) == 0 {
		return EmptySequenceError(s.name)
	}
	seen := make(map[string]struct{}, len(s.steps))
	for _, step := range s.steps {
		if step.Run == nil {
			return NilFuncError(step.Name)
		}
		if _, ok := seen[step.Name]; ok {
			return DuplicateStepError(step.Name)
		}
		seen[step.Name] = struct{}{}
	}
	return nil
}

// Run executes the steps in registration order, stopping at the first
// failure. The error of a failed step is returned as a *StepError. A
// canceled context stops the sequence before the next step starts.
func (s *Sequence) Run(ctx context.Context) error {
	if err := s.Validate(); err != nil {
		return err
	}

	total := len(s.steps)
	s.l.Info("sequence starting",
		zap.String("sequence", s.name),
		zap.Int("steps", total),
	)

	for i, step := range s.steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		t0 := time.Now()
		err := step.Run(ctx)
		elapsed := time.Since(t0)

		s.notify(Progress{
			Step:    step.Name,
			Index:   i,
			Total:   total,
			Elapsed: elapsed,
			Err:     err,
		})

		if err != nil {
			s.l.Error("step failed",
				zap.String("sequence", s.name),
				zap.String("step", step.Name),
				zap.Int("index", i),
				zap.Duration("elapsed", elapsed),
				zap.Error(err),
			)
			return &StepError{Step: step.Name, Index: i, Total: total, Err: err}
		}

		s.l.Info("step complete",
			zap.String("sequence", s.name),
			zap.String("step", step.Name),
			zap.Int("index", i),
			zap.Duration("elapsed", elapsed),
		)
	}

	s.l.Info("sequence complete", zap.String("sequence", s.name))
	return nil
}

func (s *Sequence) notify(p Progress) {
	if s.observer != nil {
		s.observer(p)
	}
}
