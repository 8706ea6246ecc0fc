package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevedipaola/f-kamu-cli/pkg/errors"
)

func TestValidate(t *testing.T) {
	err := New("empty").Run(context.Background())
	require.Error(t, err)
	var emptyErr EmptySequenceError
	require.True(t, errors.As(err, &emptyErr))

	s := New("dup").
		Append("a", "", NoOp).
		Append("a", "", NoOp)
	err = s.Validate()
	var dupErr DuplicateStepError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, "a", string(dupErr))

	s = New("nil").Append("a", "", nil)
	err = s.Validate()
	var nilErr NilFuncError
	require.True(t, errors.As(err, &nilErr))

	s = New("ok").Append("a", "", NoOp).Append("b", "", NoOp)
	require.NoError(t, s.Validate())
}

func TestRunOrder(t *testing.T) {
	var ran []string
	mark := func(name string) Func {
		return func(context.Context) error {
			ran = append(ran, name)
			return nil
		}
	}

	s := New("demo").
		Append("first", "", mark("first")).
		Append("second", "", mark("second")).
		Append("third", "", mark("third"))

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, []string{"first", "second", "third"}, ran)
}

func TestRunFailFast(t *testing.T) {
	var ran []string
	boom := errors.New("boom")

	s := New("demo").
		Append("first", "", func(context.Context) error {
			ran = append(ran, "first")
			return nil
		}).
		Append("second", "", func(context.Context) error {
			ran = append(ran, "second")
			return boom
		}).
		Append("third", "", func(context.Context) error {
			ran = append(ran, "third")
			return nil
		})

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"first", "second"}, ran,
		"steps after the failed one do not run")

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, "second", stepErr.Step)
	assert.Equal(t, 1, stepErr.Index)
	assert.Equal(t, 3, stepErr.Total)
	assert.True(t, errors.Is(err, boom), "the cause stays reachable")
	assert.Contains(t, err.Error(), "step 2/3 (second)")
}

func TestObserver(t *testing.T) {
	var seen []Progress
	boom := errors.New("boom")

	s := New("demo",
		WithObserver(func(p Progress) { seen = append(seen, p) }),
	).
		Append("first", "", NoOp).
		Append("second", "", func(context.Context) error { return boom })

	err := s.Run(context.Background())
	require.Error(t, err)

	require.Len(t, seen, 2, "the failed step is reported too")
	assert.Equal(t, "first", seen[0].Step)
	assert.NoError(t, seen[0].Err)
	assert.Empty(t, seen[0].Error())
	assert.Equal(t, 0, seen[0].Index)
	assert.Equal(t, 2, seen[0].Total)

	assert.Equal(t, "second", seen[1].Step)
	assert.True(t, errors.Is(seen[1].Err, boom))
	assert.Equal(t, "boom", seen[1].Error())
}

func TestRunCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var ran []string

	s := New("demo").
		Append("first", "", func(context.Context) error {
			ran = append(ran, "first")
			cancel()
			return nil
		}).
		Append("second", "", func(context.Context) error {
			ran = append(ran, "second")
			return nil
		})

	err := s.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, []string{"first"}, ran,
		"no further step starts after cancellation")
}

func TestSequenceIntrospection(t *testing.T) {
	s := New("demo").
		Append("reset", "rm -rf .kamu", NoOp).
		Append("init", "kamu init", NoOp)

	assert.Equal(t, "demo", s.Name())
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"reset", "init"}, s.Names())
	assert.Equal(t, "reset > init", s.String())

	steps := s.Steps()
	require.Len(t, steps, 2)
	assert.Equal(t, "kamu init", steps[1].Summary)

	steps[0].Name = "mutated"
	assert.Equal(t, "reset", s.Names()[0], "Steps returns a copy")
}
