package kamu

import (
	"context"
	"testing"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInstrumentedRunner(t *testing.T) {
	tr := mocktracer.New()
	rec := &recordingRunner{}
	r := Instrument(tr, zap.NewNop(), rec)

	err := r.Run(context.Background(), Command{
		Binary: "kamu",
		Args:   []string{"pull", "--all"},
	})
	require.NoError(t, err)
	require.Len(t, rec.cmds, 1)

	spans := tr.FinishedSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "tool.pull", spans[0].OperationName)
	assert.Nil(t, spans[0].Tag("error"))
}

func TestInstrumentedRunnerFailure(t *testing.T) {
	tr := mocktracer.New()
	rec := &recordingRunner{failAt: 1}
	r := Instrument(tr, zap.NewNop(), rec)

	err := r.Run(context.Background(), Command{
		Binary: "kamu",
		Args:   []string{"init"},
	})
	require.Error(t, err)

	spans := tr.FinishedSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "tool.init", spans[0].OperationName)
	assert.Equal(t, true, spans[0].Tag("error"))
}

func TestInstrumentedRunnerParentSpan(t *testing.T) {
	tr := mocktracer.New()
	rec := &recordingRunner{}
	r := Instrument(tr, zap.NewNop(), rec)

	parent := tr.StartSpan("bootstrap")
	ctx := opentracing.ContextWithSpan(context.Background(), parent)

	require.NoError(t, r.Run(ctx, Command{Binary: "kamu", Args: []string{"add", "x"}}))
	parent.Finish()

	spans := tr.FinishedSpans()
	require.Len(t, spans, 2)
	child, root := spans[0], spans[1]
	assert.Equal(t, "tool.add", child.OperationName)
	assert.Equal(t, root.SpanContext.SpanID, child.ParentID)
}
