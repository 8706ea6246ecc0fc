package kamu

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stevedipaola/f-kamu-cli/pkg/errors"
	"github.com/stevedipaola/f-kamu-cli/pkg/kamu/status"
)

// recordingRunner captures invocations instead of executing them, and may
// fail the nth invocation.
type recordingRunner struct {
	cmds   []Command
	failAt int // 1-based, 0 for never
	err    error
}

func (r *recordingRunner) Run(_ context.Context, cmd Command) error {
	r.cmds = append(r.cmds, cmd)
	if r.failAt > 0 && len(r.cmds) == r.failAt {
		if r.err != nil {
			return r.err
		}
		return status.ErrToolFailed
	}
	return nil
}

func TestInit(t *testing.T) {
	rec := &recordingRunner{}
	cli := New(WithRunner(rec), WorkDir("demo"))

	require.NoError(t, cli.Init(context.Background()))
	require.Len(t, rec.cmds, 1)
	require.Equal(t, "kamu", rec.cmds[0].Binary)
	require.Equal(t, []string{"init"}, rec.cmds[0].Args)
	require.Equal(t, "demo", rec.cmds[0].Dir)
}

func TestAdd(t *testing.T) {
	rec := &recordingRunner{}
	cli := New(WithRunner(rec))

	require.NoError(t, cli.Add(context.Background(),
		"datasets/a.yaml", "datasets/b.yaml"))
	require.Len(t, rec.cmds, 1)
	require.Equal(t, []string{"add", "datasets/a.yaml", "datasets/b.yaml"},
		rec.cmds[0].Args)

	err := cli.Add(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, status.ErrNoManifests))
	require.Len(t, rec.cmds, 1, "an invalid add does not invoke the tool")
}

func TestPull(t *testing.T) {
	rec := &recordingRunner{}
	cli := New(WithRunner(rec))
	ctx := context.Background()

	require.NoError(t, cli.Pull(ctx, []string{"my.dataset", "my.other"}))
	require.Equal(t, []string{"pull", "my.dataset", "my.other"}, rec.cmds[0].Args)

	require.NoError(t, cli.Pull(ctx, []string{"s3://datasets.example.org/feed"}))
	require.Equal(t, []string{"pull", "s3://datasets.example.org/feed"}, rec.cmds[1].Args)

	require.NoError(t, cli.PullAll(ctx))
	require.Equal(t, []string{"pull", "--all"}, rec.cmds[2].Args)
}

func TestPullWatermark(t *testing.T) {
	rec := &recordingRunner{}
	cli := New(WithRunner(rec))
	ctx := context.Background()

	loc := time.FixedZone("UTC+2", 2*3600)
	instant := time.Date(2026, 8, 21, 11, 30, 0, 0, loc)

	require.NoError(t, cli.Pull(ctx, []string{"my.dataset"}, SetWatermark(instant)))
	require.Equal(t,
		[]string{"pull", "my.dataset", "--set-watermark", "2026-08-21T09:30:00Z"},
		rec.cmds[0].Args, "watermarks are rendered in RFC 3339 UTC")
}

func TestPullValidation(t *testing.T) {
	rec := &recordingRunner{}
	cli := New(WithRunner(rec))
	ctx := context.Background()

	err := cli.Pull(ctx, nil)
	require.True(t, errors.Is(err, status.ErrNoRefs))

	err = cli.Pull(ctx, []string{"my.dataset"}, All())
	require.True(t, errors.Is(err, status.ErrAmbiguousPull))

	err = cli.Pull(ctx, []string{"a", "b"}, SetWatermark(time.Now()))
	require.True(t, errors.Is(err, status.ErrWatermarkTarget))

	err = cli.Pull(ctx, nil, All(), SetWatermark(time.Now()))
	require.True(t, errors.Is(err, status.ErrWatermarkTarget))

	require.Empty(t, rec.cmds, "invalid pulls do not invoke the tool")
}

func TestRunnerFailurePropagates(t *testing.T) {
	rec := &recordingRunner{failAt: 1}
	cli := New(WithRunner(rec), Binary("kamu-next"))

	err := cli.Init(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, status.ErrToolFailed))
	require.Equal(t, "kamu-next", rec.cmds[0].Binary)
}
