package seed

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevedipaola/f-kamu-cli/pkg/bootstrap"
	"github.com/stevedipaola/f-kamu-cli/pkg/errors"
	"github.com/stevedipaola/f-kamu-cli/pkg/kamu"
	"github.com/stevedipaola/f-kamu-cli/pkg/model"
	"github.com/stevedipaola/f-kamu-cli/pkg/workspace"
)

// recordingRunner captures tool invocations instead of executing them, and
// may fail the nth invocation.
type recordingRunner struct {
	cmds   []kamu.Command
	failAt int // 1-based, 0 for never
}

var errStubFailure = errors.New("stub invocation failure")

func (r *recordingRunner) Run(_ context.Context, cmd kamu.Command) error {
	r.cmds = append(r.cmds, cmd)
	if r.failAt > 0 && len(r.cmds) == r.failAt {
		return errStubFailure
	}
	return nil
}

func (r *recordingRunner) argv() [][]string {
	out := make([][]string, 0, len(r.cmds))
	for _, cmd := range r.cmds {
		out = append(out, cmd.Args)
	}
	return out
}

func tickingClock(start time.Time, step time.Duration) (Clock, *int) {
	calls := new(int)
	return func() time.Time {
		t := start.Add(time.Duration(*calls) * step)
		*calls++
		return t
	}, calls
}

func testBuilder(t *testing.T, plan model.Plan, rec *recordingRunner, opts ...Option) (*Builder, afero.Fs) {
	fs := afero.NewMemMapFs()
	ws := workspace.New(plan.Workspace, workspace.WithFs(fs))
	cli := kamu.New(kamu.WithRunner(rec), kamu.WorkDir(ws.Dir()))
	return NewBuilder(plan, ws, cli, opts...), fs
}

func stale(t *testing.T, fs afero.Fs, path string) {
	require.NoError(t, fs.MkdirAll(filepath.Join(path, "datasets"), 0755))
	require.NoError(t, afero.WriteFile(fs,
		filepath.Join(path, "version"), []byte("1\n"), 0644))
}

func TestUpRunsEveryInvocationInOrder(t *testing.T) {
	rec := &recordingRunner{}
	clock, _ := tickingClock(time.Date(2026, 8, 21, 9, 30, 0, 0, time.UTC), time.Second)
	b, fs := testBuilder(t, model.DefaultPlan(), rec, WithClock(clock))
	stale(t, fs, b.ws.Path())

	require.NoError(t, b.Up(context.Background()))

	require.Equal(t, [][]string{
		{"init"},
		{"pull", "s3://datasets.kamu.dev/odf/v2/contrib/com.cryptocompare.ohlcv.eth-usd"},
		{"pull", "s3://datasets.kamu.dev/odf/v2/contrib/co.alphavantage.tickers.daily.spy"},
		{"add",
			"datasets/my.trading.transactions.eth.yaml",
			"datasets/my.trading.transactions.spy.yaml",
			"datasets/my.trading.transactions.yaml",
			"datasets/my.trading.holdings.yaml",
			"datasets/my.trading.holdings.market-value.yaml",
		},
		{"pull", "my.trading.transactions.eth", "my.trading.transactions.spy"},
		{"pull", "my.trading.transactions", "--set-watermark", "2026-08-21T09:30:00Z"},
		{"pull", "my.trading.holdings", "--set-watermark", "2026-08-21T09:30:01Z"},
		{"pull", "--all"},
	}, rec.argv())

	for _, cmd := range rec.cmds {
		assert.Equal(t, "kamu", cmd.Binary)
		assert.Equal(t, ".", cmd.Dir, "the tool runs where the workspace lives")
	}

	exists, err := afero.DirExists(fs, b.ws.Path())
	require.NoError(t, err)
	assert.False(t, exists, "the stale workspace was destroyed first")
}

func TestUpFailsFast(t *testing.T) {
	rec := &recordingRunner{failAt: 3} // the second remote pull
	b, _ := testBuilder(t, model.DefaultPlan(), rec)

	var seen []bootstrap.Progress
	err := b.Up(context.Background(),
		bootstrap.WithObserver(func(p bootstrap.Progress) { seen = append(seen, p) }),
	)
	require.Error(t, err)

	var stepErr *bootstrap.StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, "pull-remote-2", stepErr.Step)
	assert.True(t, errors.Is(err, errStubFailure))

	require.Len(t, rec.cmds, 3, "no invocation after the failed one")
	for _, cmd := range rec.cmds {
		assert.NotEqual(t, "add", cmd.Args[0], "datasets were never registered")
	}

	// reset, init, pull-remote-1 succeeded; pull-remote-2 is reported failed
	require.Len(t, seen, 4)
	assert.Equal(t, "pull-remote-2", seen[3].Step)
	assert.Error(t, seen[3].Err)
	assert.NoError(t, seen[2].Err)
}

func TestWatermarksAreIndependentReadings(t *testing.T) {
	rec := &recordingRunner{}
	clock, calls := tickingClock(time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC), 3*time.Second)
	b, _ := testBuilder(t, model.DefaultPlan(), rec, WithClock(clock))

	seq, err := b.Sequence()
	require.NoError(t, err)
	assert.Zero(t, *calls, "building the sequence does not read the clock")

	require.NoError(t, seq.Run(context.Background()))
	assert.Equal(t, 2, *calls, "one reading per watermark stage")

	var watermarks []string
	for _, cmd := range rec.cmds {
		for i, arg := range cmd.Args {
			if arg == "--set-watermark" {
				watermarks = append(watermarks, cmd.Args[i+1])
			}
		}
	}
	require.Len(t, watermarks, 2)
	assert.Equal(t, "2026-08-21T12:00:00Z", watermarks[0])
	assert.Equal(t, "2026-08-21T12:00:03Z", watermarks[1])
	assert.NotEqual(t, watermarks[0], watermarks[1])
}

func TestUpIsRepeatable(t *testing.T) {
	rec := &recordingRunner{}
	b, fs := testBuilder(t, model.DefaultPlan(), rec)

	// first run starts from a blank environment: nothing to remove
	require.NoError(t, b.Up(context.Background()))
	require.Len(t, rec.cmds, 8)

	// second run removes whatever the first one left behind
	stale(t, fs, b.ws.Path())
	require.NoError(t, b.Up(context.Background()))
	require.Len(t, rec.cmds, 16)
}

func TestSequenceShape(t *testing.T) {
	rec := &recordingRunner{}
	b, _ := testBuilder(t, model.DefaultPlan(), rec)

	seq, err := b.Sequence()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"reset",
		"init",
		"pull-remote-1",
		"pull-remote-2",
		"add",
		"pull-stage-1",
		"pull-stage-2",
		"pull-stage-3",
		"pull-all",
	}, seq.Names())
	assert.Empty(t, rec.cmds, "building a sequence invokes nothing")

	steps := seq.Steps()
	assert.Equal(t, "rm -rf .kamu", steps[0].Summary)
	assert.Equal(t, "kamu pull my.trading.transactions --set-watermark <now>", steps[6].Summary)
}

func TestSequenceRejectsInvalidPlan(t *testing.T) {
	plan := model.DefaultPlan()
	plan.Stages = append(plan.Stages, model.PullStage{
		Datasets:     []string{"a", "b"},
		SetWatermark: true,
	})
	rec := &recordingRunner{}
	b, _ := testBuilder(t, plan, rec)

	_, err := b.Sequence()
	require.Error(t, err)

	err = b.Up(context.Background())
	require.Error(t, err)
	assert.Empty(t, rec.cmds)
}

func TestMinimalPlan(t *testing.T) {
	plan := model.Plan{
		Version:   model.PlanVersion,
		Workspace: filepath.Join("demo", ".kamu"),
	}
	rec := &recordingRunner{}
	b, _ := testBuilder(t, plan, rec)

	require.NoError(t, b.Up(context.Background()))
	require.Equal(t, [][]string{{"init"}}, rec.argv(),
		"a plan with no remotes, manifests or stages still resets and initializes")
}
