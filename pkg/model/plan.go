package model

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

// PlanVersion is the current version of the bootstrap plan descriptor.
const PlanVersion = 1

// DefaultWorkspace is the metadata directory the dataset tool manages when
// no other location is configured.
const DefaultWorkspace = ".kamu"

// RemoteSource identifies a dataset hosted outside the workspace,
// retrieved by URL.
type RemoteSource struct {
	URL string `json:"url" yaml:"url"` // URL of the remote dataset (e.g. an s3:// location)
	_   struct{}
}

// PullStage groups dataset references updated by a single tool invocation.
//
// When SetWatermark is true the stage advances the watermark of its dataset
// to the wall-clock time observed when the stage starts. A watermark stage
// holds exactly one dataset.
type PullStage struct {
	Datasets     []string `json:"datasets" yaml:"datasets"`
	SetWatermark bool     `json:"setWatermark,omitempty" yaml:"setWatermark,omitempty"`
	_            struct{}
}

// Plan describes a complete bootstrap: the workspace to (re)create, remote
// datasets to pull, local dataset manifests to register, staged pulls to
// run in order, and whether to finish with a pull of everything.
type Plan struct {
	Version   uint64         `json:"version" yaml:"version"`
	Workspace string         `json:"workspace" yaml:"workspace"` // Workspace is the metadata directory managed by the dataset tool
	Remotes   []RemoteSource `json:"remotes" yaml:"remotes"`
	Manifests []string       `json:"manifests" yaml:"manifests"`
	Stages    []PullStage    `json:"stages" yaml:"stages"`
	PullAll   bool           `json:"pullAll" yaml:"pullAll"`
	_         struct{}
}

// DefaultPlan returns the built-in demo plan: two market data feeds pulled
// from the public dataset repository, a derivation chain of five local
// datasets, watermark advances on the two root derivatives, then a pull of
// everything.
func DefaultPlan() Plan {
	return Plan{
		Version:   PlanVersion,
		Workspace: DefaultWorkspace,
		Remotes: []RemoteSource{
			{URL: "s3://datasets.kamu.dev/odf/v2/contrib/com.cryptocompare.ohlcv.eth-usd"},
			{URL: "s3://datasets.kamu.dev/odf/v2/contrib/co.alphavantage.tickers.daily.spy"},
		},
		Manifests: []string{
			"datasets/my.trading.transactions.eth.yaml",
			"datasets/my.trading.transactions.spy.yaml",
			"datasets/my.trading.transactions.yaml",
			"datasets/my.trading.holdings.yaml",
			"datasets/my.trading.holdings.market-value.yaml",
		},
		Stages: []PullStage{
			{Datasets: []string{"my.trading.transactions.eth", "my.trading.transactions.spy"}},
			{Datasets: []string{"my.trading.transactions"}, SetWatermark: true},
			{Datasets: []string{"my.trading.holdings"}, SetWatermark: true},
		},
		PullAll: true,
	}
}

// Invocations counts the external tool invocations the plan will issue:
// one init, one per remote, one add of all manifests, one per stage and an
// optional final pull of everything.
func Invocations(plan Plan) int {
	n := 1 + len(plan.Remotes) + len(plan.Stages)
	if len(plan.Manifests) > 0 {
		n++
	}
	if plan.PullAll {
		n++
	}
	return n
}

// UnmarshalPlan deserializes a yaml plan descriptor.
func UnmarshalPlan(b []byte) (*Plan, error) {
	if b == nil {
		return nil, fmt.Errorf("received nil entry to unmarshall")
	}
	var p Plan
	err := yaml.Unmarshal(b, &p)
	return &p, err
}

// MarshalPlan serializes a plan descriptor to yaml.
func MarshalPlan(p *Plan) ([]byte, error) {
	b, err := yaml.Marshal(p)
	return b, err
}

// ValidatePlan verifies that a plan descriptor is complete and runnable.
func ValidatePlan(plan Plan) error {
	var cause string
	switch {
	case plan.Workspace == "":
		cause += "Workspace is empty. "
		fallthrough
	case plan.Version > PlanVersion:
		cause += "Version higher than supported version"
	}
	if cause != "" {
		return fmt.Errorf("validation failed, cause = %s", cause)
	}
	for i, remote := range plan.Remotes {
		if remote.URL == "" {
			return fmt.Errorf("invalid remote: remote %d has an empty URL", i)
		}
	}
	for i, manifest := range plan.Manifests {
		if manifest == "" {
			return fmt.Errorf("invalid manifest: manifest %d has an empty path", i)
		}
	}
	for i, stage := range plan.Stages {
		if len(stage.Datasets) == 0 {
			return fmt.Errorf("invalid stage: stage %d references no datasets", i)
		}
		if stage.SetWatermark && len(stage.Datasets) != 1 {
			return fmt.Errorf("invalid stage: stage %d sets a watermark on %d datasets, want exactly 1",
				i, len(stage.Datasets))
		}
		for _, ds := range stage.Datasets {
			if ds == "" {
				return fmt.Errorf("invalid stage: stage %d references an empty dataset name", i)
			}
		}
	}
	return nil
}
