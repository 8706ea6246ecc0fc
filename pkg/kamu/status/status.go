// Package status declares error constants returned by the wrapper around
// the external dataset tool.
//
// NOTE: such constants are located in a separate package to avoid
// creating undue cyclical dependencies between pkg/kamu and its callers.
package status

import "github.com/stevedipaola/f-kamu-cli/pkg/errors"

var (
	// Sentinel errors returned by the dataset tool wrapper

	// ErrNotInstalled indicates that the dataset tool binary could not be found
	ErrNotInstalled = errors.New("dataset tool not installed")

	// ErrToolFailed indicates that a tool invocation started but exited with a failure
	ErrToolFailed = errors.New("dataset tool invocation failed")

	// ErrNoRefs indicates a pull with no dataset references and no catch-all flag
	ErrNoRefs = errors.New("no dataset references to pull")

	// ErrNoManifests indicates an add with no dataset manifests
	ErrNoManifests = errors.New("no dataset manifests to add")

	// ErrAmbiguousPull indicates a pull that mixes explicit references with the catch-all flag
	ErrAmbiguousPull = errors.New("pull of everything does not take dataset references")

	// ErrWatermarkTarget indicates a watermark pull that does not target exactly one dataset
	ErrWatermarkTarget = errors.New("watermark pull targets exactly one dataset")
)
