// Package model describes the objects manipulated by the bootstrap tool.
//
// The package exposes a model for bootstrap plans.
//
// The object model is composed of:
//
//	Plans:
//	  A plan describes everything a bootstrap run provisions: the workspace
//	  location, the remote datasets to pull, the local dataset manifests to
//	  register, and the staged pulls that follow.
//
//	Pull stages:
//	  A pull stage is an ordered group of datasets pulled with a single tool
//	  invocation, optionally advancing the watermark of every dataset in the
//	  group to the time of execution.
//
// Plans serialize to YAML and JSON. A versioned descriptor keeps older tools
// from silently misreading newer plans.
package model
