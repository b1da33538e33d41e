//go:build !js

package dolly

// The StageDirector is split across several files:
//
// - stage_types.go: StageModel, StageDirector and result types
// - stage_director_methods.go: lifecycle, configuration, waits and model synchronization
// - stage_error_handling.go: the update wrapper, panic recovery and metrics
// - stage_interactions.go: page events, assertions and trip recording
// - operator.go, rendering.go: frame capture on top of the director
// - quality.go: frame baselines for visual regressions
// - report.go, ansi.go: HTML film reports of a finished run
