package adaptive

// TraceParams is the opaque bundle the controller forwards to the
// external sampler unexamined, matching the reference implementation's
// trc_params.
type TraceParams struct {
	// TentFilter remaps film jitter samples through a tent reconstruction
	// filter instead of using them uniformly.
	TentFilter bool
	// EnvHidden forces a sampler miss to stay a miss even when the scene
	// reports environment lighting.
	EnvHidden bool
	// Clamp is the per-sample radiance ceiling (by max channel).
	Clamp float64
	// Seed is the global RNG seed pixel RNGs are derived from.
	Seed int64
}

// DefaultTraceParams returns sensible defaults for the demo scene.
func DefaultTraceParams() TraceParams {
	return TraceParams{
		TentFilter: true,
		EnvHidden:  false,
		Clamp:      10,
		Seed:       7,
	}
}

// AdaptiveParams configures the adaptive controller (C5), the Go
// rendering of adp_params from spec.md §6.
type AdaptiveParams struct {
	TraceParams TraceParams

	// MinSamples is the sample count every pixel receives before
	// adaptive decisions begin (phase 1 seeding).
	MinSamples int
	// SampleStep is the batch size the sampler adapter uses per call.
	SampleStep int
	// MaxSamples is the hard per-pixel cap.
	MaxSamples int

	// DesiredQ is the target quality-bits threshold, consulted only
	// when DesiredSPP and DesiredSeconds are both zero.
	DesiredQ float64
	// DesiredSPP is the target average samples per pixel; 0 disables.
	DesiredSPP int
	// DesiredSeconds is the wall-clock budget; 0 disables.
	DesiredSeconds float64

	// StepQ is the quality threshold increment applied each iteration.
	StepQ float64
	// BatchStep is the quality delta between batch callback firings.
	BatchStep float64
	// Resolution is the long-axis pixel count; the other axis is
	// derived from the scene's aspect ratio.
	Resolution int
}

// DefaultAdaptiveParams returns the same values as the CLI's flag
// defaults, except that TentFilter is on here while the CLI's
// --tentfilter flag is off unless given.
func DefaultAdaptiveParams() AdaptiveParams {
	return AdaptiveParams{
		TraceParams:    DefaultTraceParams(),
		MinSamples:     32,
		SampleStep:     8,
		MaxSamples:     4096,
		DesiredQ:       6,
		DesiredSPP:     0,
		DesiredSeconds: 0,
		StepQ:          0.5,
		BatchStep:      1,
		Resolution:     512,
	}
}

// ProgressCallback reports scheduler sub-phase progress; current/max are
// implementation-defined units (see controller.go's maxProgress).
type ProgressCallback func(state *RenderState, phase string, current, max int)

// BatchCallback fires once after seeding, whenever the achieved quality
// threshold crosses a BatchStep boundary, and once more at shutdown
// unless the render was stopped.
type BatchCallback func(state *RenderState, currQ, desiredQ float64)
