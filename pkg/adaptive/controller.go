package adaptive

import (
	"image"
	"math"
	"time"

	"github.com/mgallant/adaptrace/pkg/core"
	"github.com/mgallant/adaptrace/pkg/scene"
)

// AdaptiveController drives the phased adaptive sampling loop described
// in spec.md §4.5, wiring the dispatcher, spread table and termination
// oracle together. Logger, Progress and Batch are all optional; a zero
// value AdaptiveController renders silently.
type AdaptiveController struct {
	Logger   core.Logger
	Progress ProgressCallback
	Batch    BatchCallback
}

// TraceImage runs phases 0-3 to completion, or until the termination
// oracle fires, and returns the final render state.
func (c *AdaptiveController) TraceImage(scn scene.Scene, sample SampleFunc, params AdaptiveParams) (*RenderState, error) {
	state, err := InitState(scn, params)
	if err != nil {
		return nil, err
	}
	c.traceImage(state, scn, sample, params)
	return state, nil
}

// traceImage runs the loop against a caller-supplied state, so the
// async wrapper in async.go can retain the pointer across TraceStop.
func (c *AdaptiveController) traceImage(state *RenderState, scn scene.Scene, sample SampleFunc, params AdaptiveParams) {
	spreadVec := BuildSpreadTable(0)
	stepQ := 0.0
	state.CurrQ = -2

	// Phase 0 is InitState, already run by the caller.
	c.log("tracing %dx%d at seed %d\n", state.Width, state.Height, params.TraceParams.Seed)
	c.progress(state, "initial samples", c.actualProgress(state, params), c.maxProgress(state, params))
	state.CurrQ = -1

	// Phase 1 — seeding: every pixel gets MinSamples before adaptation.
	for sampled := 0; sampled < params.MinSamples; sampled += params.SampleStep {
		ParallelForPixels(state, params, AllImageIJ(state), func(ij image.Point) {
			SamplePixel(state, scn, sample, ij, params.SampleStep, params)
		})
	}
	c.log("seeding done: %d samples per pixel minimum\n", params.MinSamples)

	minSampleInAPixel := params.MinSamples
	oldMinSample := 0

	c.batch(state, params)
	nextBatch := state.CurrQ + params.BatchStep

	// Phase 2 — adaptive loop.
	rounds := 0
	for !CheckEnd(state, params) {
		rounds++
		state.IJByQ = state.IJByQ[:0]
		for j := 0; j < state.Height; j++ {
			for i := 0; i < state.Width; i++ {
				ij := image.Point{X: i, Y: j}
				pixel := state.pixel(ij)
				pixel.SampleBudget = 0
				if pixel.Q < stepQ {
					state.IJByQ = append(state.IJByQ, ij)
				}
			}
		}

		limitTrace := minSampleInAPixel - oldMinSample

		c.progress(state, "samples by quality", c.actualProgress(state, params), c.maxProgress(state, params))
		ParallelForPixels(state, params, state.IJByQ, func(ij image.Point) {
			traceUntilQuality(state, scn, sample, ij, params, stepQ, limitTrace)
		})

		state.IJByProximity = state.IJByProximity[:0]
		for _, ijSampled := range state.IJByQ {
			pixel := state.pixel(ijSampled)
			for _, entry := range spreadVec {
				k, l := ijSampled.X+entry.DX, ijSampled.Y+entry.DY
				if k < 0 || l < 0 || k >= state.Width || l >= state.Height {
					continue
				}
				neighbor := state.pixel(image.Point{X: k, Y: l})
				pending := float64(int(neighbor.All.Samples) + neighbor.SampleBudget)
				target := float64(pixel.All.Samples) / entry.Div
				if pending < target {
					neighbor.SampleBudget = int(target) - int(neighbor.All.Samples)
				}
			}
		}

		for j := 0; j < state.Height; j++ {
			for i := 0; i < state.Width; i++ {
				ij := image.Point{X: i, Y: j}
				if state.pixel(ij).SampleBudget > 0 {
					state.IJByProximity = append(state.IJByProximity, ij)
				}
			}
		}

		c.progress(state, "samples by proximity", c.actualProgress(state, params), c.maxProgress(state, params))
		ParallelForPixels(state, params, state.IJByProximity, func(ij image.Point) {
			traceByBudget(state, scn, sample, ij, params)
		})

		oldMinSample = minSampleInAPixel
		tmpMinQ := math.MaxFloat64
		minSampleInAPixel = math.MaxInt32
		for i := range state.Pixels {
			px := &state.Pixels[i]
			if px.Q < tmpMinQ {
				tmpMinQ = px.Q
			}
			if int(px.All.Samples) < minSampleInAPixel {
				minSampleInAPixel = int(px.All.Samples)
			}
		}
		state.MinQ = tmpMinQ

		if state.MinQ >= stepQ {
			state.CurrQ = stepQ
			if state.CurrQ >= nextBatch {
				c.batch(state, params)
				nextBatch = state.CurrQ + params.BatchStep
			}
			c.log("round %d: min q %.2f reached threshold %.2f, advancing\n", rounds, state.MinQ, stepQ)
			stepQ += params.StepQ
			spreadVec = BuildSpreadTable(stepQ)

			// §9 open question: the reference source guards this clamp
			// with a tautologically-false condition. Per spec.md's own
			// resolution note, clamp step_q to desired_q under
			// quality-only termination instead of reproducing the typo.
			if params.DesiredSeconds == 0 && params.DesiredSPP == 0 && stepQ > params.DesiredQ {
				stepQ = params.DesiredQ
			}
		}
	}

	// Phase 3 — shutdown.
	if state.Stop.Load() {
		c.log("stopped after %d rounds, %d total samples\n", rounds, state.SampleCount.Load())
	} else {
		c.log("finished after %d rounds, %d total samples\n", rounds, state.SampleCount.Load())
		c.progress(state, "samples by proximity", c.maxProgress(state, params), c.maxProgress(state, params))
		if c.Batch != nil {
			c.Batch(state, params.DesiredQ, params.DesiredQ)
		}
	}
}

func (c *AdaptiveController) log(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}

func (c *AdaptiveController) progress(state *RenderState, phase string, current, max int) {
	if c.Progress != nil {
		c.Progress(state, phase, current, max)
	}
}

func (c *AdaptiveController) batch(state *RenderState, params AdaptiveParams) {
	if c.Batch != nil {
		c.Batch(state, state.CurrQ, params.DesiredQ)
	}
}

// maxProgress picks whichever termination budget is active as the
// progress denominator, per §9's "Progress reporting" note — the choice
// is implementation-defined, falling back to the quality schedule.
func (c *AdaptiveController) maxProgress(state *RenderState, params AdaptiveParams) int {
	switch {
	case params.DesiredSPP > 0:
		return params.DesiredSPP * state.Width * state.Height
	case params.DesiredSeconds > 0:
		return int(params.DesiredSeconds * 1000)
	default:
		return int(params.DesiredQ * 1000)
	}
}

func (c *AdaptiveController) actualProgress(state *RenderState, params AdaptiveParams) int {
	switch {
	case params.DesiredSPP > 0:
		return int(state.SampleCount.Load())
	case params.DesiredSeconds > 0:
		return int(time.Since(state.StartTime).Seconds() * 1000)
	default:
		return int(math.Max(0, state.CurrQ) * 1000)
	}
}
