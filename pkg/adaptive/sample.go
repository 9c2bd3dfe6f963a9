package adaptive

import (
	"image"
	"math/rand"
	"time"

	"github.com/mgallant/adaptrace/pkg/core"
	"github.com/mgallant/adaptrace/pkg/scene"
)

// SampleFunc is the external sampler's contract: a pure function that
// traces one camera ray and returns a radiance estimate plus a hit
// flag. The adapter below owns everything about building that ray and
// interpreting the result; the sampler itself is a black box.
type SampleFunc func(scn scene.Scene, ray core.Ray, rng *rand.Rand) (core.Vec3, bool)

// SamplePixel is the sampler adapter (C2). It draws n samples for pixel
// ij (capped so the pixel never exceeds MaxSamples), builds a camera
// ray per sample from fresh lens/film jitter, invokes the external
// sampler, applies environment-miss handling, and feeds the result to
// the pixel's accumulator. After a completed batch it refreshes the
// pixel's derived render cells and quality estimate; when the stop flag
// or the termination oracle ends the batch early, it returns without
// that refresh.
func SamplePixel(state *RenderState, scn scene.Scene, sample SampleFunc, ij image.Point, n int, params AdaptiveParams) {
	pixel := state.pixel(ij)

	samples := n
	if int(pixel.All.Samples)+n > params.MaxSamples {
		samples = params.MaxSamples - int(pixel.All.Samples)
	}

	camera := scn.Camera()
	hasEnv := scn.HasEnvironments()

	for s := 0; s < samples; s++ {
		if state.Stop.Load() {
			return
		}

		start := time.Now()

		uLens := core.NewVec2(pixel.RNG.Float64(), pixel.RNG.Float64())
		uFilm := core.NewVec2(pixel.RNG.Float64(), pixel.RNG.Float64())
		if params.TraceParams.TentFilter {
			uFilm = core.NewVec2(core.TentFilterRemap(uFilm.X), core.TentFilterRemap(uFilm.Y))
		}

		ray := camera.GenerateRay(ij.X, ij.Y, uLens, uFilm)
		radiance, hit := sample(scn, ray, pixel.RNG)

		pixel.TimeInSample += time.Since(start).Nanoseconds()
		state.SampleCount.Add(1)

		if !hit {
			if params.TraceParams.EnvHidden || !hasEnv {
				radiance = core.Vec3{}
				hit = false
			} else {
				hit = true
			}
		}

		pixel.addSample(radiance, hit, params.TraceParams.Clamp)

		if CheckEnd(state, params) {
			return
		}
	}

	state.refreshPixel(ij, params.MaxSamples)
}

// traceUntilQuality repeatedly calls SamplePixel in chunks of
// SampleStep until the pixel reaches quality q, the chunk total hits
// sampleLimit, or the oracle fires. Implements controller phase 2 step 2.
func traceUntilQuality(state *RenderState, scn scene.Scene, sample SampleFunc, ij image.Point, params AdaptiveParams, q float64, sampleLimit int) {
	SamplePixel(state, scn, sample, ij, params.SampleStep, params)
	if CheckEnd(state, params) {
		return
	}

	pixel := state.pixel(ij)
	samplesShoot := params.SampleStep
	for pixel.Q < q && samplesShoot < sampleLimit {
		SamplePixel(state, scn, sample, ij, params.SampleStep, params)
		if CheckEnd(state, params) {
			return
		}
		samplesShoot += params.SampleStep
	}
}

// traceByBudget drains a pixel's sample_budget in one call (controller
// phase 2 step 5), then clears the budget.
func traceByBudget(state *RenderState, scn scene.Scene, sample SampleFunc, ij image.Point, params AdaptiveParams) {
	pixel := state.pixel(ij)
	budget := pixel.SampleBudget
	SamplePixel(state, scn, sample, ij, budget, params)
	pixel.SampleBudget = 0
}
