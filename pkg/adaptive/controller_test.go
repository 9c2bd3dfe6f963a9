package adaptive

import (
	"image"
	"math/rand"
	"testing"

	"github.com/mgallant/adaptrace/pkg/core"
)

func TestTraceImageZeroAreaSceneIsCallerError(t *testing.T) {
	controller := &AdaptiveController{}
	_, err := controller.TraceImage(fakeScene{width: 0, height: 4}, constSample(core.Vec3{}, false), testParams(nil))
	if err == nil {
		t.Fatal("expected a zero-area scene to be rejected")
	}
}

func TestTraceImageDeterministicZeroSamplerS1(t *testing.T) {
	scn := fakeScene{width: 4, height: 4, hasEnv: false}
	params := testParams(func(p *AdaptiveParams) {
		p.Resolution = 4
		p.MaxSamples = 8
		p.MinSamples = 4
		p.SampleStep = 4
		p.DesiredSPP = 4
		p.DesiredSeconds = 0
		p.TraceParams.EnvHidden = true
	})

	controller := &AdaptiveController{}
	state, err := controller.TraceImage(scn, constSample(core.Vec3{}, false), params)
	if err != nil {
		t.Fatalf("TraceImage: %v", err)
	}

	for _, cell := range state.Render {
		if cell.Radiance != (core.Vec3{}) {
			t.Fatalf("expected an all-zero render, got %v", cell.Radiance)
		}
	}
	if got := state.SampleCount.Load(); got != 64 {
		t.Fatalf("sample_count = %d, want 64 (4 spp over a 4x4 image)", got)
	}
}

func TestTraceImageMonotonicSamplesAndQuality(t *testing.T) {
	scn := fakeScene{width: 4, height: 4, hasEnv: true}
	params := testParams(func(p *AdaptiveParams) {
		p.Resolution = 4
		p.MinSamples = 4
		p.SampleStep = 2
		p.MaxSamples = 32
		p.DesiredQ = 2
		p.StepQ = 0.5
	})

	controller := &AdaptiveController{}
	state, err := controller.TraceImage(scn, constSample(core.NewVec3(0.4, 0.5, 0.6), true), params)
	if err != nil {
		t.Fatalf("TraceImage: %v", err)
	}

	for i := range state.Pixels {
		px := &state.Pixels[i]
		if px.All.Hits > px.All.Samples {
			t.Fatalf("pixel %d: hits (%d) > samples (%d)", i, px.All.Hits, px.All.Samples)
		}
		if px.All.Samples < uint32(params.MinSamples) {
			t.Fatalf("pixel %d: samples %d below MinSamples %d", i, px.All.Samples, params.MinSamples)
		}
		if px.Q < 0 || px.Q > 10 {
			t.Fatalf("pixel %d: q=%f out of [0,10]", i, px.Q)
		}
	}
	if state.CurrQ <= -1 {
		t.Fatalf("curr_q = %f, expected to have advanced past its -1 seeding sentinel", state.CurrQ)
	}
}

func TestProximityBudgetPropagationS5(t *testing.T) {
	// S5: a single low-quality pixel with 64 samples should raise a
	// div=2 neighbor's target to at least 32 samples via the proximity
	// pass, and clear its own sample_budget afterward.
	state := &RenderState{Width: 32, Height: 32}
	hot := image.Point{X: 10, Y: 10}
	state.Pixels = make([]PixelAccumulator, 32*32)
	state.Render = make([]RenderCell, 32*32)
	state.OddRender = make([]RenderCell, 32*32)
	for i := range state.Pixels {
		state.Pixels[i].RNG = rand.New(rand.NewSource(int64(i) + 1))
	}
	state.pixel(hot).All.Samples = 64

	spread := []SpreadEntry{{DX: 1, DY: 0, Div: 2}}
	neighbor := image.Point{X: 11, Y: 10}

	for _, entry := range spread {
		k, l := hot.X+entry.DX, hot.Y+entry.DY
		n := state.pixel(image.Point{X: k, Y: l})
		target := float64(state.pixel(hot).All.Samples) / entry.Div
		pending := float64(int(n.All.Samples) + n.SampleBudget)
		if pending < target {
			n.SampleBudget = int(target) - int(n.All.Samples)
		}
	}

	if got := state.pixel(neighbor).SampleBudget; got != 32 {
		t.Fatalf("neighbor sample_budget = %d, want 32", got)
	}

	scn := fakeScene{width: 32, height: 32, hasEnv: true}
	params := testParams(func(p *AdaptiveParams) { p.MaxSamples = 1024 })
	traceByBudget(state, scn, constSample(core.NewVec3(0.2, 0.2, 0.2), true), neighbor, params)

	if got := state.pixel(neighbor).All.Samples; got < 32 {
		t.Fatalf("neighbor all.samples = %d, want >= 32 after the proximity pass", got)
	}
	if got := state.pixel(neighbor).SampleBudget; got != 0 {
		t.Fatalf("neighbor sample_budget = %d, want 0 after draining", got)
	}
}

func TestTraceImageBatchCallbackFiresAtShutdown(t *testing.T) {
	scn := fakeScene{width: 4, height: 4, hasEnv: true}
	params := testParams(func(p *AdaptiveParams) {
		p.Resolution = 4
		p.DesiredSPP = 4
		p.MaxSamples = 16
	})

	var finalCalls int
	controller := &AdaptiveController{
		Batch: func(state *RenderState, currQ, desiredQ float64) {
			if currQ == desiredQ {
				finalCalls++
			}
		},
	}
	_, err := controller.TraceImage(scn, constSample(core.NewVec3(0.3, 0.3, 0.3), true), params)
	if err != nil {
		t.Fatalf("TraceImage: %v", err)
	}
	if finalCalls == 0 {
		t.Fatal("expected the terminal batch callback to fire with curr_q == desired_q")
	}
}
