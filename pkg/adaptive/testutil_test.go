package adaptive

import (
	"math/rand"

	"github.com/mgallant/adaptrace/pkg/core"
	"github.com/mgallant/adaptrace/pkg/scene"
)

// fakeCamera builds a trivial ray from the pixel index alone, ignoring
// jitter, so tests can assert on exactly which pixel a sample came from.
type fakeCamera struct{}

func (fakeCamera) GenerateRay(i, j int, lens, film core.Vec2) core.Ray {
	return core.NewRay(core.NewVec3(float64(i), float64(j), 0), core.NewVec3(0, 0, -1))
}

// fakeScene is a minimal scene.Scene double for exercising the
// controller without pkg/scene's demo geometry.
type fakeScene struct {
	width, height int
	hasEnv        bool
}

func (s fakeScene) Camera() scene.Camera  { return fakeCamera{} }
func (s fakeScene) Width() int            { return s.width }
func (s fakeScene) Height() int           { return s.height }
func (s fakeScene) HasEnvironments() bool { return s.hasEnv }

// constSample always returns the same radiance/hit pair, letting tests
// drive deterministic scenarios (spec.md §8 S1/S2/S3).
func constSample(radiance core.Vec3, hit bool) SampleFunc {
	return func(scn scene.Scene, ray core.Ray, rng *rand.Rand) (core.Vec3, bool) {
		return radiance, hit
	}
}

func testParams(mutate func(*AdaptiveParams)) AdaptiveParams {
	p := DefaultAdaptiveParams()
	p.MinSamples = 4
	p.SampleStep = 2
	p.MaxSamples = 64
	p.Resolution = 4
	if mutate != nil {
		mutate(&p)
	}
	return p
}
