package scene

import (
	"math/rand"

	"github.com/mgallant/adaptrace/pkg/core"
)

// TraceSample is the concrete external-sampler stand-in: it matches the
// sample(scene, ray, rng) contract the adaptive controller drives
// without ever inspecting. A real integration would replace this with
// whatever path tracer owns the true scene representation; here it just
// type-asserts down to the demo scene.
func TraceSample(scn Scene, ray core.Ray, rng *rand.Rand) (core.Vec3, bool) {
	demo, ok := scn.(*DemoScene)
	if !ok {
		return core.Vec3{}, false
	}
	return demo.Sample(ray, rng)
}
