package adaptive

import (
	"math"
	"math/rand"

	"github.com/mgallant/adaptrace/pkg/core"
)

// Partition is a running radiance/hit total, the shape shared by the
// "all" and "odd" accumulators on every pixel.
type Partition struct {
	RadianceSum core.Vec3
	Hits        uint32
	Samples     uint32
}

// RenderCell is a derived, averaged view of a Partition: mean radiance
// plus hit fraction. Pixels with zero hits report a zero radiance
// rather than dividing by zero.
type RenderCell struct {
	Radiance    core.Vec3
	HitFraction float64
}

func (p Partition) toCell() RenderCell {
	if p.Hits == 0 {
		return RenderCell{}
	}
	return RenderCell{
		Radiance:    p.RadianceSum.Multiply(1 / float64(p.Hits)),
		HitFraction: float64(p.Hits) / float64(p.Samples),
	}
}

// PixelAccumulator holds one pixel's running sample totals, its derived
// quality estimate, and the scratch fields the proximity pass uses.
type PixelAccumulator struct {
	RNG *rand.Rand

	All Partition
	Odd Partition

	// Q is the current quality estimate, capped at 10.
	Q float64
	// SampleBudget is set by the proximity pass and cleared after use.
	SampleBudget int
	// TimeInSample is cumulative nanoseconds spent in the sampler,
	// diagnostic only.
	TimeInSample int64
}

// addSample implements spec §4.1 steps 1-4: coerce non-finite radiance
// to zero, rescale out-of-range radiance to the clamp magnitude, then
// update the all partition and, on odd sample counts, the odd partition.
func (p *PixelAccumulator) addSample(r core.Vec3, hit bool, clamp float64) {
	if !r.IsFinite() {
		r = core.Vec3{}
	}
	if m := r.Max(); m >= clamp {
		r = r.Multiply(clamp / m)
	}

	p.All.RadianceSum = p.All.RadianceSum.Add(r)
	if hit {
		p.All.Hits++
	}
	p.All.Samples++

	if p.All.Samples%2 == 1 {
		p.Odd.RadianceSum = p.Odd.RadianceSum.Add(r)
		if hit {
			p.Odd.Hits++
		}
		p.Odd.Samples++
	}
}

// refresh recomputes the render/odd_render cells and the quality
// estimate for this pixel, per spec §4.1's "Quality estimation". Forces
// q to 10 once the pixel has reached maxSamples.
func (p *PixelAccumulator) refresh(maxSamples int) (RenderCell, RenderCell) {
	renderCell := p.All.toCell()
	oddCell := p.Odd.toCell()

	if int(p.All.Samples) >= maxSamples {
		p.Q = 10
		return renderCell, oddCell
	}

	srgb := core.LinearToSRGB(renderCell.Radiance)
	srgbOdd := core.LinearToSRGB(oddCell.Radiance)

	d := math.Abs(srgb.X-srgbOdd.X) + math.Abs(srgb.Y-srgbOdd.Y) + math.Abs(srgb.Z-srgbOdd.Z)
	b := math.Sqrt(srgb.X + srgb.Y + srgb.Z)

	var errVal float64
	if b >= 1e-4 {
		errVal = d / b
	} else {
		errVal = d / 0.01
	}

	q := -math.Log2(errVal)
	if q > 10 {
		q = 10
	}
	p.Q = q
	return renderCell, oddCell
}
