package adaptive

import (
	"errors"
	"image"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/mgallant/adaptrace/pkg/scene"
)

// ErrZeroArea is returned by InitState when the scene or the derived
// image has zero width or height, per spec §7's "caller error" note.
var ErrZeroArea = errors.New("adaptive: zero-area scene or image")

// RenderState is the process-wide state for one render: per-pixel
// accumulators, the derived render/odd_render views, and the shared
// counters the dispatcher and oracle touch across goroutines.
type RenderState struct {
	Width, Height int

	Pixels    []PixelAccumulator
	Render    []RenderCell
	OddRender []RenderCell

	SampleCount atomic.Int64
	StartTime   time.Time

	MinQ, CurrQ float64

	IJByQ         []image.Point
	IJByProximity []image.Point

	Stop atomic.Bool
}

func (s *RenderState) index(ij image.Point) int {
	return ij.Y*s.Width + ij.X
}

func (s *RenderState) pixel(ij image.Point) *PixelAccumulator {
	return &s.Pixels[s.index(ij)]
}

// refreshPixel recomputes render/odd_render/q for one pixel in place.
func (s *RenderState) refreshPixel(ij image.Point, maxSamples int) {
	idx := s.index(ij)
	renderCell, oddCell := s.Pixels[idx].refresh(maxSamples)
	s.Render[idx] = renderCell
	s.OddRender[idx] = oddCell
}

// InitState allocates a RenderState sized from the scene's aspect ratio
// and params.Resolution (the long axis), and seeds every pixel's RNG
// deterministically from the global seed plus a per-pixel nonce drawn
// from a fixed bootstrap generator — so a render is reproducible under
// an identical worker count, per spec §9's "per-pixel RNG" note.
func InitState(scn scene.Scene, params AdaptiveParams) (*RenderState, error) {
	filmW, filmH := scn.Width(), scn.Height()
	if filmW <= 0 || filmH <= 0 {
		return nil, ErrZeroArea
	}

	var width, height int
	if filmW > filmH {
		width = params.Resolution
		height = int(math.Round(float64(params.Resolution) * float64(filmH) / float64(filmW)))
	} else {
		height = params.Resolution
		width = int(math.Round(float64(params.Resolution) * float64(filmW) / float64(filmH)))
	}
	if width <= 0 || height <= 0 {
		return nil, ErrZeroArea
	}

	state := &RenderState{
		Width:     width,
		Height:    height,
		Pixels:    make([]PixelAccumulator, width*height),
		Render:    make([]RenderCell, width*height),
		OddRender: make([]RenderCell, width*height),
		StartTime: time.Now(),
	}

	nonceSource := rand.New(rand.NewSource(1301081))
	for i := range state.Pixels {
		nonce := int64(nonceSource.Int31n(1<<31-1))/2 + 1
		state.Pixels[i].RNG = rand.New(rand.NewSource(params.TraceParams.Seed + nonce))
	}

	return state, nil
}
