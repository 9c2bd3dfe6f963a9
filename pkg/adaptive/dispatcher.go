package adaptive

import (
	"image"
	"runtime"
	"sync"
	"sync/atomic"
)

// AllImageIJ returns every pixel coordinate in the render, row-major.
func AllImageIJ(state *RenderState) []image.Point {
	list := make([]image.Point, 0, state.Width*state.Height)
	for j := 0; j < state.Height; j++ {
		for i := 0; i < state.Width; i++ {
			list = append(list, image.Point{X: i, Y: j})
		}
	}
	return list
}

// ParallelForPixels is the work dispatcher (C4): it spawns
// runtime.NumCPU() workers that race over ijList through a shared
// atomic cursor, each calling fn(ij) for the pixel it claims. Workers
// stop as soon as the cursor runs past the list end or the termination
// oracle fires; ParallelForPixels returns only once every worker has
// exited. fn must touch only pixels[ij] — the caller guarantees ijList
// holds distinct coordinates, so there is no data race on
// PixelAccumulator state.
func ParallelForPixels(state *RenderState, params AdaptiveParams, ijList []image.Point, fn func(ij image.Point)) {
	if len(ijList) == 0 {
		return
	}

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}

	var next atomic.Int64
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		if state.Stop.Load() {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for !CheckEnd(state, params) {
				idx := next.Add(1) - 1
				if idx >= int64(len(ijList)) {
					return
				}
				fn(ijList[idx])
			}
		}()
	}

	wg.Wait()
}
