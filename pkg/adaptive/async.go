package adaptive

import "github.com/mgallant/adaptrace/pkg/scene"

// TraceStart launches TraceImage's phases against state in the
// background and returns immediately. The returned channel closes when
// the worker exits; the caller retains ownership of state until
// TraceStop joins it. Mirrors the reference implementation's
// trace_start/trace_stop pair.
func (c *AdaptiveController) TraceStart(state *RenderState, scn scene.Scene, sample SampleFunc, params AdaptiveParams) <-chan struct{} {
	state.Stop.Store(false)
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.traceImage(state, scn, sample, params)
	}()
	return done
}

// TraceStop requests cancellation and blocks until the worker started
// by TraceStart has observed it. Safe to call from any goroutine, and
// idempotent: calling it again after the worker has already exited
// returns immediately because done is already closed.
func TraceStop(state *RenderState, done <-chan struct{}) {
	if state == nil {
		return
	}
	state.Stop.Store(true)
	if done != nil {
		<-done
	}
}
