package adaptive

import "time"

// CheckEnd is the termination oracle (C6): it reports whether any
// global stop condition holds. Consulted both inside SamplePixel (per
// sample) and at every sub-phase boundary in the controller.
//
// Per spec §9's third open question, the quality-only clause requires
// BOTH DesiredSPP and DesiredSeconds to be zero; when either budget is
// set the quality target is never enforced as a stop condition on its
// own. This is preserved as-is rather than "fixed".
func CheckEnd(state *RenderState, params AdaptiveParams) bool {
	if state.Stop.Load() {
		return true
	}

	if params.DesiredSPP > 0 {
		imgSize := state.Width * state.Height
		imageSPP := int(state.SampleCount.Load()) / imgSize
		if imageSPP >= params.DesiredSPP {
			return true
		}
	}

	if params.DesiredSeconds > 0 {
		elapsed := time.Since(state.StartTime).Seconds()
		if elapsed >= params.DesiredSeconds {
			return true
		}
	}

	if params.DesiredSPP == 0 && params.DesiredSeconds == 0 && state.MinQ >= params.DesiredQ {
		return true
	}

	return false
}
