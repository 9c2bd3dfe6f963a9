package core

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// LinearToSRGB converts a linear-light RGB triple to gamma-corrected
// sRGB, matching the reference implementation's rgb_to_srgb used by the
// quality estimator (spec §4.1) and by final image output. Delegates to
// go-colorful's companding rather than hand-rolling the piecewise OETF.
func LinearToSRGB(v Vec3) Vec3 {
	srgb := colorful.LinearRgb(v.X, v.Y, v.Z)
	return Vec3{X: srgb.R, Y: srgb.G, Z: srgb.B}
}

// ToRGBA converts a linear radiance triple to an 8-bit sRGB color.RGBA
// with full alpha, clamping out-of-range components.
func ToRGBA(v Vec3) color.RGBA {
	srgb := LinearToSRGB(v.Clamp(0, 1))
	r, g, b := clampColorful(srgb)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func clampColorful(v Vec3) (uint8, uint8, uint8) {
	v = v.Clamp(0, 1)
	return uint8(255*v.X + 0.5), uint8(255*v.Y + 0.5), uint8(255*v.Z + 0.5)
}
