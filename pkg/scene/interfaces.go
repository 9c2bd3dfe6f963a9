// Package scene defines the boundary of the external scene/sampler
// collaborator that the adaptive controller drives but never inspects.
// The controller only ever calls through these interfaces plus the
// SampleFunc it is handed; everything else in this package is a small
// demo implementation used by cmd/adaptrace and the test suite so the
// controller has something real to point a camera at.
package scene

import "github.com/mgallant/adaptrace/pkg/core"

// Camera turns a pixel plus lens/film jitter samples into a primary ray.
// The adapter (pkg/adaptive) owns pixel selection and jitter; the camera
// only knows how to build a ray from the samples it is given.
type Camera interface {
	GenerateRay(i, j int, lens, film core.Vec2) core.Ray
}

// Scene is the opaque collaborator handed to the external sampler. The
// controller never calls its methods directly except to size the image,
// build rays through Camera(), and decide environment-miss handling via
// HasEnvironments.
type Scene interface {
	Camera() Camera
	Width() int
	Height() int
	// HasEnvironments reports whether a ray that hits nothing should
	// still count as a hit because it picked up environment lighting.
	HasEnvironments() bool
}
