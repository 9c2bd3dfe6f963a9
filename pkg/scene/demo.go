package scene

import (
	"math"
	"math/rand"

	"github.com/mgallant/adaptrace/pkg/core"
)

// DemoCamera is a simple pinhole/thin-lens camera, adapted from the
// teacher's renderer.Camera but parameterized by image resolution and
// given an aperture for depth-of-field so it can exercise the adapter's
// lens-sample argument.
type DemoCamera struct {
	width, height int

	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v            core.Vec3
	lensRadius      float64
}

// NewDemoCamera builds a camera looking from lookFrom to lookAt.
func NewDemoCamera(width, height int, lookFrom, lookAt, up core.Vec3, vfovDegrees, aperture, focusDist float64) *DemoCamera {
	theta := vfovDegrees * math.Pi / 180
	halfHeight := math.Tan(theta / 2)
	aspect := float64(width) / float64(height)
	halfWidth := aspect * halfHeight

	w := lookFrom.Subtract(lookAt).Normalize()
	u := up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Multiply(2 * halfWidth * focusDist)
	vertical := v.Multiply(2 * halfHeight * focusDist)
	lowerLeftCorner := lookFrom.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDist))

	return &DemoCamera{
		width:           width,
		height:          height,
		origin:          lookFrom,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		lensRadius:      aperture / 2,
	}
}

// GenerateRay builds a primary ray for pixel (i, j) using the given lens
// and film jitter samples, both already in [0, 1). Implements
// scene.Camera.
func (c *DemoCamera) GenerateRay(i, j int, lens, film core.Vec2) core.Ray {
	s := (float64(i) + film.X) / float64(c.width)
	// Image row 0 is the top of the frame; the viewport basis above is
	// built bottom-up, so flip t to match.
	t := 1 - (float64(j)+film.Y)/float64(c.height)

	rd := core.SamplePointInUnitDisk(lens).Multiply(c.lensRadius)
	offset := c.u.Multiply(rd.X).Add(c.v.Multiply(rd.Y))

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin).
		Subtract(offset)

	return core.NewRay(c.origin.Add(offset), direction)
}

// DemoScene is a small, hardcoded scene: a ground plane and a handful of
// diffuse and metal spheres under a sky gradient. It stands in for the
// real path-tracing scene the adaptive controller is designed to drive
// without ever inspecting.
type DemoScene struct {
	width, height int
	camera        *DemoCamera
	shapes        []Shape
	skyTop        core.Vec3
	skyBottom     core.Vec3
	maxDepth      int
}

// NewDemoScene builds the default demo scene at the given resolution.
func NewDemoScene(width, height int) *DemoScene {
	camera := NewDemoCamera(
		width, height,
		core.NewVec3(0, 1.5, 4),
		core.NewVec3(0, 0.5, 0),
		core.NewVec3(0, 1, 0),
		40, 0.0, 4.0,
	)

	shapes := []Shape{
		Plane{Y: 0, Mat: Lambertian{Albedo: core.NewVec3(0.5, 0.5, 0.5)}},
		Sphere{Center: core.NewVec3(0, 0.5, 0), Radius: 0.5, Mat: Lambertian{Albedo: core.NewVec3(0.7, 0.2, 0.2)}},
		Sphere{Center: core.NewVec3(-1.1, 0.4, 0.3), Radius: 0.4, Mat: Metal{Albedo: core.NewVec3(0.8, 0.8, 0.9), Fuzz: 0.05}},
		Sphere{Center: core.NewVec3(1.0, 0.35, 0.6), Radius: 0.35, Mat: Lambertian{Albedo: core.NewVec3(0.2, 0.4, 0.7)}},
	}

	return &DemoScene{
		width:     width,
		height:    height,
		camera:    camera,
		shapes:    shapes,
		skyTop:    core.NewVec3(0.5, 0.7, 1.0),
		skyBottom: core.NewVec3(1.0, 1.0, 1.0),
		maxDepth:  8,
	}
}

// Camera implements scene.Scene.
func (s *DemoScene) Camera() Camera { return s.camera }

// Width implements scene.Scene.
func (s *DemoScene) Width() int { return s.width }

// Height implements scene.Scene.
func (s *DemoScene) Height() int { return s.height }

// HasEnvironments implements scene.Scene: the sky gradient is treated as
// a visible environment, so a ray that escapes the scene still counts
// as a hit unless the caller sets envhidden.
func (s *DemoScene) HasEnvironments() bool { return true }

// Sample traces a single camera ray through the demo scene, bouncing
// diffusely or specularly off whatever it hits up to maxDepth times.
// This is the external sampler stand-in: adaptive.SampleFunc calls
// straight through to it and never looks inside.
func (s *DemoScene) Sample(ray core.Ray, rng *rand.Rand) (core.Vec3, bool) {
	return s.sampleDepth(ray, rng, s.maxDepth)
}

func (s *DemoScene) sampleDepth(ray core.Ray, rng *rand.Rand, depth int) (core.Vec3, bool) {
	if depth <= 0 {
		return core.Vec3{}, false
	}

	hit, isHit := s.hit(ray, 1e-3, 1e6)
	if !isHit {
		return s.background(ray), false
	}

	scattered, attenuation, ok := hit.Material.Scatter(ray, hit, rng)
	if !ok {
		return core.Vec3{}, true
	}

	incoming, _ := s.sampleDepth(scattered, rng, depth-1)
	return attenuation.MultiplyVec(incoming), true
}

func (s *DemoScene) hit(ray core.Ray, tMin, tMax float64) (HitRecord, bool) {
	var closest HitRecord
	found := false
	closestSoFar := tMax
	for _, shape := range s.shapes {
		if hit, ok := shape.Hit(ray, tMin, closestSoFar); ok {
			found = true
			closestSoFar = hit.T
			closest = hit
		}
	}
	return closest, found
}

func (s *DemoScene) background(ray core.Ray) core.Vec3 {
	unit := ray.Direction.Normalize()
	t := 0.5 * (unit.Y + 1.0)
	return s.skyBottom.Multiply(1 - t).Add(s.skyTop.Multiply(t))
}
