package scene

import (
	"math"
	"math/rand"

	"github.com/mgallant/adaptrace/pkg/core"
)

// HitRecord describes the closest intersection along a ray.
type HitRecord struct {
	T        float64
	Point    core.Vec3
	Normal   core.Vec3
	Material Material
}

// Material scatters an incoming ray at a hit point, mirroring the
// teacher's core.ScatterResult contract but trimmed to the two material
// kinds the demo scene needs.
type Material interface {
	Scatter(rayIn core.Ray, hit HitRecord, rng *rand.Rand) (scattered core.Ray, attenuation core.Vec3, ok bool)
}

// Lambertian is a perfectly diffuse material.
type Lambertian struct {
	Albedo core.Vec3
}

// Scatter reflects the ray in a cosine-weighted random direction.
func (m Lambertian) Scatter(rayIn core.Ray, hit HitRecord, rng *rand.Rand) (core.Ray, core.Vec3, bool) {
	sample := core.NewVec2(rng.Float64(), rng.Float64())
	direction := core.SampleCosineHemisphere(hit.Normal, sample)
	if direction.Length() < 1e-9 {
		direction = hit.Normal
	}
	return core.NewRay(hit.Point, direction), m.Albedo, true
}

// Metal is a reflective material with adjustable fuzz.
type Metal struct {
	Albedo core.Vec3
	Fuzz   float64
}

// Scatter reflects the ray about the surface normal, perturbed by Fuzz.
func (m Metal) Scatter(rayIn core.Ray, hit HitRecord, rng *rand.Rand) (core.Ray, core.Vec3, bool) {
	reflected := reflect(rayIn.Direction.Normalize(), hit.Normal)
	if m.Fuzz > 0 {
		sample := core.NewVec2(rng.Float64(), rng.Float64())
		fuzzOffset := core.SamplePointInUnitDisk(sample).Multiply(m.Fuzz)
		reflected = reflected.Add(fuzzOffset)
	}
	if reflected.Dot(hit.Normal) <= 0 {
		return core.Ray{}, core.Vec3{}, false
	}
	return core.NewRay(hit.Point, reflected), m.Albedo, true
}

func reflect(v, normal core.Vec3) core.Vec3 {
	return v.Subtract(normal.Multiply(2 * v.Dot(normal)))
}

// Sphere is a solid sphere primitive.
type Sphere struct {
	Center core.Vec3
	Radius float64
	Mat    Material
}

// Hit intersects a ray with the sphere within [tMin, tMax].
func (s Sphere) Hit(ray core.Ray, tMin, tMax float64) (HitRecord, bool) {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius
	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return HitRecord{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return HitRecord{}, false
		}
	}

	point := ray.At(root)
	normal := point.Subtract(s.Center).Multiply(1 / s.Radius)
	return HitRecord{T: root, Point: point, Normal: normal, Material: s.Mat}, true
}

// Plane is an infinite horizontal plane at a fixed Y, used as ground.
type Plane struct {
	Y   float64
	Mat Material
}

// Hit intersects a ray with the plane within [tMin, tMax].
func (p Plane) Hit(ray core.Ray, tMin, tMax float64) (HitRecord, bool) {
	if math.Abs(ray.Direction.Y) < 1e-9 {
		return HitRecord{}, false
	}
	t := (p.Y - ray.Origin.Y) / ray.Direction.Y
	if t < tMin || t > tMax {
		return HitRecord{}, false
	}
	point := ray.At(t)
	normal := core.NewVec3(0, 1, 0)
	if ray.Direction.Y > 0 {
		normal = normal.Multiply(-1)
	}
	return HitRecord{T: t, Point: point, Normal: normal, Material: p.Mat}, true
}

// Shape is anything the demo scene can intersect a ray against.
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (HitRecord, bool)
}
