package surface

import (
	"math"

	"github.com/goptics/raytrace/pkg/core"
)

// IdealLens models a perfect thin lens (or focusing mirror) of signed focal
// length sitting on the local z=0 plane. Instead of refracting through real
// glass geometry, every transmitted ray is redirected through the paraxial
// focal point
//
//	FP = direction * f / |direction.z|
//
// measured from the local origin, so an incoming bundle sharing a direction
// converges to (f > 0) or diverges from (f < 0) a single point on the focal
// plane regardless of angle.
type IdealLens struct {
	properties
	Focal float64
}

// NewIdealLens creates an ideal focusing surface with the given signed
// focal length.
func NewIdealLens(focal float64, aperture core.Shape, reflectance core.Reflectance) *IdealLens {
	return &IdealLens{
		properties: newProperties(aperture, reflectance),
		Focal:      focal,
	}
}

// Intersect implements the Surface interface. A ray parallel to the focal
// plane has no defined response and yields NoHit, terminating it.
func (s *IdealLens) Intersect(ray core.Ray) core.Vec3 {
	return intersectPlane(ray, s.aperture)
}

// Normal implements the Surface interface.
func (s *IdealLens) Normal(core.Vec3) core.Vec3 {
	return core.NewVec3(0, 0, 1)
}

// Propagate implements the Surface interface. The transmitted child passes
// through the focal point; the reflected child converges to the focal
// point mirrored through the surface plane, with its z sense reversed
// relative to the incident ray.
func (s *IdealLens) Propagate(ray core.Ray, nIncident, nTransmitted float64) ([]core.Ray, error) {
	point := s.Intersect(ray)
	if core.IsNoHit(point) {
		return nil, nil
	}
	r, err := s.reflectivity(ray.Wavelength)
	if err != nil {
		return nil, err
	}

	d := ray.Direction
	focalPoint := d.Multiply(s.Focal / math.Abs(d.Z))

	children := make([]core.Ray, 0, 2)
	if r < 1 {
		td := focalPoint.Subtract(point)
		// a negative focal length puts FP behind the surface: the ray
		// diverges from it instead of converging to it
		if td.Z*d.Z < 0 {
			td = td.Negate()
		}
		children = append(children, ray.Child(point, td, ray.Intensity*(1-r), nTransmitted))
	}
	if r > 0 {
		mirrored := core.NewVec3(focalPoint.X, focalPoint.Y, -focalPoint.Z)
		rd := mirrored.Subtract(point)
		if rd.Z*d.Z > 0 {
			rd = rd.Negate()
		}
		children = append(children, ray.Child(point, rd, ray.Intensity*r, nIncident))
	}
	return children, nil
}
