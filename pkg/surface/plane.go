package surface

import "github.com/goptics/raytrace/pkg/core"

// Plane is a flat interface on the local z=0 plane. Depending on its
// coating it behaves as a dielectric boundary (R=0), a mirror (R=1) or a
// beam splitter (0<R<1).
type Plane struct {
	properties
}

// NewPlane creates a flat surface clipped to the given aperture. A nil
// aperture means the plane is unbounded; a nil reflectance means fully
// transmissive.
func NewPlane(aperture core.Shape, reflectance core.Reflectance) *Plane {
	return &Plane{properties: newProperties(aperture, reflectance)}
}

// Intersect implements the Surface interface.
func (s *Plane) Intersect(ray core.Ray) core.Vec3 {
	return intersectPlane(ray, s.aperture)
}

// Normal implements the Surface interface. The point argument is ignored;
// a plane's normal is constant.
func (s *Plane) Normal(core.Vec3) core.Vec3 {
	return core.NewVec3(0, 0, 1)
}

// Propagate implements the Surface interface using Snell's law for the
// transmitted branch and mirror reflection for the reflected branch.
func (s *Plane) Propagate(ray core.Ray, nIncident, nTransmitted float64) ([]core.Ray, error) {
	return refractiveSplit(s, &s.properties, ray, nIncident, nTransmitted)
}
