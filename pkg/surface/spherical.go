package surface

import (
	"math"

	"github.com/goptics/raytrace/pkg/core"
)

// Spherical is a spherical cap of the given curvature (1/radius), tangent
// to the local z=0 plane at the origin with its center of curvature on the
// z axis. Positive curvature bulges toward +z.
type Spherical struct {
	properties
	Curvature float64 // 1/radius, must be non-zero
}

// NewSpherical creates a spherical surface. Use a Plane for zero curvature.
func NewSpherical(curvature float64, aperture core.Shape, reflectance core.Reflectance) *Spherical {
	return &Spherical{
		properties: newProperties(aperture, reflectance),
		Curvature:  curvature,
	}
}

func (s *Spherical) radius() float64 { return 1.0 / s.Curvature }

// Intersect implements the Surface interface: quadratic ray-sphere
// intersection against the full sphere, then aperture clipping selects the
// cap. The nearer valid root wins.
func (s *Spherical) Intersect(ray core.Ray) core.Vec3 {
	radius := s.radius()
	center := core.NewVec3(0, 0, radius)

	oc := ray.Origin.Subtract(center)
	// unit direction, so the quadratic coefficient a == 1
	b := 2.0 * ray.Direction.Dot(oc)
	c := oc.LengthSquared() - radius*radius

	disc := b*b - 4.0*c
	if disc < 0 {
		return core.NoHit()
	}
	sqrtDisc := math.Sqrt(disc)

	// Both roots lie on the full sphere; the surface is only the cap near
	// z=0, so of the forward, aperture-contained candidates keep the one
	// closest to the vertex plane.
	best := core.NoHit()
	for _, t := range [2]float64{(-b - sqrtDisc) / 2.0, (-b + sqrtDisc) / 2.0} {
		if t <= hitEpsilon {
			continue
		}
		p := ray.At(t)
		if s.aperture != nil && !s.aperture.Contains(p) {
			continue
		}
		if core.IsNoHit(best) || math.Abs(p.Z) < math.Abs(best.Z) {
			best = p
		}
	}
	return best
}

// Normal implements the Surface interface. The normal depends on the
// footpoint; at the vertex it coincides with the flat-variant normal
// (0,0,1) for either curvature sign.
func (s *Spherical) Normal(p core.Vec3) core.Vec3 {
	center := core.NewVec3(0, 0, s.radius())
	n := center.Subtract(p).Normalize()
	if s.Curvature < 0 {
		n = n.Negate()
	}
	return n
}

// Propagate implements the Surface interface with the same response state
// machine as Plane, using the footpoint-dependent normal.
func (s *Spherical) Propagate(ray core.Ray, nIncident, nTransmitted float64) ([]core.Ray, error) {
	return refractiveSplit(s, &s.properties, ray, nIncident, nTransmitted)
}
