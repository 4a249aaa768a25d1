// Package surface implements the polymorphic optical surface contract:
// intersection, normal and physical response (propagate) in the surface's
// own local frame, where the geometry is defined relative to the z=0 plane.
package surface

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/goptics/raytrace/pkg/core"
)

// Surface is one optical interface. All three operations work in the
// surface's local frame; the caller is responsible for transforming rays in
// and child rays out.
//
// Intersect returns the first geometrically valid intersection of the ray
// with the surface, honoring the aperture boundary, or the core.NoHit
// sentinel. Absence of an intersection is a routine outcome on the hot
// path, never an error.
//
// Normal returns the unit outward normal at a point on the surface. Flat
// variants ignore the point argument; it exists for uniformity with curved
// variants.
//
// Propagate computes the physical response at the intersection and returns
// 0, 1 or 2 child rays. The only error it can return is a configuration
// error such as a reflectivity outside [0,1].
type Surface interface {
	ID() string
	SetID(id string)
	Intersect(ray core.Ray) core.Vec3
	Normal(p core.Vec3) core.Vec3
	Propagate(ray core.Ray, nIncident, nTransmitted float64) ([]core.Ray, error)
}

// properties holds the attributes shared by every surface variant: an
// identifier, the aperture boundary and the reflectance of the coating.
type properties struct {
	id          string
	aperture    core.Shape
	reflectance core.Reflectance
}

func newProperties(aperture core.Shape, reflectance core.Reflectance) properties {
	return properties{
		id:          uuid.NewString(),
		aperture:    aperture,
		reflectance: reflectance,
	}
}

// ID returns the surface identifier.
func (p *properties) ID() string { return p.id }

// SetID replaces the auto-assigned identifier, typically with the name the
// surface carries in a scene description.
func (p *properties) SetID(id string) { p.id = id }

// reflectivity evaluates the coating at the given wavelength and enforces
// the [0,1] range. A nil reflectance means an uncoated, fully transmissive
// surface.
func (p *properties) reflectivity(wavelength float64) (float64, error) {
	if p.reflectance == nil {
		return 0, nil
	}
	r := p.reflectance(wavelength)
	if r < 0 || r > 1 || math.IsNaN(r) {
		return 0, fmt.Errorf("surface %s: reflectivity %v at %v µm outside [0,1]", p.id, r, wavelength)
	}
	return r, nil
}

// hitEpsilon rejects intersections behind the ray origin and keeps a child
// ray spawned on a surface from immediately re-hitting it.
const hitEpsilon = 1e-9

// intersectPlane computes the intersection of a local-frame ray with the
// z=0 plane, clipped to the aperture. Rays parallel to the plane and
// intersections behind the origin return NoHit.
func intersectPlane(ray core.Ray, aperture core.Shape) core.Vec3 {
	if math.Abs(ray.Direction.Z) < hitEpsilon {
		return core.NoHit()
	}
	t := -ray.Origin.Z / ray.Direction.Z
	if t <= hitEpsilon {
		return core.NoHit()
	}
	p := ray.At(t)
	p.Z = 0 // the hit is on the reference plane by construction
	if aperture != nil && !aperture.Contains(p) {
		return core.NoHit()
	}
	return p
}

// reflectVector calculates the reflection of a vector d off a surface with normal n
func reflectVector(d, n core.Vec3) core.Vec3 {
	// r = d - 2*dot(d,n)*n
	return d.Subtract(n.Multiply(2 * d.Dot(n)))
}

// refractVector calculates the refraction of a unit direction using the
// vector form of Snell's law. The normal is re-oriented against the
// incident direction internally, so either normal orientation convention
// works. The second return value is true on total internal reflection.
func refractVector(d, n core.Vec3, nIncident, nTransmitted float64) (core.Vec3, bool) {
	cosI := -d.Dot(n)
	if cosI < 0 {
		n = n.Negate()
		cosI = -cosI
	}
	eta := nIncident / nTransmitted
	sin2T := eta * eta * (1.0 - cosI*cosI)
	if sin2T > 1.0 {
		return core.Vec3{}, true
	}
	cosT := math.Sqrt(1.0 - sin2T)
	return d.Multiply(eta).Add(n.Multiply(eta*cosI - cosT)).Normalize(), false
}

// refractiveSplit is the shared propagate state machine for refractive
// variants: pure transmission for R==0, pure reflection for R==1 and a
// two-ray energy-conserving split in between. Under total internal
// reflection the transmitted branch turns into a reflected ray that keeps
// the incident medium.
func refractiveSplit(s Surface, p *properties, ray core.Ray, nIncident, nTransmitted float64) ([]core.Ray, error) {
	point := s.Intersect(ray)
	if core.IsNoHit(point) {
		return nil, nil
	}
	r, err := p.reflectivity(ray.Wavelength)
	if err != nil {
		return nil, err
	}
	normal := s.Normal(point)

	children := make([]core.Ray, 0, 2)
	if r < 1 {
		dir, tir := refractVector(ray.Direction, normal, nIncident, nTransmitted)
		if tir {
			dir = reflectVector(ray.Direction, normal)
			children = append(children, ray.Child(point, dir, ray.Intensity*(1-r), nIncident))
		} else {
			children = append(children, ray.Child(point, dir, ray.Intensity*(1-r), nTransmitted))
		}
	}
	if r > 0 {
		dir := reflectVector(ray.Direction, normal)
		children = append(children, ray.Child(point, dir, ray.Intensity*r, nIncident))
	}
	return children, nil
}
