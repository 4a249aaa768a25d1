package surface

import "github.com/goptics/raytrace/pkg/core"

// Stop is a flat surface with no optical redirection. Rays landing inside
// the internal hole map to NoHit at the intersection step and never see the
// surface; rays hitting the rest of the outer boundary pass through
// unchanged, which records the impact in the ray tree without modifying
// intensity, direction or medium.
//
// With a nil hole the surface is a full stop: an opaque face that absorbs
// every ray inside the outer boundary. The hit intersects normally so the
// tracer records it, but no child rays are produced.
type Stop struct {
	properties
	hole core.Shape // internal hole mapping to NoHit; nil makes the face opaque
}

// NewStop creates a stop with the given outer boundary and internal hole.
func NewStop(aperture core.Shape, hole core.Shape) *Stop {
	return &Stop{
		properties: newProperties(aperture, nil),
		hole:       hole,
	}
}

// Intersect implements the Surface interface. Points inside the hole map
// to NoHit, terminating the ray with respect to this surface.
func (s *Stop) Intersect(ray core.Ray) core.Vec3 {
	p := intersectPlane(ray, s.aperture)
	if core.IsNoHit(p) {
		return p
	}
	if s.hole != nil && s.hole.Contains(p) {
		return core.NoHit()
	}
	return p
}

// Normal implements the Surface interface.
func (s *Stop) Normal(core.Vec3) core.Vec3 {
	return core.NewVec3(0, 0, 1)
}

// Propagate implements the Surface interface: a single pass-through child
// at the clipped intersection point, keeping the incident direction,
// intensity and medium. An opaque face (nil hole) absorbs the ray instead,
// returning no children so the recorded hit becomes a terminal leaf.
func (s *Stop) Propagate(ray core.Ray, _, _ float64) ([]core.Ray, error) {
	point := s.Intersect(ray)
	if core.IsNoHit(point) {
		return nil, nil
	}
	if s.hole == nil {
		return nil, nil
	}
	return []core.Ray{ray.Child(point, ray.Direction, ray.Intensity, ray.RefIndex)}, nil
}
