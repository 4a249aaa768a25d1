// Package shape provides aperture boundary predicates used to clip surface
// intersections. Shapes live on a surface's local z=0 reference plane; only
// the x and y components of the tested point matter.
package shape

import "github.com/goptics/raytrace/pkg/core"

// Circular is a disc of the given radius centered on the local origin.
type Circular struct {
	Radius float64
}

// NewCircular creates a circular aperture
func NewCircular(radius float64) Circular {
	return Circular{Radius: radius}
}

// Contains reports whether p lies inside the disc.
func (c Circular) Contains(p core.Vec3) bool {
	return p.X*p.X+p.Y*p.Y <= c.Radius*c.Radius
}

// Rectangular is an axis-aligned rectangle centered on the local origin.
type Rectangular struct {
	Width  float64 // full extent along x
	Height float64 // full extent along y
}

// NewRectangular creates a rectangular aperture of the given full extents
func NewRectangular(width, height float64) Rectangular {
	return Rectangular{Width: width, Height: height}
}

// Contains reports whether p lies inside the rectangle.
func (r Rectangular) Contains(p core.Vec3) bool {
	return p.X >= -r.Width/2 && p.X <= r.Width/2 &&
		p.Y >= -r.Height/2 && p.Y <= r.Height/2
}
