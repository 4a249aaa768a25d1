// Package source provides deterministic ray bundle generators used to
// feed the tracer: point sources emitting a cone fan and collimated
// parallel beams.
package source

import (
	"math"

	"github.com/goptics/raytrace/pkg/core"
)

// basis returns two unit vectors spanning the plane perpendicular to d.
func basis(d core.Vec3) (core.Vec3, core.Vec3) {
	up := core.NewVec3(0, 1, 0)
	if math.Abs(d.Y) > 0.999 {
		up = core.NewVec3(1, 0, 0)
	}
	u := up.Cross(d).Normalize()
	v := d.Cross(u)
	return u, v
}

// PointSource emits rays from a single point into a cone around a chief
// direction. The fan is deterministic: a chief ray plus Rings concentric
// rings of RaysPerRing rays each, evenly spaced in angle out to the cone
// half-angle.
type PointSource struct {
	Origin      core.Vec3
	Direction   core.Vec3
	HalfAngle   float64 // radians
	Rings       int
	RaysPerRing int
	Intensity   float64
	Wavelength  float64
}

// NewPointSource creates a point source with a sensible default fan
// density of 3 rings of 8 rays.
func NewPointSource(origin, direction core.Vec3, halfAngle float64) *PointSource {
	return &PointSource{
		Origin:      origin,
		Direction:   direction,
		HalfAngle:   halfAngle,
		Rings:       3,
		RaysPerRing: 8,
		Intensity:   1.0,
		Wavelength:  core.DefaultWavelength,
	}
}

// Rays generates the bundle. The chief ray comes first so callers can
// always index it directly.
func (s *PointSource) Rays() []core.Ray {
	d := s.Direction.Normalize()
	rays := []core.Ray{core.NewRay(s.Origin, d, s.Intensity, s.Wavelength)}
	if s.HalfAngle <= 0 || s.Rings <= 0 || s.RaysPerRing <= 0 {
		return rays
	}

	u, v := basis(d)
	for ring := 1; ring <= s.Rings; ring++ {
		theta := s.HalfAngle * float64(ring) / float64(s.Rings)
		sinT, cosT := math.Sin(theta), math.Cos(theta)
		for i := 0; i < s.RaysPerRing; i++ {
			phi := 2 * math.Pi * float64(i) / float64(s.RaysPerRing)
			dir := d.Multiply(cosT).
				Add(u.Multiply(sinT * math.Cos(phi))).
				Add(v.Multiply(sinT * math.Sin(phi)))
			rays = append(rays, core.NewRay(s.Origin, dir, s.Intensity, s.Wavelength))
		}
	}
	return rays
}

// ParallelBeam emits a collimated rectangular grid of rays sharing one
// direction, centered on Origin in the plane perpendicular to the beam.
type ParallelBeam struct {
	Origin     core.Vec3
	Direction  core.Vec3
	Width      float64
	Height     float64
	Cols       int
	Rows       int
	Intensity  float64
	Wavelength float64
}

// NewParallelBeam creates a collimated beam with a default 5x5 grid.
func NewParallelBeam(origin, direction core.Vec3, width, height float64) *ParallelBeam {
	return &ParallelBeam{
		Origin:     origin,
		Direction:  direction,
		Width:      width,
		Height:     height,
		Cols:       5,
		Rows:       5,
		Intensity:  1.0,
		Wavelength: core.DefaultWavelength,
	}
}

// Rays generates the grid row by row. A single row or column collapses
// onto the beam axis.
func (b *ParallelBeam) Rays() []core.Ray {
	d := b.Direction.Normalize()
	cols, rows := b.Cols, b.Rows
	if cols <= 0 {
		cols = 1
	}
	if rows <= 0 {
		rows = 1
	}

	u, v := basis(d)
	rays := make([]core.Ray, 0, cols*rows)
	for j := 0; j < rows; j++ {
		y := 0.0
		if rows > 1 {
			y = b.Height * (float64(j)/float64(rows-1) - 0.5)
		}
		for i := 0; i < cols; i++ {
			x := 0.0
			if cols > 1 {
				x = b.Width * (float64(i)/float64(cols-1) - 0.5)
			}
			origin := b.Origin.Add(u.Multiply(x)).Add(v.Multiply(y))
			rays = append(rays, core.NewRay(origin, d, b.Intensity, b.Wavelength))
		}
	}
	return rays
}
