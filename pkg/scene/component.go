// Package scene provides the hierarchical assembly of optical systems: a
// tree of positioned components holding positioned surfaces, rooted in a
// System that also carries the ambient medium.
package scene

import (
	"github.com/goptics/raytrace/pkg/core"
	"github.com/goptics/raytrace/pkg/material"
	"github.com/goptics/raytrace/pkg/surface"
)

// PlacedSurface is a surface with its pose relative to the owning
// component and the medium on its transmitted side. A nil medium means the
// system's ambient medium.
type PlacedSurface struct {
	Surface surface.Surface
	Pose    core.Transform
	Medium  core.Medium
}

// PlacedComponent is a sub-component with its pose relative to the parent.
type PlacedComponent struct {
	Component *Component
	Pose      core.Transform
}

// Component is a frame node: an ordered collection of surfaces and
// sub-components, each positioned relative to this component's own frame.
// The order of AddSurface/AddComponent calls is significant: the tracer
// breaks nearest-hit ties in favor of earlier declarations.
type Component struct {
	Surfaces []PlacedSurface
	Children []PlacedComponent
}

// NewComponent creates an empty component
func NewComponent() *Component {
	return &Component{}
}

// AddSurface appends a surface at the given pose. The medium is the
// material behind the surface (nil for ambient).
func (c *Component) AddSurface(s surface.Surface, pose core.Transform, medium core.Medium) {
	c.Surfaces = append(c.Surfaces, PlacedSurface{Surface: s, Pose: pose, Medium: medium})
}

// AddComponent appends a sub-component at the given pose.
func (c *Component) AddComponent(child *Component, pose core.Transform) {
	c.Children = append(c.Children, PlacedComponent{Component: child, Pose: pose})
}

// System is the global root frame. It owns the component tree and the
// ambient medium rays start in.
type System struct {
	Root    *Component
	Ambient core.Medium
}

// NewSystem creates an empty system with the given ambient medium; nil
// defaults to air.
func NewSystem(ambient core.Medium) *System {
	if ambient == nil {
		ambient = material.Air
	}
	return &System{Root: NewComponent(), Ambient: ambient}
}

// AmbientIndex returns the ambient refractive index at a wavelength.
func (s *System) AmbientIndex(wavelength float64) float64 {
	return s.Ambient.RefractiveIndex(wavelength)
}

// SurfaceEntry is one surface of the flattened tree together with its
// composed global pose, ready for the tracer's nearest-hit search.
type SurfaceEntry struct {
	Surface surface.Surface
	Medium  core.Medium // nil means ambient
	ToWorld core.Transform
	ToLocal core.Transform
}

// Flatten walks the component tree depth-first in declaration order and
// returns every surface with its composed world pose. The returned order
// is the nearest-hit tie-break order. The scene graph must not be mutated
// while a trace uses the result.
func (s *System) Flatten() []SurfaceEntry {
	var entries []SurfaceEntry
	flattenInto(&entries, s.Root, core.IdentityTransform())
	return entries
}

func flattenInto(entries *[]SurfaceEntry, c *Component, parent core.Transform) {
	for _, ps := range c.Surfaces {
		toWorld := parent.Compose(ps.Pose)
		*entries = append(*entries, SurfaceEntry{
			Surface: ps.Surface,
			Medium:  ps.Medium,
			ToWorld: toWorld,
			ToLocal: toWorld.Inverse(),
		})
	}
	for _, pc := range c.Children {
		flattenInto(entries, pc.Component, parent.Compose(pc.Pose))
	}
}
