package core

// Shape is the aperture boundary predicate. Surfaces use it to clip
// intersections to their boundary, and stops use it to test internal holes.
// The point is expressed in the surface's local frame, on its z=0 reference
// plane.
type Shape interface {
	Contains(p Vec3) bool
}

// Medium supplies the refractive index of a material as a function of
// wavelength (microns). The tracer treats it as an opaque function.
type Medium interface {
	RefractiveIndex(wavelength float64) float64
}

// Reflectance returns the fraction of intensity redirected into the
// reflected branch at a surface, for the given wavelength. Values must be
// in [0,1]; anything else is a configuration error reported at propagation
// time.
type Reflectance func(wavelength float64) float64
