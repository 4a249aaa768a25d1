package core

// Default wavelength (microns) used when a source does not specify one.
// 0.58929 µm is the sodium D doublet used as the reference line in optics.
const DefaultWavelength = 0.58929

// Ray is the unit of simulation: a directed half-line with scalar intensity,
// wavelength and lineage information. Rays are never mutated after creation;
// every propagation step produces new Ray values. The Parent pointer is a
// non-owning back-reference, ownership of all rays in a trace belongs to the
// ray tree built by the tracer.
type Ray struct {
	Origin     Vec3
	Direction  Vec3    // unit length
	Intensity  float64 // >= 0
	Wavelength float64 // microns
	RefIndex   float64 // refractive index of the medium the ray travels in
	Label      string
	Generation int    // depth in the ray tree, strictly increasing
	Parent     *Ray   // nil for source rays
	SurfaceID  string // id of the surface that produced this ray
}

// NewRay creates a source ray. The direction is normalized so the unit
// length invariant holds no matter what the caller passes in.
func NewRay(origin, direction Vec3, intensity, wavelength float64) Ray {
	if wavelength <= 0 {
		wavelength = DefaultWavelength
	}
	return Ray{
		Origin:     origin,
		Direction:  direction.Normalize(),
		Intensity:  intensity,
		Wavelength: wavelength,
		RefIndex:   1.0,
	}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Child builds the next-generation ray spawned by a propagation step,
// inheriting wavelength and label from r.
func (r Ray) Child(origin, direction Vec3, intensity, refIndex float64) Ray {
	return Ray{
		Origin:     origin,
		Direction:  direction.Normalize(),
		Intensity:  intensity,
		Wavelength: r.Wavelength,
		RefIndex:   refIndex,
		Label:      r.Label,
		Generation: r.Generation + 1,
	}
}
