// Package material provides the dispersion and coating collaborators used
// at optical interfaces: refractive index as a function of wavelength and
// reflectance as a function of wavelength.
package material

import (
	"math"

	lru "github.com/hashicorp/golang-lru"

	"github.com/goptics/raytrace/pkg/core"
)

// Constant is a non-dispersive medium with a fixed refractive index.
type Constant struct {
	N float64
}

// NewConstant creates a constant-index medium
func NewConstant(n float64) Constant {
	return Constant{N: n}
}

// RefractiveIndex implements core.Medium.
func (c Constant) RefractiveIndex(wavelength float64) float64 {
	return c.N
}

// Air is the ambient medium used when nothing else is configured.
var Air = Constant{N: 1.0}

// Sellmeier is a three-term Sellmeier dispersion model:
//
//	n²(λ) = 1 + Σ Bᵢλ² / (λ² − Cᵢ)
//
// with λ in microns and Cᵢ in square microns. Evaluations are memoized in an
// LRU cache because a trace asks for the same handful of wavelengths over
// and over.
type Sellmeier struct {
	B     [3]float64
	C     [3]float64
	cache *lru.Cache // wavelength -> index
}

// NewSellmeier creates a Sellmeier medium from its six coefficients.
func NewSellmeier(b1, b2, b3, c1, c2, c3 float64) *Sellmeier {
	cache, _ := lru.New(256)
	return &Sellmeier{
		B:     [3]float64{b1, b2, b3},
		C:     [3]float64{c1, c2, c3},
		cache: cache,
	}
}

// BK7 returns the standard Schott N-BK7 borosilicate crown glass.
func BK7() *Sellmeier {
	return NewSellmeier(
		1.03961212, 0.231792344, 1.01046945,
		0.00600069867, 0.0200179144, 103.560653,
	)
}

// RefractiveIndex implements core.Medium.
func (s *Sellmeier) RefractiveIndex(wavelength float64) float64 {
	if v, ok := s.cache.Get(wavelength); ok {
		return v.(float64)
	}
	n := s.evaluate(wavelength)
	s.cache.Add(wavelength, n)
	return n
}

func (s *Sellmeier) evaluate(wavelength float64) float64 {
	l2 := wavelength * wavelength
	n2 := 1.0
	for i := 0; i < 3; i++ {
		n2 += s.B[i] * l2 / (l2 - s.C[i])
	}
	return math.Sqrt(n2)
}

var _ core.Medium = Constant{}
var _ core.Medium = (*Sellmeier)(nil)
