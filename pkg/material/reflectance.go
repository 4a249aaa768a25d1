package material

import (
	"fmt"

	"github.com/goptics/raytrace/pkg/core"
)

// ConstantReflectance returns a coating with the same reflectivity at every
// wavelength. The value is not range-checked here; surfaces validate it at
// propagation time so that a bad configuration is reported against the ray
// that hits it.
func ConstantReflectance(r float64) core.Reflectance {
	return func(wavelength float64) float64 {
		return r
	}
}

// Mirror is a fully reflective coating.
func Mirror() core.Reflectance {
	return ConstantReflectance(1.0)
}

// TabulatedReflectance builds a spectrally varying coating by linear
// interpolation over (wavelength, reflectivity) samples. Wavelengths must be
// strictly increasing. Queries outside the table clamp to the end samples.
// A malformed table is a configuration error.
func TabulatedReflectance(wavelengths, values []float64) (core.Reflectance, error) {
	if len(wavelengths) == 0 {
		return nil, fmt.Errorf("reflectance table is empty")
	}
	if len(wavelengths) != len(values) {
		return nil, fmt.Errorf("reflectance table has %d wavelengths but %d values",
			len(wavelengths), len(values))
	}
	for i := 1; i < len(wavelengths); i++ {
		if wavelengths[i] <= wavelengths[i-1] {
			return nil, fmt.Errorf("reflectance table wavelengths must be strictly increasing, got %v after %v",
				wavelengths[i], wavelengths[i-1])
		}
	}
	ws := append([]float64(nil), wavelengths...)
	vs := append([]float64(nil), values...)

	return func(wavelength float64) float64 {
		if wavelength <= ws[0] {
			return vs[0]
		}
		if wavelength >= ws[len(ws)-1] {
			return vs[len(vs)-1]
		}
		for i := 1; i < len(ws); i++ {
			if wavelength <= ws[i] {
				t := (wavelength - ws[i-1]) / (ws[i] - ws[i-1])
				return vs[i-1] + t*(vs[i]-vs[i-1])
			}
		}
		return vs[len(vs)-1]
	}, nil
}
