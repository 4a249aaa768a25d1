package surface

import (
	"fmt"
	"math"

	"github.com/goptics/raytrace/pkg/core"
)

// State is the discrete operating state of a TiltMirror.
type State string

// Valid TiltMirror states.
const (
	StateOn   State = "on"
	StateOff  State = "off"
	StateFlat State = "flat"
)

// TiltMirror is a fully reflective flat surface whose normal is not
// computed from geometry but selected from three unit vectors precomputed
// at construction, keyed by the operating state. It models a micromirror
// element of a DMD: the geometric plane stays at z=0, only the optical
// normal tilts.
//
// The state may be changed between traces, never while one is in flight;
// a propagate pass treats surface state as a read-only snapshot.
type TiltMirror struct {
	properties
	TiltAngle    float64 // angle between normal and +z, radians
	OnDirection  float64 // azimuth of the normal in the on state, radians from +x
	OffDirection float64 // azimuth of the normal in the off state
	normals      map[State]core.Vec3
	state        State
}

// NewTiltMirror creates a state-dependent tilting mirror. The tilt
// magnitude and the two azimuthal direction angles fix the on/off normals
// once; changing state later only swaps which precomputed normal is used.
func NewTiltMirror(tiltAngle, onDirection, offDirection float64, state State, aperture core.Shape) (*TiltMirror, error) {
	if err := validateState(state); err != nil {
		return nil, err
	}
	m := &TiltMirror{
		properties:   newProperties(aperture, nil),
		TiltAngle:    tiltAngle,
		OnDirection:  onDirection,
		OffDirection: offDirection,
		normals: map[State]core.Vec3{
			StateOn:   tiltedNormal(tiltAngle, onDirection),
			StateOff:  tiltedNormal(tiltAngle, offDirection),
			StateFlat: core.NewVec3(0, 0, 1),
		},
		state: state,
	}
	return m, nil
}

// tiltedNormal converts a tilt magnitude and azimuthal direction angle to a
// unit normal via the spherical-to-Cartesian formula.
func tiltedNormal(tilt, direction float64) core.Vec3 {
	return core.NewVec3(
		math.Sin(tilt)*math.Cos(direction),
		math.Sin(tilt)*math.Sin(direction),
		math.Cos(tilt),
	).Normalize()
}

func validateState(s State) error {
	switch s {
	case StateOn, StateOff, StateFlat:
		return nil
	}
	return fmt.Errorf("invalid tilt mirror state %q (want on, off or flat)", s)
}

// State returns the current operating state.
func (s *TiltMirror) State() State { return s.state }

// SetState switches the operating state. It only swaps which precomputed
// normal Normal returns; no geometry is re-derived.
func (s *TiltMirror) SetState(state State) error {
	if err := validateState(state); err != nil {
		return err
	}
	s.state = state
	return nil
}

// Intersect implements the Surface interface. The mirror is geometrically a
// flat plane regardless of state.
func (s *TiltMirror) Intersect(ray core.Ray) core.Vec3 {
	return intersectPlane(ray, s.aperture)
}

// Normal implements the Surface interface: a pure lookup of the normal
// precomputed for the current state. The point argument is ignored.
func (s *TiltMirror) Normal(core.Vec3) core.Vec3 {
	return s.normals[s.state]
}

// Propagate implements the Surface interface. The mirror is fully
// reflective: exactly one child ray, reflected about the state-selected
// normal, staying in the incident medium.
func (s *TiltMirror) Propagate(ray core.Ray, nIncident, _ float64) ([]core.Ray, error) {
	point := s.Intersect(ray)
	if core.IsNoHit(point) {
		return nil, nil
	}
	dir := reflectVector(ray.Direction, s.Normal(point))
	return []core.Ray{ray.Child(point, dir, ray.Intensity, nIncident)}, nil
}
