package scene

import (
	"fmt"
	"math"

	"github.com/goptics/raytrace/pkg/core"
	"github.com/goptics/raytrace/pkg/shape"
	"github.com/goptics/raytrace/pkg/surface"
)

// Default DMD device dimensions in mm, matching the DLP4710 active area.
const (
	DefaultDMDWidth     = 10.368
	DefaultDMDHeight    = 5.832
	DefaultDMDThickness = 2.0
)

// DMDDevice is a complete digital micromirror device packaged as a
// component: a parallelepiped whose front face is a TiltMirror and whose
// other five faces are full stops that block anything hitting the body.
// The component origin sits at the center of the optically active front
// face, following the principal-surface convention used for mirrors.
type DMDDevice struct {
	*Component
	Mirror *surface.TiltMirror
}

// NewDMDDevice builds a DMD device. Angles are radians; tiltAngle is the
// micromirror tilt magnitude and the direction angles give the azimuth the
// normal tilts toward in the on and off states. Dimensions are mm.
func NewDMDDevice(tiltAngle, onDirection, offDirection float64, state surface.State, width, height, thickness float64) (*DMDDevice, error) {
	if width <= 0 || height <= 0 || thickness <= 0 {
		return nil, fmt.Errorf("dmd device dimensions must be positive, got %v x %v x %v", width, height, thickness)
	}

	mirror, err := surface.NewTiltMirror(tiltAngle, onDirection, offDirection, state, shape.NewRectangular(width, height))
	if err != nil {
		return nil, err
	}
	mirror.SetID("front")

	c := NewComponent()
	c.AddSurface(mirror, core.NewTransform(0, math.Pi, 0, core.NewVec3(0, 0, 0)), nil)

	faces := []struct {
		id       string
		w, h     float64
		position core.Vec3
		rotation core.Vec3
	}{
		{"back", width, height, core.NewVec3(0, 0, thickness), core.NewVec3(0, 0, 0)},
		{"left", thickness, height, core.NewVec3(-width / 2, 0, -thickness / 2), core.NewVec3(0, math.Pi / 2, 0)},
		{"right", thickness, height, core.NewVec3(width / 2, 0, -thickness / 2), core.NewVec3(0, -math.Pi / 2, 0)},
		{"top", width, thickness, core.NewVec3(0, height / 2, -thickness / 2), core.NewVec3(-math.Pi / 2, 0, 0)},
		{"bottom", width, thickness, core.NewVec3(0, -height / 2, -thickness / 2), core.NewVec3(math.Pi / 2, 0, 0)},
	}
	for _, f := range faces {
		stop := surface.NewStop(shape.NewRectangular(f.w, f.h), nil)
		stop.SetID(f.id)
		c.AddSurface(stop, core.NewTransform(f.rotation.X, f.rotation.Y, f.rotation.Z, f.position), nil)
	}

	return &DMDDevice{Component: c, Mirror: mirror}, nil
}
