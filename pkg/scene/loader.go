package scene

import (
	"fmt"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/goptics/raytrace/pkg/core"
	"github.com/goptics/raytrace/pkg/material"
	"github.com/goptics/raytrace/pkg/shape"
	"github.com/goptics/raytrace/pkg/surface"
)

// sceneFile is the raw TOML structure of a scene description. All angles
// in the file are degrees, all lengths mm.
type sceneFile struct {
	Title      string                 `toml:"title"`
	Ambient    string                 `toml:"ambient"`
	Materials  map[string]materialDef `toml:"materials"`
	Surfaces   []surfaceDef           `toml:"surfaces"`
	Components []componentDef         `toml:"components"`
}

type materialDef struct {
	Type string     `toml:"type"` // constant | sellmeier | bk7
	N    float64    `toml:"n"`
	B    [3]float64 `toml:"b"`
	C    [3]float64 `toml:"c"`
}

type shapeDef struct {
	Shape  string  `toml:"shape"` // circular | rectangular
	Radius float64 `toml:"radius"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

type surfaceDef struct {
	ID          string    `toml:"id"`
	Type        string    `toml:"type"` // plane | mirror | ideal | stop | spherical | tiltmirror
	Focal       float64   `toml:"focal"`
	Curvature   float64   `toml:"curvature"`
	Reflectance float64   `toml:"reflectance"`
	Material    string    `toml:"material"`
	TiltAngle   float64   `toml:"tilt_angle"` // degrees
	OnAngle     float64   `toml:"on_angle"`
	OffAngle    float64   `toml:"off_angle"`
	State       string    `toml:"state"`
	Position    []float64 `toml:"position"`
	Rotation    []float64 `toml:"rotation"`
	Aperture    *shapeDef `toml:"aperture"`
	Hole        *shapeDef `toml:"hole"`
}

type componentDef struct {
	ID        string    `toml:"id"`
	Type      string    `toml:"type"` // dmd
	TiltAngle float64   `toml:"tilt_angle"`
	OnAngle   float64   `toml:"on_angle"`
	OffAngle  float64   `toml:"off_angle"`
	State     string    `toml:"state"`
	Width     float64   `toml:"width"`
	Height    float64   `toml:"height"`
	Thickness float64   `toml:"thickness"`
	Position  []float64 `toml:"position"`
	Rotation  []float64 `toml:"rotation"`
}

// LoadSystem reads a TOML scene description from a file and builds the
// optical system it describes.
func LoadSystem(filename string) (*System, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	return ParseSystem(data)
}

// ParseSystem builds an optical system from raw TOML scene data.
func ParseSystem(data []byte) (*System, error) {
	var sf sceneFile
	if err := toml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}

	materials, err := buildMaterials(sf.Materials)
	if err != nil {
		return nil, err
	}

	var ambient core.Medium
	if sf.Ambient != "" {
		m, ok := materials[sf.Ambient]
		if !ok {
			return nil, fmt.Errorf("unknown ambient material %q", sf.Ambient)
		}
		ambient = m
	}

	sys := NewSystem(ambient)

	for i, sd := range sf.Surfaces {
		s, medium, err := buildSurface(sd, materials)
		if err != nil {
			return nil, fmt.Errorf("surface %d (%s): %w", i, sd.ID, err)
		}
		pose, err := buildPose(sd.Position, sd.Rotation)
		if err != nil {
			return nil, fmt.Errorf("surface %d (%s): %w", i, sd.ID, err)
		}
		sys.Root.AddSurface(s, pose, medium)
	}

	for i, cd := range sf.Components {
		c, err := buildComponent(cd)
		if err != nil {
			return nil, fmt.Errorf("component %d (%s): %w", i, cd.ID, err)
		}
		pose, err := buildPose(cd.Position, cd.Rotation)
		if err != nil {
			return nil, fmt.Errorf("component %d (%s): %w", i, cd.ID, err)
		}
		sys.Root.AddComponent(c, pose)
	}

	return sys, nil
}

func buildMaterials(defs map[string]materialDef) (map[string]core.Medium, error) {
	materials := map[string]core.Medium{
		"air": material.Air,
		"bk7": material.BK7(),
	}
	for name, def := range defs {
		switch def.Type {
		case "constant":
			if def.N < 1 {
				return nil, fmt.Errorf("material %q: refractive index %v below 1", name, def.N)
			}
			materials[name] = material.NewConstant(def.N)
		case "sellmeier":
			materials[name] = material.NewSellmeier(
				def.B[0], def.B[1], def.B[2],
				def.C[0], def.C[1], def.C[2],
			)
		case "bk7":
			materials[name] = material.BK7()
		default:
			return nil, fmt.Errorf("material %q: unknown type %q", name, def.Type)
		}
	}
	return materials, nil
}

func buildShape(def *shapeDef) (core.Shape, error) {
	if def == nil {
		return nil, nil
	}
	switch def.Shape {
	case "circular":
		if def.Radius <= 0 {
			return nil, fmt.Errorf("circular shape needs a positive radius, got %v", def.Radius)
		}
		return shape.NewCircular(def.Radius), nil
	case "rectangular":
		if def.Width <= 0 || def.Height <= 0 {
			return nil, fmt.Errorf("rectangular shape needs positive dimensions, got %v x %v", def.Width, def.Height)
		}
		return shape.NewRectangular(def.Width, def.Height), nil
	default:
		return nil, fmt.Errorf("unknown shape %q", def.Shape)
	}
}

func buildSurface(sd surfaceDef, materials map[string]core.Medium) (surface.Surface, core.Medium, error) {
	aperture, err := buildShape(sd.Aperture)
	if err != nil {
		return nil, nil, err
	}

	var medium core.Medium
	if sd.Material != "" {
		m, ok := materials[sd.Material]
		if !ok {
			return nil, nil, fmt.Errorf("unknown material %q", sd.Material)
		}
		medium = m
	}

	var s surface.Surface
	switch sd.Type {
	case "plane":
		s = surface.NewPlane(aperture, material.ConstantReflectance(sd.Reflectance))
	case "mirror":
		s = surface.NewPlane(aperture, material.Mirror())
	case "ideal":
		if sd.Focal == 0 {
			return nil, nil, fmt.Errorf("ideal lens needs a nonzero focal length")
		}
		s = surface.NewIdealLens(sd.Focal, aperture, material.ConstantReflectance(sd.Reflectance))
	case "stop":
		hole, err := buildShape(sd.Hole)
		if err != nil {
			return nil, nil, err
		}
		s = surface.NewStop(aperture, hole)
	case "spherical":
		if sd.Curvature == 0 {
			return nil, nil, fmt.Errorf("spherical surface needs a nonzero curvature")
		}
		s = surface.NewSpherical(sd.Curvature, aperture, material.ConstantReflectance(sd.Reflectance))
	case "tiltmirror":
		state := surface.State(sd.State)
		if sd.State == "" {
			state = surface.StateFlat
		}
		tm, err := surface.NewTiltMirror(
			radians(sd.TiltAngle), radians(sd.OnAngle), radians(sd.OffAngle),
			state, aperture,
		)
		if err != nil {
			return nil, nil, err
		}
		s = tm
	default:
		return nil, nil, fmt.Errorf("unknown surface type %q", sd.Type)
	}

	if sd.ID != "" {
		s.SetID(sd.ID)
	}
	return s, medium, nil
}

func buildComponent(cd componentDef) (*Component, error) {
	switch cd.Type {
	case "dmd":
		width, height, thickness := cd.Width, cd.Height, cd.Thickness
		if width == 0 {
			width = DefaultDMDWidth
		}
		if height == 0 {
			height = DefaultDMDHeight
		}
		if thickness == 0 {
			thickness = DefaultDMDThickness
		}
		state := surface.State(cd.State)
		if cd.State == "" {
			state = surface.StateFlat
		}
		dmd, err := NewDMDDevice(
			radians(cd.TiltAngle), radians(cd.OnAngle), radians(cd.OffAngle),
			state, width, height, thickness,
		)
		if err != nil {
			return nil, err
		}
		return dmd.Component, nil
	default:
		return nil, fmt.Errorf("unknown component type %q", cd.Type)
	}
}

func buildPose(position, rotation []float64) (core.Transform, error) {
	if position == nil {
		position = []float64{0, 0, 0}
	}
	if rotation == nil {
		rotation = []float64{0, 0, 0}
	}
	if len(position) != 3 {
		return core.Transform{}, fmt.Errorf("position needs 3 elements, got %d", len(position))
	}
	if len(rotation) != 3 {
		return core.Transform{}, fmt.Errorf("rotation needs 3 elements, got %d", len(rotation))
	}
	return core.NewTransform(
		radians(rotation[0]), radians(rotation[1]), radians(rotation[2]),
		core.NewVec3(position[0], position[1], position[2]),
	), nil
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
