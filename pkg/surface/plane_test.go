package surface

import (
	"math"
	"testing"

	"github.com/goptics/raytrace/pkg/core"
	"github.com/goptics/raytrace/pkg/material"
	"github.com/goptics/raytrace/pkg/shape"
)

func testRay(origin, direction core.Vec3) core.Ray {
	return core.NewRay(origin, direction, 1.0, core.DefaultWavelength)
}

func TestPlane_Intersect_Basic(t *testing.T) {
	plane := NewPlane(nil, nil)

	ray := testRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	p := plane.Intersect(ray)

	if core.IsNoHit(p) {
		t.Fatal("Expected hit, got NoHit")
	}
	if !p.Equals(core.NewVec3(0, 0, 0)) {
		t.Errorf("Expected intersection at origin, got %v", p)
	}
}

func TestPlane_Intersect_Oblique(t *testing.T) {
	plane := NewPlane(nil, nil)

	ray := testRay(core.NewVec3(0, 0, 2), core.NewVec3(1, 0, -1))
	p := plane.Intersect(ray)

	if core.IsNoHit(p) {
		t.Fatal("Expected hit, got NoHit")
	}
	if !p.Equals(core.NewVec3(2, 0, 0)) {
		t.Errorf("Expected intersection at (2,0,0), got %v", p)
	}
}

func TestPlane_Intersect_ParallelRay(t *testing.T) {
	plane := NewPlane(nil, nil)

	ray := testRay(core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0))
	if p := plane.Intersect(ray); !core.IsNoHit(p) {
		t.Errorf("Expected NoHit for parallel ray, got %v", p)
	}
}

func TestPlane_Intersect_BehindOrigin(t *testing.T) {
	plane := NewPlane(nil, nil)

	// Moving away from the plane: intersection parameter is negative
	ray := testRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1))
	if p := plane.Intersect(ray); !core.IsNoHit(p) {
		t.Errorf("Expected NoHit for intersection behind origin, got %v", p)
	}
}

func TestPlane_Intersect_ApertureClipping(t *testing.T) {
	plane := NewPlane(shape.NewCircular(1), nil)

	inside := testRay(core.NewVec3(0.5, 0, 5), core.NewVec3(0, 0, -1))
	if p := plane.Intersect(inside); core.IsNoHit(p) {
		t.Error("Expected hit inside aperture")
	}

	outside := testRay(core.NewVec3(2, 0, 5), core.NewVec3(0, 0, -1))
	if p := plane.Intersect(outside); !core.IsNoHit(p) {
		t.Errorf("Expected NoHit outside aperture, got %v", p)
	}
}

func TestPlane_Propagate_PureTransmission(t *testing.T) {
	plane := NewPlane(nil, material.ConstantReflectance(0))

	// 45 degree incidence from air into glass
	ray := testRay(core.NewVec3(-1, 0, 1), core.NewVec3(1, 0, -1))
	children, err := plane.Propagate(ray, 1.0, 1.5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(children) != 1 {
		t.Fatalf("Expected exactly 1 child for R=0, got %d", len(children))
	}

	child := children[0]
	if child.RefIndex != 1.5 {
		t.Errorf("Transmitted child should carry n=1.5, got %v", child.RefIndex)
	}
	if math.Abs(child.Intensity-ray.Intensity) > 1e-12 {
		t.Errorf("R=0 must not change intensity: %v vs %v", child.Intensity, ray.Intensity)
	}

	// Snell: sin(t) = sin(45°)/1.5; refraction bends toward the normal
	sinT := math.Sin(math.Pi/4) / 1.5
	if math.Abs(math.Abs(child.Direction.X)-sinT) > 1e-9 {
		t.Errorf("Expected |dir.x| = %v (Snell), got %v", sinT, child.Direction.X)
	}
	if child.Direction.Z >= 0 {
		t.Errorf("Transmitted ray should keep traveling toward -z, got %v", child.Direction)
	}
}

func TestPlane_Propagate_PureReflection(t *testing.T) {
	plane := NewPlane(nil, material.Mirror())

	ray := testRay(core.NewVec3(-1, 0, 1), core.NewVec3(1, 0, -1))
	children, err := plane.Propagate(ray, 1.0, 1.5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(children) != 1 {
		t.Fatalf("Expected exactly 1 child for R=1, got %d", len(children))
	}

	child := children[0]
	expected := core.NewVec3(1, 0, 1).Normalize()
	if child.Direction.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected mirror direction %v, got %v", expected, child.Direction)
	}
	if child.RefIndex != 1.0 {
		t.Errorf("Reflected child should keep the incident medium, got %v", child.RefIndex)
	}
	if child.Generation != ray.Generation+1 {
		t.Errorf("Child generation should increase by one, got %d", child.Generation)
	}
}

func TestPlane_Propagate_BeamSplit(t *testing.T) {
	plane := NewPlane(nil, material.ConstantReflectance(0.3))

	ray := testRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	children, err := plane.Propagate(ray, 1.0, 1.5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("Expected exactly 2 children for 0<R<1, got %d", len(children))
	}

	total := children[0].Intensity + children[1].Intensity
	if math.Abs(total-ray.Intensity) > 1e-12 {
		t.Errorf("Energy not conserved: children sum to %v, parent %v", total, ray.Intensity)
	}

	transmitted, reflected := children[0], children[1]
	if math.Abs(transmitted.Intensity-0.7) > 1e-12 {
		t.Errorf("Transmitted intensity should be 0.7, got %v", transmitted.Intensity)
	}
	if math.Abs(reflected.Intensity-0.3) > 1e-12 {
		t.Errorf("Reflected intensity should be 0.3, got %v", reflected.Intensity)
	}
}

func TestPlane_Propagate_TotalInternalReflection(t *testing.T) {
	plane := NewPlane(nil, material.ConstantReflectance(0))

	// From glass into air at 60°, past the ~41.8° critical angle
	dir := core.NewVec3(math.Sin(math.Pi/3), 0, -math.Cos(math.Pi/3))
	ray := testRay(core.NewVec3(0, 0, 1).Subtract(dir), dir)
	children, err := plane.Propagate(ray, 1.5, 1.0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(children) != 1 {
		t.Fatalf("Expected exactly 1 child under TIR, got %d", len(children))
	}

	child := children[0]
	if child.RefIndex != 1.5 {
		t.Errorf("TIR child must stay in the incident medium, got n=%v", child.RefIndex)
	}
	expected := reflectVector(ray.Direction, core.NewVec3(0, 0, 1))
	if child.Direction.Subtract(expected).Length() > 1e-9 {
		t.Errorf("TIR direction should be mirror reflection %v, got %v", expected, child.Direction)
	}
}

func TestPlane_Propagate_InvalidReflectivity(t *testing.T) {
	tests := []struct {
		name string
		r    float64
	}{
		{"Negative", -0.1},
		{"Above one", 1.5},
		{"NaN", math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plane := NewPlane(nil, material.ConstantReflectance(tt.r))
			ray := testRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))

			if _, err := plane.Propagate(ray, 1.0, 1.0); err == nil {
				t.Error("Expected configuration error for out-of-range reflectivity")
			}
		})
	}
}

func TestPlane_Propagate_MissReturnsNoChildren(t *testing.T) {
	plane := NewPlane(shape.NewCircular(1), material.ConstantReflectance(0.5))

	ray := testRay(core.NewVec3(5, 5, 5), core.NewVec3(0, 0, -1))
	children, err := plane.Propagate(ray, 1.0, 1.5)
	if err != nil {
		t.Fatalf("NoHit must not be an error: %v", err)
	}
	if len(children) != 0 {
		t.Errorf("Expected no children on miss, got %d", len(children))
	}
}

func TestSurfaceNormals_UnitLength(t *testing.T) {
	mirror, err := NewTiltMirror(math.Pi/6, math.Pi/4, 5*math.Pi/4, StateOn, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	surfaces := []Surface{
		NewPlane(nil, nil),
		NewIdealLens(100, nil, nil),
		NewStop(shape.NewCircular(5), shape.NewCircular(1)),
		NewSpherical(0.05, nil, nil),
		mirror,
	}
	points := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, -2, 0.3),
		core.NewVec3(-3, 0.5, -0.1),
	}

	for _, s := range surfaces {
		for _, p := range points {
			n := s.Normal(p)
			if math.Abs(n.Length()-1.0) > 1e-9 {
				t.Errorf("%T normal at %v has length %v, expected 1", s, p, n.Length())
			}
		}
	}
}
