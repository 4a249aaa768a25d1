package surface

import (
	"math"
	"testing"

	"github.com/goptics/raytrace/pkg/core"
	"github.com/goptics/raytrace/pkg/material"
	"github.com/goptics/raytrace/pkg/shape"
)

func TestSpherical_Intersect_Vertex(t *testing.T) {
	// curvature 0.1 -> radius 10, center at (0,0,10)
	s := NewSpherical(0.1, nil, nil)

	ray := testRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	p := s.Intersect(ray)

	if core.IsNoHit(p) {
		t.Fatal("Expected hit at the vertex")
	}
	if p.Subtract(core.NewVec3(0, 0, 0)).Length() > 1e-9 {
		t.Errorf("Expected vertex intersection (0,0,0), got %v", p)
	}
}

func TestSpherical_Intersect_OffAxisSag(t *testing.T) {
	s := NewSpherical(0.1, shape.NewCircular(5), nil)

	// off-axis ray parallel to the z axis hits the cap at the sag height
	ray := testRay(core.NewVec3(3, 0, 20), core.NewVec3(0, 0, -1))
	p := s.Intersect(ray)
	if core.IsNoHit(p) {
		t.Fatal("Expected hit on the cap")
	}

	// sag of a sphere of radius 10 at r=3: z = R - sqrt(R² - r²)
	expectedZ := 10.0 - math.Sqrt(100.0-9.0)
	if math.Abs(p.Z-expectedZ) > 1e-9 {
		t.Errorf("Expected sag z=%v, got z=%v", expectedZ, p.Z)
	}
}

func TestSpherical_Intersect_MissesSphere(t *testing.T) {
	s := NewSpherical(0.1, nil, nil)

	ray := testRay(core.NewVec3(50, 0, 5), core.NewVec3(0, 0, -1))
	if p := s.Intersect(ray); !core.IsNoHit(p) {
		t.Errorf("Expected NoHit far off axis, got %v", p)
	}
}

func TestSpherical_Intersect_ApertureClipsCap(t *testing.T) {
	s := NewSpherical(0.1, shape.NewCircular(2), nil)

	ray := testRay(core.NewVec3(4, 0, 20), core.NewVec3(0, 0, -1))
	if p := s.Intersect(ray); !core.IsNoHit(p) {
		t.Errorf("Expected aperture to clip the hit, got %v", p)
	}
}

func TestSpherical_Normal(t *testing.T) {
	s := NewSpherical(0.1, nil, nil)

	// at the vertex the normal matches the flat-variant convention
	n := s.Normal(core.NewVec3(0, 0, 0))
	if n.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
		t.Errorf("Expected vertex normal (0,0,1), got %v", n)
	}

	// negative curvature keeps the same vertex normal
	concave := NewSpherical(-0.1, nil, nil)
	n = concave.Normal(core.NewVec3(0, 0, 0))
	if n.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
		t.Errorf("Expected vertex normal (0,0,1) for negative curvature, got %v", n)
	}

	// off the vertex, the normal points from the footpoint toward the center
	sag := 10.0 - math.Sqrt(100.0-9.0)
	p := core.NewVec3(3, 0, sag)
	n = s.Normal(p)
	expected := core.NewVec3(0, 0, 10).Subtract(p).Normalize()
	if n.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected normal %v, got %v", expected, n)
	}
}

func TestSpherical_Propagate_EnergySplit(t *testing.T) {
	s := NewSpherical(0.05, shape.NewCircular(10), material.ConstantReflectance(0.2))

	ray := testRay(core.NewVec3(2, 1, 20), core.NewVec3(0, 0, -1))
	children, err := s.Propagate(ray, 1.0, 1.5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("Expected 2 children, got %d", len(children))
	}

	total := children[0].Intensity + children[1].Intensity
	if math.Abs(total-ray.Intensity) > 1e-12 {
		t.Errorf("Energy not conserved: %v vs %v", total, ray.Intensity)
	}
	if children[0].RefIndex != 1.5 || children[1].RefIndex != 1.0 {
		t.Errorf("Expected media 1.5/1.0, got %v/%v", children[0].RefIndex, children[1].RefIndex)
	}
}

func TestSpherical_Propagate_AxialRayGoesStraight(t *testing.T) {
	s := NewSpherical(0.05, nil, material.ConstantReflectance(0))

	ray := testRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1))
	children, err := s.Propagate(ray, 1.0, 1.5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(children) != 1 {
		t.Fatalf("Expected 1 child, got %d", len(children))
	}

	// normal incidence at the vertex: no bending
	if children[0].Direction.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-9 {
		t.Errorf("Axial ray should not bend, got %v", children[0].Direction)
	}
}
