package shape

import (
	"testing"

	"github.com/goptics/raytrace/pkg/core"
)

func TestCircular_Contains(t *testing.T) {
	c := NewCircular(5)

	tests := []struct {
		name     string
		point    core.Vec3
		expected bool
	}{
		{"Center", core.NewVec3(0, 0, 0), true},
		{"Inside", core.NewVec3(3, 3, 0), true},
		{"On boundary", core.NewVec3(5, 0, 0), true},
		{"Outside along x", core.NewVec3(5.001, 0, 0), false},
		{"Outside diagonal", core.NewVec3(4, 4, 0), false},
		{"Z component ignored", core.NewVec3(1, 1, 100), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Contains(tt.point); got != tt.expected {
				t.Errorf("Contains(%v) = %t, expected %t", tt.point, got, tt.expected)
			}
		})
	}
}

func TestRectangular_Contains(t *testing.T) {
	r := NewRectangular(10, 4)

	tests := []struct {
		name     string
		point    core.Vec3
		expected bool
	}{
		{"Center", core.NewVec3(0, 0, 0), true},
		{"Inside", core.NewVec3(4, 1, 0), true},
		{"On x edge", core.NewVec3(5, 0, 0), true},
		{"On y edge", core.NewVec3(0, 2, 0), true},
		{"Corner", core.NewVec3(5, 2, 0), true},
		{"Past x edge", core.NewVec3(5.1, 0, 0), false},
		{"Past y edge", core.NewVec3(0, -2.1, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.point); got != tt.expected {
				t.Errorf("Contains(%v) = %t, expected %t", tt.point, got, tt.expected)
			}
		})
	}
}
