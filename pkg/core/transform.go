package core

import "math"

// Mat3 is a 3x3 rotation matrix stored row-major.
type Mat3 [3][3]float64

// IdentityMat3 returns the identity matrix.
func IdentityMat3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Mul returns the matrix product m * other.
func (m Mat3) Mul(other Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][0]*other[0][j] + m[i][1]*other[1][j] + m[i][2]*other[2][j]
		}
	}
	return out
}

// MulVec returns the matrix-vector product m * v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Transpose returns the transposed matrix. For a rotation matrix this is
// the exact inverse.
func (m Mat3) Transpose() Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[j][i]
		}
	}
	return out
}

func rotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{{1, 0, 0}, {0, c, -s}, {0, s, c}}
}

func rotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{{c, 0, s}, {0, 1, 0}, {-s, 0, c}}
}

func rotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{{c, -s, 0}, {s, c, 0}, {0, 0, 1}}
}

// Transform is a rigid pose: a rotation followed by a translation. It maps
// points and directions from a child coordinate frame into its parent frame.
type Transform struct {
	Rotation    Mat3
	Translation Vec3
}

// IdentityTransform returns the transform that maps every point to itself.
func IdentityTransform() Transform {
	return Transform{Rotation: IdentityMat3()}
}

// NewTransform builds a pose from three axis rotation angles (radians) and a
// translation. The rotation is applied as Rz * Ry * Rx, i.e. the X rotation
// happens first.
func NewTransform(rx, ry, rz float64, translation Vec3) Transform {
	return Transform{
		Rotation:    rotZ(rz).Mul(rotY(ry)).Mul(rotX(rx)),
		Translation: translation,
	}
}

// Apply maps a point from the child frame into the parent frame.
func (t Transform) Apply(p Vec3) Vec3 {
	return t.Rotation.MulVec(p).Add(t.Translation)
}

// ApplyDirection maps a direction from the child frame into the parent
// frame. Directions ignore the translation part.
func (t Transform) ApplyDirection(d Vec3) Vec3 {
	return t.Rotation.MulVec(d)
}

// Inverse returns the transform mapping parent-frame coordinates back into
// the child frame. Because the rotation part is orthonormal the inverse is
// exact to floating precision: R^T and -R^T*t.
func (t Transform) Inverse() Transform {
	rt := t.Rotation.Transpose()
	return Transform{
		Rotation:    rt,
		Translation: rt.MulVec(t.Translation).Negate(),
	}
}

// Compose returns the transform equivalent to applying other first and then
// t: (t.Compose(other)).Apply(p) == t.Apply(other.Apply(p)). Composition is
// associative, so nested frame chains can be folded in any grouping.
func (t Transform) Compose(other Transform) Transform {
	return Transform{
		Rotation:    t.Rotation.Mul(other.Rotation),
		Translation: t.Rotation.MulVec(other.Translation).Add(t.Translation),
	}
}
