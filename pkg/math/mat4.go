// Package math provides affine transform helpers for moving mesh data
// from object-local space into world space.
package math

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// NormalMode selects how normals are carried through a world transform.
type NormalMode string

const (
	// NormalLinear uses the 3x3 linear part with each column normalized.
	NormalLinear NormalMode = "linear"
	// NormalInverseTranspose uses the inverse-transpose of the 3x3 linear
	// part. Correct under non-uniform scale.
	NormalInverseTranspose NormalMode = "inverse_transpose"
)

// ParseNormalMode converts a config string to a NormalMode.
// An empty string selects NormalLinear.
func ParseNormalMode(s string) (NormalMode, error) {
	switch NormalMode(s) {
	case "", NormalLinear:
		return NormalLinear, nil
	case NormalInverseTranspose:
		return NormalInverseTranspose, nil
	default:
		return "", fmt.Errorf("unknown normal mode %q", s)
	}
}

// Identity returns the identity transform.
func Identity() mgl64.Mat4 {
	return mgl64.Ident4()
}

// Compose builds a translation * rotation * scale matrix.
func Compose(t mgl64.Vec3, r mgl64.Quat, s mgl64.Vec3) mgl64.Mat4 {
	tm := mgl64.Translate3D(t[0], t[1], t[2])
	sm := mgl64.Scale3D(s[0], s[1], s[2])
	return tm.Mul4(r.Normalize().Mat4()).Mul4(sm)
}

// FromColumnMajor32 widens a column-major float32 matrix, as stored by
// glTF, to float64.
func FromColumnMajor32(m [16]float32) mgl64.Mat4 {
	var out mgl64.Mat4
	for i, v := range m {
		out[i] = float64(v)
	}
	return out
}

// TransformPoint transforms a 3D point by m (w=1), dividing through by w
// when the matrix is projective.
func TransformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	x := m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12]
	y := m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13]
	z := m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14]
	w := m[3]*p[0] + m[7]*p[1] + m[11]*p[2] + m[15]
	if w != 0 && w != 1 {
		return mgl64.Vec3{x / w, y / w, z / w}
	}
	return mgl64.Vec3{x, y, z}
}

// NormalizeColumns returns m with every column scaled to unit length.
// Zero columns are left as-is.
func NormalizeColumns(m mgl64.Mat3) mgl64.Mat3 {
	cols := [3]mgl64.Vec3{m.Col(0), m.Col(1), m.Col(2)}
	for i, c := range cols {
		cols[i] = Normalize(c)
	}
	return mgl64.Mat3FromCols(cols[0], cols[1], cols[2])
}

// NormalMatrix returns the 3x3 matrix that carries object-space normals
// into world space under m. A singular linear part cannot be inverted, so
// NormalInverseTranspose falls back to NormalLinear for it.
func NormalMatrix(m mgl64.Mat4, mode NormalMode) mgl64.Mat3 {
	linear := m.Mat3()
	if mode == NormalLinear || isSingular(linear) {
		return NormalizeColumns(linear)
	}
	return linear.Inv().Transpose()
}

// TransformNormal applies a normal matrix to n and re-normalizes.
func TransformNormal(nm mgl64.Mat3, n mgl64.Vec3) mgl64.Vec3 {
	return Normalize(nm.Mul3x1(n))
}

// Normalize returns v scaled to unit length, or the zero vector when v has
// no length.
func Normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Vec3{}
	}
	return mgl64.Vec3{v[0] / l, v[1] / l, v[2] / l}
}

func isSingular(m mgl64.Mat3) bool {
	return math.Abs(m.Det()) < 1e-12
}
