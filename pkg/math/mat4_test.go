package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestTransformPoint(t *testing.T) {
	m := mgl64.Translate3D(10, 20, 30)
	got := TransformPoint(m, mgl64.Vec3{1, 2, 3})

	want := mgl64.Vec3{11, 22, 33}
	if got != want {
		t.Errorf("TransformPoint: got %v, want %v", got, want)
	}
}

func TestTransformPointScale(t *testing.T) {
	m := mgl64.Scale3D(2, 2, 2)
	got := TransformPoint(m, mgl64.Vec3{1, 2, 3})

	want := mgl64.Vec3{2, 4, 6}
	if got != want {
		t.Errorf("TransformPoint with scale: got %v, want %v", got, want)
	}
}

func TestTransformPointRotateY90(t *testing.T) {
	m := mgl64.HomogRotate3DY(math.Pi / 2)
	got := TransformPoint(m, mgl64.Vec3{1, 0, 0})

	// (1,0,0) rotated 90 degrees around Y lands on -Z
	if !got.ApproxEqualThreshold(mgl64.Vec3{0, 0, -1}, 1e-9) {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", got)
	}
}

func TestCompose(t *testing.T) {
	rot := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	m := Compose(mgl64.Vec3{5, 0, 0}, rot, mgl64.Vec3{2, 2, 2})

	// scale, then rotate, then translate
	got := TransformPoint(m, mgl64.Vec3{1, 0, 0})
	want := mgl64.Vec3{5, 2, 0}
	if !got.ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("Compose: got %v, want %v", got, want)
	}
}

func TestFromColumnMajor32(t *testing.T) {
	src := [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		3, 4, 5, 1,
	}
	m := FromColumnMajor32(src)
	if m[12] != 3 || m[13] != 4 || m[14] != 5 {
		t.Errorf("translation column: got (%f, %f, %f), want (3, 4, 5)", m[12], m[13], m[14])
	}
}

func TestNormalMatrix(t *testing.T) {
	n := Normalize(mgl64.Vec3{1, 1, 0})
	scale := mgl64.Scale3D(2, 1, 1)

	tests := []struct {
		name string
		mode NormalMode
		want mgl64.Vec3
	}{
		{"inverse transpose", NormalInverseTranspose, Normalize(mgl64.Vec3{0.5, 1, 0})},
		{"linear", NormalLinear, n},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TransformNormal(NormalMatrix(scale, tt.mode), n)
			if !got.ApproxEqualThreshold(tt.want, 1e-9) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if l := got.Len(); math.Abs(l-1) > 1e-9 {
				t.Errorf("normal length %f, want 1", l)
			}
		})
	}
}

func TestNormalMatrixIgnoresTranslation(t *testing.T) {
	m := mgl64.Translate3D(100, -50, 7)
	got := TransformNormal(NormalMatrix(m, NormalInverseTranspose), mgl64.Vec3{0, 0, 1})
	if got != (mgl64.Vec3{0, 0, 1}) {
		t.Errorf("got %v, want (0, 0, 1)", got)
	}
}

func TestNormalMatrixSingular(t *testing.T) {
	// flattened onto the XY plane
	m := mgl64.Scale3D(1, 1, 0)
	got := TransformNormal(NormalMatrix(m, NormalInverseTranspose), mgl64.Vec3{1, 0, 0})
	if got != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("singular fallback: got %v, want (1, 0, 0)", got)
	}
}

func TestNormalizeZero(t *testing.T) {
	if got := Normalize(mgl64.Vec3{}); got != (mgl64.Vec3{}) {
		t.Errorf("Normalize(0) = %v, want zero vector", got)
	}
}

func TestParseNormalMode(t *testing.T) {
	tests := []struct {
		in      string
		want    NormalMode
		wantErr bool
	}{
		{"", NormalLinear, false},
		{"inverse_transpose", NormalInverseTranspose, false},
		{"linear", NormalLinear, false},
		{"smooth", "", true},
	}
	for _, tt := range tests {
		got, err := ParseNormalMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseNormalMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseNormalMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
