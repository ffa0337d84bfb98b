// Package mesh defines the polygon mesh model read by the BUF exporter.
//
// A Mesh is a list of shared vertices and a list of faces. Each face is an
// ordered loop of corners, each corner pointing at one vertex. Per-corner
// attributes such as UVs live in layers indexed by the global loop index,
// which runs face-major then loop-minor.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	bufmath "github.com/Faultbox/bufexport/pkg/math"
)

// Mesh validation errors.
var (
	ErrVertexOutOfRange = errors.New("loop references missing vertex")
	ErrUVLayerLength    = errors.New("uv layer length does not match loop count")
)

// Vertex is a shared mesh vertex in object-local space.
type Vertex struct {
	Position mgl64.Vec3
	Normal   mgl64.Vec3 // Optional; zero when unset
}

// Face is one polygon. Loops holds vertex indices in winding order.
type Face struct {
	Loops  []int
	Normal mgl64.Vec3 // Unit geometric normal; zero means compute from positions
}

// UVLayer holds one UV coordinate per loop.
type UVLayer struct {
	Name string
	UVs  []mgl64.Vec2
}

// Mesh is an indexed polygon mesh.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Faces    []Face
	UVLayers []UVLayer
	ActiveUV int // Index into UVLayers; out of range means no active layer
}

// LoopCount returns the total number of face corners.
func (m *Mesh) LoopCount() int {
	n := 0
	for _, f := range m.Faces {
		n += len(f.Loops)
	}
	return n
}

// ActiveUVLayer returns the active UV layer, or nil if there is none.
func (m *Mesh) ActiveUVLayer() *UVLayer {
	if m.ActiveUV < 0 || m.ActiveUV >= len(m.UVLayers) {
		return nil
	}
	return &m.UVLayers[m.ActiveUV]
}

// Validate checks that every loop points at an existing vertex and that
// the active UV layer covers every loop. Inactive layers are not read by
// export and are not checked.
func (m *Mesh) Validate() error {
	for fi, f := range m.Faces {
		for li, vi := range f.Loops {
			if vi < 0 || vi >= len(m.Vertices) {
				return fmt.Errorf("face %d loop %d: %w (index %d, %d vertices)",
					fi, li, ErrVertexOutOfRange, vi, len(m.Vertices))
			}
		}
	}

	if layer := m.ActiveUVLayer(); layer != nil {
		if loops := m.LoopCount(); len(layer.UVs) != loops {
			return fmt.Errorf("layer %q: %w (%d uvs, %d loops)",
				layer.Name, ErrUVLayerLength, len(layer.UVs), loops)
		}
	}
	return nil
}

// FaceNormal returns the stored normal of face i, or the Newell normal of
// its positions when none is stored.
func (m *Mesh) FaceNormal(i int) mgl64.Vec3 {
	f := m.Faces[i]
	if f.Normal != (mgl64.Vec3{}) {
		return f.Normal
	}
	return bufmath.Normalize(m.newell(f))
}

// VertexNormals returns one normal per vertex. Stored vertex normals are
// used as-is; the rest are the area-weighted average of adjacent faces.
func (m *Mesh) VertexNormals() []mgl64.Vec3 {
	sums := make([]mgl64.Vec3, len(m.Vertices))
	for _, f := range m.Faces {
		// Newell magnitude is twice the polygon area
		weighted := m.newell(f)
		if f.Normal != (mgl64.Vec3{}) {
			weighted = f.Normal.Mul(weighted.Len())
		}
		for _, vi := range f.Loops {
			sums[vi] = sums[vi].Add(weighted)
		}
	}

	out := make([]mgl64.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		if v.Normal != (mgl64.Vec3{}) {
			out[i] = bufmath.Normalize(v.Normal)
			continue
		}
		out[i] = bufmath.Normalize(sums[i])
	}
	return out
}

// newell returns the unnormalized polygon normal by Newell's method.
func (m *Mesh) newell(f Face) mgl64.Vec3 {
	var n mgl64.Vec3
	for i := range f.Loops {
		cur := m.Vertices[f.Loops[i]].Position
		next := m.Vertices[f.Loops[(i+1)%len(f.Loops)]].Position
		n[0] += (cur[1] - next[1]) * (cur[2] + next[2])
		n[1] += (cur[2] - next[2]) * (cur[0] + next[0])
		n[2] += (cur[0] - next[0]) * (cur[1] + next[1])
	}
	return n
}
