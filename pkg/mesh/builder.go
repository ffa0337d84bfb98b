package mesh

import "github.com/go-gl/mathgl/mgl64"

// Builder assembles a Mesh face by face. Loaders use it so that the UV
// layer stays aligned with the loop order.
type Builder struct {
	m     Mesh
	uvs   []mgl64.Vec2
	hasUV bool
}

// NewBuilder starts an empty mesh named name.
func NewBuilder(name string) *Builder {
	return &Builder{m: Mesh{Name: name, ActiveUV: -1}}
}

// AddVertex appends a vertex and returns its index.
func (b *Builder) AddVertex(p mgl64.Vec3) int {
	b.m.Vertices = append(b.m.Vertices, Vertex{Position: p})
	return len(b.m.Vertices) - 1
}

// AddFace appends a face over the given vertex indices. The normal is
// computed from positions when the mesh is read.
func (b *Builder) AddFace(verts ...int) {
	b.AddFaceUV(verts, nil)
}

// AddFaceUV appends a face with one UV per corner. A nil uvs slice adds
// zero UVs so that the layer keeps one entry per loop.
func (b *Builder) AddFaceUV(verts []int, uvs []mgl64.Vec2) {
	loops := make([]int, len(verts))
	copy(loops, verts)
	b.m.Faces = append(b.m.Faces, Face{Loops: loops})

	for i := range verts {
		var uv mgl64.Vec2
		if i < len(uvs) {
			uv = uvs[i]
		}
		b.uvs = append(b.uvs, uv)
	}
	if uvs != nil {
		b.hasUV = true
	}
}

// VertexCount returns the number of vertices added so far.
func (b *Builder) VertexCount() int {
	return len(b.m.Vertices)
}

// FaceCount returns the number of faces added so far.
func (b *Builder) FaceCount() int {
	return len(b.m.Faces)
}

// Mesh returns the built mesh. A "UVMap" layer is attached and made
// active if any face carried UVs.
func (b *Builder) Mesh() *Mesh {
	m := b.m
	if b.hasUV {
		m.UVLayers = []UVLayer{{Name: "UVMap", UVs: b.uvs}}
		m.ActiveUV = 0
	}
	return &m
}
