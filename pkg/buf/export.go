package buf

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	bufmath "github.com/Faultbox/bufexport/pkg/math"
	"github.com/Faultbox/bufexport/pkg/mesh"
)

// Options controls how a mesh is flattened.
type Options struct {
	Shading    Shading
	NormalMode bufmath.NormalMode
	Generator  string
	ObjectName string // Overrides the mesh name in metadata when set
}

// DefaultOptions returns flat shading with column-normalized linear normals.
func DefaultOptions() Options {
	return Options{
		Shading:    ShadingFlat,
		NormalMode: bufmath.NormalLinear,
		Generator:  DefaultGenerator,
	}
}

func (o Options) withDefaults() (Options, error) {
	var err error
	if o.Shading, err = ParseShading(string(o.Shading)); err != nil {
		return o, err
	}
	if o.NormalMode, err = bufmath.ParseNormalMode(string(o.NormalMode)); err != nil {
		return o, err
	}
	if o.Generator == "" {
		o.Generator = DefaultGenerator
	}
	return o, nil
}

// Export flattens m into a BUF document. Every (face, loop) pair becomes
// one corner; corners are numbered face-major then loop-minor and never
// shared between faces. Positions are carried into world space by world,
// normals by its normal matrix.
//
// The mesh is checked in full before anything is built: faces must have
// 3 or 4 corners and every loop must resolve.
func Export(m *mesh.Mesh, world mgl64.Mat4, opts Options) (*Document, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: no mesh", ErrInvalidInput)
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	if err := checkMesh(m); err != nil {
		return nil, err
	}

	normalMat := bufmath.NormalMatrix(world, opts.NormalMode)

	var vertexNormals []mgl64.Vec3
	if opts.Shading == ShadingSmooth {
		vertexNormals = m.VertexNormals()
		for i, n := range vertexNormals {
			vertexNormals[i] = bufmath.TransformNormal(normalMat, n)
		}
	}

	// UV presence is decided once for the whole mesh
	uvLayer := m.ActiveUVLayer()

	loops := m.LoopCount()
	positions := make([]float64, 0, loops*3)
	normals := make([]float64, 0, loops*3)
	var uvs []float64
	if uvLayer != nil {
		uvs = make([]float64, 0, loops*2)
	}

	faces := make([]FaceRecord, 0, len(m.Faces))
	corner := 0
	quads, tris := 0, 0

	for fi, face := range m.Faces {
		faceNormal := bufmath.TransformNormal(normalMat, m.FaceNormal(fi))
		rec := FaceRecord{Vertices: make([]int, 0, len(face.Loops))}

		for _, vi := range face.Loops {
			p := bufmath.TransformPoint(world, m.Vertices[vi].Position)
			positions = append(positions, p[0], p[1], p[2])

			n := faceNormal
			if vertexNormals != nil {
				n = vertexNormals[vi]
			}
			normals = append(normals, n[0], n[1], n[2])

			if uvLayer != nil {
				uv := uvLayer.UVs[corner]
				uvs = append(uvs, uv[0], uv[1])
			}

			rec.Vertices = append(rec.Vertices, corner)
			corner++
		}

		rec.Type = faceType(len(rec.Vertices))
		if rec.Type == FaceQuad {
			quads++
		} else {
			tris++
		}
		faces = append(faces, rec)
	}

	name := opts.ObjectName
	if name == "" {
		name = m.Name
	}

	doc := &Document{
		Format:  FormatName,
		Version: FormatVersion,
		Metadata: Metadata{
			Generator:     opts.Generator,
			ObjectName:    name,
			VertexCount:   corner,
			FaceCount:     len(faces),
			QuadCount:     quads,
			TriangleCount: tris,
			Shading:       opts.Shading,
		},
		Attributes: Attributes{
			Position: Attribute{Array: positions, ItemSize: 3, Count: corner},
			Normal:   Attribute{Array: normals, ItemSize: 3, Count: corner},
		},
		Faces: faces,
	}
	if uvLayer != nil {
		doc.Attributes.UV = &Attribute{Array: uvs, ItemSize: 2, Count: corner}
	}
	return doc, nil
}

// checkMesh rejects anything Export cannot represent.
func checkMesh(m *mesh.Mesh) error {
	for fi, f := range m.Faces {
		if n := len(f.Loops); n != 3 && n != 4 {
			return fmt.Errorf("face %d has %d corners: %w (only triangles and quads are exported)",
				fi, n, ErrUnsupportedPolygon)
		}
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMesh, err)
	}
	return nil
}
