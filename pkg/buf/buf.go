// Package buf converts polygon meshes into the BUF geometry format: a
// JSON document of flat, per-corner vertex attribute arrays ready for
// upload to a GPU vertex buffer.
package buf

import (
	"errors"
	"fmt"
)

// Format identification written into every document.
const (
	FormatName       = "buf"
	FormatVersion    = "1.0"
	DefaultGenerator = "bufexport"

	// FileExtension is appended to output paths that have none.
	FileExtension = ".buf"
)

// Export errors.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnsupportedPolygon = errors.New("unsupported polygon")
	ErrInvalidMesh        = errors.New("invalid mesh")
)

// Shading selects which normal each corner receives.
type Shading string

const (
	ShadingFlat   Shading = "flat"   // Every corner gets its face normal
	ShadingSmooth Shading = "smooth" // Every corner gets its vertex normal
)

// ParseShading converts a config string to a Shading. An empty string
// selects ShadingFlat.
func ParseShading(s string) (Shading, error) {
	switch Shading(s) {
	case "", ShadingFlat:
		return ShadingFlat, nil
	case ShadingSmooth:
		return ShadingSmooth, nil
	default:
		return "", fmt.Errorf("unknown shading %q", s)
	}
}

// FaceType tags a face record by corner count.
type FaceType string

const (
	FaceTriangle FaceType = "triangle"
	FaceQuad     FaceType = "quad"
)

// Document is the root of a BUF file.
type Document struct {
	Format     string       `json:"format"`
	Version    string       `json:"version"`
	Metadata   Metadata     `json:"metadata"`
	Attributes Attributes   `json:"attributes"`
	Faces      []FaceRecord `json:"faces"`
}

// Metadata summarizes the exported mesh. VertexCount is the corner count,
// not the number of distinct source vertices.
type Metadata struct {
	Generator     string  `json:"generator"`
	ObjectName    string  `json:"object_name"`
	VertexCount   int     `json:"vertex_count"`
	FaceCount     int     `json:"face_count"`
	QuadCount     int     `json:"quad_count"`
	TriangleCount int     `json:"triangle_count"`
	Shading       Shading `json:"shading"`
}

// Attributes holds the parallel per-corner arrays.
type Attributes struct {
	Position Attribute  `json:"position"`
	Normal   Attribute  `json:"normal"`
	UV       *Attribute `json:"uv,omitempty"`
}

// Attribute is a flat array of Count items of ItemSize components each.
type Attribute struct {
	Array    []float64 `json:"array"`
	ItemSize int       `json:"itemSize"`
	Count    int       `json:"count"`
}

// FaceRecord lists the corner indices of one face.
type FaceRecord struct {
	Vertices []int    `json:"vertices"`
	Type     FaceType `json:"type"`
}

// Item returns the i-th item of the attribute.
func (a *Attribute) Item(i int) []float64 {
	return a.Array[i*a.ItemSize : (i+1)*a.ItemSize]
}

// Validate checks the structural invariants of the document: array
// lengths agree with the corner count, and the faces partition the corner
// range in order.
func (d *Document) Validate() error {
	n := d.Metadata.VertexCount

	type attrCheck struct {
		name string
		attr *Attribute
		size int
	}
	attrs := []attrCheck{
		{"position", &d.Attributes.Position, 3},
		{"normal", &d.Attributes.Normal, 3},
	}
	if d.Attributes.UV != nil {
		attrs = append(attrs, attrCheck{"uv", d.Attributes.UV, 2})
	}
	for _, a := range attrs {
		if a.attr.ItemSize != a.size {
			return fmt.Errorf("%s: item size %d, want %d", a.name, a.attr.ItemSize, a.size)
		}
		if a.attr.Count != n {
			return fmt.Errorf("%s: count %d, want %d", a.name, a.attr.Count, n)
		}
		if len(a.attr.Array) != a.size*n {
			return fmt.Errorf("%s: array length %d, want %d", a.name, len(a.attr.Array), a.size*n)
		}
	}

	if len(d.Faces) != d.Metadata.FaceCount {
		return fmt.Errorf("face count %d, metadata says %d", len(d.Faces), d.Metadata.FaceCount)
	}

	next, quads, tris := 0, 0, 0
	for fi, f := range d.Faces {
		for _, idx := range f.Vertices {
			if idx != next {
				return fmt.Errorf("face %d: corner %d out of order, want %d", fi, idx, next)
			}
			next++
		}
		if want := faceType(len(f.Vertices)); f.Type != want {
			return fmt.Errorf("face %d: type %q, want %q", fi, f.Type, want)
		}
		if f.Type == FaceQuad {
			quads++
		} else {
			tris++
		}
	}
	if next != n {
		return fmt.Errorf("faces cover %d corners, want %d", next, n)
	}
	if quads != d.Metadata.QuadCount || tris != d.Metadata.TriangleCount {
		return fmt.Errorf("quad/triangle count %d/%d, metadata says %d/%d",
			quads, tris, d.Metadata.QuadCount, d.Metadata.TriangleCount)
	}
	return nil
}

// Summary holds the headline counts of an exported document.
type Summary struct {
	Object    string
	Vertices  int // Corners, as in Metadata.VertexCount
	Faces     int
	Quads     int
	Triangles int
}

// Summary returns the counts reported after an export.
func (d *Document) Summary() Summary {
	return Summary{
		Object:    d.Metadata.ObjectName,
		Vertices:  d.Metadata.VertexCount,
		Faces:     d.Metadata.FaceCount,
		Quads:     d.Metadata.QuadCount,
		Triangles: d.Metadata.TriangleCount,
	}
}

// String renders one "- Name: n" line per count.
func (s Summary) String() string {
	return fmt.Sprintf("- Vertices: %d\n- Quads: %d\n- Triangles: %d", s.Vertices, s.Quads, s.Triangles)
}

func faceType(corners int) FaceType {
	if corners == 4 {
		return FaceQuad
	}
	return FaceTriangle
}
