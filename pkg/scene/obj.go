package scene

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/Faultbox/bufexport/pkg/encoding"
	"github.com/Faultbox/bufexport/pkg/mesh"
)

// LoadOBJ reads a Wavefront OBJ file. Objects default to the file's base
// name until an "o" or "g" statement names them.
func LoadOBJ(path string, dec *encoding.Decoder) (*Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open obj")
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	sc, err := ParseOBJ(f, name, dec)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return sc, nil
}

// objCorner is one parsed face corner: 0-based indices into the file-wide
// position and texcoord lists, uv < 0 when absent.
type objCorner struct {
	v, uv int
}

type objObject struct {
	name  string
	faces [][]objCorner
}

// ParseOBJ reads OBJ statements from r. Each "o" or "g" statement starts
// a new object. Faces are kept as polygons; quads stay quads. Vertex indices are
// global to the file, so every object gets its own compacted vertex list.
// Statements other than v, vt, f, o and g are ignored.
func ParseOBJ(r io.Reader, defaultName string, dec *encoding.Decoder) (*Memory, error) {
	var (
		positions []mgl64.Vec3
		texcoords []mgl64.Vec2
		objects   []*objObject
	)
	current := &objObject{name: defaultName}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			positions = append(positions, mgl64.Vec3{p[0], p[1], p[2]})

		case "vt":
			// v is optional in the format, w is ignored
			p, err := parseFloats(fields[1:], 1)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			uv := mgl64.Vec2{p[0], 0}
			if len(p) > 1 {
				uv[1] = p[1]
			}
			texcoords = append(texcoords, uv)

		case "f":
			face := make([]objCorner, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				c, err := parseCorner(tok, len(positions), len(texcoords))
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", lineNo)
				}
				face = append(face, c)
			}
			current.faces = append(current.faces, face)

		case "o", "g":
			if len(current.faces) > 0 {
				objects = append(objects, current)
			}
			name := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
			current = &objObject{name: dec.String(name)}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read obj")
	}
	if len(current.faces) > 0 || len(objects) == 0 {
		objects = append(objects, current)
	}

	sc := NewMemory()
	for _, o := range objects {
		sc.Add(&Object{
			Name:  o.name,
			Kind:  KindMesh,
			Mesh:  o.build(positions, texcoords),
			World: mgl64.Ident4(),
		})
	}
	return sc, nil
}

// build compacts the file-wide vertex list down to the vertices this
// object uses, in first-use order.
func (o *objObject) build(positions []mgl64.Vec3, texcoords []mgl64.Vec2) *mesh.Mesh {
	b := mesh.NewBuilder(o.name)
	remap := make(map[int]int)

	for _, face := range o.faces {
		verts := make([]int, len(face))
		var uvs []mgl64.Vec2
		for i, c := range face {
			idx, ok := remap[c.v]
			if !ok {
				idx = b.AddVertex(positions[c.v])
				remap[c.v] = idx
			}
			verts[i] = idx

			if c.uv >= 0 {
				if uvs == nil {
					uvs = make([]mgl64.Vec2, len(face))
				}
				uvs[i] = texcoords[c.uv]
			}
		}
		b.AddFaceUV(verts, uvs)
	}
	return b.Mesh()
}

// parseCorner parses "v", "v/t", "v//n" or "v/t/n". Negative indices
// count back from the most recent element.
func parseCorner(tok string, numPos, numUV int) (objCorner, error) {
	parts := strings.Split(tok, "/")

	v, err := resolveIndex(parts[0], numPos)
	if err != nil {
		return objCorner{}, errors.Wrapf(err, "vertex index in %q", tok)
	}
	c := objCorner{v: v, uv: -1}

	if len(parts) > 1 && parts[1] != "" {
		uv, err := resolveIndex(parts[1], numUV)
		if err != nil {
			return objCorner{}, errors.Wrapf(err, "texcoord index in %q", tok)
		}
		c.uv = uv
	}
	return c, nil
}

func resolveIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case n > 0 && n <= count:
		return n - 1, nil
	case n < 0 && -n <= count:
		return count + n, nil
	default:
		return 0, errors.Errorf("index %d out of range (%d defined)", n, count)
	}
}

func parseFloats(fields []string, want int) ([]float64, error) {
	if len(fields) < want {
		return nil, errors.Errorf("expected at least %d values, got %d", want, len(fields))
	}
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
