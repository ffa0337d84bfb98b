package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	bufmath "github.com/Faultbox/bufexport/pkg/math"
	"github.com/Faultbox/bufexport/pkg/mesh"
)

const extLightsPunctual = "KHR_lights_punctual"

// LoadGLTF reads a .gltf or .glb file.
func LoadGLTF(path string) (*Memory, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open gltf %s", path)
	}
	sc, err := FromGLTF(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return sc, nil
}

// FromGLTF walks the default scene of doc and returns one object per
// node, in depth-first order, with world transforms accumulated from the
// root. All primitives of a node's mesh are merged into one mesh of
// triangles. glTF texture coordinates have their origin at the top left,
// so V is flipped to the bottom-left convention used by the exporter.
func FromGLTF(doc *gltf.Document) (*Memory, error) {
	sc := NewMemory()
	visited := make(map[uint32]bool)

	var walk func(idx uint32, parent mgl64.Mat4) error
	walk = func(idx uint32, parent mgl64.Mat4) error {
		if int(idx) >= len(doc.Nodes) {
			return errors.Errorf("node index %d out of range", idx)
		}
		if visited[idx] {
			return errors.Errorf("node %d visited twice", idx)
		}
		visited[idx] = true

		node := doc.Nodes[idx]
		world := parent.Mul4(nodeTransform(node))
		obj := &Object{Name: nodeName(doc, node, idx), World: world}

		switch {
		case node.Mesh != nil:
			m, err := gltfMesh(doc, *node.Mesh, obj.Name)
			if err != nil {
				return errors.Wrapf(err, "node %q", obj.Name)
			}
			obj.Kind = KindMesh
			obj.Mesh = m
		case node.Camera != nil:
			obj.Kind = KindCamera
		case hasExtension(node.Extensions, extLightsPunctual):
			obj.Kind = KindLight
		default:
			obj.Kind = KindEmpty
		}
		sc.Add(obj)

		for _, child := range node.Children {
			if err := walk(child, world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range rootNodes(doc) {
		if err := walk(root, mgl64.Ident4()); err != nil {
			return nil, err
		}
	}
	return sc, nil
}

// rootNodes returns the root nodes of the default scene, or of every node
// without a parent when the document declares no scene.
func rootNodes(doc *gltf.Document) []uint32 {
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 {
		return doc.Scenes[0].Nodes
	}

	isChild := make(map[uint32]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[c] = true
		}
	}
	var roots []uint32
	for i := range doc.Nodes {
		if !isChild[uint32(i)] {
			roots = append(roots, uint32(i))
		}
	}
	return roots
}

func nodeName(doc *gltf.Document, node *gltf.Node, idx uint32) string {
	if node.Name != "" {
		return node.Name
	}
	if node.Mesh != nil && int(*node.Mesh) < len(doc.Meshes) && doc.Meshes[*node.Mesh].Name != "" {
		return doc.Meshes[*node.Mesh].Name
	}
	return fmt.Sprintf("Node.%03d", idx)
}

var identityMatrix = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// nodeTransform returns the local transform of a node: its matrix when
// one is set, otherwise its TRS properties. The decoder fills an identity
// matrix into nodes that use TRS, and nodes built in code leave every
// field zero, so both identity and zero mean unset.
func nodeTransform(n *gltf.Node) mgl64.Mat4 {
	if n.Matrix != identityMatrix && n.Matrix != [16]float32{} {
		return bufmath.FromColumnMajor32(n.Matrix)
	}

	t := mgl64.Vec3{float64(n.Translation[0]), float64(n.Translation[1]), float64(n.Translation[2])}

	r := mgl64.QuatIdent()
	if n.Rotation != [4]float32{} {
		r = mgl64.Quat{
			W: float64(n.Rotation[3]),
			V: mgl64.Vec3{float64(n.Rotation[0]), float64(n.Rotation[1]), float64(n.Rotation[2])},
		}
	}

	s := mgl64.Vec3{1, 1, 1}
	if n.Scale != [3]float32{} {
		s = mgl64.Vec3{float64(n.Scale[0]), float64(n.Scale[1]), float64(n.Scale[2])}
	}
	return bufmath.Compose(t, r, s)
}

// gltfMesh merges the primitives of mesh idx. A TEXCOORD_0 set on any
// primitive makes a UV layer for the whole mesh; primitives without one
// contribute zero UVs.
func gltfMesh(doc *gltf.Document, idx uint32, name string) (*mesh.Mesh, error) {
	if int(idx) >= len(doc.Meshes) {
		return nil, errors.Errorf("mesh index %d out of range", idx)
	}
	src := doc.Meshes[idx]
	b := mesh.NewBuilder(name)

	for pi, prim := range src.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			return nil, errors.Errorf("primitive %d: mode %v not supported, only triangles", pi, prim.Mode)
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			return nil, errors.Errorf("primitive %d has no POSITION attribute", pi)
		}
		acr, err := accessor(doc, posIdx)
		if err != nil {
			return nil, errors.Wrapf(err, "primitive %d positions", pi)
		}
		positions, err := modeler.ReadPosition(doc, acr, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "primitive %d positions", pi)
		}

		var texcoords [][2]float32
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			acr, err := accessor(doc, uvIdx)
			if err != nil {
				return nil, errors.Wrapf(err, "primitive %d texcoords", pi)
			}
			texcoords, err = modeler.ReadTextureCoord(doc, acr, nil)
			if err != nil {
				return nil, errors.Wrapf(err, "primitive %d texcoords", pi)
			}
			if len(texcoords) != len(positions) {
				return nil, errors.Errorf("primitive %d: %d texcoords for %d positions", pi, len(texcoords), len(positions))
			}
		}

		var indices []uint32
		if prim.Indices != nil {
			acr, err := accessor(doc, *prim.Indices)
			if err != nil {
				return nil, errors.Wrapf(err, "primitive %d indices", pi)
			}
			indices, err = modeler.ReadIndices(doc, acr, nil)
			if err != nil {
				return nil, errors.Wrapf(err, "primitive %d indices", pi)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}
		if len(indices)%3 != 0 {
			return nil, errors.Errorf("primitive %d: %d indices is not a triangle list", pi, len(indices))
		}

		base := b.VertexCount()
		for _, p := range positions {
			b.AddVertex(mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])})
		}

		for i := 0; i < len(indices); i += 3 {
			verts := make([]int, 3)
			var uvs []mgl64.Vec2
			if texcoords != nil {
				uvs = make([]mgl64.Vec2, 3)
			}
			for k := 0; k < 3; k++ {
				vi := int(indices[i+k])
				if vi >= len(positions) {
					return nil, errors.Errorf("primitive %d: index %d out of range", pi, vi)
				}
				verts[k] = base + vi
				if uvs != nil {
					uv := texcoords[vi]
					uvs[k] = mgl64.Vec2{float64(uv[0]), 1 - float64(uv[1])}
				}
			}
			b.AddFaceUV(verts, uvs)
		}
	}
	return b.Mesh(), nil
}

func accessor(doc *gltf.Document, idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(doc.Accessors) {
		return nil, errors.Errorf("accessor index %d out of range", idx)
	}
	return doc.Accessors[idx], nil
}

func hasExtension(ext gltf.Extensions, name string) bool {
	if ext == nil {
		return false
	}
	_, ok := ext[name]
	return ok
}
