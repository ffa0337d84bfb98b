// Package scene provides the scene graph the exporter pulls its input
// from: a set of named objects, each with a world transform, one of
// which is the active selection.
package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/Faultbox/bufexport/pkg/encoding"
	"github.com/Faultbox/bufexport/pkg/mesh"
)

// Kind is the type of a scene object.
type Kind int

const (
	KindEmpty Kind = iota
	KindMesh
	KindCamera
	KindLight
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindMesh:
		return "mesh"
	case KindCamera:
		return "camera"
	case KindLight:
		return "light"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Object is one node of the scene.
type Object struct {
	Name  string
	Kind  Kind
	Mesh  *mesh.Mesh // Set only for KindMesh
	World mgl64.Mat4
}

// Scene exposes the objects of a loaded scene and the active one.
type Scene interface {
	Objects() []*Object
	Active() *Object
}

// Memory is a Scene held entirely in memory.
type Memory struct {
	objects []*Object
	active  int
}

// NewMemory creates a scene from objs. The first mesh object, if any,
// becomes active.
func NewMemory(objs ...*Object) *Memory {
	s := &Memory{active: -1}
	for _, o := range objs {
		s.Add(o)
	}
	return s
}

// Add appends an object. It becomes active if nothing is active yet and
// it is a mesh.
func (s *Memory) Add(o *Object) {
	s.objects = append(s.objects, o)
	if s.active < 0 && o.Kind == KindMesh {
		s.active = len(s.objects) - 1
	}
}

// Objects returns all objects in scene order.
func (s *Memory) Objects() []*Object {
	return s.objects
}

// Active returns the selected object, or nil if nothing is selected.
func (s *Memory) Active() *Object {
	if s.active < 0 || s.active >= len(s.objects) {
		return nil
	}
	return s.objects[s.active]
}

// Select makes the object called name active. An empty name picks the
// first mesh object. When no object matches, nothing is active and false
// is returned.
func (s *Memory) Select(name string) bool {
	s.active = -1
	for i, o := range s.objects {
		if (name == "" && o.Kind == KindMesh) || (name != "" && o.Name == name) {
			s.active = i
			return true
		}
	}
	return false
}

// Deselect clears the active object.
func (s *Memory) Deselect() {
	s.active = -1
}

// LoadOptions controls scene file loading.
type LoadOptions struct {
	// Encoding is the charset of object names in OBJ files. Empty means
	// UTF-8.
	Encoding string
}

// Load opens a scene file, picking the loader by extension.
func Load(path string, opts LoadOptions) (*Memory, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".gltf", ".glb":
		return LoadGLTF(path)
	case ".obj":
		dec, err := encoding.NewDecoder(opts.Encoding)
		if err != nil {
			return nil, errors.Wrap(err, "scene encoding")
		}
		return LoadOBJ(path, dec)
	default:
		return nil, errors.Errorf("unsupported scene format %q", ext)
	}
}
