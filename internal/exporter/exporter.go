// Package exporter runs one BUF export against a scene: it resolves the
// active object, flattens it and writes the file, then reports the
// outcome the way an editor operator would.
package exporter

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/bufexport/pkg/buf"
	"github.com/Faultbox/bufexport/pkg/scene"
)

// Status is the operator result.
type Status string

const (
	StatusFinished  Status = "FINISHED"
	StatusCancelled Status = "CANCELLED"
)

// Report is the user-facing outcome of Run.
type Report struct {
	Status  Status
	Message string
	Err     error
	Doc     *buf.Document // Set when Status is StatusFinished
}

// OK reports whether the export finished.
func (r Report) OK() bool {
	return r.Status == StatusFinished
}

// Exporter writes the active object of a scene to BUF files.
type Exporter struct {
	opts   buf.Options
	indent int
	log    *zap.Logger
}

// New creates an Exporter. A nil log discards output.
func New(opts buf.Options, indent int, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{opts: opts, indent: indent, log: log}
}

// Export writes the active object of sc to path. Invalid input is
// detected before the file is opened, so a failed selection never
// touches path.
func (e *Exporter) Export(path string, sc scene.Scene) (*buf.Document, error) {
	obj := sc.Active()
	if obj == nil {
		return nil, fmt.Errorf("%w: please select a mesh object", buf.ErrInvalidInput)
	}
	if obj.Kind != scene.KindMesh || obj.Mesh == nil {
		return nil, fmt.Errorf("%w: object %q is a %s, not a mesh", buf.ErrInvalidInput, obj.Name, obj.Kind)
	}

	opts := e.opts
	if opts.ObjectName == "" {
		opts.ObjectName = obj.Name
	}

	e.log.Debug("exporting object",
		zap.String("object", obj.Name),
		zap.Int("vertices", len(obj.Mesh.Vertices)),
		zap.Int("faces", len(obj.Mesh.Faces)),
		zap.String("shading", string(opts.Shading)),
	)

	doc, err := buf.Export(obj.Mesh, obj.World, opts)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("exported document: %w", err)
	}
	if err := buf.WriteFile(path, doc, e.indent); err != nil {
		return nil, err
	}

	s := doc.Summary()
	e.log.Info("export finished",
		zap.String("object", s.Object),
		zap.String("path", path),
		zap.Int("vertices", s.Vertices),
		zap.Int("quads", s.Quads),
		zap.Int("triangles", s.Triangles),
	)
	return doc, nil
}

// Run calls Export and turns the outcome into a status report.
func (e *Exporter) Run(path string, sc scene.Scene) Report {
	doc, err := e.Export(path, sc)
	if err != nil {
		if errors.Is(err, buf.ErrInvalidInput) {
			e.log.Warn("export rejected", zap.Error(err))
		} else {
			e.log.Error("export failed", zap.String("path", path), zap.Error(err))
		}
		return Report{
			Status:  StatusCancelled,
			Message: fmt.Sprintf("Export failed: %v", err),
			Err:     err,
		}
	}
	return Report{
		Status:  StatusFinished,
		Message: fmt.Sprintf("Successfully exported to %s", path),
		Doc:     doc,
	}
}
