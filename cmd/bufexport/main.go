// bufexport converts a mesh object from a scene file into a BUF geometry file.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"github.com/Faultbox/bufexport/internal/config"
	"github.com/Faultbox/bufexport/internal/exporter"
	"github.com/Faultbox/bufexport/internal/logger"
	"github.com/Faultbox/bufexport/pkg/buf"
	"github.com/Faultbox/bufexport/pkg/scene"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "export", "x":
		cmdExport(args)
	case "list", "ls":
		cmdList(args)
	case "info":
		cmdInfo(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`bufexport - BUF mesh exporter

Usage:
  bufexport <command> [options]

Commands:
  export [options] <scene> <out.buf>  Export the selected mesh object
  list <scene>                        List scene objects
  info [-object name] [-dump] <scene> Show mesh statistics
  config [-o path]                    Write the effective config as YAML

Scene files: .gltf, .glb, .obj

Export options:
  -object name     Object to export (default: first mesh)
  -shading mode    flat or smooth
  -normals mode    linear or inverse_transpose
  -indent n        JSON indent width, 0 for compact
  -config path     Config file
  -debug           Debug logging

Examples:
  bufexport export chair.glb chair.buf
  bufexport export -object Seat -shading smooth chair.obj seat
  bufexport list chair.glb`)
}

// setup parses flags, loads config and starts logging. It exits on error.
func setup(name string, args []string, extra func(*flag.FlagSet)) (*config.Config, *flag.FlagSet) {
	var flags config.Flags
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	flags.Register(fs)
	if extra != nil {
		extra(fs)
	}
	fs.Parse(args)

	cfg, err := config.Load(&flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg, fs
}

// loadScene opens path and selects the configured object.
func loadScene(cfg *config.Config, path string) *scene.Memory {
	sc, err := scene.Load(path, scene.LoadOptions{Encoding: cfg.Input.Encoding})
	if err != nil {
		logger.Error("failed to load scene", zap.String("scene", path), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("scene loaded", zap.String("scene", path), zap.Int("objects", len(sc.Objects())))

	if cfg.Input.Object != "" && !sc.Select(cfg.Input.Object) {
		logger.Warn("object not found", zap.String("object", cfg.Input.Object), zap.String("scene", path))
	}
	if active := sc.Active(); active != nil {
		logger.Debug("active object", zap.String("object", active.Name), zap.Stringer("kind", active.Kind))
	}
	return sc
}

func cmdExport(args []string) {
	cfg, fs := setup("export", args, nil)
	defer logger.Sync()

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: bufexport export [options] <scene> <out.buf>")
		os.Exit(1)
	}

	out := fs.Arg(1)
	if filepath.Ext(out) == "" {
		out += buf.FileExtension
	}

	sc := loadScene(cfg, fs.Arg(0))
	e := exporter.New(cfg.ExportOptions(), cfg.Export.Indent, logger.Named("exporter"))

	report := e.Run(out, sc)
	if !report.OK() {
		fmt.Fprintln(os.Stderr, report.Message)
		logger.Sync()
		os.Exit(1)
	}
	fmt.Println(report.Message)
	fmt.Println(report.Doc.Summary())
}

func cmdList(args []string) {
	cfg, fs := setup("list", args, nil)
	defer logger.Sync()

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: bufexport list <scene>")
		os.Exit(1)
	}

	sc := loadScene(cfg, fs.Arg(0))
	active := sc.Active()

	for _, o := range sc.Objects() {
		marker := " "
		if o == active {
			marker = "*"
		}
		if o.Mesh != nil {
			fmt.Printf("%s %-24s %-7s %6d verts %6d faces\n", marker, o.Name, o.Kind, len(o.Mesh.Vertices), len(o.Mesh.Faces))
		} else {
			fmt.Printf("%s %-24s %s\n", marker, o.Name, o.Kind)
		}
	}
	fmt.Printf("\n%d objects\n", len(sc.Objects()))
}

func cmdInfo(args []string) {
	var dump bool
	cfg, fs := setup("info", args, func(fs *flag.FlagSet) {
		fs.BoolVar(&dump, "dump", false, "Dump the exported document structure")
	})
	defer logger.Sync()

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: bufexport info [-object name] [-dump] <scene>")
		os.Exit(1)
	}

	sc := loadScene(cfg, fs.Arg(0))
	obj := sc.Active()
	if obj == nil || obj.Mesh == nil {
		fmt.Fprintln(os.Stderr, "Error: no mesh object selected")
		os.Exit(1)
	}

	opts := cfg.ExportOptions()
	opts.ObjectName = obj.Name
	doc, err := buf.Export(obj.Mesh, obj.World, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s := doc.Summary()
	fmt.Printf("Object: %s (%d source vertices, %d faces)\n", s.Object, len(obj.Mesh.Vertices), s.Faces)
	fmt.Println(s)
	fmt.Printf("Shading: %s\n", doc.Metadata.Shading)
	if layer := obj.Mesh.ActiveUVLayer(); layer != nil {
		fmt.Printf("UV layer: %s\n", layer.Name)
	} else {
		fmt.Println("UV layer: (none)")
	}
	logger.Sugar.Debugf("info %s: %d corners from %d loops", s.Object, s.Vertices, obj.Mesh.LoopCount())

	if dump {
		fmt.Println()
		cs := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, MaxDepth: 3}
		cs.Dump(doc.Metadata, doc.Faces)
	}
}

func cmdConfig(args []string) {
	var out string
	cfg, _ := setup("config", args, func(fs *flag.FlagSet) {
		fs.StringVar(&out, "o", "", "Write to this path (default: user config dir)")
	})

	var err error
	if out == "" {
		out = filepath.Join(config.ConfigDir(), "config.yaml")
		err = cfg.Save()
	} else {
		err = cfg.SaveTo(out)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Config written to %s\n", out)
}
