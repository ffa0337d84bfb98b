package config

import "flag"

// Flags holds command-line overrides. Zero values mean "not set".
type Flags struct {
	Config     string
	Debug      bool
	Object     string
	Shading    string
	NormalMode string
	Encoding   string
	Indent     int
	LogFile    string
}

// Register binds the flags to fs. Each subcommand has its own FlagSet.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Object, "object", "", "Name of the object to export (default: first mesh)")
	fs.StringVar(&f.Shading, "shading", "", "Shading mode: flat or smooth")
	fs.StringVar(&f.NormalMode, "normals", "", "Normal transform: linear or inverse_transpose")
	fs.StringVar(&f.Encoding, "encoding", "", "Charset of object names in OBJ files")
	fs.IntVar(&f.Indent, "indent", -1, "JSON indent width (0 = compact)")
	fs.StringVar(&f.LogFile, "log", "", "Write logs to this file")
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Object != "" {
		cfg.Input.Object = f.Object
	}
	if f.Shading != "" {
		cfg.Export.Shading = f.Shading
	}
	if f.NormalMode != "" {
		cfg.Export.NormalMode = f.NormalMode
	}
	if f.Encoding != "" {
		cfg.Input.Encoding = f.Encoding
	}
	if f.Indent >= 0 {
		cfg.Export.Indent = f.Indent
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
}
