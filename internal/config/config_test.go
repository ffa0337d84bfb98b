package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/bufexport/pkg/buf"
	bufmath "github.com/Faultbox/bufexport/pkg/math"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Export.Shading != "flat" {
		t.Errorf("expected shading flat, got %s", cfg.Export.Shading)
	}
	if cfg.Export.NormalMode != "linear" {
		t.Errorf("expected normal mode linear, got %s", cfg.Export.NormalMode)
	}
	if cfg.Export.Generator != buf.DefaultGenerator {
		t.Errorf("expected generator %s, got %s", buf.DefaultGenerator, cfg.Export.Generator)
	}
	if cfg.Export.Indent != 2 {
		t.Errorf("expected indent 2, got %d", cfg.Export.Indent)
	}
	if cfg.Input.Object != "" {
		t.Errorf("expected empty object, got %s", cfg.Input.Object)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config fails validation: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
export:
  shading: smooth
  normal_mode: inverse_transpose
  generator: "Studio Pipeline"
  indent: 4

input:
  object: "Chair"
  encoding: "windows-1252"

logging:
  level: "debug"
  log_file: "export.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Export.Shading != "smooth" {
		t.Errorf("expected shading smooth, got %s", cfg.Export.Shading)
	}
	if cfg.Export.NormalMode != "inverse_transpose" {
		t.Errorf("expected normal mode inverse_transpose, got %s", cfg.Export.NormalMode)
	}
	if cfg.Export.Generator != "Studio Pipeline" {
		t.Errorf("expected generator 'Studio Pipeline', got %s", cfg.Export.Generator)
	}
	if cfg.Export.Indent != 4 {
		t.Errorf("expected indent 4, got %d", cfg.Export.Indent)
	}
	if cfg.Input.Object != "Chair" {
		t.Errorf("expected object Chair, got %s", cfg.Input.Object)
	}
	if cfg.Input.Encoding != "windows-1252" {
		t.Errorf("expected encoding windows-1252, got %s", cfg.Input.Encoding)
	}
	if cfg.Logging.LogFile != "export.log" {
		t.Errorf("expected log file 'export.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("export:\n  shading: smooth\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Export.Shading != "smooth" {
		t.Errorf("expected shading smooth, got %s", cfg.Export.Shading)
	}
	// Keys absent from the file keep their defaults
	if cfg.Export.Indent != 2 || cfg.Export.Generator != buf.DefaultGenerator {
		t.Errorf("defaults lost: %+v", cfg.Export)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
export:
  indent: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"smooth", func(c *Config) { c.Export.Shading = "smooth" }, false},
		{"compact", func(c *Config) { c.Export.Indent = 0 }, false},
		{"bad shading", func(c *Config) { c.Export.Shading = "phong" }, true},
		{"bad normal mode", func(c *Config) { c.Export.NormalMode = "cofactor" }, true},
		{"negative indent", func(c *Config) { c.Export.Indent = -1 }, true},
		{"huge indent", func(c *Config) { c.Export.Indent = 20 }, true},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExportOptions(t *testing.T) {
	cfg := Default()
	cfg.Export.Shading = "smooth"
	cfg.Export.NormalMode = "inverse_transpose"
	cfg.Export.Generator = "Studio Pipeline"

	opts := cfg.ExportOptions()
	if opts.Shading != buf.ShadingSmooth {
		t.Errorf("Shading = %v, want smooth", opts.Shading)
	}
	if opts.NormalMode != bufmath.NormalInverseTranspose {
		t.Errorf("NormalMode = %v, want inverse_transpose", opts.NormalMode)
	}
	if opts.Generator != "Studio Pipeline" {
		t.Errorf("Generator = %q", opts.Generator)
	}

	if got := Default().ExportOptions().NormalMode; got != bufmath.NormalLinear {
		t.Errorf("default NormalMode = %v, want linear", got)
	}

	cfg.Export.Generator = ""
	if got := cfg.ExportOptions().Generator; got != buf.DefaultGenerator {
		t.Errorf("empty generator should fall back to %q, got %q", buf.DefaultGenerator, got)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
	if filepath.Base(dir) != "bufexport" {
		t.Errorf("ConfigDir should end in bufexport, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Point the user config dir somewhere empty
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "bufexport.yaml")
	if err := os.WriteFile(configPath, []byte("export:\n  indent: 0\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find bufexport.yaml in current directory")
	}
}

func TestFlagsRegister(t *testing.T) {
	var f Flags
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	f.Register(fs)

	args := []string{"-object", "Chair", "-shading", "smooth", "-indent", "0", "-debug"}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Object != "Chair" || f.Shading != "smooth" || f.Indent != 0 || !f.Debug {
		t.Errorf("flags = %+v", f)
	}

	var unset Flags
	fs = flag.NewFlagSet("list", flag.ContinueOnError)
	unset.Register(fs)
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if unset.Indent != -1 {
		t.Errorf("unset indent = %d, want -1", unset.Indent)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		flags  Flags
		verify func(*testing.T, *Config)
	}{
		{
			name:  "debug flag",
			flags: Flags{Debug: true, Indent: -1},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name:  "object and shading",
			flags: Flags{Object: "Chair", Shading: "smooth", Indent: -1},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Input.Object != "Chair" {
					t.Errorf("expected object Chair, got %s", cfg.Input.Object)
				}
				if cfg.Export.Shading != "smooth" {
					t.Errorf("expected shading smooth, got %s", cfg.Export.Shading)
				}
			},
		},
		{
			name:  "zero indent is an override",
			flags: Flags{Indent: 0},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Export.Indent != 0 {
					t.Errorf("expected indent 0, got %d", cfg.Export.Indent)
				}
			},
		},
		{
			name:  "unset indent keeps default",
			flags: Flags{Indent: -1},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Export.Indent != 2 {
					t.Errorf("expected indent 2, got %d", cfg.Export.Indent)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			applyFlags(cfg, &tt.flags)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
export:
  shading: smooth
  indent: 4
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(&Flags{Config: configPath, Indent: 0})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Indent comes from the flag, not the file
	if cfg.Export.Indent != 0 {
		t.Errorf("expected indent 0 from flag, got %d", cfg.Export.Indent)
	}
	// Shading comes from the file since no flag overrides it
	if cfg.Export.Shading != "smooth" {
		t.Errorf("expected shading smooth from file, got %s", cfg.Export.Shading)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load(&Flags{Config: filepath.Join(t.TempDir(), "none.yaml"), Indent: -1})
	if err == nil {
		t.Error("expected error for missing explicit config file")
	}

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("export:\n  shading: phong\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := Load(&Flags{Config: configPath, Indent: -1}); err == nil {
		t.Error("expected validation error for unknown shading")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Export.Shading = "smooth"
	cfg.Input.Object = "Chair"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("reloaded config = %+v, want %+v", loaded, cfg)
	}
}
