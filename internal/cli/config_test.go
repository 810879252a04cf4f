package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/blockcanvas/pkg/errors"
	"github.com/matzehuels/blockcanvas/pkg/geom"
	"github.com/matzehuels/blockcanvas/pkg/gesture"
	"github.com/matzehuels/blockcanvas/pkg/snap"
)

// isolate points config lookup at empty temporary directories.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	cfg, used, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if used != "" {
		t.Errorf("used = %q, want no file", used)
	}
	if cfg.Canvases[geom.Desktop] != geom.DefaultConfigs()[geom.Desktop] {
		t.Errorf("desktop = %+v", cfg.Canvases[geom.Desktop])
	}
	if cfg.Canvases[geom.Mobile] != geom.DefaultConfigs()[geom.Mobile] {
		t.Errorf("mobile = %+v", cfg.Canvases[geom.Mobile])
	}
	if cfg.Snap != snap.DefaultOptions() {
		t.Errorf("snap = %+v", cfg.Snap)
	}
	if cfg.SafetyTimeout != gesture.DefaultSafetyTimeout {
		t.Errorf("safety timeout = %v", cfg.SafetyTimeout)
	}
	if cfg.Hints["image"] != (geom.Size{Width: 400, Height: 300}) {
		t.Errorf("image hint = %+v", cfg.Hints["image"])
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "blockcanvas.toml"), `
[canvas.desktop]
width = 1000
grid_columns = 10
min_height = 500

[snap]
enabled = false

[gesture]
safety_timeout = "2s"

[hints.text]
width = 300
height = 90
`)

	cfg, used, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if filepath.Base(used) != "blockcanvas.toml" {
		t.Errorf("used = %q", used)
	}
	if got := cfg.Canvases[geom.Desktop]; got.Width != 1000 || got.GridColumns != 10 || got.MinHeight != 500 {
		t.Errorf("desktop = %+v", got)
	}
	if cfg.Canvases[geom.Mobile].Width != 375 {
		t.Errorf("mobile default lost: %+v", cfg.Canvases[geom.Mobile])
	}
	if cfg.Snap.Enabled || cfg.Snap.Tolerance != snap.DefaultTolerance {
		t.Errorf("snap = %+v", cfg.Snap)
	}
	if cfg.SafetyTimeout != 2*time.Second {
		t.Errorf("safety timeout = %v", cfg.SafetyTimeout)
	}
	if cfg.Hints["text"] != (geom.Size{Width: 300, Height: 90}) {
		t.Errorf("text hint = %+v", cfg.Hints["text"])
	}
	if cfg.Hints["heading"] != (geom.Size{Width: 600, Height: 60}) {
		t.Errorf("heading hint = %+v", cfg.Hints["heading"])
	}
}

func TestLoadConfigEnv(t *testing.T) {
	isolate(t)
	t.Setenv("BLOCKCANVAS_SNAP_TOLERANCE", "4")
	t.Setenv("BLOCKCANVAS_CANVAS_MOBILE_WIDTH", "414")

	cfg, _, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Snap.Tolerance != 4 {
		t.Errorf("tolerance = %v, want 4", cfg.Snap.Tolerance)
	}
	if cfg.Canvases[geom.Mobile].Width != 414 {
		t.Errorf("mobile width = %v, want 414", cfg.Canvases[geom.Mobile].Width)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"narrow canvas", "[canvas.desktop]\nwidth = 10", errors.ErrCodeInvalidConfig},
		{"unknown viewport", "[canvas.tv]\nwidth = 1920\ngrid_columns = 12", errors.ErrCodeInvalidConfig},
		{"tiny hint", "[hints.text]\nwidth = 10\nheight = 10", errors.ErrCodeInvalidConfig},
		{"bad type name", "[hints.\"9col\"]\nwidth = 100\nheight = 100", errors.ErrCodeInvalidConfig},
		{"zero timeout", "[gesture]\nsafety_timeout = \"0s\"", errors.ErrCodeInvalidConfig},
		{"malformed", "[canvas", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "custom.toml")
			writeFile(t, path, tt.content)
			_, _, err := loadConfig(path)
			if !errors.Is(err, tt.code) {
				t.Fatalf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, _, err := loadConfig(filepath.Join(dir, "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("err = %v, want file not found", err)
	}
}
