package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/matzehuels/blockcanvas/pkg/geom"
)

// ValidateBlockID validates a block identifier.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters or whitespace
//   - Maximum length of 256 characters
func ValidateBlockID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidBlock, "block id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidBlock, "block id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidBlock, "block id contains invalid characters: %q", id)
		}
	}

	return nil
}

// blockTypeRegex matches block type names such as "text" or "image-gallery".
var blockTypeRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidateBlockType validates a block type name.
func ValidateBlockType(typ string) error {
	if !blockTypeRegex.MatchString(typ) {
		return New(ErrCodeInvalidBlock, "invalid block type: %q", typ)
	}
	return nil
}

// ParseViewport validates a viewport name and returns it.
// Names are case-insensitive; only the built-in viewports are accepted.
func ParseViewport(name string) (geom.Viewport, error) {
	vp := geom.Viewport(strings.ToLower(strings.TrimSpace(name)))
	if !vp.Known() {
		return "", New(ErrCodeInvalidViewport, "unknown viewport %q (want one of %v)", name, geom.Viewports)
	}
	return vp, nil
}

// ValidateCanvasConfig validates the static geometry of a viewport canvas.
//
// Validation rules:
//   - Width must be finite and wide enough for one minimum-size block
//   - GridColumns must be positive
//   - MinHeight must be finite and non-negative
func ValidateCanvasConfig(vp geom.Viewport, cfg geom.CanvasConfig) error {
	if math.IsNaN(cfg.Width) || math.IsInf(cfg.Width, 0) || cfg.Width < geom.MinWidth {
		return New(ErrCodeInvalidConfig, "%s: width must be at least %v, got %v", vp, geom.MinWidth, cfg.Width)
	}
	if cfg.GridColumns <= 0 {
		return New(ErrCodeInvalidConfig, "%s: grid_columns must be positive, got %d", vp, cfg.GridColumns)
	}
	if math.IsNaN(cfg.MinHeight) || math.IsInf(cfg.MinHeight, 0) || cfg.MinHeight < 0 {
		return New(ErrCodeInvalidConfig, "%s: min_height must be non-negative, got %v", vp, cfg.MinHeight)
	}
	return nil
}
