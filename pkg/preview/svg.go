// Package preview renders a canvas layout as a static SVG image.
//
// The preview draws the renderable positions of one viewport at their pixel
// coordinates on a canvas of the viewport's width and derived height. It is
// meant for reviewing layouts outside the editor; it does not render block
// content.
package preview

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/blockcanvas/pkg/geom"
)

// Option configures [RenderSVG].
type Option func(*renderer)

type renderer struct {
	grid     bool
	selected string
	types    map[string]string
}

// WithGrid draws the column grid of the canvas.
func WithGrid() Option { return func(r *renderer) { r.grid = true } }

// WithSelected highlights the block with the given id.
func WithSelected(id string) Option { return func(r *renderer) { r.selected = id } }

// WithNodes labels each block with its content type.
func WithNodes(nodes []geom.Node) Option {
	return func(r *renderer) {
		r.types = make(map[string]string, len(nodes))
		for _, n := range nodes {
			r.types[n.ID] = n.Type
		}
	}
}

// RenderSVG renders blocks on a canvas of cfg.Width by height pixels. Blocks
// are painted by z-index, then top to bottom, then id.
func RenderSVG(blocks []geom.BlockPosition, cfg geom.CanvasConfig, height float64, opts ...Option) []byte {
	r := renderer{}
	for _, opt := range opts {
		opt(&r)
	}

	sorted := slices.Clone(blocks)
	slices.SortFunc(sorted, func(a, b geom.BlockPosition) int {
		return cmp.Or(cmp.Compare(a.Z(), b.Z()), cmp.Compare(a.Y, b.Y), cmp.Compare(a.ID, b.ID))
	})

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		cfg.Width, height, cfg.Width, height)
	buf.WriteString(`  <rect class="canvas" x="0" y="0" width="100%" height="100%" fill="#fafafa"/>` + "\n")
	if r.grid {
		renderGrid(&buf, cfg, height)
	}
	for _, b := range sorted {
		r.renderBlock(&buf, b)
	}
	for _, b := range sorted {
		r.renderText(&buf, b)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderGrid(buf *bytes.Buffer, cfg geom.CanvasConfig, height float64) {
	col := cfg.ColumnWidth()
	for i := 1; i < cfg.GridColumns; i++ {
		x := float64(i) * col
		fmt.Fprintf(buf, `  <line class="grid" x1="%.2f" y1="0" x2="%.2f" y2="%.1f" stroke="#e5e5e5" stroke-width="1"/>`+"\n", x, x, height)
	}
}

func (r *renderer) renderBlock(buf *bytes.Buffer, b geom.BlockPosition) {
	stroke, width := "#333333", 1.5
	if b.ID == r.selected {
		stroke, width = "#0f9d9a", 3
	}
	fmt.Fprintf(buf, `  <rect id="block-%s" class="block" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="4" fill="#ffffff" stroke="%s" stroke-width="%.1f"/>`+"\n",
		escapeXML(b.ID), b.X, b.Y, b.Width, b.Height, stroke, width)
}

func (r *renderer) renderText(buf *bytes.Buffer, b geom.BlockPosition) {
	label := b.ID
	if t := r.types[b.ID]; t != "" {
		label = t + " · " + b.ID
	}
	size := fontSize(b.Width, b.Height, len([]rune(label)))
	fmt.Fprintf(buf, `  <text class="block-text" data-block="%s" x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.1f" text-anchor="middle" dominant-baseline="middle" fill="#333333">%s</text>`+"\n",
		escapeXML(b.ID), b.X+b.Width/2, b.Y+b.Height/2, size, escapeXML(truncate(label, b.Width, size)))
}
