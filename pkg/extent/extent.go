// Package extent derives the canvas size from the current position set.
//
// Derived values exclude phantom positions: entries whose block id no longer
// matches any node. Phantoms are reported, never deleted, because a block
// deletion happening elsewhere may still be in flight.
package extent

import (
	"math"
	"sort"

	"github.com/matzehuels/blockcanvas/pkg/geom"
)

// Phantoms returns the ids present in positions but absent from nodes, sorted.
func Phantoms(positions geom.PositionSet, nodes []geom.Node) []string {
	known := geom.NodeIDs(nodes)
	var out []string
	for id := range positions {
		if _, ok := known[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Live returns the positions of positions whose id matches a node.
func Live(positions geom.PositionSet, nodes []geom.Node) geom.PositionSet {
	known := geom.NodeIDs(nodes)
	out := make(geom.PositionSet, len(positions))
	for id, p := range positions {
		if _, ok := known[id]; ok {
			out[id] = p
		}
	}
	return out
}

// Height returns the canvas height for positions: the lowest bottom edge of a
// live block plus [geom.BottomMargin], never less than cfg.MinHeight.
func Height(positions geom.PositionSet, nodes []geom.Node, cfg geom.CanvasConfig) float64 {
	lowest := math.Inf(-1)
	for _, p := range Live(positions, nodes) {
		if b := p.Bottom(); !math.IsNaN(b) && b > lowest {
			lowest = b
		}
	}
	if math.IsInf(lowest, -1) {
		return cfg.MinHeight
	}
	return math.Max(cfg.MinHeight, lowest+geom.BottomMargin)
}
