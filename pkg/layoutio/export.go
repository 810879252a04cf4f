package layoutio

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/blockcanvas/pkg/errors"
	"github.com/matzehuels/blockcanvas/pkg/geom"
	"github.com/matzehuels/blockcanvas/pkg/store"
)

// Document is a decoded layout: the node list and the per-viewport positions.
type Document struct {
	Nodes     []geom.Node
	Positions map[geom.Viewport]geom.PositionSet
}

type document struct {
	Nodes     []geom.Node                              `json:"nodes"`
	Positions map[string]map[string]geom.BlockPosition `json:"positions"`
}

// Capture snapshots nodes and every non-empty viewport of st.
func Capture(nodes []geom.Node, st *store.Store) *Document {
	doc := &Document{
		Nodes:     append([]geom.Node(nil), nodes...),
		Positions: make(map[geom.Viewport]geom.PositionSet),
	}
	for _, vp := range st.Viewports() {
		doc.Positions[vp] = st.Positions(vp)
	}
	return doc
}

// WriteJSON encodes doc as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(doc *Document, w io.Writer) error {
	out := document{
		Nodes:     doc.Nodes,
		Positions: make(map[string]map[string]geom.BlockPosition, len(doc.Positions)),
	}
	if out.Nodes == nil {
		out.Nodes = []geom.Node{}
	}
	for vp, set := range doc.Positions {
		out.Positions[vp.String()] = set
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
	}
	return nil
}

// ExportJSON writes doc to a JSON file at path.
func ExportJSON(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	if err := WriteJSON(doc, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
