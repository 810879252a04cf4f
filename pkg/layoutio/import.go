package layoutio

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/blockcanvas/pkg/errors"
	"github.com/matzehuels/blockcanvas/pkg/geom"
)

// ReadJSON decodes a layout document from r.
//
// ReadJSON returns an error if:
//   - The JSON is malformed
//   - A node has an empty, invalid or duplicate id
//   - A viewport name is not a known viewport
//   - A position entry carries an id different from its key
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode layout")
	}

	doc := &Document{
		Nodes:     make([]geom.Node, 0, len(data.Nodes)),
		Positions: make(map[geom.Viewport]geom.PositionSet, len(data.Positions)),
	}
	seen := make(map[string]bool, len(data.Nodes))
	for _, n := range data.Nodes {
		if err := errors.ValidateBlockID(n.ID); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "node %q", n.ID)
		}
		if seen[n.ID] {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
		doc.Nodes = append(doc.Nodes, n)
	}

	for name, entries := range data.Positions {
		vp, err := errors.ParseViewport(name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "positions")
		}
		set := make(geom.PositionSet, len(entries))
		for id, p := range entries {
			if p.ID != "" && p.ID != id {
				return nil, errors.New(errors.ErrCodeInvalidDocument, "%s: position %q carries id %q", vp, id, p.ID)
			}
			p.ID = id
			set[id] = p
		}
		doc.Positions[vp] = set
	}
	return doc, nil
}

// ImportJSON reads a layout document from the file at path.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
