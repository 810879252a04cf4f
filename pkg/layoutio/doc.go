// Package layoutio provides JSON import and export for canvas layouts.
//
// # JSON Format
//
// A layout document holds the node list and, per viewport, the stored
// position of each block:
//
//	{
//	  "nodes": [
//	    {"id": "intro", "type": "text"},
//	    {"id": "hero", "type": "image", "data": {"src": "hero.png"}}
//	  ],
//	  "positions": {
//	    "desktop": {
//	      "intro": {"x": 50, "y": 50, "width": 400, "height": 120},
//	      "hero": {"x": 50, "y": 190, "width": 400, "height": 300, "zIndex": 2}
//	    },
//	    "mobile": {}
//	  }
//	}
//
// Position entries are keyed by block id; an "id" field inside an entry is
// optional but must match its key. Positions whose id matches no node are
// kept: they are phantoms, ignored for rendering and height until pruned.
//
// # Import
//
// Use [ImportJSON] to read a document from a file path, or [ReadJSON] to read
// from any io.Reader. Both reject duplicate node ids, invalid ids and
// unknown viewport names. Geometry is not validated here: out-of-range
// positions are skipped at render time instead.
//
// # Export
//
// Use [ExportJSON] to write a document to a file, or [WriteJSON] to write to
// any io.Writer. [Capture] snapshots a node list and a position store into a
// [Document].
package layoutio
