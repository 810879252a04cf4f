// Package pkg provides the core libraries for blockcanvas, a free-form canvas
// positioning engine.
//
// # Overview
//
// blockcanvas places rectangular content blocks on a fixed-width canvas and
// lets users drag and resize them with a pointer. Every viewport (desktop,
// mobile) keeps its own independent set of positions, so the same blocks can
// be arranged differently per screen size. The canvas height is never stored;
// it is derived from the lowest block.
//
// # Architecture
//
// The typical data flow:
//
//  1. Load: read a layout document into a node list and per-viewport positions
//  2. Place: give newly inserted blocks a free, grid-aligned position
//  3. Gesture: turn pointer input into rate-limited position updates
//  4. Derive: compute canvas height and phantom positions
//  5. Export: write the layout back as JSON or render an SVG preview
//
// Example usage:
//
//	import (
//	    "github.com/matzehuels/blockcanvas/pkg/board"
//	    "github.com/matzehuels/blockcanvas/pkg/geom"
//	    "github.com/matzehuels/blockcanvas/pkg/layoutio"
//	)
//
//	doc, _ := layoutio.ImportJSON("layout.json")
//	b, _ := board.New(board.DefaultConfig(), board.Options{})
//	defer b.Close()
//	b.Load(doc.Nodes, doc.Positions)
//	b.AddBlock(geom.Node{ID: "intro", Type: "text"})
//	fmt.Println(b.Height())
//
// # Package Organization
//
// ## Engine
//
// [geom] - Shared data model: block positions, partial updates, canvas
// configuration and viewports.
//
// [snap] - Grid alignment of coordinates and sizes.
//
// [placement] - Default placement of a new block below the existing content.
//
// [extent] - Derived canvas height and phantom detection.
//
// [schedule] - Coalescing of rapid updates into at most one delivery per
// interval.
//
// [store] - Viewport-keyed position store with change subscriptions.
//
// [gesture] - Drag and resize state machine with a safety release.
//
// [board] - Wires the engine into one editable canvas.
//
// ## Tooling
//
// [layoutio] - JSON import and export of layout documents.
//
// [replay] - Scripted pointer gestures in TOML, played on a fake clock.
//
// [preview] - Static SVG rendering of one viewport.
//
// ## Infrastructure
//
// [errors] - Structured error types with user-facing messages.
//
// [observability] - Optional hooks for gesture and update instrumentation.
//
// [buildinfo] - Build-time version information.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/gesture/...      # Specific package
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/blockcanvas/pkg/geom
// [snap]: https://pkg.go.dev/github.com/matzehuels/blockcanvas/pkg/snap
// [placement]: https://pkg.go.dev/github.com/matzehuels/blockcanvas/pkg/placement
// [extent]: https://pkg.go.dev/github.com/matzehuels/blockcanvas/pkg/extent
// [schedule]: https://pkg.go.dev/github.com/matzehuels/blockcanvas/pkg/schedule
// [store]: https://pkg.go.dev/github.com/matzehuels/blockcanvas/pkg/store
// [gesture]: https://pkg.go.dev/github.com/matzehuels/blockcanvas/pkg/gesture
// [board]: https://pkg.go.dev/github.com/matzehuels/blockcanvas/pkg/board
// [layoutio]: https://pkg.go.dev/github.com/matzehuels/blockcanvas/pkg/layoutio
// [replay]: https://pkg.go.dev/github.com/matzehuels/blockcanvas/pkg/replay
// [preview]: https://pkg.go.dev/github.com/matzehuels/blockcanvas/pkg/preview
// [errors]: https://pkg.go.dev/github.com/matzehuels/blockcanvas/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/blockcanvas/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/blockcanvas/pkg/buildinfo
package pkg
