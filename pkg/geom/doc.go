// Package geom defines the shared data model of the canvas positioning engine.
//
// A [BlockPosition] is the pixel-space rectangle of one content block. Every
// [Viewport] owns an independent [PositionSet] and an independent
// [CanvasConfig]; the two sets are never merged, so a block may have different
// geometry on desktop and on mobile.
//
// # Invariants
//
// A valid position satisfies, for the canvas width of its viewport:
//
//	0 <= X
//	X + Width <= canvasWidth
//	Y >= 0
//	Width >= MinWidth
//	Height >= MinHeight
//
// # Partial Updates
//
// Mutations travel as a [Partial]: a nil field means "unchanged". Applying the
// same Partial twice yields the same position as applying it once.
package geom
