// Package gesture turns pointer input into block translation and resizing.
//
// A [Controller] is a finite-state machine with one tagged state:
//
//	Idle ──BeginDrag──▶ Dragging ──PointerUp / safety timeout──▶ Idle
//	Idle ──BeginResize─▶ Resizing(dir) ──PointerUp / safety timeout──▶ Idle
//
// The state doubles as the operation lock shared by drags and resizes: a
// gesture may only begin while the controller is [Idle]. A begin request made
// while another gesture is active is ignored, and the Begin method reports
// false. Invalid combinations such as "dragging and resizing" cannot be
// represented.
//
// # Input
//
// While a gesture is active the controller is attached, as a [Handler], to an
// [InputAdapter] that forwards document-level pointer-move and pointer-up
// events. The adapter is detached on every exit path. A [Surface] resolves the
// canvas origin and zoom factor on every move; a move that arrives while the
// origin cannot be resolved is dropped.
//
// # Output
//
// Every computed geometry is clamped to the canvas, optionally snapped to the
// grid, and handed to a [schedule.Scheduler], which delivers at most one
// [Update] per frame to the OnPositionChange callback. Pending updates are
// flushed when a gesture ends and cancelled by [Controller.Close].
//
// # Safety Timeout
//
// If no pointer-up arrives within the safety timeout (5s by default) of a
// gesture start, for example because the window lost focus mid-drag, the
// gesture is ended as if the pointer had been released and a warning is
// logged. The timer is re-armed on every gesture start and stopped on normal
// exit.
package gesture
