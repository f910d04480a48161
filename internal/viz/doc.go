// Package viz provides the terminal preview of a mosaic scene.
//
// The preview is a Bubble Tea program:
//
//   - [Model]: live view of one [scene.Scene], bricks drawn as coloured cells
//   - [Canvas]: braille dot canvas for the wave profile and the 3D view
//   - [RunInteractive]: preset menu that tunes a config and opens the preview
//
// # Key Bindings
//
//	Mouse   - Ripple the brick under the pointer
//	N       - Run a transition
//	Space   - Pause/Resume
//	R       - Replay the build
//	V       - Cycle mosaic, profile and 3D views
//	T       - Cycle color themes
//	G       - Toggle GIF recording
//	?       - Show help overlay
//
// # Recording
//
// G starts capturing every frame through the export package and writes an
// animated GIF when pressed again.
package viz
