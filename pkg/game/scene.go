package game

import (
	"github.com/decker502/junglerun/pkg/render"
)

// Scene represents one playable screen of the runner.
// Each scene owns its own update and rendering logic.
type Scene interface {
	// Update advances the scene by the elapsed time.
	// durationMs is the time since the previous tick in milliseconds.
	Update(durationMs float64) error

	// Draw renders the scene onto the provided surface.
	Draw(surface render.Surface)
}
