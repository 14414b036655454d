package config

import "time"

// Terminal rendering. The canvas is clamped to this many cells and centered
// inside larger terminals.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 60

	// UnitsPerCell is the arena size of one terminal column or sub-pixel row.
	UnitsPerCell = 10
)

// Keyboard steering moves the pointer target this many arena units per second.
const KeySteerSpeed = 900

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS   = 60
	MaxUsernameLength = 16 // Maximum display length for player usernames
)

// FrameTime returns the frame duration for fps, falling back to
// ClientTargetFPS when fps is not positive.
func FrameTime(fps int) time.Duration {
	if fps <= 0 {
		fps = ClientTargetFPS
	}
	return time.Second / time.Duration(fps)
}
