package client

import (
	"time"

	"github.com/tomz197/starfall/internal/input"
	"github.com/tomz197/starfall/internal/physics"
)

// GameState represents the current screen of a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Active gameplay
	GameStateDead                      // Run over, show restart prompt
	GameStateShutdown                  // Host is shutting down
)

// restartDelaySeconds keeps a held fire key from skipping the game over screen.
const restartDelaySeconds = 1.0

// ClientState holds per-connection state (input, screen, pointer target).
type ClientState struct {
	Input         input.Input
	GameState     GameState
	prevGameState GameState
	Running       bool          // Client loop running
	Target        physics.Vec   // Pointer target in arena coordinates
	Firing        bool          // Fire held via mouse button or toggle key
	RestartDelay  float64       // Seconds before the dead screen accepts input
	delta         time.Duration // Frame delta time
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state
	wasInactive   bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState:     GameStateStart,
		prevGameState: GameStateStart,
		Running:       true,
	}
}
