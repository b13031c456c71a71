package client

import (
	"time"

	"github.com/tomz197/shooter/internal/draw"
	"github.com/tomz197/shooter/internal/input"
)

// GameState represents the current screen of a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Active gameplay
	GameStateOver                      // Game over, show restart prompt
	GameStateShutdown                  // Server is shutting down
)

func (s GameState) String() string {
	switch s {
	case GameStateStart:
		return "start"
	case GameStatePlaying:
		return "playing"
	case GameStateOver:
		return "over"
	case GameStateShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// ClientState holds per-session client state (input, screen, final score).
type ClientState struct {
	Input         input.Input
	GameState     GameState
	prevGameState GameState
	FinalScore    int // Score at the last game over
	FinalLevel    int
	pendingReset  bool              // Reset sent, waiting for the server to apply it
	Running       bool              // Client loop running
	delta         time.Duration     // Frame delta time (client-side)
	shutdownTimer float64           // Countdown before auto-disconnect on shutdown
	isInactive    bool              // Whether the client is in inactive warning state
	wasInactive   bool              // Inactivity state at the previous frame
	termSizeFunc  draw.TermSizeFunc // Function to get terminal size
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Running:   true,
	}
}
