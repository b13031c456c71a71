// Package client is the terminal adapter: it turns key presses and mouse
// reports into game commands and renders snapshots to an ANSI terminal.
package client

import (
	"bufio"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/shooter/internal/draw"
	"github.com/tomz197/shooter/internal/game"
	"github.com/tomz197/shooter/internal/input"
	"github.com/tomz197/shooter/internal/loop/config"
	"github.com/tomz197/shooter/internal/loop/server"
)

// Client handles rendering and input for a single terminal.
type Client struct {
	server       server.GameServer
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	styles       *styles
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
	mouse        bool
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Logger       *log.Logger
	DisableMouse bool // Skip enabling terminal mouse reporting
}

// NewClient creates a new client attached to the given game server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	state := NewClientState()
	state.termSizeFunc = termSizeFunc

	snap := gs.Snapshot()

	// Create canvas fitted to the play area's aspect ratio
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := fitPlayArea(termWidth, termHeight, snap.Width, snap.Height)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, snap.Width, snap.Height)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	return &Client{
		server:       gs,
		state:        state,
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		styles:       newStyles(w),
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		logger:       logger,
		mouse:        !opts.DisableMouse,
	}
}

// Run starts the client loop. Blocks until the player quits, the input
// closes or the server shuts down.
func (c *Client) Run() error {
	defer c.inputStream.Close()
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	if c.mouse {
		draw.EnableMouse(c.writer)
		defer draw.DisableMouse(c.writer)
	}
	draw.ClearScreen(c.writer)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		// Process input
		c.processInput()

		// Check for server events
		c.processServerEvents()

		// Handle screen resize
		c.updateScreen()

		snapshot := c.server.Snapshot()

		// Handle game state
		switch c.state.GameState {
		case GameStateStart:
			c.updateStartState()
		case GameStatePlaying:
			c.updatePlayingState(snapshot)
		case GameStateOver:
			c.updateOverState()
		case GameStateShutdown:
			c.updateShutdownState()
		}

		// Draw frame
		if err := c.drawFrame(snapshot); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	c.logger.Debug("client stopped", "user", c.username, "screen", c.state.GameState)
	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input and tracks inactivity.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if c.state.Input.Active() {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.logger.Info("disconnecting inactive user", "user", c.username)
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.state.Input.Quit || c.state.Input.Closed {
		c.state.Running = false
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event := <-c.server.Events():
			switch event.Type {
			case server.EventGameOver:
				c.state.FinalScore = event.Score
				c.state.FinalLevel = event.Level
				if c.state.GameState == GameStatePlaying {
					c.state.GameState = GameStateOver
				}
			case server.EventReset:
				c.state.pendingReset = false
				if c.state.GameState == GameStateOver {
					c.state.GameState = GameStatePlaying
				}
			case server.EventShutdown:
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, fitting the render area to the
// play area. On actual size changes, clears the terminal to remove residual
// pixels outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := fitPlayArea(termWidth, termHeight, c.canvas.LogicalWidth(), c.canvas.LogicalHeight())

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// fitPlayArea picks the largest render area with the play area's aspect
// ratio (half-block pixels are roughly square) and centers it.
func fitPlayArea(termWidth, termHeight int, logicalWidth, logicalHeight float64) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)
	aspect := logicalWidth / logicalHeight

	renderHeight = termHeight
	renderWidth = int(float64(renderHeight*2) * aspect)
	if renderWidth > termWidth {
		renderWidth = termWidth
		renderHeight = int(float64(renderWidth) / aspect / 2)
	}
	renderWidth = max(renderWidth, 1)
	renderHeight = max(renderHeight, 1)

	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateStartState handles the start screen. The world runs behind it;
// starting resets it so the player begins from a clean slate.
func (c *Client) updateStartState() {
	in := c.state.Input
	if in.Tapped(' ') || in.Tapped('\r') || in.Tapped('\n') || c.clicked() {
		c.startGame()
	}
}

// updatePlayingState maps keys and mouse reports to game commands.
func (c *Client) updatePlayingState(snapshot *game.Snapshot) {
	if snapshot.GameOver && !c.state.pendingReset {
		c.state.FinalScore = snapshot.Score
		c.state.FinalLevel = snapshot.Level
		c.state.GameState = GameStateOver
		return
	}

	if c.state.pendingReset {
		return
	}

	in := c.state.Input
	x := snapshot.Player.X
	switch {
	case in.Left && !in.Right:
		c.server.SendCommand(game.MoveGun(x - config.GunStep))
	case in.Right && !in.Left:
		c.server.SendCommand(game.MoveGun(x + config.GunStep))
	}
	if in.Tapped(' ') {
		c.server.SendCommand(game.FireAt(x))
	}

	for _, ev := range in.Mouse {
		if ev.Button != 0 {
			continue
		}
		lx, ly, ok := c.mouseToLogical(ev)
		if !ok {
			continue
		}
		switch ev.Action {
		case input.MousePress:
			c.server.SendCommand(game.Tap(lx, ly))
		case input.MouseDrag:
			c.server.SendCommand(game.DragTo(lx, ly))
		}
	}
}

// updateOverState waits for SPACE or R to start a new game.
func (c *Client) updateOverState() {
	in := c.state.Input
	if in.Tapped(' ') || in.Tapped('r') || in.Tapped('R') || c.clicked() {
		c.startGame()
	}
}

// startGame resets the world and switches to the playing screen.
func (c *Client) startGame() {
	input.ResetKeyInput(c.inputStream)
	if !c.server.SendCommand(game.Reset()) {
		return
	}
	// Snapshots may still show the old game until the reset is applied
	c.state.pendingReset = true
	c.state.GameState = GameStatePlaying
	c.logger.Debug("game started", "user", c.username)
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// clicked reports whether a left button press arrived this frame.
func (c *Client) clicked() bool {
	for _, ev := range c.state.Input.Mouse {
		if ev.Action == input.MousePress && ev.Button == 0 {
			return true
		}
	}
	return false
}

// mouseToLogical converts a terminal mouse position to play-area coordinates.
// Reports outside the render area are ignored.
func (c *Client) mouseToLogical(ev input.MouseEvent) (x, y float64, ok bool) {
	col := ev.Col - c.canvas.OffsetCol()
	row := ev.Row - c.canvas.OffsetRow()
	if col < 1 || row < 1 || col > c.canvas.TerminalWidth() || row > c.canvas.TerminalHeight() {
		return 0, 0, false
	}
	x, y = c.canvas.TerminalToLogical(col, row)
	return x, y, true
}
