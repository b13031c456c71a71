package client

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tomz197/shooter/internal/game"
	"github.com/tomz197/shooter/internal/loop/config"
	"github.com/tomz197/shooter/internal/object"
)

// Rendering sizes in play-area units.
const (
	playerRadius    = 12
	bulletRadius    = 3
	barrelHalfWidth = 4
)

var titleArt = []string{
	`  ___ _  _  ___   ___ _____ ___ ___  `,
	` / __| || |/ _ \ / _ \_   _| __| _ \ `,
	` \__ \ __ | (_) | (_) || | | _||   / `,
	` |___/_||_|\___/ \___/ |_| |___|_|_\ `,
}

var gameOverArt = []string{
	`   ___   _   __  __ ___    _____   _____ ___  `,
	`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
	` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
	`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
}

// styles holds the lipgloss styles of one terminal. Each session gets its own
// renderer so color output matches that session, not the host's stdout.
type styles struct {
	hud     lipgloss.Style
	label   lipgloss.Style
	title   lipgloss.Style
	prompt  lipgloss.Style
	warning lipgloss.Style
	box     lipgloss.Style
	hint    lipgloss.Style
}

func newStyles(w io.Writer) *styles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.TrueColor)
	r.SetHasDarkBackground(true)

	return &styles{
		hud:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD75F")),
		label:   r.NewStyle().Foreground(lipgloss.Color("#8A8A8A")),
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FD7FF")),
		prompt:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")),
		warning: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F5F")),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5FD7FF")).
			Padding(0, 2).
			Align(lipgloss.Center),
		hint: r.NewStyle().Foreground(lipgloss.Color("#B2B2B2")),
	}
}

// drawFrame draws the current frame.
func (c *Client) drawFrame(snapshot *game.Snapshot) error {
	// On screen or inactivity transitions, do a full terminal clear
	// so UI elements from the previous screen don't persist.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()
	if c.state.GameState != GameStateShutdown {
		c.drawWorld(snapshot)
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when the terminal is larger than the render area
	c.canvas.RenderBorder(c.chunkWriter)

	// Draw UI overlay
	c.drawUI(snapshot)

	return c.chunkWriter.Flush()
}

// drawWorld draws every entity of the snapshot onto the canvas.
func (c *Client) drawWorld(snapshot *game.Snapshot) {
	cv := c.canvas

	if snapshot.Policy == game.PolicyProximity.String() {
		cv.SetColor(object.ColorGray)
		cv.DashedHLine(snapshot.DangerLineY, 2)
	}

	for _, e := range snapshot.Enemies {
		cv.SetColor(e.Color)
		cv.FillCircle(e.Pos, e.Radius)
	}

	for _, x := range snapshot.Explosions {
		cv.SetColor(x.Color)
		cv.StrokeCircle(x.Pos, x.Radius)
	}

	for _, b := range snapshot.Bullets {
		cv.SetColor(b.Color)
		cv.FillCircle(b.Pos, bulletRadius)
	}

	// Player with the gun barrel along the current angle
	cv.SetColor(object.ColorWhite)
	cv.FillBar(snapshot.Player, snapshot.GunAngle, playerRadius+snapshot.GunLength, barrelHalfWidth)
	cv.SetColor(snapshot.PlayerColor)
	cv.FillCircle(snapshot.Player, playerRadius)
}

// drawUI draws the game UI overlay.
func (c *Client) drawUI(snapshot *game.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.GameState {
	case GameStatePlaying:
		c.drawPlayingHUD(termWidth, snapshot)
	case GameStateStart:
		c.drawStartScreen(centerX, centerY)
	case GameStateOver:
		c.drawGameOverScreen(centerX, centerY)
	}
}

// writeCentered writes a rendered block (possibly multi-line) centered on
// (centerX, top) and marks the covered cells for repaint on the next frame.
func (c *Client) writeCentered(centerX, top int, block string) {
	for i, line := range strings.Split(block, "\n") {
		width := lipgloss.Width(line)
		col := max(centerX-width/2, 1)
		c.chunkWriter.WriteAt(col, top+i, line)
		c.canvas.MarkTextDirty(col, top+i, width)
	}
}

// writeAt writes styled text at a fixed position and marks it for repaint.
func (c *Client) writeAt(col, row int, text string) {
	c.chunkWriter.WriteAt(col, row, text)
	c.canvas.MarkTextDirty(col, row, lipgloss.Width(text))
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	s := c.styles
	remaining := int(config.InactivityDisconnectUser - time.Since(c.lastInput).Seconds())
	body := lipgloss.JoinVertical(lipgloss.Center,
		s.warning.Render("INACTIVITY WARNING"),
		"",
		fmt.Sprintf("Disconnecting in %d seconds.", remaining),
		"",
		s.hint.Render("Press any key to continue"),
	)
	box := s.box.Render(body)
	c.writeCentered(centerX, centerY-lipgloss.Height(box)/2, box)
}

// drawStartScreen draws the title screen over the running world.
func (c *Client) drawStartScreen(centerX, centerY int) {
	s := c.styles
	title := s.title.Render(strings.Join(titleArt, "\n"))

	controls := strings.Join([]string{
		"A D / < >  . . Move gun",
		"SPACE  . . . . . . Fire",
		"Click  . . . . Aim+fire",
		"Drag . . . .  Move ship",
		"Q  . . . . . . . . Quit",
	}, "\n")

	parts := []string{title, "", s.label.Render("Controls"), s.hint.Render(controls), ""}
	// Blinking start prompt
	if time.Now().UnixMilli()/600%2 == 0 {
		parts = append(parts, s.prompt.Render(">>  Press SPACE to Start  <<"))
	} else {
		parts = append(parts, "")
	}

	block := lipgloss.JoinVertical(lipgloss.Center, parts...)
	c.writeCentered(centerX, centerY-lipgloss.Height(block)/2, block)
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth int, snapshot *game.Snapshot) {
	s := c.styles
	score := s.label.Render("Score ") + s.hud.Render(fmt.Sprintf("%-7d", snapshot.Score))
	c.writeAt(2, 1, score)

	level := s.label.Render("Level ") + s.hud.Render(fmt.Sprintf("%-3d", snapshot.Level))
	c.writeAt(max(termWidth-lipgloss.Width(level), 1), 1, level)
}

// drawGameOverScreen draws the game over screen with the final score.
func (c *Client) drawGameOverScreen(centerX, centerY int) {
	s := c.styles
	parts := []string{
		s.warning.Render(strings.Join(gameOverArt, "\n")),
		"",
		s.hud.Render(fmt.Sprintf("Score: %d", c.state.FinalScore)),
		s.label.Render(fmt.Sprintf("Level reached: %d", max(c.state.FinalLevel, 1))),
		"",
	}
	if time.Now().UnixMilli()/600%2 == 0 {
		parts = append(parts, s.prompt.Render(">>  Press SPACE to Retry  <<"))
	} else {
		parts = append(parts, "")
	}

	block := lipgloss.JoinVertical(lipgloss.Center, parts...)
	c.writeCentered(centerX, centerY-lipgloss.Height(block)/2, block)
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	s := c.styles
	remaining := int(c.state.shutdownTimer) + 1
	body := lipgloss.JoinVertical(lipgloss.Center,
		s.warning.Render("SERVER SHUTTING DOWN"),
		"",
		"The server is restarting for maintenance.",
		"Please reconnect in a moment.",
		"",
		fmt.Sprintf("Disconnecting in %d seconds...", remaining),
		"",
		s.hint.Render("Press Q to disconnect now"),
	)
	box := s.box.Render(body)
	c.writeCentered(centerX, centerY-lipgloss.Height(box)/2, box)
}
