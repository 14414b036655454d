package client

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/draw"
)

// healthBarWidth is the number of cells in the HUD health bar.
const healthBarWidth = 20

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On game state or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.chunkWriter.ClearScreen()
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()

	// The arena stays visible behind the game over screen.
	if c.state.GameState == GameStatePlaying || c.state.GameState == GameStateDead {
		c.scene.Draw(c.canvas)
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	// Draw UI overlay
	c.drawUI()

	if err := c.chunkWriter.Flush(); err != nil {
		return fmt.Errorf("flush frame: %w", err)
	}
	return nil
}

// text writes s at the canvas position and marks the cells it covers so
// the canvas repaints them once the text is gone.
func (c *Client) text(col, row int, s string) {
	c.chunkWriter.WriteAt(col, row, s)
	c.canvas.MarkTextDirty(col, row, utf8.RuneCountInString(s))
}

// colored writes s in color at the canvas position.
func (c *Client) colored(col, row int, s string, color draw.Color) {
	c.chunkWriter.WriteColoredAt(col, row, s, color)
	c.canvas.MarkTextDirty(col, row, utf8.RuneCountInString(s))
}

// centered writes s centered on col.
func (c *Client) centered(col, row int, s string) {
	c.text(col-utf8.RuneCountInString(s)/2, row, s)
}

// drawUI draws the game UI overlay.
func (c *Client) drawUI() {
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
		c.drawPlayingHUD(termWidth, termHeight)
	case GameStateStart:
		c.drawStartScreen(centerX, centerY)
	case GameStateDead:
		c.drawDeadScreen(centerX, centerY)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.centered(centerX, centerY-2, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	c.centered(centerX, centerY, msg)
	c.centered(centerX, centerY+2, "Press any key to continue")
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int) {
	// ASCII art title (figlet "small" font)
	titleArt := []string{
		` ___ _____ _   ___ ___ _   _    _     `,
		`/ __|_   _/_\ | _ \ __/_\ | |  | |    `,
		`\__ \ | |/ _ \|   / _/ _ \| |__| |__  `,
		`|___/ |_/_/ \_\_|_\_/_/ \_\____|____| `,
		`                                      `,
	}

	// Find max width for centering
	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}

	titleStartY := centerY - 8
	for i, line := range titleArt {
		c.text(centerX-titleWidth/2, titleStartY+i, line)
	}

	c.centered(centerX, titleStartY+len(titleArt)+1, "~ Hold the line against the falling sky ~")

	// Controls section
	controlsY := titleStartY + len(titleArt) + 3
	c.centered(centerX, controlsY, "Controls")

	controlLines := []string{
		"Mouse  . . . . . . . . Steer",
		"Mouse button  . . . . . Fire",
		"WASD / Arrows  . . . . Steer",
		"F / SPACE  . . Toggle firing",
		"H  . . . . . . . .  Hitboxes",
		"Q  . . . . . . . . . .  Quit",
	}
	for i, line := range controlLines {
		c.centered(centerX, controlsY+1+i, line)
	}

	// Blinking start prompt
	prompt := ">>  Press SPACE to Start  <<"
	if time.Now().UnixMilli()/600%2 != 0 {
		prompt = strings.Repeat(" ", len(prompt))
	}
	c.centered(centerX, controlsY+len(controlLines)+2, prompt)
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth, termHeight int) {
	h := c.hud

	c.text(2, 1, fmt.Sprintf("Score: %-8d", h.Score))

	livesText := fmt.Sprintf("Lives: %-3d", h.Lives)
	c.text(termWidth-len(livesText)-1, 1, livesText)

	if h.Phase != "" {
		c.centered(termWidth/2, 1, fmt.Sprintf(" %-14s ", h.Phase))
	}

	barColor := draw.ColorGreen
	if h.MaxHealth > 0 && h.Health/h.MaxHealth < 0.3 {
		barColor = draw.ColorRed
	}
	c.text(2, 2, "HP ")
	c.colored(5, 2, h.HealthBar(healthBarWidth), barColor)
	c.text(6+healthBarWidth, 2, fmt.Sprintf("%4.0f", math.Max(0, h.Health)))

	// Active effects (bottom left)
	c.text(2, termHeight, fmt.Sprintf("%-*s", max(termWidth/2-2, 0), c.effectsLine()))

	// Status message and fire indicator (bottom right)
	var right []string
	if h.Message != "" {
		right = append(right, h.Message)
	}
	if c.game.HitboxDebug() {
		right = append(right, "[hitboxes]")
	}
	if c.state.Firing {
		right = append(right, "[FIRE]")
	}
	status := fmt.Sprintf("%*s", max(termWidth/2-2, 0), strings.Join(right, " "))
	c.text(termWidth-utf8.RuneCountInString(status), termHeight, status)
}

// effectsLine lists the running power-ups with their remaining seconds and
// the shield charges left.
func (c *Client) effectsLine() string {
	var parts []string
	if hits := c.game.Modifiers().ShieldHits; hits > 0 {
		parts = append(parts, fmt.Sprintf("Shield x%d", hits))
	}
	now := c.game.Now()
	for _, e := range c.game.PowerUps.Effects() {
		left := math.Max(0, math.Ceil((e.ExpiresAt-now)/1000))
		parts = append(parts, fmt.Sprintf("%s %.0fs", e.Definition.Label, left))
	}
	return strings.Join(parts, "  ")
}

// drawDeadScreen draws the game over screen.
func (c *Client) drawDeadScreen(centerX, centerY int) {
	titleArt := []string{
		`   ___   _   __  __ ___    _____   _____ ___  `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
		`                                              `,
	}

	// Find max width for centering
	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}

	titleStartY := centerY - 6
	for i, line := range titleArt {
		c.text(centerX-titleWidth/2, titleStartY+i, line)
	}

	c.centered(centerX, titleStartY+len(titleArt)+1, fmt.Sprintf("Score: %d", c.hud.Score))

	stats := c.game.Stats()
	c.centered(centerX, titleStartY+len(titleArt)+3,
		fmt.Sprintf("Kills: %d   Volleys: %d   Damage taken: %.0f", stats.Kills, stats.ShotsFired, stats.DamageTaken))

	if c.state.RestartDelay > 0 {
		return
	}
	prompt := ">>  Press SPACE to Restart  <<"
	if time.Now().UnixMilli()/600%2 != 0 {
		prompt = strings.Repeat(" ", len(prompt))
	}
	c.centered(centerX, titleStartY+len(titleArt)+5, prompt)
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.centered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	c.centered(centerX, centerY-1, "The server is restarting for maintenance.")
	c.centered(centerX, centerY, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	c.centered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.centered(centerX, centerY+4, "Press Q to disconnect now")
}
