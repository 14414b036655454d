// Package client is the terminal host: it drives one Game per connection,
// maps keyboard and mouse input to pointer calls and renders the scene
// with a HUD.
package client

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starfall/internal/catalog"
	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/draw"
	"github.com/tomz197/starfall/internal/input"
	"github.com/tomz197/starfall/internal/loop"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/physics"
	"github.com/tomz197/starfall/internal/telemetry"
)

// Client handles rendering and input for a single connection.
type Client struct {
	game         *loop.Game
	hud          *HUD
	scene        *draw.Scene
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	started      time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	frameTime    time.Duration
	logger       *log.Logger
	sink         *telemetry.Sink
	shutdown     <-chan struct{}
	arena        physics.Size // Arena size derived from the canvas
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Tuning       config.Tuning
	Logger       *log.Logger
	Telemetry    *telemetry.Sink // Optional; receives frame stats and HUD updates
	FPS          int
	Shutdown     <-chan struct{} // Closed when the host is going down
}

// NewClient creates a client with its own game.
func NewClient(r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.Username != "" {
		logger = logger.With("user", truncate(opts.Username, config.MaxUsernameLength))
	}

	// Create canvas with clamped dimensions for max render resolution
	view, _ := termSizeFunc.Viewport(config.MaxTermWidth, config.MaxTermHeight)
	arena := arenaSize(view.Width, view.Height)
	canvas := draw.NewScaledCanvas(view.Width, view.Height, arena.Width, arena.Height)
	canvas.SetOffset(view.OffsetCol, view.OffsetRow)

	c := &Client{
		hud:          &HUD{},
		scene:        draw.NewScene(),
		state:        NewClientState(),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, view),
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		started:      time.Now(),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		frameTime:    config.FrameTime(opts.FPS),
		logger:       logger,
		sink:         opts.Telemetry,
		shutdown:     opts.Shutdown,
		arena:        arena,
	}

	observers := loop.Observers{c.hud}
	if c.sink != nil {
		observers = append(observers, c.sink)
	}
	c.game = loop.New(loop.Options{
		Archetypes: catalog.Archetypes(),
		Phases:     catalog.Phases(),
		PowerUps:   catalog.PowerUps(),
		Tuning:     opts.Tuning,
		Surface:    c.scene,
		Arena:      object.Arena{Size: c.arenaSize},
		Observer:   observers,
		Logger:     logger,
	})
	return c
}

// arenaSize derives arena units from the render area, one cell per
// UnitsPerCell units horizontally and one sub-pixel per UnitsPerCell
// vertically.
func arenaSize(renderWidth, renderHeight int) physics.Size {
	return physics.Size{
		Width:  float64(renderWidth * config.UnitsPerCell),
		Height: float64(renderHeight * 2 * config.UnitsPerCell),
	}
}

func (c *Client) arenaSize() (float64, float64) {
	return c.arena.Width, c.arena.Height
}

// now returns the game clock in milliseconds.
func (c *Client) now() float64 {
	return float64(time.Since(c.started).Microseconds()) / 1000
}

// Run starts the client loop. Blocks until the client disconnects or the
// host shuts down.
func (c *Client) Run() error {
	if err := draw.BeginSession(c.writer); err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	defer draw.EndSession(c.writer)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		// Process input
		c.processInput()

		// Check whether the host is going down
		c.processShutdown()

		// Handle screen resize
		c.updateScreen()

		// Handle game state
		switch c.state.GameState {
		case GameStateStart:
			c.updateStartState()
		case GameStatePlaying:
			c.updatePlayingState()
		case GameStateDead:
			c.updateDeadState()
		case GameStateShutdown:
			c.updateShutdownState()
		}

		// Draw frame
		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < c.frameTime {
			time.Sleep(c.frameTime - elapsed)
		}
	}

	c.game.Stop("disconnected")
	return nil
}

// processInput reads input and handles keys that work on every screen.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.logger.Info("disconnecting inactive client")
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.state.Input.Quit || c.state.Input.Closed {
		c.state.Running = false
	}
	if c.state.Input.Hitboxes {
		c.game.SetHitboxDebug(!c.game.HitboxDebug())
	}
}

// processShutdown switches to the shutdown screen once the host closes
// the shutdown channel.
func (c *Client) processShutdown() {
	if c.shutdown == nil || c.state.GameState == GameStateShutdown {
		return
	}
	select {
	case <-c.shutdown:
		c.game.Stop("shutdown")
		c.state.GameState = GameStateShutdown
		c.state.shutdownTimer = config.ShutdownDisplaySeconds
	default:
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	view, err := c.termSizeFunc.Viewport(config.MaxTermWidth, config.MaxTermHeight)
	if err != nil {
		return
	}
	c.resize(view)
}

func (c *Client) resize(view draw.Viewport) {
	if view.Width != c.canvas.TerminalWidth() || view.Height != c.canvas.TerminalHeight() ||
		view.OffsetCol != c.canvas.OffsetCol() || view.OffsetRow != c.canvas.OffsetRow() {
		c.chunkWriter.ClearScreen()
		c.canvas.Resize(view.Width, view.Height)
		c.canvas.ForceRedraw()
		c.arena = arenaSize(view.Width, view.Height)
		c.canvas.SetLogicalSize(c.arena.Width, c.arena.Height)
	}

	c.canvas.SetOffset(view.OffsetCol, view.OffsetRow)
	c.chunkWriter.SetViewport(view)
}

// updateStartState handles the start screen.
func (c *Client) updateStartState() {
	if c.state.Input.Space || c.state.Input.Enter {
		c.startGame()
	}
}

// updatePlayingState feeds input to the game and advances it one frame.
func (c *Client) updatePlayingState() {
	now := c.now()
	in := c.state.Input

	for _, ev := range in.Pointer {
		x, y := c.canvas.TerminalToLogical(ev.Col, ev.Row)
		c.state.Target = physics.Vec{X: x, Y: y}
		c.game.PointerMove(x, y)
		switch ev.Kind {
		case input.PointerDown:
			c.setFiring(true, now)
		case input.PointerUp:
			c.setFiring(false, now)
		}
	}
	if in.FireToggle {
		c.setFiring(!c.state.Firing, now)
	}
	c.steer(in)

	running := c.game.Frame(now)
	if c.sink != nil {
		c.sink.Frame(c.state.delta.Seconds(), c.game.Stats())
	}
	if !running {
		c.state.Firing = false
		c.state.RestartDelay = restartDelaySeconds
		c.state.GameState = GameStateDead
	}
}

func (c *Client) setFiring(on bool, now float64) {
	if on == c.state.Firing {
		return
	}
	c.state.Firing = on
	if on {
		c.game.PointerDown(now)
	} else {
		c.game.PointerUp(now)
	}
}

// steer moves the pointer target with the movement keys.
func (c *Client) steer(in input.Input) {
	var dx, dy float64
	if in.Left {
		dx--
	}
	if in.Right {
		dx++
	}
	if in.Up {
		dy--
	}
	if in.Down {
		dy++
	}
	if dx == 0 && dy == 0 {
		return
	}
	step := config.KeySteerSpeed * c.state.delta.Seconds()
	t := c.state.Target
	t.X = physics.Clamp(t.X+dx*step, 0, c.arena.Width)
	t.Y = physics.Clamp(t.Y+dy*step, 0, c.arena.Height)
	c.state.Target = t
	c.game.PointerMove(t.X, t.Y)
}

// updateDeadState handles the game over screen.
func (c *Client) updateDeadState() {
	if c.state.RestartDelay > 0 {
		c.state.RestartDelay = math.Max(0, c.state.RestartDelay-c.state.delta.Seconds())
	}
	if (c.state.Input.Space || c.state.Input.Enter) && c.state.RestartDelay <= 0 {
		c.startGame()
	}
}

// startGame starts or restarts the run.
func (c *Client) startGame() {
	input.ResetKeyInput(c.inputStream)

	c.game.Start(c.now())
	c.state.Target = c.game.Player.Pos
	c.state.Firing = false
	c.state.GameState = GameStatePlaying
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
