package client

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/draw"
	"github.com/tomz197/starfall/internal/input"
	"github.com/tomz197/starfall/internal/loop"
)

func newTestClient(t *testing.T, width, height int) (*Client, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	// An idle pipe keeps the input stream open for the whole test.
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })
	c := NewClient(bufio.NewReader(pr), &out, ClientOptions{
		TermSizeFunc: func() (int, int, error) { return width, height, nil },
		Username:     "tester",
		Tuning:       config.Default(),
		Logger:       log.New(io.Discard),
	})
	return c, &out
}

func TestOversizedTerminalIsCentered(t *testing.T) {
	width, height := 80, 24
	var out bytes.Buffer
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })
	c := NewClient(bufio.NewReader(pr), &out, ClientOptions{
		TermSizeFunc: func() (int, int, error) { return width, height, nil },
		Tuning:       config.Default(),
		Logger:       log.New(io.Discard),
	})

	width, height = config.MaxTermWidth+20, config.MaxTermHeight+7
	c.updateScreen()
	if c.canvas.TerminalWidth() != config.MaxTermWidth || c.canvas.TerminalHeight() != config.MaxTermHeight {
		t.Fatalf("canvas = %dx%d, want capped size", c.canvas.TerminalWidth(), c.canvas.TerminalHeight())
	}
	if c.canvas.OffsetCol() != 10 || c.canvas.OffsetRow() != 3 {
		t.Fatalf("offset = %d,%d, want 10,3", c.canvas.OffsetCol(), c.canvas.OffsetRow())
	}

	out.Reset()
	c.text(1, 1, "x")
	if err := c.chunkWriter.Flush(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "\033[4;11Hx") {
		t.Fatalf("text not shifted by the offset: %q", out.String())
	}
}

func TestArenaFollowsCanvas(t *testing.T) {
	c, _ := newTestClient(t, 80, 24)
	if b := c.game.Bounds(); b.Width != 800 || b.Height != 480 {
		t.Fatalf("bounds = %+v, want 800x480", b)
	}

	c.resize(draw.FitViewport(40, 20, config.MaxTermWidth, config.MaxTermHeight))
	if b := c.game.Bounds(); b.Width != 400 || b.Height != 400 {
		t.Fatalf("bounds after resize = %+v, want 400x400", b)
	}
	if c.canvas.LogicalWidth() != 400 || c.canvas.LogicalHeight() != 400 {
		t.Fatal("canvas logical size not updated")
	}
}

func TestStartScreenThenPlayingHUD(t *testing.T) {
	c, out := newTestClient(t, 80, 24)

	if err := c.drawFrame(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Controls") {
		t.Fatal("start screen not drawn")
	}

	c.state.Input = input.Input{Space: true}
	c.updateStartState()
	if c.state.GameState != GameStatePlaying || !c.game.Running() {
		t.Fatal("space did not start a run")
	}

	out.Reset()
	c.updatePlayingState()
	if err := c.drawFrame(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Score: 0", "Lives: 1", "HP ", "\033[H\033[2J"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("playing frame missing %q", want)
		}
	}
}

func TestPointerEventsSteerAndFire(t *testing.T) {
	c, _ := newTestClient(t, 80, 24)
	c.startGame()

	c.state.Input = input.Input{Pointer: []input.PointerEvent{{Kind: input.PointerDown, Col: 10, Row: 5}}}
	c.updatePlayingState()

	x, y := c.canvas.TerminalToLogical(10, 5)
	if got := c.game.Player.Target; got.X != x || got.Y != y {
		t.Fatalf("target = %+v, want (%v,%v)", got, x, y)
	}
	if !c.state.Firing {
		t.Fatal("button press did not start firing")
	}

	c.state.Input = input.Input{Pointer: []input.PointerEvent{{Kind: input.PointerUp, Col: 10, Row: 5}}}
	c.updatePlayingState()
	if c.state.Firing {
		t.Fatal("button release did not stop firing")
	}
}

func TestFireToggleAndSteerKeys(t *testing.T) {
	c, _ := newTestClient(t, 80, 24)
	c.startGame()
	start := c.state.Target

	c.state.delta = 100 * time.Millisecond
	c.state.Input = input.Input{FireToggle: true, Left: true}
	c.updatePlayingState()
	if !c.state.Firing {
		t.Fatal("toggle did not start firing")
	}
	want := start.X - config.KeySteerSpeed*0.1
	if got := c.state.Target.X; math.Abs(got-want) > 1e-9 {
		t.Fatalf("target x = %v, want %v", got, want)
	}

	c.state.Input = input.Input{FireToggle: true}
	c.updatePlayingState()
	if c.state.Firing {
		t.Fatal("second toggle did not stop firing")
	}
}

func TestRunOverShowsGameOver(t *testing.T) {
	c, out := newTestClient(t, 80, 24)
	c.startGame()
	c.game.Stop("destroyed")

	c.updatePlayingState()
	if c.state.GameState != GameStateDead {
		t.Fatalf("state = %v, want dead", c.state.GameState)
	}
	if c.hud.EndReason != "destroyed" {
		t.Fatalf("end reason = %q", c.hud.EndReason)
	}

	// The restart prompt waits out the delay.
	c.state.Input = input.Input{Space: true}
	c.updateDeadState()
	if c.state.GameState != GameStateDead {
		t.Fatal("restarted before the delay elapsed")
	}

	out.Reset()
	if err := c.drawFrame(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Kills: 0") {
		t.Fatal("game over stats not drawn")
	}

	c.state.RestartDelay = 0
	c.updateDeadState()
	if c.state.GameState != GameStatePlaying || !c.game.Running() {
		t.Fatal("space did not restart after the delay")
	}
}

func TestShutdownStopsRun(t *testing.T) {
	c, _ := newTestClient(t, 80, 24)
	shutdown := make(chan struct{})
	c.shutdown = shutdown
	c.startGame()

	c.processShutdown()
	if c.state.GameState != GameStatePlaying {
		t.Fatal("shutdown screen shown before the channel closed")
	}

	close(shutdown)
	c.processShutdown()
	if c.state.GameState != GameStateShutdown || c.game.Running() {
		t.Fatal("shutdown did not stop the run")
	}
	if c.hud.EndReason != "shutdown" {
		t.Fatalf("end reason = %q", c.hud.EndReason)
	}
}

func TestHUDStatus(t *testing.T) {
	var h HUD
	h.Status(loop.StatusEvent{Name: loop.StatusPhase, Detail: "Hard"})
	if h.Phase != "Hard" || h.Message != "Phase: Hard" {
		t.Fatalf("phase event: %+v", h)
	}
	h.Status(loop.StatusEvent{Name: loop.StatusPowerUp, Detail: "Shield"})
	if h.Message != "Shield!" {
		t.Fatalf("message = %q", h.Message)
	}
	h.Status(loop.StatusEvent{Name: loop.StatusClear})
	if h.Message != "" {
		t.Fatal("clear did not reset the message")
	}
	h.Status(loop.StatusEvent{Name: loop.StatusRunStarted})
	if h.Phase != "" {
		t.Fatal("run start did not reset the phase")
	}
}

func TestHUDHealthBar(t *testing.T) {
	tests := []struct {
		health, max float64
		want        string
	}{
		{250, 250, "██████████"},
		{125, 250, "█████░░░░░"},
		{1, 250, "█░░░░░░░░░"},
		{0, 250, "░░░░░░░░░░"},
		{10, 0, "█░░░░░░░░░"},
	}
	for _, tt := range tests {
		h := HUD{Health: tt.health, MaxHealth: tt.max}
		if got := h.HealthBar(10); got != tt.want {
			t.Errorf("HealthBar(%v/%v) = %q, want %q", tt.health, tt.max, got, tt.want)
		}
	}
}
