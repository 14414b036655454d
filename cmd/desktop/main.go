package main

import (
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tomz197/starfall/internal/catalog"
	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/draw"
	"github.com/tomz197/starfall/internal/loop"
	"github.com/tomz197/starfall/internal/loop/client"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/telemetry"
)

const (
	windowWidth  = 960
	windowHeight = 720
)

// app adapts a Game to ebiten: the window is the arena, one pixel per unit.
type app struct {
	game    *loop.Game
	scene   *draw.Scene
	hud     *client.HUD
	sink    *telemetry.Sink
	started time.Time
	last    time.Time
	width   int
	height  int
	inside  bool // cursor was inside the window last frame
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "desktop error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	logger := config.NewLogger(os.Stderr, "starfall")

	sink := telemetry.NewSink(logger, telemetry.DefaultInterval)
	defer sink.Close()

	a := &app{
		scene:   draw.NewScene(),
		hud:     &client.HUD{},
		sink:    sink,
		started: time.Now(),
		last:    time.Now(),
	}
	a.game = loop.New(loop.Options{
		Archetypes: catalog.Archetypes(),
		Phases:     catalog.Phases(),
		PowerUps:   catalog.PowerUps(),
		Tuning:     config.FromEnv(config.Default()),
		Surface:    a.scene,
		Arena:      object.Arena{Size: a.size},
		Observer:   loop.Observers{a.hud, sink},
		Logger:     logger,
	})

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Starfall")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(config.GetEnvInt("STARFALL_FPS", config.ClientTargetFPS))

	if err := ebiten.RunGame(a); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	a.game.Stop("window closed")
	return nil
}

func (a *app) size() (float64, float64) {
	return float64(a.width), float64(a.height)
}

// now returns the game clock in milliseconds.
func (a *app) now() float64 {
	return float64(time.Since(a.started).Microseconds()) / 1000
}

func (a *app) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	now := a.now()
	frameDt := time.Since(a.last)
	a.last = time.Now()

	if !a.game.Running() {
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			a.game.Start(now)
		}
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		a.game.SetHitboxDebug(!a.game.HitboxDebug())
	}

	x, y := ebiten.CursorPosition()
	inside := x >= 0 && y >= 0 && x < a.width && y < a.height
	if inside {
		a.game.PointerMove(float64(x), float64(y))
	} else if a.inside {
		a.game.PointerLeave()
	}
	a.inside = inside

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		a.game.PointerDown(now)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		a.game.PointerUp(now)
	}

	a.game.Frame(now)
	a.sink.Frame(frameDt.Seconds(), a.game.Stats())
	return nil
}

func (a *app) Draw(screen *ebiten.Image) {
	for _, v := range a.scene.Visuals() {
		drawVisual(screen, v)
	}
	if a.game.HitboxDebug() && a.game.Running() {
		strokeHitbox(screen, a.game.Player.Hitbox())
	}
	a.drawHUD(screen)
}

func (a *app) drawHUD(screen *ebiten.Image) {
	h := a.hud
	hud := fmt.Sprintf("Score: %d   Lives: %d   HP %s %.0f", h.Score, h.Lives, h.HealthBar(20), h.Health)
	if h.Phase != "" {
		hud += "   Phase: " + h.Phase
	}
	ebitenutil.DebugPrintAt(screen, hud, 8, 8)
	if shield := a.game.Modifiers().ShieldHits; shield > 0 {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Shield x%d", shield), 8, 24)
	}
	if h.Message != "" {
		ebitenutil.DebugPrintAt(screen, h.Message, 8, a.height-24)
	}

	if a.game.Running() {
		return
	}
	if h.EndReason == "" {
		ebitenutil.DebugPrintAt(screen, "STARFALL\n\nClick or press SPACE to start", a.width/2-90, a.height/2-20)
		return
	}
	stats := a.game.Stats()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf(
		"GAME OVER\n\nScore: %d\nKills: %d\n\nClick or press SPACE to restart",
		h.Score, stats.Kills,
	), a.width/2-90, a.height/2-40)
}

func (a *app) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.width, a.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
