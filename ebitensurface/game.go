package ebitensurface

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/spritefield"
)

// RunConfig configures Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// ShowFPS prints FPS and TPS in the top-left corner.
	ShowFPS bool
	// Keys enables the keyboard bindings listed on Game.
	Keys bool
	// Sequencer, when set, drives the controller through its steps and
	// ends the game once it is done.
	Sequencer *spritefield.Sequencer
	// ScreenshotDir overrides the screenshot directory.
	ScreenshotDir string
}

// Game adapts a Controller to ebiten.Game.
//
// With key bindings enabled: Space pauses, R randomizes everything, C the
// colors, M the motion, B the blend mode, S the shapes, P queues a
// screenshot and Escape quits.
type Game struct {
	ctrl    *spritefield.Controller
	seq     *spritefield.Sequencer
	surface *Surface
	cfg     RunConfig
	fpsAt   time.Time
	fpsText string
}

// NewGame wraps ctrl. The surface is created lazily on the first Draw.
func NewGame(ctrl *spritefield.Controller, cfg RunConfig) *Game {
	return &Game{ctrl: ctrl, seq: cfg.Sequencer, cfg: cfg}
}

// Update advances the controller by one tick.
func (g *Game) Update() error {
	select {
	case <-g.ctrl.Done():
		return ebiten.Termination
	default:
	}
	if g.cfg.Keys {
		if err := g.handleKeys(); err != nil {
			return err
		}
	}
	dt := time.Second / time.Duration(ebiten.TPS())
	if g.seq != nil {
		g.seq.Update(dt)
		if g.seq.Done() && !g.ctrl.Transitioning() {
			return ebiten.Termination
		}
	}
	g.ctrl.Update(dt)
	return nil
}

func (g *Game) handleKeys() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if g.ctrl.Paused() {
			g.ctrl.Resume()
		} else {
			g.ctrl.Pause()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.ctrl.RandomizeAll()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.ctrl.RandomizeColors()
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.ctrl.RandomizeMotion()
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		g.ctrl.RandomizeBlendMode()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.ctrl.RandomizeShapes()
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		if g.surface != nil {
			g.surface.Screenshot(g.ctrl.TargetState().Seed)
		}
	}
	return nil
}

// Draw renders one frame into screen.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.surface == nil {
		g.surface = NewForTarget(screen)
		if g.cfg.ScreenshotDir != "" {
			g.surface.ScreenshotDir = g.cfg.ScreenshotDir
		}
	}
	g.surface.SetTarget(screen)
	if err := g.ctrl.Draw(g.surface); err != nil {
		spritefield.Logger().Error("draw", "err", err)
	}
	if g.cfg.ShowFPS {
		if now := time.Now(); now.Sub(g.fpsAt) >= 500*time.Millisecond {
			g.fpsAt = now
			g.fpsText = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
		}
		ebitenutil.DebugPrint(screen, g.fpsText)
	}
}

// Layout follows the window size so the composition fills it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Run opens a window and runs ctrl until the window closes, Escape is
// pressed, the sequencer finishes or the controller is destroyed.
func Run(ctrl *spritefield.Controller, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 1280, 720
	}
	if cfg.Title == "" {
		cfg.Title = "spritefield"
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := NewGame(ctrl, cfg)
	err := ebiten.RunGame(g)
	if g.surface != nil {
		g.surface.Dispose()
	}
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
