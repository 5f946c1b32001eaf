// Package present hosts the core emulator behind an ebiten.Game, the way
// the teacher's internal/ui package hosts its own emu.Machine. Unlike the
// teacher's App, this host carries no menu, audio, or save-state machinery —
// spec.md §6 keeps the Host API to ROM load, ticking, and framebuffer/input,
// so the presentation layer here is trimmed to exactly that surface plus the
// ebiten.Game plumbing needed to put it on screen.
package present

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/dmgcore/gbcore/internal/input"
	"github.com/dmgcore/gbcore/internal/machine"
	"github.com/dmgcore/gbcore/internal/palette"
)

// Config mirrors the window/input fields of the teacher's ui.Config that
// still apply once audio and the ROM-picker menu are gone.
type Config struct {
	Title string // window title
	Scale int    // integer upscaling factor

	// KeyMap optionally overrides the default keyboard layout, one ebiten
	// key per Game Boy button (input.Right, input.A, ...). Buttons missing
	// from the map keep their built-in default key.
	KeyMap map[byte]ebiten.Key
}

// defaultKeyMap is the teacher's own arrows/Z/X/Enter/right-Shift layout.
func defaultKeyMap() map[byte]ebiten.Key {
	return map[byte]ebiten.Key{
		input.Right:  ebiten.KeyRight,
		input.Left:   ebiten.KeyLeft,
		input.Up:     ebiten.KeyUp,
		input.Down:   ebiten.KeyDown,
		input.A:      ebiten.KeyZ,
		input.B:      ebiten.KeyX,
		input.Start:  ebiten.KeyEnter,
		input.Select: ebiten.KeyShiftRight,
	}
}

// Defaults fills in the same baseline values the teacher's ui.Config.Defaults
// uses for title and scale, and fills any button missing from KeyMap with
// its default key.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbcore"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
	if c.KeyMap == nil {
		c.KeyMap = defaultKeyMap()
		return
	}
	for button, key := range defaultKeyMap() {
		if _, ok := c.KeyMap[button]; !ok {
			c.KeyMap[button] = key
		}
	}
}

// App wires a machine.Machine to ebiten's Game interface. Grounded on the
// teacher's internal/ui.App: same lazy NewApp/Run/Update/Draw/Layout shape,
// minus the menu, audio, and save-state concerns spec.md's Host API doesn't
// need.
type App struct {
	cfg Config
	m   *machine.Machine

	tex    *ebiten.Image
	paused bool
	turbo  int // frames run per Update call: 1, or 4 while Tab-toggled turbo is on
}

// NewApp wires a fresh host around an already-loaded Machine, the way
// ui.NewApp wires around an already-constructed emu.Machine.
func NewApp(cfg Config, m *machine.Machine) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(160*cfg.Scale, 144*cfg.Scale)
	return &App{
		cfg:   cfg,
		m:     m,
		turbo: 1,
	}
}

// Run starts the ebiten game loop.
func (a *App) Run() error { return ebiten.RunGame(a) }

// Update advances the machine by one video frame's worth of ticks (or more,
// under turbo), and samples the keyboard into the Game Boy's button latch.
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		if a.turbo == 1 {
			a.turbo = 4
		} else {
			a.turbo = 1
		}
	}

	a.pollButtons()

	if !a.paused {
		for step := 0; step < a.turbo; step++ {
			a.runOneFrame()
		}
	}
	return nil
}

// runOneFrame ticks the machine until IsFrameReady reports a fresh frame has
// begun, mirroring the teacher's per-Update stepping loop without its
// frame-skip/turbo audio bookkeeping.
func (a *App) runOneFrame() {
	a.m.Tick()
	for !a.m.IsFrameReady() {
		a.m.Tick()
	}
}

// pollButtons samples cfg.KeyMap (arrows/Z/X/Enter/right-Shift by default,
// the same layout the teacher's App.Update reads) onto the Machine's button
// latch.
func (a *App) pollButtons() {
	for button, key := range a.cfg.KeyMap {
		a.m.SetButton(button, ebiten.IsKeyPressed(key))
	}
}

// Draw converts the core's 2-bit shade framebuffer into RGBA8888 and blits
// it, the same WritePixels-onto-a-160x144-ebiten.Image approach as the
// teacher's App.Draw.
func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(160, 144)
	}
	a.tex.WritePixels(palette.ToRGBA(a.m.Screen()))
	screen.DrawImage(a.tex, nil)
}

// Layout fixes the logical game resolution to the DMG's 160x144 screen,
// exactly as the teacher's App.Layout does.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) { return 160, 144 }
