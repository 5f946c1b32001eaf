// Command gbview is the windowed viewer for the DMG emulation core,
// adapted from the teacher's cmd/gbemu (non-headless path) down to what
// internal/present actually needs: load a ROM, optionally a boot ROM,
// run the ebiten game loop.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/dmgcore/gbcore/internal/config"
	"github.com/dmgcore/gbcore/internal/input"
	"github.com/dmgcore/gbcore/internal/machine"
	"github.com/dmgcore/gbcore/internal/present"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	bootPath := flag.String("bootrom", "", "optional DMG boot ROM")
	scale := flag.Int("scale", 0, "window scale (0: use gbconfig.toml or the built-in default)")
	title := flag.String("title", "", "window title (empty: use gbconfig.toml or the built-in default)")
	configPath := flag.String("config", "", "path to gbconfig.toml (default: ./gbconfig.toml if present)")
	savePath := flag.String("save", "", "battery RAM path (defaults to <rom>.sav when -rom is set)")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}
	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("read rom: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *bootPath == "" {
		*bootPath = cfg.BootROM
	}

	m := machine.New()
	if err := m.InsertROM(rom); err != nil {
		log.Fatalf("insert ROM: %v", err)
	}

	sav := *savePath
	if sav == "" {
		sav = trimGBSuffix(*romPath) + ".sav"
	}
	if data, err := os.ReadFile(sav); err == nil {
		m.LoadRAM(data)
	}

	m.PowerOn()
	if *bootPath != "" {
		boot, err := os.ReadFile(*bootPath)
		if err != nil {
			log.Fatalf("read bootrom: %v", err)
		}
		m.SetBootROM(boot)
	}

	presentCfg := present.Config{
		Title:  *title,
		Scale:  *scale,
		KeyMap: buildKeyMap(cfg.Remap),
	}
	if presentCfg.Title == "" {
		presentCfg.Title = cfg.Title
	}
	if presentCfg.Scale == 0 {
		presentCfg.Scale = cfg.Scale
	}

	app := present.NewApp(presentCfg, m)
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}

	if ram := m.RAM(); ram != nil {
		if err := os.WriteFile(sav, ram, 0o644); err != nil {
			log.Printf("write save RAM: %v", err)
		}
	}
}

// keysByName covers the subset of ebiten.Key values a gbconfig.toml [remap]
// table plausibly names: arrows, letters, and the handful of named keys the
// teacher's own menu code reads (Enter, Escape, Backspace, both Shifts).
var keysByName = map[string]ebiten.Key{
	"ArrowUp": ebiten.KeyArrowUp, "ArrowDown": ebiten.KeyArrowDown,
	"ArrowLeft": ebiten.KeyArrowLeft, "ArrowRight": ebiten.KeyArrowRight,
	"Up": ebiten.KeyArrowUp, "Down": ebiten.KeyArrowDown,
	"Left": ebiten.KeyArrowLeft, "Right": ebiten.KeyArrowRight,
	"Enter": ebiten.KeyEnter, "Escape": ebiten.KeyEscape, "Backspace": ebiten.KeyBackspace,
	"Space": ebiten.KeySpace, "Tab": ebiten.KeyTab,
	"ShiftLeft": ebiten.KeyShiftLeft, "ShiftRight": ebiten.KeyShiftRight,
	"ControlLeft": ebiten.KeyControlLeft, "ControlRight": ebiten.KeyControlRight,
	"A": ebiten.KeyA, "B": ebiten.KeyB, "C": ebiten.KeyC, "D": ebiten.KeyD,
	"E": ebiten.KeyE, "F": ebiten.KeyF, "G": ebiten.KeyG, "H": ebiten.KeyH,
	"I": ebiten.KeyI, "J": ebiten.KeyJ, "K": ebiten.KeyK, "L": ebiten.KeyL,
	"M": ebiten.KeyM, "N": ebiten.KeyN, "O": ebiten.KeyO, "P": ebiten.KeyP,
	"Q": ebiten.KeyQ, "R": ebiten.KeyR, "S": ebiten.KeyS, "T": ebiten.KeyT,
	"U": ebiten.KeyU, "V": ebiten.KeyV, "W": ebiten.KeyW, "X": ebiten.KeyX,
	"Y": ebiten.KeyY, "Z": ebiten.KeyZ,
}

// buildKeyMap turns gbconfig.toml's [remap] table into present.Config's
// KeyMap, looking up each non-empty field by name in keysByName. Unknown
// names are logged and skipped rather than aborting the run.
func buildKeyMap(r config.Remap) map[byte]ebiten.Key {
	km := map[byte]ebiten.Key{}
	set := func(button byte, name string) {
		if name == "" {
			return
		}
		key, ok := keysByName[name]
		if !ok {
			log.Printf("gbview: unknown key name %q in gbconfig.toml, ignoring", name)
			return
		}
		km[button] = key
	}
	set(input.Up, r.Up)
	set(input.Down, r.Down)
	set(input.Left, r.Left)
	set(input.Right, r.Right)
	set(input.A, r.A)
	set(input.B, r.B)
	set(input.Start, r.Start)
	set(input.Select, r.Select)
	return km
}

func trimGBSuffix(path string) string {
	if len(path) > 3 && path[len(path)-3:] == ".gb" {
		return path[:len(path)-3]
	}
	return path
}
