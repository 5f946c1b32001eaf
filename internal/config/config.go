// Package config loads the optional gbconfig.toml file that pins CLI/viewer
// defaults (window scale, title, frame count, boot ROM path, key remap) so a
// user doesn't have to repeat flags on every invocation. Shared between
// cmd/gbcore and cmd/gbview so the two binaries agree on one file format.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Remap lets gbconfig.toml rename the default keyboard layout
// internal/present polls. Values are ebiten key names (e.g. "Z", "Enter",
// "ShiftRight"); an empty field keeps present's built-in default for that
// button.
type Remap struct {
	Up     string `toml:"up"`
	Down   string `toml:"down"`
	Left   string `toml:"left"`
	Right  string `toml:"right"`
	A      string `toml:"a"`
	B      string `toml:"b"`
	Start  string `toml:"start"`
	Select string `toml:"select"`
}

// Config is the gbconfig.toml shape. Every field is optional; a missing file
// or a missing key just means the caller's own flag defaults apply.
type Config struct {
	Scale   int    `toml:"scale"`
	Title   string `toml:"title"`
	Frames  int    `toml:"frames"`
	Trace   bool   `toml:"trace"`
	BootROM string `toml:"bootrom"`
	Remap   Remap  `toml:"remap"`
}

// Load reads gbconfig.toml if it exists; a missing file is not an error, it
// just means every field is left at its zero value. path=="" defaults to
// "./gbconfig.toml".
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		path = "gbconfig.toml"
	}
	if _, err := os.Stat(path); err != nil {
		return cfg, nil
	}
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}
