package types

import "encoding/json"

// Mod is a single workshop mod entry in the server config's game.mods list.
// Identity is the ModID alone; Name/Version/Required are display metadata
// carried through to the exported config.
type Mod struct {
	ModID    string `json:"modId"`
	Name     string `json:"name"`
	Version  string `json:"version"`
	Required bool   `json:"required"`
}

// NewMod constructs a mod entry with the field defaults used everywhere a
// mod enters the enabled list.
func NewMod(modID, name string) Mod {
	return Mod{ModID: modID, Name: name, Version: "", Required: false}
}

// Snapshot is the persisted editor state: the config document plus the
// bookkeeping needed to reproduce the original file's key order.
type Snapshot struct {
	Config               json.RawMessage `json:"config"`
	EnabledMods          []Mod           `json:"enabledMods"`
	KeyOrder             []string        `json:"keyOrder"`
	OriginalKeyPositions map[string]int  `json:"originalKeyPositions"`
}
