package doc

import (
	_ "embed"
)

//go:embed defaults.json
var defaultsJSON []byte

// Default returns the built-in default server configuration.
func Default() Document {
	return MustFromJSON(defaultsJSON)
}

// DefaultKeyOrder returns the top-level key sequence of the built-in
// default configuration.
func DefaultKeyOrder() []string {
	return Default().Keys()
}

// DefaultKeyPositions returns the first-seen index of every top-level key
// in the built-in default configuration.
func DefaultKeyPositions() map[string]int {
	positions := make(map[string]int)
	for i, k := range DefaultKeyOrder() {
		positions[k] = i
	}
	return positions
}
