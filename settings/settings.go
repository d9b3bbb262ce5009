// Package settings holds the tool's own configuration: where the mod
// registry lives and how to reach it. Server configs are a separate
// concern, handled by the doc package.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/kirsle/configdir"
	"github.com/kr/pretty"
	"github.com/pkg/errors"
	"github.com/sampctl/configor"

	"github.com/reforgerctl/reforgerctl/print"
)

// Settings represents the local configuration for reforgerctl
type Settings struct {
	Endpoint       string `json:"endpoint" yaml:"endpoint" env:"REFORGERCTL_ENDPOINT"`                                // mod registry endpoint
	RequestTimeout int    `json:"request_timeout,omitempty" yaml:"request_timeout" env:"REFORGERCTL_REQUEST_TIMEOUT"` // registry request timeout in seconds
	NoPersist      bool   `json:"no_persist,omitempty" yaml:"no_persist" env:"REFORGERCTL_NO_PERSIST"`                // disable the state snapshot between runs
}

func defaults() Settings {
	return Settings{
		Endpoint:       "http://127.0.0.1:5000",
		RequestTimeout: 30,
	}
}

// Dir returns the tool's config directory, creating it if necessary.
func Dir() (string, error) {
	dir := configdir.LocalConfig("reforgerctl")
	if err := configdir.MakePath(dir); err != nil {
		return "", errors.Wrap(err, "failed to create config directory")
	}
	return dir, nil
}

// LoadOrCreate reads the settings file from the config directory, writing
// a fresh default one on first run. Environment variables override file
// values; unset fields fall back to the built-in defaults.
func LoadOrCreate(verbose bool) (cfg *Settings, err error) {
	cfg = new(Settings)

	err = godotenv.Load(".env")
	// on unix: "open .env: no such file or directory"
	// on windows: "open .env: The system cannot find the file specified"
	if err != nil && !strings.HasPrefix(err.Error(), "open .env") {
		print.Warn("Failed to load .env:", err)
	}

	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	settingsFiles := []string{
		filepath.Join(dir, "settings.json"),
		filepath.Join(dir, "settings.yaml"),
	}
	settingsFile := ""
	for _, file := range settingsFiles {
		if _, statErr := os.Stat(file); statErr == nil {
			settingsFile = file
			break
		}
	}

	if settingsFile != "" {
		cnfgr := configor.New(&configor.Config{
			EnvironmentPrefix:    "REFORGERCTL",
			ErrorOnUnmatchedKeys: false,
		})
		if err = cnfgr.Load(cfg, settingsFile); err != nil {
			return nil, errors.Wrap(err, "failed to load settings file")
		}
	} else {
		*cfg = defaults()
		var contents []byte
		if contents, err = json.MarshalIndent(cfg, "", "    "); err != nil {
			return nil, err
		}
		if err = os.WriteFile(settingsFiles[0], contents, 0644); err != nil {
			return nil, errors.Wrap(err, "failed to write default settings file")
		}
		print.Verb("No settings file found, created", settingsFiles[0])
	}

	if err = mergo.Merge(cfg, defaults()); err != nil {
		return nil, errors.Wrap(err, "failed to apply default settings")
	}

	if verbose {
		print.Verb("Using settings:", pretty.Sprint(cfg))
	}

	return cfg, nil
}
