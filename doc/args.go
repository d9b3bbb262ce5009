package doc

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// LaunchArgs renders the command line fragment for running the server
// against this config with the no-backend scenario loader.
func (d Document) LaunchArgs() string {
	addons := []string{"NO_BACKEND_SCENARIO_LOADER"}
	d.Get("game.mods").ForEach(func(_, m gjson.Result) bool {
		addons = append(addons, m.Get("modId").String())
		return true
	})

	parts := []string{
		fmt.Sprintf("-adminPassword %q", d.Get("game.passwordAdmin").String()),
		"-addons " + strings.Join(addons, ","),
		"-server worlds/NoBackendScenarioLoader.ent",
		"-scenarioId " + d.Get("game.scenarioId").String(),
		"-bindIP " + d.Get("bindAddress").String(),
		"-publicAddress " + d.Get("publicAddress").String(),
	}
	return strings.Join(parts, " ")
}
