package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/reforgerctl/reforgerctl/print"
)

func configGet(c *cli.Context) error {
	d := ed.Document()

	if len(c.Args()) == 0 {
		out, err := d.Export()
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	path := c.Args().First()
	r := d.Get(path)
	if !r.Exists() {
		return errors.Errorf("nothing at %q", path)
	}
	fmt.Println(r.Raw)
	return nil
}

func configSet(c *cli.Context) error {
	if len(c.Args()) < 2 {
		cli.ShowCommandHelpAndExit(c, "set", 0)
		return nil
	}

	path := c.Args().Get(0)
	value := parseValue(c.Args().Get(1))

	if err := ed.Update(path, value); err != nil {
		return err
	}

	print.Info("set", path)
	return nil
}

// parseValue interprets a CLI argument as a JSON value, falling back to a
// plain string so users can write `set game.name My Server` unquoted.
func parseValue(arg string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(arg), &v); err != nil {
		return arg
	}
	return v
}

func configToggle(c *cli.Context) error {
	if len(c.Args()) < 2 {
		cli.ShowCommandHelpAndExit(c, "toggle", 0)
		return nil
	}

	section := c.Args().Get(0)
	var enabled bool
	switch c.Args().Get(1) {
	case "on":
		enabled = true
	case "off":
		enabled = false
	default:
		return errors.Errorf("expected on or off, got %q", c.Args().Get(1))
	}

	var err error
	switch section {
	case "rcon":
		err = ed.ToggleRcon(enabled)
	case "admins":
		err = ed.ToggleAdmins(enabled)
	case "navmesh":
		err = ed.ToggleNavmeshStreaming(enabled)
	case "mission-header":
		err = ed.ToggleMissionHeader(enabled)
	default:
		return errors.Errorf("unknown section %q", section)
	}
	if err != nil {
		return err
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	print.Info(section, state)
	return nil
}
