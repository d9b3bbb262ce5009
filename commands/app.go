// Package commands wires the editor engine into the reforgerctl CLI.
package commands

import (
	"net/http"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/reforgerctl/reforgerctl/editor"
	"github.com/reforgerctl/reforgerctl/print"
	"github.com/reforgerctl/reforgerctl/settings"
	"github.com/reforgerctl/reforgerctl/workshop"
)

var (
	cfg      *settings.Settings // global tool settings
	ed       *editor.Editor     // global editor state
	registry *workshop.Client   // global registry client
)

var globalFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "verbose",
		Usage: "output all detailed information - useful for debugging",
	},
	cli.BoolFlag{
		Name:  "no-color",
		Usage: "disable ANSI colour codes in output",
	},
}

// Run is the entry point of the command line app.
func Run(args []string, version string) error {
	app := cli.NewApp()

	app.Author = "reforgerctl contributors"
	app.Name = "reforgerctl"
	app.Usage = "edit, validate and manage Arma Reforger dedicated server configurations and their workshop mods"
	app.Version = version
	app.EnableBashCompletion = true

	cli.VersionFlag = cli.BoolFlag{
		Name:  "app-version, V",
		Usage: "show the app version number",
	}

	app.Flags = globalFlags
	app.Before = func(c *cli.Context) (err error) {
		if c.GlobalBool("verbose") {
			print.SetVerbose()
		}
		if !c.GlobalBool("no-color") {
			print.SetColoured()
		}

		cfg, err = settings.LoadOrCreate(c.GlobalBool("verbose"))
		if err != nil {
			return errors.Wrap(err, "failed to load settings")
		}

		registry = workshop.New(cfg.Endpoint, &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		})
		opts := []editor.Option{editor.WithRegistry(registry)}
		if !cfg.NoPersist {
			store, err := editor.NewFileStore()
			if err != nil {
				return errors.Wrap(err, "failed to open state store")
			}
			opts = append(opts, editor.WithStore(store))
		}
		ed = editor.New(opts...)

		return nil
	}

	app.Commands = []cli.Command{
		{
			Name:        "init",
			Usage:       "reforgerctl init [--output server.json]",
			Description: "Creates a new server configuration by asking a series of questions.",
			Action:      serverInit,
			Flags:       serverInitFlags,
		},
		{
			Name:        "validate",
			Usage:       "reforgerctl validate [file]",
			Description: "Validates a configuration file against the server config schema. Validates the working configuration when no file is given.",
			Action:      configValidate,
			Flags:       configValidateFlags,
		},
		{
			Name:        "get",
			Usage:       "reforgerctl get [path]",
			Description: "Prints the working configuration, or the value at a dot-separated path.",
			Action:      configGet,
		},
		{
			Name:        "set",
			Usage:       "reforgerctl set [path] [value]",
			Description: "Sets a field in the working configuration. The value is parsed as JSON, falling back to a plain string.",
			Action:      configSet,
		},
		{
			Name:        "toggle",
			Usage:       "reforgerctl toggle [rcon|admins|navmesh|mission-header] [on|off]",
			Description: "Enables or disables an optional config section, injecting its defaults on first enable.",
			Action:      configToggle,
		},
		{
			Name:        "import",
			Usage:       "reforgerctl import [file]",
			Description: "Imports a configuration file, back-filling defaults and validating before committing.",
			Action:      configImport,
		},
		{
			Name:        "export",
			Usage:       "reforgerctl export [--output file]",
			Description: "Exports the working configuration as pretty-printed JSON, preserving the imported key order.",
			Action:      configExport,
			Flags:       configExportFlags,
		},
		{
			Name:        "args",
			Usage:       "reforgerctl args",
			Description: "Prints the launch arguments for running the server against the working configuration.",
			Action:      configArgs,
		},
		{
			Name:        "reset",
			Usage:       "reforgerctl reset",
			Description: "Resets the working configuration and mod list to the built-in defaults.",
			Action:      configReset,
		},
		{
			Name:  "template",
			Usage: "bundled configuration templates",
			Subcommands: []cli.Command{
				{
					Name:        "list",
					Usage:       "reforgerctl template list",
					Description: "Lists the bundled configuration templates.",
					Action:      templateList,
				},
				{
					Name:        "apply",
					Usage:       "reforgerctl template apply [name]",
					Description: "Replaces the working configuration with a bundled template.",
					Action:      templateApply,
				},
			},
		},
		{
			Name:  "mods",
			Usage: "manage workshop mods in the configuration",
			Subcommands: []cli.Command{
				{
					Name:        "search",
					Usage:       "reforgerctl mods search [query]",
					Description: "Searches the workshop registry by mod name.",
					Action:      modsSearch,
				},
				{
					Name:        "add",
					Usage:       "reforgerctl mods add [--id id] [--name name]",
					Description: "Adds a mod and, unless --no-deps is given, its direct dependencies.",
					Action:      modsAdd,
					Flags:       modsAddFlags,
				},
				{
					Name:        "import",
					Usage:       "reforgerctl mods import [id...]",
					Description: "Imports a batch of mods by ID, resolving transitive dependencies. Item failures are reported without aborting the rest.",
					Action:      modsImport,
				},
				{
					Name:        "remove",
					Usage:       "reforgerctl mods remove [id]",
					Description: "Removes a mod and prunes its untouched mission header defaults.",
					Action:      modsRemove,
				},
				{
					Name:        "list",
					Usage:       "reforgerctl mods list",
					Description: "Lists the enabled mods in load order.",
					Action:      modsList,
				},
				{
					Name:        "move",
					Usage:       "reforgerctl mods move [from] [to]",
					Description: "Moves a mod to a new position in the load order.",
					Action:      modsMove,
				},
				{
					Name:        "check",
					Usage:       "reforgerctl mods check",
					Description: "Checks enabled mods for newer versions on the registry.",
					Action:      modsCheck,
				},
				{
					Name:        "count",
					Usage:       "reforgerctl mods count",
					Description: "Prints the registry's total mod count, doubling as a connectivity check.",
					Action:      modsCount,
				},
			},
		},
	}

	return app.Run(args)
}
