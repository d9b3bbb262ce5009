package commands

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/reforgerctl/reforgerctl/doc"
	"github.com/reforgerctl/reforgerctl/print"
	"github.com/reforgerctl/reforgerctl/util"
)

var configExportFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "output",
		Usage: "file to write to instead of stdout",
	},
}

func configImport(c *cli.Context) error {
	if len(c.Args()) == 0 {
		cli.ShowCommandHelpAndExit(c, "import", 0)
		return nil
	}

	file := util.FullPath(c.Args().First())
	raw, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrap(err, "failed to read config file")
	}

	if err = ed.ImportJSON(raw); err != nil {
		return err
	}

	print.Info("imported", file, "with", len(ed.Mods()), "mods")
	return nil
}

func configExport(c *cli.Context) error {
	contents, err := ed.ExportJSON()
	if err != nil {
		return err
	}

	output := c.String("output")
	if output == "" {
		fmt.Println(string(contents))
		return nil
	}

	if err = os.WriteFile(util.FullPath(output), contents, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	print.Info("wrote", output)
	return nil
}

func configArgs(c *cli.Context) error {
	fmt.Println(ed.Document().LaunchArgs())
	return nil
}

func configReset(c *cli.Context) error {
	ed.Reset()
	print.Info("configuration reset to defaults")
	return nil
}

func templateList(c *cli.Context) error {
	for _, t := range doc.Templates() {
		fmt.Println(t.Name)
	}
	return nil
}

func templateApply(c *cli.Context) error {
	if len(c.Args()) == 0 {
		cli.ShowCommandHelpAndExit(c, "apply", 0)
		return nil
	}

	name := c.Args().First()
	t := doc.TemplateByName(name)
	if t == nil {
		return errors.Errorf("unknown template %q", name)
	}

	if err := ed.ImportJSON(t.Raw); err != nil {
		return err
	}

	print.Info("applied template", name)
	return nil
}
