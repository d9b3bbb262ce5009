package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/reforgerctl/reforgerctl/print"
	"github.com/reforgerctl/reforgerctl/workshop"
)

func modsSearch(c *cli.Context) error {
	query := strings.Join(c.Args(), " ")

	results, err := ed.SearchMods(context.Background(), query)
	if err != nil {
		return errors.Wrap(err, "search failed")
	}
	if len(results) == 0 {
		print.Info("no mods found")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Name", "Author", "Size"})
	for _, r := range results {
		t.AppendRows([]table.Row{
			{r.ModID, r.ModName, r.Author, r.Size},
		})
	}
	t.Render()
	return nil
}

var modsAddFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "id",
		Usage: "workshop mod ID",
	},
	cli.StringFlag{
		Name:  "name",
		Usage: "mod display name",
	},
	cli.BoolFlag{
		Name:  "no-deps",
		Usage: "skip fetching and adding the mod's dependencies",
	},
}

func modsAdd(c *cli.Context) error {
	id := c.String("id")
	if id == "" {
		cli.ShowCommandHelpAndExit(c, "add", 0)
		return nil
	}
	name := c.String("name")
	if name == "" {
		name = id
	}

	before := len(ed.Mods())
	err := ed.AddModFromSearch(context.Background(), workshop.SearchResult{
		ModID:   id,
		ModName: name,
	}, !c.Bool("no-deps"))
	if err != nil {
		return err
	}

	print.Info("added", id, "-", len(ed.Mods())-before, "new mods enabled")
	return nil
}

func modsImport(c *cli.Context) error {
	if len(c.Args()) == 0 {
		cli.ShowCommandHelpAndExit(c, "import", 0)
		return nil
	}

	if err := ed.ImportModsBatch(context.Background(), c.Args()); err != nil {
		return err
	}

	if issues := ed.BatchImportError(); issues != "" {
		print.Warn(issues)
	}
	print.Info(len(ed.Mods()), "mods enabled")
	return nil
}

func modsRemove(c *cli.Context) error {
	if len(c.Args()) == 0 {
		cli.ShowCommandHelpAndExit(c, "remove", 0)
		return nil
	}

	id := c.Args().First()
	if err := ed.RemoveMod(id); err != nil {
		return err
	}

	print.Info("removed", id)
	return nil
}

func modsList(c *cli.Context) error {
	mods := ed.Mods()
	if len(mods) == 0 {
		print.Info("no mods enabled")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "ID", "Name", "Version"})
	for i, m := range mods {
		t.AppendRows([]table.Row{
			{i, m.ModID, m.Name, m.Version},
		})
	}
	t.Render()
	return nil
}

func modsMove(c *cli.Context) error {
	if len(c.Args()) < 2 {
		cli.ShowCommandHelpAndExit(c, "move", 0)
		return nil
	}

	from, err := strconv.Atoi(c.Args().Get(0))
	if err != nil {
		return errors.Wrap(err, "invalid from position")
	}
	to, err := strconv.Atoi(c.Args().Get(1))
	if err != nil {
		return errors.Wrap(err, "invalid to position")
	}

	if err = ed.ReorderMods(from, to); err != nil {
		return err
	}

	print.Info("moved mod from", from, "to", to)
	return nil
}

func modsCheck(c *cli.Context) error {
	outdated, err := ed.CheckUpdates(context.Background())
	if err != nil {
		return err
	}
	if len(outdated) == 0 {
		print.Info("all mods are up to date")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Name", "Current", "Latest"})
	for _, o := range outdated {
		t.AppendRows([]table.Row{
			{o.ModID, o.Name, o.Current, o.Latest},
		})
	}
	t.Render()
	return nil
}

func modsCount(c *cli.Context) error {
	count, err := registry.Count(context.Background())
	if err != nil {
		return errors.Wrap(err, "failed to reach the registry")
	}
	fmt.Println(count)
	return nil
}
