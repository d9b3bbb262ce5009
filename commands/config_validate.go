package commands

import (
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/reforgerctl/reforgerctl/catalog"
	"github.com/reforgerctl/reforgerctl/doc"
	"github.com/reforgerctl/reforgerctl/print"
	"github.com/reforgerctl/reforgerctl/util"
)

var configValidateFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "watch",
		Usage: "re-validate the file whenever it changes",
	},
}

func configValidate(c *cli.Context) error {
	if len(c.Args()) == 0 {
		if err := ed.Document().Validate(); err != nil {
			return err
		}
		print.Info("working configuration is valid")
		return nil
	}

	file := util.FullPath(c.Args().First())
	if err := validateFile(file); err != nil && !c.Bool("watch") {
		return err
	}

	if !c.Bool("watch") {
		return nil
	}
	return watchFile(file)
}

func validateFile(file string) error {
	raw, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrap(err, "failed to read config file")
	}

	if _, err = doc.Import(raw, catalog.Load()); err != nil {
		print.Erro(filepath.Base(file)+":", err)
		return err
	}
	print.Info(filepath.Base(file), "is valid")
	return nil
}

// watchFile re-validates on every write until interrupted. Editors often
// replace files via rename, so the watch is on the directory and filtered
// by name.
func watchFile(file string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close() // nolint

	if err = watcher.Add(filepath.Dir(file)); err != nil {
		return errors.Wrap(err, "failed to watch config directory")
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	print.Info("watching", file, "- press ctrl+c to stop")
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(file) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			validateFile(file) // nolint:errcheck
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			print.Warn("watch error:", err)
		case <-interrupt:
			return nil
		}
	}
}
