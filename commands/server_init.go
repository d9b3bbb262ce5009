package commands

import (
	"fmt"
	"os"

	garbler "github.com/michaelbironneau/garbler/lib"
	zxcvbn "github.com/nbutton23/zxcvbn-go"
	"github.com/pkg/errors"
	"gopkg.in/AlecAivazis/survey.v1"
	"gopkg.in/urfave/cli.v1"

	"github.com/reforgerctl/reforgerctl/doc"
	"github.com/reforgerctl/reforgerctl/print"
	"github.com/reforgerctl/reforgerctl/util"
)

var serverInitFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "output",
		Value: "server.json",
		Usage: "file to write the new configuration to",
	},
}

var knownScenarios = []string{
	"{ECC61978EDCC2B5A}Missions/23_Campaign.conf",
	"{59AD59368755F41A}Missions/21_GM_Eden.conf",
	"{DAA03C6E6099D50F}Missions/24_CombatOps.conf",
	"{C700DB41F0C546E1}Missions/23_Campaign_NorthCentral.conf",
	"{28802A76EF547C35}Missions/23_Campaign_SWCoast.conf",
}

func serverInit(c *cli.Context) error {
	output := util.FullPath(c.String("output"))

	questions := []*survey.Question{
		{
			Name:     "Name",
			Prompt:   &survey.Input{Message: "Server Name"},
			Validate: survey.Required,
		},
		{
			Name: "Scenario",
			Prompt: &survey.Select{
				Message: "Scenario",
				Options: knownScenarios,
			},
			Validate: survey.Required,
		},
		{
			Name:   "MaxPlayers",
			Prompt: &survey.Input{Message: "Max Players", Default: "64"},
		},
		{
			Name:   "BindPort",
			Prompt: &survey.Input{Message: "Bind Port", Default: "2001"},
		},
		{
			Name:   "PasswordAdmin",
			Prompt: &survey.Input{Message: "Admin Password (leave blank to generate a strong one)"},
		},
		{
			Name:   "CrossPlatform",
			Prompt: &survey.Confirm{Message: "Enable cross-platform play?", Default: true},
		},
		{
			Name:   "Rcon",
			Prompt: &survey.Confirm{Message: "Enable RCON?", Default: false},
		},
	}

	answers := struct {
		Name          string
		Scenario      string
		MaxPlayers    int
		BindPort      int
		PasswordAdmin string
		CrossPlatform bool
		Rcon          bool
	}{}

	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	if answers.PasswordAdmin == "" {
		req := garbler.MakeRequirements("aAbB123_-/#'")
		generated, err := garbler.NewPassword(&req)
		if err != nil {
			return errors.Wrap(err, "failed to generate admin password")
		}
		answers.PasswordAdmin = generated
	}

	d := doc.Default()
	var err error
	for path, value := range map[string]interface{}{
		"game.name":          answers.Name,
		"game.scenarioId":    answers.Scenario,
		"game.maxPlayers":    answers.MaxPlayers,
		"bindPort":           answers.BindPort,
		"game.passwordAdmin": answers.PasswordAdmin,
	} {
		if d, err = d.Update(path, value); err != nil {
			return err
		}
	}
	if d, err = d.Update("game.crossPlatform", answers.CrossPlatform); err != nil {
		return err
	}
	if answers.Rcon {
		if d, err = d.ToggleSection("rcon", true, nil); err != nil {
			return err
		}
		if d, err = d.Update("rcon.password", answers.PasswordAdmin); err != nil {
			return err
		}
	}

	strength := zxcvbn.PasswordStrength(answers.PasswordAdmin, nil)
	print.Info("Admin password crack time:", strength.CrackTimeDisplay)
	if strength.Score < 2 {
		print.Warn("The admin password is weak, consider a longer one")
	}

	contents, err := d.Export()
	if err != nil {
		return errors.Wrap(err, "new configuration failed validation")
	}
	if err = os.WriteFile(output, contents, 0644); err != nil {
		return errors.Wrap(err, "failed to write configuration")
	}

	fmt.Println("wrote", output)
	return nil
}
