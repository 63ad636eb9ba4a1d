package main

import (
	"os"

	"github.com/funkygao/brokermap/cmd/bmap/command"
	"github.com/funkygao/gocli"
)

var commands map[string]cli.CommandFactory

func init() {
	ui := &cli.ColoredUi{
		Ui: &cli.BasicUi{
			Writer:      os.Stdout,
			Reader:      os.Stdin,
			ErrorWriter: os.Stderr,
		},
		OutputColor: cli.UiColorNone,
		InfoColor:   cli.UiColorGreen,
		ErrorColor:  cli.UiColorRed,
		WarnColor:   cli.UiColorYellow,
	}
	cmd := os.Args[0]

	commands = map[string]cli.CommandFactory{
		"brokers": func() (cli.Command, error) {
			return &command.Brokers{
				Ui:  ui,
				Cmd: cmd,
			}, nil
		},

		"watch": func() (cli.Command, error) {
			return &command.Watch{
				Ui:  ui,
				Cmd: cmd,
			}, nil
		},

		"register": func() (cli.Command, error) {
			return &command.Register{
				Ui:  ui,
				Cmd: cmd,
			}, nil
		},

		"zones": func() (cli.Command, error) {
			return &command.Zones{
				Ui:  ui,
				Cmd: cmd,
			}, nil
		},
	}
}
