package cli

import (
	"github.com/convox/stdcli"
)

type Engine struct {
	*stdcli.Engine
}

func (e *Engine) RegisterCommands() {
	for _, c := range commands {
		e.Command(c.Command, c.Description, stdcli.HandlerFunc(c.Handler), c.Opts)
	}
}

var commands = []command{}

type command struct {
	Command     string
	Description string
	Handler     HandlerFunc
	Opts        stdcli.CommandOptions
}

func register(cmd, description string, fn HandlerFunc, opts stdcli.CommandOptions) {
	commands = append(commands, command{
		Command:     cmd,
		Description: description,
		Handler:     fn,
		Opts:        opts,
	})
}
