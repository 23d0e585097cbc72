package cli

import (
	"github.com/convox/stdcli"
)

type HandlerFunc func(*stdcli.Context) error

func New(name, version string) *Engine {
	e := &Engine{
		Engine: stdcli.New(name, version),
	}

	e.RegisterCommands()

	return e
}
