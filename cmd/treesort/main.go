package main

import (
	"os"

	"github.com/convox/treesort/pkg/cli"
)

var version = "dev"

func main() {
	c := cli.New("treesort", version)

	os.Exit(c.Execute(os.Args[1:]))
}
