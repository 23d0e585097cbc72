package cli

import (
	"strconv"

	"github.com/convox/stdcli"
	"github.com/convox/treesort/pkg/structs"
	"github.com/convox/treesort/pkg/topology"
)

func init() {
	register("topology", "show the tree a run would use", Topology, stdcli.CommandOptions{
		Flags:    stdcli.OptionFlags(structs.TopologyOptions{}),
		Validate: stdcli.Args(0),
	})
}

func Topology(c *stdcli.Context) error {
	var opts structs.TopologyOptions

	if err := c.Options(&opts); err != nil {
		return err
	}

	ps, err := topology.Plan(opts.Count(), opts.Size())
	if err != nil {
		return err
	}

	t := c.Table("RANK", "ROLE", "PARENT", "LEFT", "RIGHT", "DEPTH", "LENGTH")

	for _, p := range ps {
		t.AddRow(strconv.Itoa(p.Rank), string(p.Role), rank(p.Parent), rank(p.Left), rank(p.Right), strconv.Itoa(p.Depth), strconv.Itoa(p.Length))
	}

	return t.Print()
}

func rank(r int) string {
	if r == topology.None {
		return "-"
	}

	return strconv.Itoa(r)
}
