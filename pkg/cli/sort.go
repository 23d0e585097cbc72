package cli

import (
	"context"

	"github.com/convox/stdcli"
	"github.com/convox/treesort/pkg/cluster"
	"github.com/convox/treesort/pkg/helpers"
	"github.com/convox/treesort/pkg/sorter"
	"github.com/convox/treesort/pkg/structs"
	uuid "github.com/satori/go.uuid"
)

func init() {
	register("sort", "sort a seeded sequence with in-process workers", Sort, stdcli.CommandOptions{
		Flags:    stdcli.OptionFlags(structs.SortOptions{}),
		Validate: stdcli.Args(0),
	})
}

func Sort(c *stdcli.Context) error {
	var opts structs.SortOptions

	if err := c.Options(&opts); err != nil {
		return err
	}

	name := helpers.DefaultString(opts.Sort, structs.DefaultSort)

	s, err := sorter.Lookup(name)
	if err != nil {
		return err
	}

	workers := opts.Count()
	length := opts.Size()

	if err := cluster.Validate(workers, length); err != nil {
		return err
	}

	run := uuid.NewV4().String()[:8]

	co := cluster.Options{
		Workers: workers,
		Length:  length,
		Sort:    s,
		Limit:   helpers.DefaultInt(opts.Limit, 0),
		Loggers: rankLoggers(c, workers, run, helpers.DefaultBool(opts.Verbose, false)),
	}

	if helpers.DefaultBool(opts.Progress, false) {
		pm := progress("Sorting... ", c.Writer().Stderr)
		pm.Start(workers)
		defer pm.Finish()

		co.Observe = pm.Observe
	}

	res, err := cluster.Run(context.Background(), co)
	if err != nil {
		return err
	}

	if err := finish(c, res, name, helpers.DefaultBool(opts.Print, false), helpers.DefaultBool(opts.Verify, false)); err != nil {
		return err
	}

	return report(helpers.DefaultString(opts.Metrics, ""), run, name, res)
}
