package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/convox/stdcli"
	"github.com/convox/treesort/pkg/cluster"
	"github.com/convox/treesort/pkg/helpers"
	"github.com/convox/treesort/pkg/sorter"
	"github.com/convox/treesort/pkg/structs"
	"github.com/convox/treesort/pkg/transport"
)

func init() {
	register("worker", "run one rank of a networked sort", Worker, stdcli.CommandOptions{
		Flags:    stdcli.OptionFlags(structs.WorkerOptions{}),
		Validate: stdcli.Args(0),
	})
}

func Worker(c *stdcli.Context) error {
	var opts structs.WorkerOptions

	if err := c.Options(&opts); err != nil {
		return err
	}

	rank, err := workerRank(opts.Rank)
	if err != nil {
		return err
	}

	name := helpers.DefaultString(opts.Sort, structs.DefaultSort)

	s, err := sorter.Lookup(name)
	if err != nil {
		return fmt.Errorf("rank=%d: %w", rank, err)
	}

	peers, err := structs.LoadPeers(helpers.DefaultString(opts.Peers, structs.DefaultPeers))
	if err != nil {
		return fmt.Errorf("rank=%d: %w", rank, err)
	}

	workers := len(peers.Workers)
	length := opts.Size()

	if err := cluster.Validate(workers, length); err != nil {
		return fmt.Errorf("rank=%d: %w", rank, err)
	}

	run := helpers.DefaultString(opts.Run, peers.Run())
	loggers := rankLoggers(c, workers, run, helpers.DefaultBool(opts.Verbose, false))

	t, err := transport.NewSocket(transport.SocketOptions{
		Rank:   rank,
		Peers:  peers.Workers,
		Run:    run,
		Logger: loggers(rank),
	})
	if err != nil {
		return fmt.Errorf("rank=%d: %w", rank, err)
	}

	if err := t.Listen(); err != nil {
		return fmt.Errorf("rank=%d: %w", rank, err)
	}
	defer t.Close()

	co := cluster.Options{
		Length:  length,
		Sort:    s,
		Limit:   helpers.DefaultInt(opts.Limit, 0),
		Loggers: loggers,
	}

	res, err := cluster.RunWorker(context.Background(), co, t)
	if err != nil {
		return err
	}

	if rank != 0 {
		c.Writef("<info>rank %d</info> reported in %s\n", rank, helpers.Elapsed(res.Elapsed))
		return nil
	}

	if err := finish(c, res, name, helpers.DefaultBool(opts.Print, false), false); err != nil {
		return err
	}

	return report(helpers.DefaultString(opts.Metrics, ""), run, name, res)
}

func workerRank(flag *int) (int, error) {
	if flag != nil {
		return *flag, nil
	}

	v := helpers.CoalesceString(os.Getenv("TREESORT_RANK"), os.Getenv("OMPI_COMM_WORLD_RANK"))
	if v == "" {
		return 0, fmt.Errorf("rank required: use --rank or set TREESORT_RANK")
	}

	rank, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid rank: %s", v)
	}

	return rank, nil
}
