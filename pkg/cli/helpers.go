package cli

import (
	"fmt"
	"io"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/convox/logger"
	"github.com/convox/stdcli"
	"github.com/convox/treesort/pkg/cluster"
	"github.com/convox/treesort/pkg/helpers"
	"github.com/convox/treesort/pkg/metrics"
	"github.com/convox/treesort/pkg/prefix"
)

func sequence(seq []int) string {
	parts := make([]string, len(seq))

	for i, v := range seq {
		parts[i] = strconv.Itoa(v)
	}

	return strings.Join(parts, " ")
}

// rankLoggers sends each rank's log lines through a shared prefix writer when
// verbose, and discards them otherwise.
func rankLoggers(w io.Writer, workers int, run string, verbose bool) func(int) *logger.Logger {
	if !verbose {
		l := logger.NewWriter("ns=treesort", ioutil.Discard)
		return func(int) *logger.Logger { return l }
	}

	pw := prefix.NewRankWriter(w, workers)

	return func(rank int) *logger.Logger {
		return logger.NewWriter(fmt.Sprintf("ns=treesort run=%s", run), pw.Writer(prefix.Rank(rank)))
	}
}

func summary(c *stdcli.Context, res *cluster.Result, sorter string) error {
	i := c.Info()

	i.Add("Workers", strconv.Itoa(res.Workers))
	i.Add("Length", helpers.Count(res.Length))
	i.Add("Memory", helpers.Size(res.Length))
	i.Add("Sorter", sorter)
	i.Add("Elapsed", helpers.Elapsed(res.Elapsed))

	return i.Print()
}

func finish(c *stdcli.Context, res *cluster.Result, sorter string, print, verify bool) error {
	if verify {
		if err := cluster.Verify(res.Sorted, res.Length); err != nil {
			return err
		}
	}

	if print {
		c.Writef("%s\n", sequence(res.Sorted))
	}

	return summary(c, res, sorter)
}

func report(url, run, sorter string, res *cluster.Result) error {
	if url == "" {
		return nil
	}

	return metrics.New(url).Run(metrics.Run{
		Elapsed: float64(res.Elapsed.Nanoseconds()) / 1000000,
		Length:  res.Length,
		Run:     run,
		Sorter:  sorter,
		Workers: res.Workers,
	})
}
