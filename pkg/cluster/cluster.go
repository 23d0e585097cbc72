package cluster

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"sync"
	"time"

	"github.com/convox/logger"
	"github.com/convox/treesort/pkg/exchange"
	"github.com/convox/treesort/pkg/sorter"
	"github.com/convox/treesort/pkg/topology"
	"github.com/convox/treesort/pkg/transport"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidInputSize = topology.ErrInvalidInputSize
	ErrUnsorted         = errors.New("result is not sorted")
)

type Options struct {
	Workers int
	Length  int
	Sort    sorter.Sorter
	Limit   int

	// Logger receives every worker's log lines, nothing is logged when nil.
	// Loggers returns a distinct logger per rank and takes precedence.
	Logger  *logger.Logger
	Loggers func(rank int) *logger.Logger

	Observe func(exchange.Event)
}

type Result struct {
	Sorted  []int
	Workers int
	Length  int
	Elapsed time.Duration
}

func (o Options) logger(rank int) *logger.Logger {
	switch {
	case o.Loggers != nil:
		return o.Loggers(rank)
	case o.Logger != nil:
		return o.Logger
	default:
		return logger.NewWriter("ns=treesort", ioutil.Discard)
	}
}

func (o Options) worker(p topology.Position, t transport.Transport) *exchange.Worker {
	return &exchange.Worker{
		Position:  p,
		Transport: t,
		Sort:      o.Sort,
		Limit:     o.Limit,
		Logger:    o.logger(p.Rank),
		Observe:   o.Observe,
	}
}

// Validate rejects a run before any worker starts.
func Validate(workers, length int) error {
	if err := topology.Validate(workers); err != nil {
		return err
	}

	if length < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidInputSize, length)
	}

	return nil
}

// Seed returns length, length-1, ..., 1.
func Seed(length int) []int {
	seq := make([]int, length)

	for i := range seq {
		seq[i] = length - i
	}

	return seq
}

// Run sorts a seeded sequence with every worker on its own goroutine. The
// first worker to fail aborts the mesh so the rest return instead of
// blocking, and its error is the one reported.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if err := Validate(opts.Workers, opts.Length); err != nil {
		return nil, pkgerrors.WithStack(err)
	}

	log := opts.logger(0).Namespace("workers=%d length=%d", opts.Workers, opts.Length).At("run").Start()

	mesh := transport.NewMesh(opts.Workers)
	seed := Seed(opts.Length)

	var (
		cause  error
		once   sync.Once
		sorted []int
	)

	fail := func(err error) {
		once.Do(func() {
			cause = err
			mesh.Abort(err)
		})
	}

	started := time.Now()

	g, gctx := errgroup.WithContext(ctx)

	for r := 0; r < opts.Workers; r++ {
		p, err := topology.Resolve(r, opts.Workers)
		if err != nil {
			return nil, pkgerrors.WithStack(err)
		}

		w := opts.worker(p, mesh.Endpoint(r))

		g.Go(func() error {
			s, err := w.Run(gctx, seed)
			if err != nil {
				fail(err)
				return err
			}

			if w.Position.Root() {
				sorted = s
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if cause != nil {
			err = cause
		}
		return nil, log.Error(pkgerrors.WithStack(err))
	}

	res := &Result{
		Sorted:  sorted,
		Workers: opts.Workers,
		Length:  opts.Length,
		Elapsed: time.Since(started),
	}

	log.Success()

	return res, nil
}

// RunWorker runs the single rank t is connected as. Only rank 0 has a
// sorted result; every other rank returns once its partition is reported.
func RunWorker(ctx context.Context, opts Options, t transport.Transport) (*Result, error) {
	opts.Workers = t.Size()

	if err := Validate(opts.Workers, opts.Length); err != nil {
		return nil, pkgerrors.WithStack(err)
	}

	p, err := topology.Resolve(t.Rank(), opts.Workers)
	if err != nil {
		return nil, pkgerrors.WithStack(err)
	}

	var seed []int

	if p.Root() {
		seed = Seed(opts.Length)
	}

	started := time.Now()

	sorted, err := opts.worker(p, t).Run(ctx, seed)
	if err != nil {
		return nil, pkgerrors.WithStack(err)
	}

	res := &Result{
		Sorted:  sorted,
		Workers: opts.Workers,
		Length:  opts.Length,
		Elapsed: time.Since(started),
	}

	return res, nil
}

// Verify checks that sorted is the seed of length in ascending order.
func Verify(sorted []int, length int) error {
	if len(sorted) != length {
		return fmt.Errorf("%w: %d elements, expected %d", ErrUnsorted, len(sorted), length)
	}

	if !sorter.IsSorted(sorted) {
		return fmt.Errorf("%w: elements out of order", ErrUnsorted)
	}

	for i, v := range sorted {
		if v != i+1 {
			return fmt.Errorf("%w: position %d holds %d", ErrUnsorted, i, v)
		}
	}

	return nil
}
