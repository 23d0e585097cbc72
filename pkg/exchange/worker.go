package exchange

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"time"

	"github.com/convox/logger"
	"github.com/convox/treesort/pkg/helpers"
	"github.com/convox/treesort/pkg/merge"
	"github.com/convox/treesort/pkg/sorter"
	"github.com/convox/treesort/pkg/topology"
	"github.com/convox/treesort/pkg/transport"
)

// TagPartition marks every partition message, both down and up the tree.
const TagPartition = 0

var (
	ErrAllocation = errors.New("allocation failed")
	ErrMalformed  = errors.New("malformed reply")
)

// Worker runs the partition exchange for one position in the tree.
type Worker struct {
	Position  topology.Position
	Transport transport.Transport

	// Sort is used by leaves, sorter.Bubble when nil.
	Sort sorter.Sorter

	// Limit caps the elements a worker will allocate for one buffer, zero for
	// no limit.
	Limit int

	Logger  *logger.Logger
	Observe func(Event)

	log     *logger.Logger
	started time.Time
}

// Run takes the worker through acquire, dispatch or conquer, collect and
// report. Only the root returns the sorted sequence; seed is ignored
// everywhere else.
func (w *Worker) Run(ctx context.Context, seed []int) ([]int, error) {
	w.started = time.Now()

	l := w.Logger
	if l == nil {
		l = logger.NewWriter("ns=exchange", ioutil.Discard)
	}

	w.log = l.Namespace("rank=%d", w.Position.Rank).Start()

	sorted, err := w.run(ctx, seed)
	if err != nil {
		return nil, w.log.Error(fmt.Errorf("rank=%d: %w", w.Position.Rank, err))
	}

	return sorted, nil
}

func (w *Worker) run(ctx context.Context, seed []int) ([]int, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}

	part, err := w.acquire(ctx, seed)
	if err != nil {
		return nil, err
	}

	if w.Position.Leaf() {
		w.conquer(part)
	} else {
		if err := w.dispatch(ctx, part); err != nil {
			return nil, err
		}

		if part, err = w.collect(ctx, part); err != nil {
			return nil, err
		}
	}

	return w.report(ctx, part)
}

func (w *Worker) validate() error {
	p := w.Position

	if err := topology.Validate(p.Workers); err != nil {
		return err
	}

	if w.Transport == nil {
		return fmt.Errorf("no transport")
	}

	if n := w.Transport.Size(); n != p.Workers {
		return fmt.Errorf("%w: transport connects %d workers, tree has %d", topology.ErrInvalidTopology, n, p.Workers)
	}

	if r := w.Transport.Rank(); r != p.Rank {
		return fmt.Errorf("%w: transport is rank %d", topology.ErrInvalidRank, r)
	}

	return nil
}

func (w *Worker) acquire(ctx context.Context, seed []int) ([]int, error) {
	log := w.log.At("acquire")

	if w.Position.Root() {
		if w.Limit > 0 && len(seed) > w.Limit {
			return nil, fmt.Errorf("%w: %d elements over limit of %d", ErrAllocation, len(seed), w.Limit)
		}

		log.Logf("count=%d", len(seed))
		w.observe(StateAcquired, len(seed))

		return seed, nil
	}

	s, err := w.Transport.Probe(ctx, w.Position.Parent, TagPartition)
	if err != nil {
		return nil, err
	}

	part, err := w.allocate(s.Count)
	if err != nil {
		return nil, err
	}

	if _, err := w.Transport.Receive(ctx, w.Position.Parent, TagPartition, part); err != nil {
		return nil, err
	}

	log.Logf("parent=%d count=%d", w.Position.Parent, len(part))
	w.observe(StateAcquired, len(part))

	return part, nil
}

func (w *Worker) dispatch(ctx context.Context, part []int) error {
	n, _ := topology.Split(len(part))

	if err := w.Transport.Send(ctx, w.Position.Left, TagPartition, part[:n]); err != nil {
		return err
	}

	if err := w.Transport.Send(ctx, w.Position.Right, TagPartition, part[n:]); err != nil {
		return err
	}

	w.log.At("dispatch").Logf("left=%d:%d right=%d:%d", w.Position.Left, n, w.Position.Right, len(part)-n)
	w.observe(StateDispatched, len(part))

	return nil
}

func (w *Worker) conquer(part []int) {
	sort := w.Sort
	if sort == nil {
		sort = sorter.Bubble
	}

	sort(part)

	w.log.At("conquer").Logf("count=%d", len(part))
	w.observe(StateSorted, len(part))
}

// collect receives both sorted halves back into part, matching each reply to
// a child by its source rather than by arrival order, and merges them.
func (w *Worker) collect(ctx context.Context, part []int) ([]int, error) {
	n, _ := topology.Split(len(part))

	halves := map[int][]int{
		w.Position.Left:  part[:n],
		w.Position.Right: part[n:],
	}

	for i := 0; i < 2; i++ {
		s, err := w.Transport.Probe(ctx, transport.AnySource, TagPartition)
		if err != nil {
			return nil, err
		}

		half, ok := halves[s.Source]
		switch {
		case s.Source == w.Position.Left || s.Source == w.Position.Right:
			if !ok {
				return nil, fmt.Errorf("%w: second reply from rank %d", ErrMalformed, s.Source)
			}
		default:
			return nil, fmt.Errorf("%w: reply from rank %d which is not a child", ErrMalformed, s.Source)
		}

		if s.Count != len(half) {
			return nil, fmt.Errorf("%w: rank %d replied with %d elements, expected %d", ErrMalformed, s.Source, s.Count, len(half))
		}

		if _, err := w.Transport.Receive(ctx, s.Source, TagPartition, half); err != nil {
			return nil, err
		}

		delete(halves, s.Source)
	}

	merged, err := w.allocate(len(part))
	if err != nil {
		return nil, err
	}

	merge.Into(merged, part[:n], part[n:])

	w.log.At("collect").Logf("count=%d", len(merged))
	w.observe(StateMerged, len(merged))

	return merged, nil
}

func (w *Worker) report(ctx context.Context, part []int) ([]int, error) {
	log := w.log.At("report")

	w.observe(StateReported, len(part))

	if w.Position.Root() {
		log.Successf("count=%d", len(part))
		return part, nil
	}

	if err := w.Transport.Send(ctx, w.Position.Parent, TagPartition, part); err != nil {
		return nil, err
	}

	log.Successf("parent=%d count=%d", w.Position.Parent, len(part))

	return nil, nil
}

func (w *Worker) allocate(n int) ([]int, error) {
	if w.Limit > 0 && n > w.Limit {
		return nil, fmt.Errorf("%w: %d elements over limit of %d", ErrAllocation, n, w.Limit)
	}

	part, err := helpers.Allocate(n)
	if err != nil {
		return nil, fmt.Errorf("%w: %d elements: %v", ErrAllocation, n, err)
	}

	return part, nil
}

func (w *Worker) observe(state State, count int) {
	if w.Observe == nil {
		return
	}

	w.Observe(Event{
		Rank:    w.Position.Rank,
		State:   state,
		Count:   count,
		Elapsed: time.Since(w.started),
	})
}
