package topology

import (
	"errors"
	"fmt"
	"math/bits"
)

// None marks an absent parent or child.
const None = -1

type Role string

const (
	RoleInternal Role = "internal"
	RoleLeaf     Role = "leaf"
)

var (
	ErrInvalidInputSize = errors.New("input length must not be negative")
	ErrInvalidTopology  = errors.New("worker count must be a positive odd number")
	ErrInvalidRank      = errors.New("rank is outside the worker range")
)

// Position is where a rank sits in the complete binary tree of workers.
type Position struct {
	Rank    int
	Workers int
	Role    Role
	Parent  int
	Left    int
	Right   int
	Depth   int

	// Length is only filled in by Plan. At runtime a worker learns its owned
	// length from the message its parent sends.
	Length int
}

func (p Position) Root() bool {
	return p.Rank == 0
}

func (p Position) Leaf() bool {
	return p.Role == RoleLeaf
}

func (p Position) String() string {
	return fmt.Sprintf("rank=%d role=%s parent=%d left=%d right=%d depth=%d", p.Rank, p.Role, p.Parent, p.Left, p.Right, p.Depth)
}

func Validate(workers int) error {
	if workers < 1 || workers%2 == 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTopology, workers)
	}

	return nil
}

func Resolve(rank, workers int) (Position, error) {
	if err := Validate(workers); err != nil {
		return Position{}, err
	}

	if rank < 0 || rank >= workers {
		return Position{}, fmt.Errorf("%w: %d of %d", ErrInvalidRank, rank, workers)
	}

	left, right := Children(rank)

	p := Position{
		Rank:    rank,
		Workers: workers,
		Role:    RoleInternal,
		Parent:  Parent(rank),
		Left:    left,
		Right:   right,
		Depth:   Depth(rank),
	}

	// an odd worker count means a node has either both children or none
	if right >= workers {
		p.Role = RoleLeaf
		p.Left = None
		p.Right = None
	}

	return p, nil
}

// Parent returns None for the root. The floor division holds for every rank;
// the power of two rounding used by early MPI versions of this sort only
// agrees with it for some worker counts.
func Parent(rank int) int {
	if rank <= 0 {
		return None
	}

	return (rank - 1) / 2
}

func Children(rank int) (int, int) {
	return rank*2 + 1, rank*2 + 2
}

// Depth is the level of rank in the tree, the root being level 0.
func Depth(rank int) int {
	return bits.Len(uint(rank+1)) - 1
}

// Levels is the number of tree levels needed to hold all workers.
func Levels(workers int) int {
	if workers < 1 {
		return 0
	}

	return bits.Len(uint(workers))
}

// Split divides n elements between two children. The right child takes the
// remainder.
func Split(n int) (int, int) {
	left := n / 2
	return left, n - left
}

// Plan resolves every rank and fills in the owned length each one should
// receive when the root starts with length elements.
func Plan(workers, length int) ([]Position, error) {
	if err := Validate(workers); err != nil {
		return nil, err
	}

	if length < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidInputSize, length)
	}

	ps := make([]Position, workers)

	for rank := 0; rank < workers; rank++ {
		p, err := Resolve(rank, workers)
		if err != nil {
			return nil, err
		}

		ps[rank] = p
	}

	ps[0].Length = length

	// parents always precede their children so one pass in rank order works
	for rank := range ps {
		if ps[rank].Leaf() {
			continue
		}

		l, r := Split(ps[rank].Length)

		ps[ps[rank].Left].Length = l
		ps[ps[rank].Right].Length = r
	}

	return ps, nil
}
