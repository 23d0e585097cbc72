package sorter

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	algo "github.com/twmb/algoimpl/go/sort"
)

var ErrUnknownSorter = errors.New("unknown sort")

// Sorter sorts a partition ascending in place.
type Sorter func([]int)

// Ints adapts a partition to the Len/Less/Swap collection the library sorts
// work on.
type Ints []int

func (p Ints) Len() int           { return len(p) }
func (p Ints) Less(i, j int) bool { return p[i] < p[j] }
func (p Ints) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

var sorters = map[string]Sorter{
	"bubble":    Bubble,
	"heap":      Heap,
	"insertion": Insertion,
	"library":   Heap,
}

// Bubble is the quadratic leaf kernel. It stops early once a pass makes no
// swaps.
func Bubble(p []int) {
	for n := len(p); n > 1; n-- {
		swapped := false

		for i := 1; i < n; i++ {
			if p[i-1] > p[i] {
				p[i-1], p[i] = p[i], p[i-1]
				swapped = true
			}
		}

		if !swapped {
			return
		}
	}
}

func Heap(p []int) {
	algo.HeapSort(Ints(p))
}

func Insertion(p []int) {
	algo.InsertionSort(Ints(p))
}

func IsSorted(p []int) bool {
	return sort.IntsAreSorted(p)
}

func Lookup(name string) (Sorter, error) {
	if name == "" {
		return Bubble, nil
	}

	s, ok := sorters[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownSorter, name, strings.Join(Names(), ", "))
	}

	return s, nil
}

func Names() []string {
	names := []string{}

	for name := range sorters {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
