package sorter_test

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/convox/treesort/pkg/sorter"
	"github.com/stretchr/testify/require"
)

var ints = []int{74, 59, 238, -784, 9845, 959, 905, 0, 0, 42, 7586, -5467984, 7586}

func TestSorters(t *testing.T) {
	for _, name := range sorter.Names() {
		fn, err := sorter.Lookup(name)
		require.NoError(t, err)

		testData := []struct {
			in   []int
			want []int
		}{
			{in: []int{}, want: []int{}},
			{in: []int{7}, want: []int{7}},
			{in: []int{2, 1}, want: []int{1, 2}},
			{in: []int{8, 7, 6, 5, 4, 3, 2, 1}, want: []int{1, 2, 3, 4, 5, 6, 7, 8}},
			{in: []int{21, -10, 54, 0, 1098309}, want: []int{-10, 0, 21, 54, 1098309}},
			{in: append([]int{}, ints...), want: []int{-5467984, -784, 0, 0, 42, 59, 74, 238, 905, 959, 7586, 7586, 9845}},
		}

		for _, td := range testData {
			fn(td.in)
			require.Equal(t, td.want, td.in, "sort=%s", name)
		}
	}
}

func TestSortersRandom(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for _, name := range sorter.Names() {
		fn, err := sorter.Lookup(name)
		require.NoError(t, err)

		p := make([]int, 500)
		for i := range p {
			p[i] = r.Intn(200) - 100
		}

		want := append([]int{}, p...)
		sort.Ints(want)

		fn(p)

		require.Equal(t, want, p, "sort=%s", name)
		require.True(t, sorter.IsSorted(p))
	}
}

func TestBubbleNil(t *testing.T) {
	var p []int
	sorter.Bubble(p)
	require.Nil(t, p)
}

func TestLookup(t *testing.T) {
	s, err := sorter.Lookup("")
	require.NoError(t, err)
	require.NotNil(t, s)

	_, err = sorter.Lookup("HEAP")
	require.NoError(t, err)

	_, err = sorter.Lookup("quantum")
	require.True(t, errors.Is(err, sorter.ErrUnknownSorter))
	require.Contains(t, err.Error(), "bubble, heap, insertion, library")
}

func TestIsSorted(t *testing.T) {
	require.True(t, sorter.IsSorted(nil))
	require.True(t, sorter.IsSorted([]int{1, 1, 2}))
	require.False(t, sorter.IsSorted([]int{2, 1}))
}
