package merge

import "fmt"

// Merge combines two ascending partitions into a new ascending partition.
func Merge(left, right []int) []int {
	dst := make([]int, len(left)+len(right))

	Into(dst, left, right)

	return dst
}

// Into merges left and right into dst in a single pass. On equal keys the
// element from left is taken first. dst must not overlap either input.
func Into(dst, left, right []int) {
	if len(dst) != len(left)+len(right) {
		panic(fmt.Sprintf("merge destination holds %d elements, need %d", len(dst), len(left)+len(right)))
	}

	i, j, k := 0, 0, 0

	// both cursors are checked before either side is read
	for i < len(left) && j < len(right) {
		if left[i] <= right[j] {
			dst[k] = left[i]
			i++
		} else {
			dst[k] = right[j]
			j++
		}
		k++
	}

	k += copy(dst[k:], left[i:])
	copy(dst[k:], right[j:])
}
