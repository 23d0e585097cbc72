package helpers

import (
	"fmt"
	"runtime"
)

// Allocate returns a zeroed partition of n elements. A negative or
// unsatisfiable size is reported as an error instead of a panic.
func Allocate(n int) (p []int, err error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid size: %d", n)
	}

	defer func() {
		if r := recover(); r != nil {
			if re, ok := r.(runtime.Error); ok {
				p, err = nil, fmt.Errorf("%s", re.Error())
				return
			}
			panic(r)
		}
	}()

	return make([]int, n), nil
}
