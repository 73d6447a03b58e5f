package stencil_test

import (
	"fmt"

	"github.com/katalvlaran/lfalab/stencil"
)

// ExampleSparse_Compose composes a backward and a forward difference into
// the second difference.
func ExampleSparse_Compose() {
	backward := stencil.MustSparse(stencil.E(-1, 0), stencil.E(1, 1))
	forward := stencil.MustSparse(stencil.E(-1, -1), stencil.E(1, 0))

	second, err := backward.Compose(forward)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, o := range [][]int{{-1}, {0}, {1}} {
		w, _ := second.Weight(o)
		fmt.Println(o, real(w))
	}
	// Output:
	// [-1] 1
	// [0] -2
	// [1] 1
}
