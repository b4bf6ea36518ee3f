package window_test

import (
	"fmt"

	"github.com/cwbudde/algo-plate/dsp/window"
)

func ExampleHann() {
	w, err := window.Hann(5)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.2f\n", w)

	// Output:
	// [0.00 0.50 1.00 0.50 0.00]
}
