package design_test

import (
	"fmt"

	"github.com/cwbudde/algo-streamdsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-streamdsp/dsp/filter/design"
)

func ExampleButterworthLowpass() {
	sections, err := design.ButterworthLowpass(30, 5, 256)
	if err != nil {
		fmt.Println(err)
		return
	}

	chain := biquad.NewChain(sections)
	fmt.Printf("sections: %d\n", chain.NumSections())
	fmt.Printf("gain at cutoff: %.2f dB\n", chain.MagnitudeDB(30, 256))

	// Output:
	// sections: 3
	// gain at cutoff: -3.01 dB
}
