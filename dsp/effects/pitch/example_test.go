package pitch_test

import (
	"fmt"

	"github.com/cwbudde/algo-audioedit/dsp/audio"
	"github.com/cwbudde/algo-audioedit/dsp/effects/pitch"
)

func ExampleShifter_Ratio() {
	s, err := pitch.New()
	if err != nil {
		panic(err)
	}

	fmt.Printf("%.4f %.4f\n", s.Ratio(12), s.Ratio(-3))
	// Output:
	// 2.0000 0.8409
}

func ExampleShifter_Shift() {
	s, err := pitch.New()
	if err != nil {
		panic(err)
	}

	stereo := audio.New(1, 2, 4410, 44100)

	out, err := s.Shift(stereo, 4)
	if err != nil {
		panic(err)
	}

	fmt.Println(out.Shape())
	// Output:
	// 1 1 4410
}
