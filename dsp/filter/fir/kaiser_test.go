package fir

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-streamdsp/dsp/core"
)

func TestKaiserBeta(t *testing.T) {
	tests := []struct {
		atten, want float64
	}{
		{20, 0},
		{40, 3.3953},
		{60, 0.1102 * 51.3},
	}
	for _, tt := range tests {
		if got := KaiserBeta(tt.atten); math.Abs(got-tt.want) > 1e-3 {
			t.Errorf("KaiserBeta(%v) = %v, want %v", tt.atten, got, tt.want)
		}
	}
}

func TestKaiserOrder(t *testing.T) {
	taps, beta, err := KaiserOrder(40, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if taps != 46 || math.Abs(beta-KaiserBeta(40)) > 0 {
		t.Fatalf("KaiserOrder = %d, %v", taps, beta)
	}

	if _, _, err := KaiserOrder(7, 0.1); !errors.Is(err, ErrDesign) {
		t.Fatalf("expected ErrDesign, got %v", err)
	}
}

func TestKaiserLowpass(t *testing.T) {
	f, err := Kaiser(100, 150, 1000, 1, 40)
	if err != nil {
		t.Fatal(err)
	}

	if f.Taps() != 47 || f.Band() != Lowpass || f.Cutoff() != 125 || f.Width() != 50 {
		t.Fatalf("taps=%d band=%v cutoff=%v width=%v", f.Taps(), f.Band(), f.Cutoff(), f.Width())
	}

	h := f.Coefficients()
	for i := range h {
		if math.Abs(h[i]-h[len(h)-1-i]) > 1e-15 {
			t.Fatalf("not symmetric at %d", i)
		}
	}

	for _, hz := range []float64{0, 50, 100} {
		if db := f.MagnitudeDB(hz); math.Abs(db) > 1 {
			t.Errorf("pass band %v Hz: %v dB", hz, db)
		}
	}

	// The half-amplitude point sits at the cutoff.
	if db := f.MagnitudeDB(125); math.Abs(db+6.02) > 0.5 {
		t.Errorf("cutoff gain %v dB, want about -6 dB", db)
	}

	for _, hz := range []float64{150, 200, 300, 499} {
		if db := f.MagnitudeDB(hz); db > -38 {
			t.Errorf("stop band %v Hz: %v dB", hz, db)
		}
	}
}

func TestKaiserHighpass(t *testing.T) {
	f, err := Kaiser(150, 100, 1000, 1, 40)
	if err != nil {
		t.Fatal(err)
	}
	if f.Band() != Highpass || f.Taps()%2 != 1 {
		t.Fatalf("band=%v taps=%d", f.Band(), f.Taps())
	}

	if db := f.MagnitudeDB(300); math.Abs(db) > 1 {
		t.Errorf("pass band: %v dB", db)
	}
	for _, hz := range []float64{0, 50, 100} {
		if db := f.MagnitudeDB(hz); db > -38 {
			t.Errorf("stop band %v Hz: %v dB", hz, db)
		}
	}
}

func TestKaiserStricterPassRipple(t *testing.T) {
	// 0.01 dB of pass band loss demands more than 40 dB of suppression.
	loose, err := Kaiser(100, 150, 1000, 1, 40)
	if err != nil {
		t.Fatal(err)
	}
	strict, err := Kaiser(100, 150, 1000, 0.01, 40)
	if err != nil {
		t.Fatal(err)
	}
	if strict.Taps() <= loose.Taps() || strict.Beta() <= loose.Beta() {
		t.Fatalf("strict taps=%d beta=%v, loose taps=%d beta=%v", strict.Taps(), strict.Beta(), loose.Taps(), loose.Beta())
	}
}

func TestKaiserErrors(t *testing.T) {
	tests := []struct {
		name                           string
		fpass, fstop, fs, gpass, gstop float64
	}{
		{"zero rate", 10, 20, 0, 1, 40},
		{"above nyquist", 10, 600, 1000, 1, 40},
		{"equal edges", 10, 10, 1000, 1, 40},
		{"negative gain", 10, 20, 1000, -1, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Kaiser(tt.fpass, tt.fstop, tt.fs, tt.gpass, tt.gstop)
			if !errors.Is(err, ErrDesign) || !errors.Is(err, core.ErrConfiguration) {
				t.Fatalf("got %v", err)
			}
		})
	}
}

func TestKaiserBand(t *testing.T) {
	tests := []struct {
		band       Band
		pass, stop []float64
	}{
		{Bandpass, []float64{130, 150, 170}, []float64{0, 40, 260, 400, 499}},
		{Bandstop, []float64{0, 40, 260, 400, 499}, []float64{130, 150, 170}},
	}

	for _, tt := range tests {
		t.Run(tt.band.String(), func(t *testing.T) {
			f, err := KaiserBand(tt.band, 100, 200, 40, 1000, 1, 40)
			if err != nil {
				t.Fatal(err)
			}

			if f.Band() != tt.band || f.Taps()%2 != 1 || f.Width() != 40 {
				t.Fatalf("band=%v taps=%d width=%v", f.Band(), f.Taps(), f.Width())
			}
			if c := f.Cutoffs(); len(c) != 2 || c[0] != 100 || c[1] != 200 {
				t.Fatalf("Cutoffs() = %v", c)
			}

			h := f.Coefficients()
			for i := range h {
				if math.Abs(h[i]-h[len(h)-1-i]) > 1e-15 {
					t.Fatalf("not symmetric at %d", i)
				}
			}

			for _, hz := range tt.pass {
				if db := f.MagnitudeDB(hz); math.Abs(db) > 1 {
					t.Errorf("pass band %v Hz: %v dB", hz, db)
				}
			}
			for _, hz := range tt.stop {
				if db := f.MagnitudeDB(hz); db > -30 {
					t.Errorf("stop band %v Hz: %v dB", hz, db)
				}
			}
			for _, hz := range []float64{100, 200} {
				if db := f.MagnitudeDB(hz); math.Abs(db+6.02) > 1 {
					t.Errorf("cutoff %v Hz: %v dB, want about -6 dB", hz, db)
				}
			}
		})
	}
}

func TestKaiserBandErrors(t *testing.T) {
	tests := []struct {
		name                 string
		band                 Band
		low, high, width, fs float64
	}{
		{"not a band", Lowpass, 100, 200, 40, 1000},
		{"zero width", Bandpass, 100, 200, 0, 1000},
		{"below zero", Bandpass, 10, 200, 40, 1000},
		{"above nyquist", Bandstop, 100, 490, 40, 1000},
		{"narrow band", Bandpass, 100, 120, 40, 1000},
		{"zero rate", Bandpass, 100, 200, 40, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := KaiserBand(tt.band, tt.low, tt.high, tt.width, tt.fs, 1, 40)
			if !errors.Is(err, ErrDesign) {
				t.Fatalf("got %v", err)
			}
		})
	}
}

func TestCutoffsSingleEdge(t *testing.T) {
	f, err := Kaiser(100, 150, 1000, 1, 40)
	if err != nil {
		t.Fatal(err)
	}
	if c := f.Cutoffs(); len(c) != 1 || c[0] != 125 {
		t.Fatalf("Cutoffs() = %v, want [125]", c)
	}
}
