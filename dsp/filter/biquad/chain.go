package biquad

import "fmt"

// State is the delay-line state of a cascade, one [z0, z1] pair per
// section.
type State [][2]float64

// Clone returns a copy of st.
func (st State) Clone() State {
	return append(State(nil), st...)
}

// Scaled returns st multiplied by v. It is how steady-state initial
// conditions are matched to the first sample of a signal.
func (st State) Scaled(v float64) State {
	out := make(State, len(st))
	for i, z := range st {
		out[i] = [2]float64{z[0] * v, z[1] * v}
	}

	return out
}

// Chain is an ordered cascade of biquad sections processed in series.
// Higher-order filters are realized as chains of second-order sections,
// each feeding the next.
type Chain struct {
	sections []Section
	gain     float64
}

type chainConfig struct {
	gain float64
}

// ChainOption configures a Chain.
type ChainOption func(*chainConfig)

// WithGain sets an overall gain applied to the input before cascading.
// Default is 1.0 (unity gain).
func WithGain(g float64) ChainOption {
	return func(cfg *chainConfig) { cfg.gain = g }
}

// NewChain creates a cascade with one Section per coefficient set.
func NewChain(coeffs []Coefficients, opts ...ChainOption) *Chain {
	cfg := chainConfig{gain: 1}
	for _, o := range opts {
		o(&cfg)
	}

	c := &Chain{
		sections: make([]Section, len(coeffs)),
		gain:     cfg.gain,
	}
	for i := range coeffs {
		c.sections[i].Coefficients = coeffs[i]
	}

	return c
}

// ProcessSample cascades x through all sections in order.
func (c *Chain) ProcessSample(x float64) float64 {
	x *= c.gain
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}

	return x
}

// ProcessBlock filters buf in place through the full cascade.
func (c *Chain) ProcessBlock(buf []float64) {
	if c.gain != 1 {
		for i, x := range buf {
			buf[i] = x * c.gain
		}
	}

	for i := range c.sections {
		c.sections[i].ProcessBlock(buf)
	}
}

// Reset clears all section states.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// NumSections returns the number of sections.
func (c *Chain) NumSections() int { return len(c.sections) }

// Order returns the filter order, two per section.
func (c *Chain) Order() int { return 2 * len(c.sections) }

// Gain returns the input gain applied before cascading.
func (c *Chain) Gain() float64 { return c.gain }

// Section returns the i-th section for inspection.
func (c *Chain) Section(i int) *Section { return &c.sections[i] }

// Coefficients returns a copy of the section coefficients.
func (c *Chain) Coefficients() []Coefficients {
	out := make([]Coefficients, len(c.sections))
	for i := range c.sections {
		out[i] = c.sections[i].Coefficients
	}

	return out
}

// State returns a snapshot of all section delay lines.
func (c *Chain) State() State {
	st := make(State, len(c.sections))
	for i := range c.sections {
		st[i] = c.sections[i].State()
	}

	return st
}

// SetState restores section delay lines. st must hold one entry per
// section.
func (c *Chain) SetState(st State) error {
	if len(st) != len(c.sections) {
		return fmt.Errorf("%w: state has %d sections, chain has %d", ErrSOSShape, len(st), len(c.sections))
	}

	for i := range c.sections {
		c.sections[i].SetState(st[i])
	}

	return nil
}
