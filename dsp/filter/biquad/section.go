package biquad

// Coefficients holds the transfer function coefficients of one second-order
// section. a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + z0
//	z0 = B1*x - A1*y + z1
//	z1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// DCGain returns the section's response at z = 1.
func (c Coefficients) DCGain() float64 {
	return (c.B0 + c.B1 + c.B2) / (1 + c.A1 + c.A2)
}

// Section is a single biquad with its two-element delay line.
type Section struct {
	Coefficients

	z0, z1 float64
}

// NewSection returns a Section with zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.z0
	s.z0 = s.B1*x - s.A1*y + s.z1
	s.z1 = s.B2*x - s.A2*y

	return y
}

// ProcessBlock filters buf in place. Zero-alloc.
//
// The loop is unrolled by two; the recurrence is identical to
// ProcessSample.
func (s *Section) ProcessBlock(buf []float64) {
	b0, b1, b2 := s.B0, s.B1, s.B2
	a1, a2 := s.A1, s.A2
	z0, z1 := s.z0, s.z1

	i := 0
	n := len(buf)

	for ; i+1 < n; i += 2 {
		x0 := buf[i]
		y0 := b0*x0 + z0
		t0 := b1*x0 - a1*y0 + z1
		t1 := b2*x0 - a2*y0

		x1 := buf[i+1]
		y1 := b0*x1 + t0
		z0 = b1*x1 - a1*y1 + t1
		z1 = b2*x1 - a2*y1

		buf[i] = y0
		buf[i+1] = y1
	}

	if i < n {
		x := buf[i]
		y := b0*x + z0
		z0 = b1*x - a1*y + z1
		z1 = b2*x - a2*y
		buf[i] = y
	}

	s.z0, s.z1 = z0, z1
}

// Reset clears the delay line.
func (s *Section) Reset() {
	s.z0, s.z1 = 0, 0
}

// State returns the delay line [z0, z1].
func (s *Section) State() [2]float64 {
	return [2]float64{s.z0, s.z1}
}

// SetState restores a delay line returned by State.
func (s *Section) SetState(state [2]float64) {
	s.z0, s.z1 = state[0], state[1]
}
