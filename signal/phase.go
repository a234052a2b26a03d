package signal

import(
  "math"
)

// one full turn on the phase ring
const turn float64 = 1 << 32

const twoPi float64 = math.Pi * 2

// Phase is a position along a wave as a fraction of one turn. The uint32 ring
// is the turn: 0 is 0 turns and 2^32 would be exactly 1 turn, so every
// addition and multiplication wraps the way an angle does. Overflow is not an
// error.
type Phase uint32

// FromFraction maps any real number of turns, negative included, onto the
// ring. The fractional part is rounded to the nearest ring value.
func FromFraction(f float64) Phase {
  frac := f - math.Floor(f)

  // a fraction just under 1 can round up to 2^32, which wraps to 0
  return Phase(uint32(uint64(math.Round(frac * turn))))
}

// FromRatio maps the exact fraction (numerator mod denominator) / denominator
// onto the ring.
func FromRatio(numerator, denominator uint64) Phase {
  numerator %= denominator

  // numerator < denominator so this cannot leave the ring. numerator << 32
  // overflows for denominators above 2^32 so fall back to floats there.
  if denominator <= 1 << 32 {
    return Phase(uint32(((numerator << 32) + denominator / 2) / denominator))
  }
  return FromFraction(float64(numerator) / float64(denominator))
}

func (p Phase) Add(other Phase) Phase {
  return p + other
}

// Scale accumulates p over n pixels.
func (p Phase) Scale(n uint32) Phase {
  return p * Phase(n)
}

// Float returns the phase in turns, in [0,1).
func (p Phase) Float() float64 {
  return float64(p) / turn
}

// Radians returns the phase as an angle in [0,2π).
func (p Phase) Radians() float64 {
  return twoPi * p.Float()
}
