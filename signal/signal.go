// Package signal synthesizes carrier and information waveforms at pixel
// resolution. Every signal is addressed by total index: a pixel's position
// within one frame including the blanking intervals.
package signal

// Signal produces an amplitude in [-1,1] for a total index. Implementations
// are immutable values and safe to sample from any number of goroutines.
type Signal interface {
  Sample(totalIndex uint32) float64
}

// FmCarrier is a Signal that can be phase deviated before evaluation.
type FmCarrier interface {
  Signal
  SampleWithDeviation(totalIndex uint32, deviation Phase) float64
}

// PhaseSignal produces a phase deviation rather than an amplitude. These are
// the information sources of frequency modulation.
type PhaseSignal interface {
  SamplePhase(totalIndex uint32) Phase
}

// Carrier is an FmCarrier that can be carried over to the next frame.
type Carrier interface {
  FmCarrier
  NextFrame(framePixels uint32) Carrier
}

func squareOf(phase Phase) float64 {
  if phase < 1 << 31 {
    return 1.0
  }
  return -1.0
}
