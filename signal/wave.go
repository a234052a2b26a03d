package signal

import(
  "fmt"
  "math"
)

// wave holds what Sine and Square share: an exact per pixel phase step and the
// angle the current frame starts at.
type wave struct {
  Frequency uint32
  DotClock uint32
  StartingAngle Phase
}

func newWave(frequency, dotClock uint32) (wave, error) {
  if dotClock == 0 {
    return wave{}, fmt.Errorf("dot clock must be greater than 0")
  }

  if uint64(frequency) * 2 > uint64(dotClock) {
    return wave{}, fmt.Errorf("frequency %d Hz is above the nyquist limit of a %d Hz dot clock", frequency, dotClock)
  }

  return wave{Frequency: frequency, DotClock: dotClock}, nil
}

// PhasePerPixel is the distance the wave travels in one pixel.
func (w wave) PhasePerPixel() Phase {
  return FromFraction(float64(w.Frequency) / float64(w.DotClock))
}

// phase is StartingAngle + PhasePerPixel × totalIndex, computed from the
// exact ratio so that the result repeats every DotClock pixels bit for bit.
func (w wave) phase(totalIndex uint32) Phase {
  cycles := uint64(w.Frequency) * uint64(totalIndex)
  return w.StartingAngle + FromRatio(cycles, uint64(w.DotClock))
}

func (w wave) advance(framePixels uint32) wave {
  w.StartingAngle = w.phase(framePixels)
  return w
}

type Sine struct {
  wave
  Table *SineTable
}

func NewSine(frequency, dotClock uint32) (Sine, error) {
  w, err := newWave(frequency, dotClock)
  if err != nil {
    return Sine{}, err
  }
  return Sine{wave: w}, nil
}

func (s Sine) at(phase Phase) float64 {
  if s.Table != nil {
    return s.Table.Lookup(phase)
  }
  return math.Sin(phase.Radians())
}

func (s Sine) Sample(totalIndex uint32) float64 {
  return s.at(s.phase(totalIndex))
}

func (s Sine) SampleWithDeviation(totalIndex uint32, deviation Phase) float64 {
  return s.at(s.phase(totalIndex) + deviation)
}

func (s Sine) NextFrame(framePixels uint32) Carrier {
  s.wave = s.advance(framePixels)
  return s
}

type Square struct {
  wave
}

func NewSquare(frequency, dotClock uint32) (Square, error) {
  w, err := newWave(frequency, dotClock)
  if err != nil {
    return Square{}, err
  }
  return Square{wave: w}, nil
}

func (s Square) Sample(totalIndex uint32) float64 {
  return squareOf(s.phase(totalIndex))
}

func (s Square) SampleWithDeviation(totalIndex uint32, deviation Phase) float64 {
  return squareOf(s.phase(totalIndex) + deviation)
}

func (s Square) NextFrame(framePixels uint32) Carrier {
  s.wave = s.advance(framePixels)
  return s
}
