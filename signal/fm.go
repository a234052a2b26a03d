package signal

import(
  "math"
)

// DefaultDeviation is the peak frequency deviation in Hz of broadcast FM.
const DefaultDeviation = 37500

// FrequencyModulator deviates the carrier's phase by the integral of the
// information signal. The PhaseSignal already carries the deviation scale.
type FrequencyModulator struct {
  Carrier FmCarrier
  Information PhaseSignal
}

func (fm FrequencyModulator) Sample(totalIndex uint32) float64 {
  return fm.Carrier.SampleWithDeviation(totalIndex, fm.Information.SamplePhase(totalIndex))
}

// Tone is a sine used as a frequency modulation source. Its phase is the
// integral of Deviation × sin over elapsed time:
//
//   Deviation × (1 - cos(2π·phase)) / (2π·Frequency)
//
// which depends only on the sine's own phase, so it stays continuous across
// frames with the sine.
type Tone struct {
  Sine Sine
  Deviation uint32
}

func NewTone(frequency, deviation, dotClock uint32) (Tone, error) {
  sine, err := NewSine(frequency, dotClock)
  if err != nil {
    return Tone{}, err
  }
  return Tone{Sine: sine, Deviation: deviation}, nil
}

func (t Tone) Sample(totalIndex uint32) float64 {
  return t.Sine.Sample(totalIndex)
}

func (t Tone) SamplePhase(totalIndex uint32) Phase {
  if t.Sine.Frequency == 0 {
    return 0
  }

  angle := t.Sine.phase(totalIndex).Radians()
  turns := float64(t.Deviation) * (1 - math.Cos(angle)) / (twoPi * float64(t.Sine.Frequency))

  return FromFraction(turns)
}

func (t Tone) NextFrame(framePixels uint32) Tone {
  t.Sine = t.Sine.NextFrame(framePixels).(Sine)
  return t
}
