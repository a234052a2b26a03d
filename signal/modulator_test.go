package signal

import(
  "math"
  "testing"
  . "rasterwave/testing_utilities"
)

// constant is a fixed level information signal.
type constant float64

func (c constant) Sample(totalIndex uint32) float64 {
  return float64(c)
}

// ramp is a PhaseSignal growing by step every pixel.
type ramp Phase

func (r ramp) SamplePhase(totalIndex uint32) Phase {
  return Phase(r).Scale(totalIndex)
}

func TestAmplitudeModulatorEnvelope(t *testing.T) {
  carrier, err := NewSine(1000, testDotClock)
  Ok(t, err)

  silent := AmplitudeModulator{Carrier: carrier, Information: constant(-1.0)}
  full := AmplitudeModulator{Carrier: carrier, Information: constant(1.0)}
  half := AmplitudeModulator{Carrier: carrier, Information: constant(0.0)}

  Equals(t, 0.0, silent.Sample(25))
  Near(t, 1.0, full.Sample(25), 1e-9)
  Near(t, 0.5, half.Sample(25), 1e-9)
}

func TestAmplitudeModulatorRange(t *testing.T) {
  carrier, err := NewSquare(1000, testDotClock)
  Ok(t, err)

  information, err := NewSine(7, testDotClock)
  Ok(t, err)

  am := AmplitudeModulator{Carrier: carrier, Information: information}

  for i := uint32(0); i < testDotClock; i += 7 {
    sample := am.Sample(i)
    Assert(t, sample >= -1.0 && sample <= 1.0, "AM sample %f at %d out of range", sample, i)
  }
}

func TestFrequencyModulator(t *testing.T) {
  carrier, err := NewSine(1000, testDotClock)
  Ok(t, err)

  fm := FrequencyModulator{
    Carrier: carrier,
    Information: ramp(FromFraction(0.01)),
  }

  // the ramp doubles the carrier's speed so pixel 25 lands on half a turn
  Near(t, math.Sin(twoPi * 0.5), fm.Sample(25), 1e-6)
  Near(t, carrier.SampleWithDeviation(40, FromFraction(0.4)), fm.Sample(40), 1e-8)
}

func TestToneIsIntegralOfSine(t *testing.T) {
  tone, err := NewTone(1000, 37500, testDotClock)
  Ok(t, err)

  Equals(t, Phase(0), tone.SamplePhase(0))

  // half a cycle of sine integrates to 2 × deviation / (2π × frequency)
  expected := 2.0 * 37500 / (twoPi * 1000)
  Near(t, expected - math.Floor(expected), tone.SamplePhase(50).Float(), 1e-6)

  next := tone.NextFrame(30)
  Equals(t, tone.SamplePhase(30), next.SamplePhase(0))
}
