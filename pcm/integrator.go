package pcm

import(
  "fmt"
  "rasterwave/signal"
  "rasterwave/timing"
)

// IntegratedSample is a decoded sample together with the carrier phase
// deviation accumulated before it started.
type IntegratedSample struct {
  Amplitude float64
  // deviation at Start, the sum of every earlier sample's contribution
  CumPhase signal.Phase
  // deviation added per pixel while this sample plays
  Step signal.Phase
  // total index at which this sample starts playing
  Start uint32
}

// Preintegrator turns a window of samples into a PhaseSignal whose value at
// any pixel can be computed without visiting the pixels before it. The
// sequential pass runs once per window, never per pixel.
type Preintegrator struct {
  Geometry timing.Geometry
  SampleRate uint32
  // peak frequency deviation in Hz at full scale amplitude
  Deviation uint32
  startTimes map[uint64][]uint32
}

func NewPreintegrator(geometry timing.Geometry, sampleRate, deviation uint32) (*Preintegrator, error) {
  if err := geometry.Validate(); err != nil {
    return nil, err
  }

  if sampleRate == 0 {
    return nil, fmt.Errorf("sample rate must be greater than 0")
  }

  return &Preintegrator{
    Geometry: geometry,
    SampleRate: sampleRate,
    Deviation: deviation,
    startTimes: map[uint64][]uint32{},
  }, nil
}

// StartTimes returns the total index at which each of count samples starts
// for a window beginning at origin. They depend only on the dot clock to
// sample rate ratio and the origin, of which there are at most VerticalSync,
// so they are cached across windows.
func (p *Preintegrator) StartTimes(origin uint64, count int) []uint32 {
  if cached, ok := p.startTimes[origin]; ok && len(cached) >= count {
    return cached[:count]
  }

  dotClock := uint64(p.Geometry.DotClock())
  rate := uint64(p.SampleRate)

  starts := make([]uint32, count, count)
  for k := 1; k < count; k++ {
    // first pixel whose sample position reaches k
    ticks := uint64(k) * dotClock - origin
    starts[k] = uint32((ticks + rate - 1) / rate)
  }

  p.startTimes[origin] = starts
  return starts
}

// Integrate accumulates the window's phase deviation starting from carry,
// the phase the previous window ended the frame on.
func (p *Preintegrator) Integrate(window *Window, carry signal.Phase) *Integrated {
  data := window.Buffer.Data
  starts := p.StartTimes(window.Origin(), len(data))
  dotClock := float64(p.Geometry.DotClock())

  samples := make([]IntegratedSample, len(data), len(data))

  phase := carry
  for k, amplitude := range data {
    step := signal.FromFraction(amplitude * float64(p.Deviation) / dotClock)

    samples[k] = IntegratedSample{
      Amplitude: amplitude,
      CumPhase: phase,
      Step: step,
      Start: starts[k],
    }

    if k + 1 < len(data) {
      phase = phase.Add(step.Scale(starts[k + 1] - starts[k]))
    }
  }

  return &Integrated{
    Samples: samples,
    window: window,
    framePixels: p.Geometry.FramePixels(),
  }
}

// Integrated is a preintegrated window. SamplePhase is O(1) and safe to call
// from any goroutine in any order.
type Integrated struct {
  Samples []IntegratedSample
  window *Window
  framePixels uint32
}

func (in *Integrated) SamplePhase(totalIndex uint32) signal.Phase {
  index, _ := in.window.Position(totalIndex)
  sample := &in.Samples[index]

  return sample.CumPhase.Add(sample.Step.Scale(totalIndex - sample.Start))
}

// Sample is the raw amplitude, which makes the window usable as an ordinary
// Signal as well.
func (in *Integrated) Sample(totalIndex uint32) float64 {
  return in.window.Sample(totalIndex)
}

// FinalPhase is the deviation at the first pixel of the next frame.
func (in *Integrated) FinalPhase() signal.Phase {
  return in.SamplePhase(in.framePixels)
}
