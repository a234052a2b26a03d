// Package transmitter owns the state that moves from frame to frame: the
// carrier's starting angle and the PCM window. Between frames it builds a new
// immutable modulator snapshot which the renderer's goroutines then share.
package transmitter

import(
  "errors"
  "fmt"
  "rasterwave/display"
  "rasterwave/pcm"
  "rasterwave/render"
  "rasterwave/signal"
  "rasterwave/timing"
)

// Modulations
const AM = "am"
const FM = "fm"

// Carriers
const Sine = "sine"
const Square = "square"

// Information sources
const SourcePCM = "pcm"
const SourceTone = "tone"

// entries in the carrier's sine lookup table when LUT is set
const sineTableSize = 8192

var ModulationNames = map[string]string {
  AM: "Amplitude Modulation",
  FM: "Frequency Modulation",
}

type Config struct {
  Geometry timing.Geometry
  Modulation string
  Carrier string
  CarrierHz uint32
  Source string
  PCMPath string
  Format pcm.Format
  SampleRate uint32
  Interpolation pcm.Interpolation
  ToneHz uint32
  DeviationHz uint32
  Threads int
  LUT bool
}

type Transmitter struct {
  Config
  renderer *render.Renderer
  carrier signal.Carrier
  tone signal.Tone
  loader *pcm.Loader
  integrator *pcm.Preintegrator
  integrated *pcm.Integrated
  snapshot signal.Signal
  frame uint64
}

func (c Config) validate() error {
  if err := c.Geometry.Validate(); err != nil {
    return err
  }

  if _, ok := ModulationNames[c.Modulation]; !ok {
    return fmt.Errorf("Modulation must be either %s or %s, got %q", AM, FM, c.Modulation)
  }

  if c.Carrier != Sine && c.Carrier != Square {
    return fmt.Errorf("Carrier must be either %s or %s, got %q", Sine, Square, c.Carrier)
  }

  if c.CarrierHz == 0 {
    return fmt.Errorf("carrier frequency must be greater than 0")
  }

  if c.Threads < 1 {
    return fmt.Errorf("threads must be at least 1, got %d", c.Threads)
  }

  switch c.Source {
  case SourcePCM:
    if len(c.PCMPath) == 0 {
      return fmt.Errorf("a PCM file is required for the %s source", SourcePCM)
    }

    if c.Format == nil {
      return fmt.Errorf("a PCM format is required, one of: %s", pcm.FormatNamesString())
    }

    if c.SampleRate == 0 {
      return fmt.Errorf("sample rate must be greater than 0")
    }

    // the integrator holds each sample flat across its pixels
    if c.Modulation == FM && c.Interpolation == pcm.Linear {
      return fmt.Errorf("%s interpolation is only available with %s, %s integrates samples as %s", pcm.Linear, AM, FM, pcm.Nearest)
    }
  case SourceTone:
    if c.ToneHz == 0 {
      return fmt.Errorf("tone frequency must be greater than 0")
    }
  default:
    return fmt.Errorf("Source must be either %s or %s, got %q", SourcePCM, SourceTone, c.Source)
  }

  return nil
}

func New(config Config) (*Transmitter, error) {
  if err := config.validate(); err != nil {
    return nil, newError(ConfigError, err)
  }

  dotClock := config.Geometry.DotClock()

  t := &Transmitter{Config: config}

  var err error

  switch config.Carrier {
  case Sine:
    var sine signal.Sine
    if sine, err = signal.NewSine(config.CarrierHz, dotClock); err != nil {
      return nil, newError(ConfigError, err)
    }

    if config.LUT {
      if sine.Table, err = signal.NewSineTable(sineTableSize); err != nil {
        return nil, newError(ConfigError, err)
      }
    }

    t.carrier = sine
  case Square:
    if t.carrier, err = signal.NewSquare(config.CarrierHz, dotClock); err != nil {
      return nil, newError(ConfigError, err)
    }
  }

  if t.renderer, err = render.NewRenderer(config.Geometry, config.Threads); err != nil {
    return nil, newError(ConfigError, err)
  }

  switch config.Source {
  case SourceTone:
    if t.tone, err = signal.NewTone(config.ToneHz, config.DeviationHz, dotClock); err != nil {
      return nil, newError(ConfigError, err)
    }
  case SourcePCM:
    if t.loader, err = pcm.Open(config.PCMPath, config.Format, config.SampleRate, config.Geometry); err != nil {
      // a file too short for one window opened fine but could not be read
      if errors.Is(err, pcm.ErrEndOfStream) {
        return nil, newError(IOError, err)
      }
      return nil, newError(ConfigError, err)
    }

    t.loader.Interpolation = config.Interpolation

    if config.Modulation == FM {
      if t.integrator, err = pcm.NewPreintegrator(config.Geometry, config.SampleRate, config.DeviationHz); err != nil {
        t.loader.Close()
        return nil, newError(ConfigError, err)
      }
    }
  }

  t.build(0)

  return t, nil
}

// build makes the snapshot for the current frame. carry is the FM deviation
// the previous frame ended on.
func (t *Transmitter) build(carry signal.Phase) {
  if t.Modulation == FM {
    var information signal.PhaseSignal = t.tone

    if t.loader != nil {
      t.integrated = t.integrator.Integrate(t.loader.Samples(), carry)
      information = t.integrated
    }

    t.snapshot = signal.FrequencyModulator{
      Carrier: t.carrier,
      Information: information,
    }
    return
  }

  var information signal.Signal = t.tone

  if t.loader != nil {
    information = t.loader.Samples()
  }

  t.snapshot = signal.AmplitudeModulator{
    Carrier: t.carrier,
    Information: information,
  }
}

// Snapshot is the modulator for the current frame.
func (t *Transmitter) Snapshot() signal.Signal {
  return t.snapshot
}

// FrameCount is the number of frames advanced so far.
func (t *Transmitter) FrameCount() uint64 {
  return t.frame
}

func (t *Transmitter) FrameSize() int {
  return t.renderer.FrameSize()
}

// Advance moves the carrier and the PCM window on by one frame and replaces
// the snapshot. It must not run while a frame is rendering.
func (t *Transmitter) Advance() error {
  framePixels := t.Geometry.FramePixels()

  var carry signal.Phase
  if t.integrated != nil {
    carry = t.integrated.FinalPhase()
  }

  if t.loader != nil {
    if err := t.loader.NextFrame(); err != nil {
      return newError(IOError, err)
    }
  }

  t.carrier = t.carrier.NextFrame(framePixels)
  if t.Source == SourceTone {
    t.tone = t.tone.NextFrame(framePixels)
  }
  t.frame++

  t.build(carry)

  return nil
}

// Frame renders the current snapshot into dst and advances.
func (t *Transmitter) Frame(dst []byte) error {
  if err := t.renderer.Render(t.snapshot, dst); err != nil {
    return newError(InternalError, err)
  }

  return t.Advance()
}

// Scanline samples one visible row of the current snapshot.
func (t *Transmitter) Scanline(row uint32) (amplitudes []float64, err error) {
  if row >= t.Geometry.VDisplay {
    return nil, newError(ConfigError, fmt.Errorf("row %d is outside the %d visible rows", row, t.Geometry.VDisplay))
  }

  defer func() {
    if recovered := recover(); recovered != nil {
      amplitudes = nil
      err = newError(InternalError, fmt.Errorf("row %d: %v", row, recovered))
    }
  }()

  amplitudes = make([]float64, t.Geometry.HDisplay, t.Geometry.HDisplay)
  first := row * t.Geometry.HDisplay

  for x := range amplitudes {
    amplitudes[x] = t.snapshot.Sample(t.Geometry.TotalIndex(first + uint32(x)))
  }

  return amplitudes, nil
}

// Run renders frames into sink, reporting progress from 0-100. It finishes by
// sending on either errors or done.
func (t *Transmitter) Run(
  frames int,
  sink display.Sink,
  progress chan<- int,
  errors chan<- error,
  done chan<- bool,
) {
  buffer := make([]byte, t.FrameSize(), t.FrameSize())

  progress <- 0
  for i := 0; i < frames; i++ {
    if err := t.Frame(buffer); err != nil {
      errors <- err
      return
    }

    if err := sink.Present(buffer); err != nil {
      errors <- newError(IOError, err)
      return
    }

    progress <- int(float64(i + 1) / float64(frames) * 100.0)
  }
  done <- true
}

func (t *Transmitter) String() (output string) {
  output += fmt.Sprintf("%24s   %s\n", "Modulation:", ModulationNames[t.Modulation])
  output += fmt.Sprintf("%24s   %s %d Hz", "Carrier:", t.Carrier, t.CarrierHz)
  if t.LUT && t.Carrier == Sine {
    output += fmt.Sprintf(" (%d entry table)", sineTableSize)
  }
  output += "\n"
  output += fmt.Sprintf("%24s   %s\n", "Display Mode:", t.Geometry)
  output += fmt.Sprintf("%24s   %d Hz\n", "Dot Clock:", t.Geometry.DotClock())

  if t.loader != nil {
    output += fmt.Sprintf("%24s   %s\n", "PCM File:", t.PCMPath)
    output += fmt.Sprintf("%24s   %s\n", "PCM Format:", t.Format.Name())
    output += fmt.Sprintf("%24s   %d\n", "Sample Rate:", t.SampleRate)
    output += fmt.Sprintf("%24s   %d (%d buffered)\n", "Samples/Frame:", t.loader.SamplesPerFrame(), t.loader.WindowLength)
    output += fmt.Sprintf("%24s   %s\n", "Interpolation:", t.Interpolation)
  } else {
    output += fmt.Sprintf("%24s   %d Hz\n", "Tone:", t.ToneHz)
  }

  if t.Modulation == FM {
    output += fmt.Sprintf("%24s   %d Hz\n", "Deviation:", t.DeviationHz)
  }

  output += fmt.Sprintf("%24s   %d (%d chunks)\n", "Threads:", t.Threads, len(t.renderer.Chunks()))
  return
}

func (t *Transmitter) Close() error {
  if t.loader != nil {
    return t.loader.Close()
  }
  return nil
}
