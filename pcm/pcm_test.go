package pcm

import(
  "errors"
  "os"
  "path/filepath"
  "testing"
  "rasterwave/signal"
  "rasterwave/timing"
  . "rasterwave/testing_utilities"
)

// 100 pixels per frame, 300 pixel dot clock, 20 samples per second: 6⅔
// samples per frame, so frames start part way through samples.
var testGeometry = timing.Geometry{
  HTotal: 10,
  VTotal: 10,
  HDisplay: 8,
  VDisplay: 8,
  VerticalSync: 3,
}

const testRate = 20

// writes samples 0, 1, 2, ... as u8 PCM
func writeRamp(t *testing.T, count int) string {
  t.Helper()

  data := make([]byte, count)
  for i := range data {
    data[i] = byte(i)
  }

  path := filepath.Join(t.TempDir(), "ramp.u8")
  Ok(t, os.WriteFile(path, data, 0644))

  return path
}

func rampAmplitude(n uint64) float64 {
  return float64(n) / 128.0 - 1.0
}

func TestFormats(t *testing.T) {
  tests := map[string]struct{
    format Format
    sample []byte
    expected float64
  }{
    "u8 center": { format: Unsigned8{}, sample: []byte{128}, expected: 0.0 },
    "u8 floor": { format: Unsigned8{}, sample: []byte{0}, expected: -1.0 },
    "u8 top": { format: Unsigned8{}, sample: []byte{255}, expected: 127.0 / 128.0 },
    "s16le zero": { format: Signed16LE{}, sample: []byte{0, 0}, expected: 0.0 },
    "s16le floor": { format: Signed16LE{}, sample: []byte{0x00, 0x80}, expected: -1.0 },
    "s16le half": { format: Signed16LE{}, sample: []byte{0x00, 0x40}, expected: 0.5 },
    "s16le minus one": { format: Signed16LE{}, sample: []byte{0xff, 0xff}, expected: -1.0 / 32768.0 },
  }

  for name, test := range tests {
    t.Run(name, func(t *testing.T){
      Equals(t, len(test.sample), test.format.Bytes())
      Equals(t, test.expected, test.format.Amplitude(test.sample))

      encoded := make([]byte, test.format.Bytes())
      test.format.Encode(test.expected, encoded)
      Equals(t, test.sample, encoded)
    })
  }
}

func TestEncodeClips(t *testing.T) {
  sample := make([]byte, 2)

  Signed16LE{}.Encode(1.0, sample)
  Equals(t, []byte{0xff, 0x7f}, sample)

  Unsigned8{}.Encode(-3.0, sample[:1])
  Equals(t, byte(0), sample[0])
}

func TestFormatByName(t *testing.T) {
  format, err := FormatByName("S16LE")
  Ok(t, err)
  Equals(t, "s16le", format.Name())

  _, err = FormatByName("f32le")
  Assert(t, err != nil, "unknown format should fail")
}

func TestSlidingBufferShiftIn(t *testing.T) {
  slidingBuffer := NewSlidingBuffer(5)

  Ok(t, slidingBuffer.ShiftIn([]float64{1.0, 2.0, 3.0}))
  Assert(t, !slidingBuffer.Full(), "buffer should not be full after 3 of 5")

  Ok(t, slidingBuffer.ShiftIn([]float64{4.0, 5.0}))
  Equals(t, []float64{1.0, 2.0, 3.0, 4.0, 5.0}, slidingBuffer.Data)
  Assert(t, slidingBuffer.Full(), "buffer should be full")

  snapshot := slidingBuffer.Snapshot()

  Ok(t, slidingBuffer.ShiftIn([]float64{50.0, 60.0}))
  Equals(t, []float64{3.0, 4.0, 5.0, 50.0, 60.0}, slidingBuffer.Data)
  Equals(t, []float64{1.0, 2.0, 3.0, 4.0, 5.0}, snapshot)

  err := slidingBuffer.ShiftIn(make([]float64, 6))
  Assert(t, err != nil, "shifting in more than the buffer holds should fail")
}

func TestWindowLength(t *testing.T) {
  Equals(t, 9, WindowLength(20, 3))
  Equals(t, 737, WindowLength(44100, 60))
  Equals(t, 370, WindowLength(22050, 60))
}

func TestLoaderFollowsAbsoluteTime(t *testing.T) {
  path := writeRamp(t, 200)

  loader, err := Open(path, Unsigned8{}, testRate, testGeometry)
  Ok(t, err)
  defer loader.Close()

  Equals(t, 7, loader.SamplesPerFrame())

  framePixels := uint64(testGeometry.FramePixels())
  dotClock := uint64(testGeometry.DotClock())

  for frame := uint64(0); frame < 12; frame++ {
    window := loader.Samples()
    Equals(t, 9, window.Len())

    for i := uint32(0); i <= testGeometry.FramePixels(); i++ {
      absolute := (frame * framePixels + uint64(i)) * testRate / dotClock
      Equals(t, rampAmplitude(absolute), window.Sample(i))
    }

    Ok(t, loader.NextFrame())
  }

  Equals(t, uint64(12), loader.frame)
}

func TestLoaderStrideAverages(t *testing.T) {
  path := writeRamp(t, 200)

  loader, err := Open(path, Unsigned8{}, testRate, testGeometry)
  Ok(t, err)
  defer loader.Close()

  strides := []int{}
  for i := 0; i < 6; i++ {
    strides = append(strides, loader.stride())
    Ok(t, loader.NextFrame())
  }

  Equals(t, []int{6, 7, 7, 6, 7, 7}, strides)
}

func TestLinearInterpolation(t *testing.T) {
  window := NewWindow([]float64{0.0, 1.0, -1.0, 0.0}, testRate, testGeometry.DotClock(), 0)

  // one sample lasts 15 pixels
  Equals(t, 0.0, window.Sample(5))

  window.Interpolation = Linear
  Equals(t, 1.0, window.Sample(15))
  Near(t, 1.0 / 3.0, window.Sample(5), 1e-12)
  Near(t, 1.0 / 15.0, window.Sample(22), 1e-12)
}

func TestWindowSampleRateComesFromFormat(t *testing.T) {
  window := NewWindow([]float64{0.0, 1.0, -1.0, 0.0}, testRate, testGeometry.DotClock(), 0)
  Equals(t, uint32(testRate), window.SampleRate())

  index, _ := window.Position(15)
  Equals(t, 1, index)

  // twice the rate, so pixel 15 is two samples in
  window.Buffer.Format.SampleRate = testRate * 2
  Equals(t, uint32(testRate * 2), window.SampleRate())

  index, _ = window.Position(15)
  Equals(t, 2, index)
}

func TestWindowPanicsPastEnd(t *testing.T) {
  window := NewWindow([]float64{0.0, 1.0}, testRate, testGeometry.DotClock(), 0)

  defer func() {
    Assert(t, recover() != nil, "sampling past the window should panic")
  }()

  window.Sample(30)
}

func TestLoaderEndOfStream(t *testing.T) {
  // a full first window and one more stride of 6
  path := writeRamp(t, 15)

  loader, err := Open(path, Unsigned8{}, testRate, testGeometry)
  Ok(t, err)
  defer loader.Close()

  Ok(t, loader.NextFrame())

  err = loader.NextFrame()
  Assert(t, errors.Is(err, ErrEndOfStream), "expected end of stream, got %v", err)
}

func TestOpenErrors(t *testing.T) {
  short := writeRamp(t, 5)

  _, err := Open(short, Unsigned8{}, testRate, testGeometry)
  Assert(t, errors.Is(err, ErrEndOfStream), "short first window should be end of stream, got %v", err)

  _, err = Open(filepath.Join(t.TempDir(), "missing.raw"), Unsigned8{}, testRate, testGeometry)
  Assert(t, errors.Is(err, os.ErrNotExist), "missing file should not exist, got %v", err)

  _, err = Open(short, nil, testRate, testGeometry)
  Assert(t, err != nil, "nil format should fail")

  _, err = Open(short, Unsigned8{}, 1000, testGeometry)
  Assert(t, err != nil, "sample rate above half the dot clock should fail")

  // doubling this rate wraps to 32 in 32 bits
  _, err = Open(short, Unsigned8{}, 0x80000010, testGeometry)
  Assert(t, err != nil, "sample rate that overflows when doubled should fail")
}

func TestLoaderSigned16(t *testing.T) {
  data := make([]byte, 2 * 20)
  for i := 0; i < 20; i++ {
    Signed16LE{}.Encode(float64(i) / 32.0, data[i * 2:])
  }

  path := filepath.Join(t.TempDir(), "ramp.s16le")
  Ok(t, os.WriteFile(path, data, 0644))

  loader, err := Open(path, Signed16LE{}, testRate, testGeometry)
  Ok(t, err)
  defer loader.Close()

  Ok(t, loader.NextFrame())
  window := loader.Samples()
  Equals(t, 6.0 / 32.0, window.Buffer.Data[0])
  Equals(t, testRate, window.Buffer.Format.SampleRate)
}

func TestStartTimes(t *testing.T) {
  integrator, err := NewPreintegrator(testGeometry, testRate, 40)
  Ok(t, err)

  // 15 pixels per sample, window starting 200/300 of the way through a sample
  Equals(t, []uint32{0, 5, 20, 35}, integrator.StartTimes(200, 4))
  Equals(t, []uint32{0, 15, 30, 45}, integrator.StartTimes(0, 4))

  // cached
  first := integrator.StartTimes(100, 9)
  second := integrator.StartTimes(100, 9)
  Assert(t, &first[0] == &second[0], "start times should be reused for the same origin")
}

func TestPreintegrationMatchesSequentialAccumulation(t *testing.T) {
  deviation := uint32(40)
  integrator, err := NewPreintegrator(testGeometry, testRate, deviation)
  Ok(t, err)

  data := []float64{0.5, -1.0, 0.25, 1.0, 0.0, -0.75, 0.9, -0.3, 0.6}
  window := NewWindow(data, testRate, testGeometry.DotClock(), 200)
  carry := signal.FromFraction(0.7)

  integrated := integrator.Integrate(window, carry)

  dotClock := float64(testGeometry.DotClock())
  phase := carry
  for i := uint32(0); i <= testGeometry.FramePixels(); i++ {
    Equals(t, phase, integrated.SamplePhase(i))

    index, _ := window.Position(i)
    phase = phase.Add(signal.FromFraction(data[index] * float64(deviation) / dotClock))
  }
}

func TestPreintegrationCarriesAcrossWindows(t *testing.T) {
  path := writeRamp(t, 200)
  deviation := uint32(75)

  loader, err := Open(path, Unsigned8{}, testRate, testGeometry)
  Ok(t, err)
  defer loader.Close()

  integrator, err := NewPreintegrator(testGeometry, testRate, deviation)
  Ok(t, err)

  framePixels := uint64(testGeometry.FramePixels())
  dotClock := uint64(testGeometry.DotClock())

  // reference: one running sum over absolute pixels
  var global signal.Phase
  var carry signal.Phase

  for frame := uint64(0); frame < 6; frame++ {
    integrated := integrator.Integrate(loader.Samples(), carry)

    for i := uint32(0); i < testGeometry.FramePixels(); i++ {
      Equals(t, global, integrated.SamplePhase(i))

      absolute := (frame * framePixels + uint64(i)) * testRate / dotClock
      global = global.Add(signal.FromFraction(rampAmplitude(absolute) * float64(deviation) / float64(dotClock)))
    }

    carry = integrated.FinalPhase()
    Equals(t, global, carry)

    Ok(t, loader.NextFrame())
  }
}

func TestIntegratedIsASignal(t *testing.T) {
  integrator, err := NewPreintegrator(testGeometry, testRate, 40)
  Ok(t, err)

  window := NewWindow([]float64{0.5, -0.5, 0, 0, 0, 0, 0, 0, 0}, testRate, testGeometry.DotClock(), 0)

  var sig signal.Signal = integrator.Integrate(window, 0)
  Equals(t, 0.5, sig.Sample(0))
  Equals(t, -0.5, sig.Sample(15))
}
