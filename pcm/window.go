package pcm

import(
  "fmt"
  "github.com/go-audio/audio"
)

type Interpolation int

const (
  Nearest Interpolation = iota
  Linear
)

var InterpolationNames = map[string]Interpolation {
  "nearest": Nearest,
  "linear": Linear,
}

func (i Interpolation) String() string {
  if i == Linear {
    return "linear"
  }
  return "nearest"
}

// Window is one frame's worth of decoded samples, addressed by total index.
// It is never modified after the loader hands it out.
type Window struct {
  Buffer *audio.FloatBuffer
  Interpolation Interpolation
  dotClock uint64
  origin uint64
}

func NewWindow(data []float64, sampleRate, dotClock uint32, origin uint64) *Window {
  return &Window{
    Buffer: &audio.FloatBuffer{
      Format: &audio.Format{
        NumChannels: 1,
        SampleRate: int(sampleRate),
      },
      Data: data,
    },
    dotClock: uint64(dotClock),
    origin: origin,
  }
}

func (w *Window) Len() int {
  return len(w.Buffer.Data)
}

// SampleRate is read from the buffer's format.
func (w *Window) SampleRate() uint32 {
  return uint32(w.Buffer.Format.SampleRate)
}

// Origin is where the frame starts inside the first sample, in units of
// 1/DotClock samples.
func (w *Window) Origin() uint64 {
  return w.origin
}

// Position returns the sample playing at totalIndex and how far into that
// sample the pixel falls, in [0,1).
func (w *Window) Position(totalIndex uint32) (index int, fraction float64) {
  ticks := w.origin + uint64(totalIndex) * uint64(w.SampleRate())
  index = int(ticks / w.dotClock)

  if index >= len(w.Buffer.Data) {
    panic(fmt.Sprintf("pcm: total index %d needs sample %d of a %d sample window", totalIndex, index, len(w.Buffer.Data)))
  }

  return index, float64(ticks % w.dotClock) / float64(w.dotClock)
}

func (w *Window) Sample(totalIndex uint32) float64 {
  index, fraction := w.Position(totalIndex)
  sample := w.Buffer.Data[index]

  if w.Interpolation == Nearest || fraction == 0 {
    return sample
  }

  if index + 1 >= len(w.Buffer.Data) {
    panic(fmt.Sprintf("pcm: linear interpolation at total index %d runs past a %d sample window", totalIndex, len(w.Buffer.Data)))
  }

  return (1.0 - fraction) * sample + fraction * w.Buffer.Data[index + 1]
}
