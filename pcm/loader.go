package pcm

import(
  "bufio"
  "errors"
  "fmt"
  "io"
  "os"
  "rasterwave/timing"
)

var ErrEndOfStream = errors.New("end of PCM stream")

// Loader streams a raw PCM file one frame period at a time. Frames rarely
// start on a sample boundary, so the loader tracks where the current frame
// starts inside its first sample and strides by a whole number of samples
// that averages out to exactly SampleRate / VerticalSync.
type Loader struct {
  Path string
  Format Format
  SampleRate uint32
  Geometry timing.Geometry
  Interpolation Interpolation
  WindowLength int
  frame uint64
  remainder uint32
  window *SlidingBuffer
  raw []byte
  reader *bufio.Reader
  fileIo *os.File
}

// WindowLength is the number of samples one frame can touch. A frame
// starting late in a sample spans ceil(SampleRate / VerticalSync) + 1
// samples, counting the sample that is playing when the next frame starts.
// Linear interpolation reads one further.
func WindowLength(sampleRate uint32, verticalSync uint32) int {
  perFrame := (sampleRate + verticalSync - 1) / verticalSync
  return int(perFrame) + 2
}

func Open(path string, format Format, sampleRate uint32, geometry timing.Geometry) (*Loader, error) {
  if format == nil {
    return nil, fmt.Errorf("PCM format is required")
  }

  if sampleRate == 0 {
    return nil, fmt.Errorf("sample rate must be greater than 0")
  }

  if err := geometry.Validate(); err != nil {
    return nil, err
  }

  if uint64(sampleRate) * 2 > uint64(geometry.DotClock()) {
    return nil, fmt.Errorf("sample rate %d cannot exceed half the dot clock %d", sampleRate, geometry.DotClock())
  }

  fileIo, err := os.Open(path)

  if err != nil {
    return nil, err
  }

  windowLength := WindowLength(sampleRate, geometry.VerticalSync)

  l := &Loader{
    Path: path,
    Format: format,
    SampleRate: sampleRate,
    Geometry: geometry,
    WindowLength: windowLength,
    window: NewSlidingBuffer(windowLength),
    raw: make([]byte, windowLength * format.Bytes()),
    reader: bufio.NewReaderSize(fileIo, windowLength * format.Bytes()),
    fileIo: fileIo,
  }

  if err = l.fill(windowLength); err != nil {
    fileIo.Close()
    return nil, err
  }

  if !l.window.Full() {
    fileIo.Close()
    return nil, fmt.Errorf("PCM window holds fewer than %d samples after opening %s", windowLength, path)
  }

  return l, nil
}

// SamplesPerFrame is the nominal frame period in samples.
func (l *Loader) SamplesPerFrame() int {
  return int((l.SampleRate + l.Geometry.VerticalSync / 2) / l.Geometry.VerticalSync)
}

// stride is the number of whole samples between this frame's first sample
// and the next's.
func (l *Loader) stride() int {
  return int((l.remainder + l.SampleRate) / l.Geometry.VerticalSync)
}

// origin is the start of the frame inside its first sample, in units of
// 1/DotClock samples.
func (l *Loader) origin() uint64 {
  return uint64(l.remainder) * uint64(l.Geometry.FramePixels())
}

// fill reads and decodes samples onto the end of the window.
func (l *Loader) fill(samples int) error {
  raw := l.raw[:samples * l.Format.Bytes()]

  if _, err := io.ReadFull(l.reader, raw); err != nil {
    if err == io.EOF || err == io.ErrUnexpectedEOF {
      return fmt.Errorf("%w: %s after %d frames", ErrEndOfStream, l.Path, l.frame)
    }
    return err
  }

  decoded := make([]float64, samples, samples)
  Decode(l.Format, raw, decoded)

  return l.window.ShiftIn(decoded)
}

// NextFrame moves the window forward by one frame period and blocks until the
// window is full again.
func (l *Loader) NextFrame() error {
  stride := l.stride()

  if err := l.fill(stride); err != nil {
    return err
  }

  l.remainder = (l.remainder + l.SampleRate) % l.Geometry.VerticalSync
  l.frame++

  return nil
}

// Samples returns the current window. The returned Window is a copy and
// stays valid after later calls to NextFrame.
func (l *Loader) Samples() *Window {
  window := NewWindow(
    l.window.Snapshot(),
    l.SampleRate,
    l.Geometry.DotClock(),
    l.origin(),
  )
  window.Interpolation = l.Interpolation
  return window
}

func (l *Loader) Close() error {
  return l.fileIo.Close()
}
