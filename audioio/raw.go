package audioio

import(
  "bufio"
  "errors"
  "os"
  "rasterwave/pcm"
)

// RawWriter writes mono amplitudes as headerless PCM in the given format,
// the input the transmitter's loader consumes.
type RawWriter struct {
  Filepath string
  Format pcm.Format
  SamplesWritten int
  writer *bufio.Writer
  fileIo *os.File
  scratch []byte
}

func NewRawWriter(filePath string, format pcm.Format) (*RawWriter, error) {
  if format == nil {
    return nil, errors.New("RawWriter: format is nil")
  }

  return &RawWriter{
    Filepath: filePath,
    Format: format,
    scratch: make([]byte, format.Bytes()),
  }, nil
}

func (w *RawWriter) Create() error {
  var err error

  w.fileIo, err = os.Create(w.Filepath)

  if err != nil {
    return err
  }

  w.writer = bufio.NewWriter(w.fileIo)

  return nil
}

func (w *RawWriter) Write(amplitudes []float64) error {
  for _, amplitude := range amplitudes {
    w.Format.Encode(amplitude, w.scratch)

    if _, err := w.writer.Write(w.scratch); err != nil {
      return err
    }
  }

  w.SamplesWritten += len(amplitudes)

  return nil
}

// flushes buffered samples, then closes the file
func (w *RawWriter) Close() error {
  flushErr := w.writer.Flush()
  closeErr := w.fileIo.Close()

  if flushErr != nil {
    return flushErr
  }

  return closeErr
}
