package audioio

import(
  "errors"
  "fmt"
  "io"
  "os"
  "github.com/go-audio/aiff"
  "github.com/go-audio/audio"
  "github.com/go-audio/wav"
)

// Reader streams the first channel of a WAVE or AIFF file as amplitudes.
type Reader struct {
  AudioFile
  FileType int
  NumSampleFrames int
  Duration float64
  ReadBuffer *audio.IntBuffer
  decoder pcmDecoder
  offset int
  fileIo *os.File
}

func NewReader(filePath string) (*Reader, error) {
  fileType, err := returnFileType(filePath)

  if err != nil {
    return nil, err
  }

  return &Reader{
    AudioFile: AudioFile{Filepath: filePath},
    FileType: fileType,
  }, nil
}

// bufferLength: how many frames to read at one time
func (r *Reader) Open(bufferLength int) error {
  var err error

  r.fileIo, err = os.Open(r.Filepath)

  if err != nil {
    return err
  }

  switch r.FileType {
  case TYPE_AIFF:
    err = r.openAiff()
  case TYPE_WAVE:
    err = r.openWave()
  default:
    err = fmt.Errorf("Reader doesn't implement filetype %d", r.FileType)
  }

  if err != nil {
    r.fileIo.Close()
    return err
  }

  if err = r.checkInfo(); err != nil {
    r.fileIo.Close()
    return err
  }

  duration, err := r.decoder.Duration()

  if err != nil {
    r.fileIo.Close()
    return err
  }

  r.Duration = duration.Seconds()

  if r.NumSampleFrames == 0 {
    r.NumSampleFrames = int(r.Duration * float64(r.SampleRate))
  }

  r.ReadBuffer = &audio.IntBuffer{
    Format: &audio.Format{
      NumChannels: r.NumChans,
      SampleRate: r.SampleRate,
    },
    Data: make([]int, bufferLength * r.NumChans, bufferLength * r.NumChans),
    SourceBitDepth: r.BitDepth,
  }

  return nil
}

func (r *Reader) checkInfo() error {
  if r.NumChans == 0 {
    return errors.New("Reader: NumChans is 0")
  }

  if r.SampleRate == 0 {
    return errors.New("Reader: SampleRate is 0")
  }

  if r.BitDepth == 0 {
    return errors.New("Reader: BitDepth is 0")
  }

  return nil
}

func (r *Reader) openAiff() error {
  decoder := aiff.NewDecoder(r.fileIo)
  decoder.ReadInfo()

  if decoder.Err() != nil {
    return decoder.Err()
  }

  r.NumChans = int(decoder.NumChans)
  r.BitDepth = int(decoder.BitDepth)
  r.SampleRate = int(decoder.SampleRate)
  r.NumSampleFrames = int(decoder.NumSampleFrames)
  r.decoder = decoder

  return nil
}

func (r *Reader) openWave() error {
  decoder := wav.NewDecoder(r.fileIo)

  if !decoder.IsValidFile() {
    return errors.New("Reader: not a valid wave file")
  }

  decoder.ReadInfo()

  r.NumChans = int(decoder.NumChans)
  r.BitDepth = int(decoder.BitDepth)
  r.SampleRate = int(decoder.SampleRate)
  r.decoder = decoder

  // 8-bit WAVE data is unsigned
  if r.BitDepth == 8 {
    r.offset = 128
  }

  return nil
}

// ReadMono reads the next buffer and returns its first channel scaled into
// [-1,1). An empty slice means the file is exhausted.
func (r *Reader) ReadMono() ([]float64, error) {
  numSamples, err := r.decoder.PCMBuffer(r.ReadBuffer)

  if errors.Is(err, io.EOF) {
    return []float64{}, nil
  }

  if err != nil {
    return nil, err
  }

  numFrames := numSamples / r.NumChans

  return normalize(firstChannel(r.ReadBuffer, r.NumChans, numFrames), r.BitDepth, r.offset), nil
}

func (r *Reader) Close() {
  r.fileIo.Close()
}
