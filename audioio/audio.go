// Package audioio reads WAVE and AIFF files and writes raw headerless PCM. It
// exists for the convert command; the transmitter itself only reads raw PCM.
package audioio

import(
  "bytes"
  "fmt"
  "math"
  "os"
  "path/filepath"
  "strings"
  "time"
  "github.com/go-audio/audio"
)

const TYPE_INVALID = -1
const TYPE_AIFF = 1
const TYPE_WAVE = 2

var TypeNames = map[int]string {
  TYPE_AIFF: "AIFF",
  TYPE_WAVE: "WAVE",
}

// satisfied by both *aiff.Decoder and *wav.Decoder
type pcmDecoder interface {
  PCMBuffer(buf *audio.IntBuffer) (int, error)
  Duration() (time.Duration, error)
}

type AudioFile struct {
  Filepath string
  NumChans int
  BitDepth int
  SampleRate int
}

// determines a filetype based on the given file extension, the file does not have to exist
func returnFileTypeFromExtension(filePath string) (int, error) {
  extension := strings.ToLower(filepath.Ext(filePath))

  switch extension {
  case ".aiff", ".aif":
    return TYPE_AIFF, nil
  case ".wave", ".wav":
    return TYPE_WAVE, nil
  }

  return TYPE_INVALID, fmt.Errorf("Invalid File Type")
}

// Reads the magic bytes of the given file and returns the file type const,
// falling back to the extension. File must exist on disk
func returnFileType(filePath string) (int, error) {
  file, err := os.Open(filePath)

  if err != nil {
    return TYPE_INVALID, err
  }

  defer file.Close()

  headerBytes := make([]byte, 12)
  if _, err := file.Read(headerBytes); err != nil {
    return TYPE_INVALID, err
  }
  magic := append(append([]byte{}, headerBytes[:4]...), headerBytes[8:]...)

  if bytes.Equal(magic, []byte("FORMAIFF")) || bytes.Equal(magic, []byte("FORMAIFC")) {
    return TYPE_AIFF, nil
  } else if bytes.Equal(magic, []byte("RIFFWAVE")) {
    return TYPE_WAVE, nil
  }

  // unrecognized header, trust the extension and let the decoder reject it
  return returnFileTypeFromExtension(filePath)
}

// normalize scales integer samples of the given bit depth into [-1,1).
// offset is subtracted first, for unsigned data.
func normalize(data []int, bitDepth int, offset int) []float64 {
  factor := math.Pow(2, float64(bitDepth - 1))
  amplitudes := make([]float64, len(data), len(data))

  for i, sample := range data {
    amplitudes[i] = float64(sample - offset) / factor
  }

  return amplitudes
}

// firstChannel copies channel 0 of numFrames frames out of an interleaved
// buffer.
func firstChannel(readBuffer *audio.IntBuffer, numChans, numFrames int) []int {
  mono := make([]int, numFrames, numFrames)

  for frame := 0; frame < numFrames; frame++ {
    mono[frame] = readBuffer.Data[frame * numChans]
  }

  return mono
}
