// Package pcm streams raw headerless linear PCM in frame sized windows and
// turns each window into signals addressable by total index.
package pcm

import(
  "encoding/binary"
  "fmt"
  "math"
  "sort"
  "strings"
)

// Format decodes one sample encoding. Each format knows its byte width and
// its own center point.
type Format interface {
  Name() string
  Bytes() int
  Amplitude(sample []byte) float64
  Encode(amplitude float64, sample []byte)
}

// Unsigned8 is 8-bit PCM centered on 128.
type Unsigned8 struct{}

func (Unsigned8) Name() string {
  return "u8"
}

func (Unsigned8) Bytes() int {
  return 1
}

func (Unsigned8) Amplitude(sample []byte) float64 {
  return float64(sample[0]) / 128.0 - 1.0
}

func (Unsigned8) Encode(amplitude float64, sample []byte) {
  sample[0] = uint8(clip(math.Round(amplitude * 128.0 + 128.0), 0, 255))
}

// Signed16LE is 16-bit little endian PCM with a full scale of ±32768.
type Signed16LE struct{}

func (Signed16LE) Name() string {
  return "s16le"
}

func (Signed16LE) Bytes() int {
  return 2
}

func (Signed16LE) Amplitude(sample []byte) float64 {
  return float64(int16(binary.LittleEndian.Uint16(sample))) / 32768.0
}

func (Signed16LE) Encode(amplitude float64, sample []byte) {
  value := int16(clip(math.Round(amplitude * 32768.0), -32768, 32767))
  binary.LittleEndian.PutUint16(sample, uint16(value))
}

func clip(value, min, max float64) float64 {
  if value < min {
    return min
  } else if value > max {
    return max
  }
  return value
}

var Formats = map[string]Format {
  "u8": Unsigned8{},
  "s16le": Signed16LE{},
}

func FormatNames() []string {
  names := make([]string, 0, len(Formats))
  for name := range Formats {
    names = append(names, name)
  }
  sort.Strings(names)
  return names
}

func FormatNamesString() string {
  return strings.Join(FormatNames(), ", ")
}

func FormatByName(name string) (Format, error) {
  format, ok := Formats[strings.ToLower(name)]
  if !ok {
    return nil, fmt.Errorf("Invalid PCM format (%s), valid options are: %s", name, FormatNamesString())
  }
  return format, nil
}

// Decode fills amplitudes from consecutive samples in data.
func Decode(format Format, data []byte, amplitudes []float64) {
  width := format.Bytes()
  for i := range amplitudes {
    amplitudes[i] = format.Amplitude(data[i * width:(i + 1) * width])
  }
}
