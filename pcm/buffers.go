package pcm

import(
  "fmt"
)

// SlidingBuffer holds the decoded samples of the current window. New samples
// shift in from the end, pushing the oldest out of the front.
type SlidingBuffer struct {
  Data []float64
  filled int
}

func NewSlidingBuffer(length int) (buffer *SlidingBuffer) {
  buffer = &SlidingBuffer{
    Data: make([]float64, length, length),
    filled: 0,
  }

  return buffer
}

// Full reports whether every slot holds a sample that was shifted in.
func (sb *SlidingBuffer) Full() bool {
  return sb.filled == len(sb.Data)
}

func (sb *SlidingBuffer) ShiftIn(data []float64) error {
  dataLen := len(data)

  if dataLen > len(sb.Data) {
    return fmt.Errorf("Attempted to ShiftIn %d samples, but buffer can only hold %d samples", dataLen, len(sb.Data))
  }

  // shift the data over by len(data), then copy the data in
  copy(sb.Data, sb.Data[dataLen:])
  copy(sb.Data[len(sb.Data) - dataLen:], data)

  sb.filled += dataLen
  if sb.filled > len(sb.Data) {
    sb.filled = len(sb.Data)
  }

  return nil
}

// Snapshot copies the buffer so the copy can outlive later shifts.
func (sb *SlidingBuffer) Snapshot() []float64 {
  data := make([]float64, len(sb.Data), len(sb.Data))
  copy(data, sb.Data)
  return data
}
