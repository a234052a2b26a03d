package signal

import(
  "fmt"
  "math"
  "math/bits"
)

// SineTable is a lookup table of one sine cycle. Its length is a power of two
// so the top bits of a Phase index it directly.
type SineTable struct {
  values []float64
  shift uint
}

func NewSineTable(size int) (*SineTable, error) {
  if size < 2 || size > 1 << 24 || (size & (size - 1)) != 0 {
    return nil, fmt.Errorf("sine table size must be a power of 2 between 2 and %d, got %d", 1 << 24, size)
  }

  table := &SineTable{
    values: make([]float64, size, size),
    shift: uint(32 - bits.TrailingZeros(uint(size))),
  }

  for i := 0; i < size; i++ {
    table.values[i] = math.Sin(float64(i) * twoPi / float64(size))
  }

  return table, nil
}

func (st *SineTable) Len() int {
  return len(st.values)
}

// Lookup truncates the phase to the table's resolution.
func (st *SineTable) Lookup(phase Phase) float64 {
  return st.values[uint32(phase) >> st.shift]
}
