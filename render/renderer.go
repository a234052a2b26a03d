// Package render draws one frame of a signal into an RGBA buffer, splitting
// the visible pixels across goroutines.
package render

import(
  "fmt"
  "math"
  "sort"
  "rasterwave/signal"
  "rasterwave/timing"
)

// Chunk is a contiguous range [Start, End) of visible pixel indexes.
type Chunk struct {
  Ordinal int
  Start uint32
  End uint32
}

func (c Chunk) Len() int {
  return int(c.End - c.Start)
}

type chunkResult struct {
  ordinal int
  grayscale []uint8
  err error
}

type Renderer struct {
  Geometry timing.Geometry
  Threads int
  chunks []Chunk
}

func NewRenderer(geometry timing.Geometry, threads int) (*Renderer, error) {
  if err := geometry.Validate(); err != nil {
    return nil, err
  }

  if threads < 1 {
    return nil, fmt.Errorf("threads must be at least 1, got %d", threads)
  }

  return &Renderer{
    Geometry: geometry,
    Threads: threads,
    chunks: Partition(geometry.VisiblePixels(), threads),
  }, nil
}

// Partition splits [0, pixels) into threads equal chunks plus a trailing
// chunk for the remainder when the division is inexact.
func Partition(pixels uint32, threads int) []Chunk {
  perThread := pixels / uint32(threads)
  chunks := make([]Chunk, 0, threads + 1)

  for i := 0; i < threads; i++ {
    start := uint32(i) * perThread
    chunks = append(chunks, Chunk{Ordinal: i, Start: start, End: start + perThread})
  }

  if pixels % uint32(threads) != 0 {
    chunks = append(chunks, Chunk{Ordinal: threads, Start: perThread * uint32(threads), End: pixels})
  }

  return chunks
}

func (r *Renderer) Chunks() []Chunk {
  return r.chunks
}

// FrameSize is the length in bytes of an RGBA frame.
func (r *Renderer) FrameSize() int {
  return int(r.Geometry.VisiblePixels()) * 4
}

// Grayscale maps an amplitude in [-1,1] onto 0-255.
func Grayscale(amplitude float64) uint8 {
  value := math.Round(amplitude * 127.5 + 127.5)

  if value < 0 {
    return 0
  } else if value > 255 {
    return 255
  }
  return uint8(value)
}

// Render samples sig at every visible pixel and writes the frame. Each chunk
// runs on its own goroutine; sig is shared by all of them and must not change
// until Render returns. On error frame is left untouched.
func (r *Renderer) Render(sig signal.Signal, frame []byte) error {
  if len(frame) < r.FrameSize() {
    return fmt.Errorf("frame buffer holds %d bytes, %dx%d needs %d", len(frame), r.Geometry.HDisplay, r.Geometry.VDisplay, r.FrameSize())
  }

  results := make(chan chunkResult, len(r.chunks))

  for _, chunk := range r.chunks {
    go func(chunk Chunk) {
      results <- r.renderChunk(sig, chunk)
    }(chunk)
  }

  collected := make([]chunkResult, 0, len(r.chunks))
  for range r.chunks {
    collected = append(collected, <-results)
  }

  return compose(collected, frame)
}

func (r *Renderer) renderChunk(sig signal.Signal, chunk Chunk) (result chunkResult) {
  result.ordinal = chunk.Ordinal

  defer func() {
    if recovered := recover(); recovered != nil {
      result.grayscale = nil
      result.err = fmt.Errorf("chunk %d [%d, %d): %v", chunk.Ordinal, chunk.Start, chunk.End, recovered)
    }
  }()

  grayscale := make([]uint8, 0, chunk.Len())
  for visibleIndex := chunk.Start; visibleIndex < chunk.End; visibleIndex++ {
    totalIndex := r.Geometry.TotalIndex(visibleIndex)
    grayscale = append(grayscale, Grayscale(sig.Sample(totalIndex)))
  }

  result.grayscale = grayscale
  return result
}

// compose orders results by chunk ordinal, never by arrival, and writes each
// grayscale value into R, G and B with an opaque alpha.
func compose(results []chunkResult, frame []byte) error {
  sort.Slice(results, func(i, j int) bool {
    return results[i].ordinal < results[j].ordinal
  })

  total := 0
  for _, result := range results {
    if result.err != nil {
      return result.err
    }
    total += len(result.grayscale)
  }

  if total * 4 > len(frame) {
    return fmt.Errorf("%d rendered pixels do not fit a %d byte frame", total, len(frame))
  }

  pixel := 0
  for _, result := range results {
    for _, gray := range result.grayscale {
      frame[pixel * 4] = gray
      frame[pixel * 4 + 1] = gray
      frame[pixel * 4 + 2] = gray
      frame[pixel * 4 + 3] = 255
      pixel++
    }
  }

  return nil
}
