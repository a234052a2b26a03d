package render

import(
  "math/rand"
  "testing"
  "rasterwave/signal"
  "rasterwave/timing"
  . "rasterwave/testing_utilities"
)

var smallGeometry = timing.Geometry{
  HTotal: 6,
  VTotal: 3,
  HDisplay: 4,
  VDisplay: 2,
  VerticalSync: 1,
}

// identity returns the total index scaled into [-1,1] so rendered values
// reveal which total index each pixel sampled.
type identity struct{}

func (identity) Sample(totalIndex uint32) float64 {
  return float64(totalIndex) / 127.5 - 1.0
}

type exploding struct{}

func (exploding) Sample(totalIndex uint32) float64 {
  if totalIndex == 9 {
    panic("sample index out of range")
  }
  return 0
}

func TestPartitionCoverage(t *testing.T) {
  for _, pixels := range []uint32{0, 1, 7, 8, 786432, 1000003} {
    for _, threads := range []int{1, 2, 3, 4, 7, 16, 33} {
      chunks := Partition(pixels, threads)

      next := uint32(0)
      for i, chunk := range chunks {
        Equals(t, i, chunk.Ordinal)
        Equals(t, next, chunk.Start)
        Assert(t, chunk.End >= chunk.Start, "chunk %d runs backwards", i)
        next = chunk.End
      }

      Equals(t, pixels, next)

      if pixels % uint32(threads) == 0 {
        Equals(t, threads, len(chunks))
      } else {
        Equals(t, threads + 1, len(chunks))
      }
    }
  }
}

func TestGrayscale(t *testing.T) {
  tests := map[string]struct{
    amplitude float64
    expected uint8
  }{
    "floor": { amplitude: -1.0, expected: 0 },
    "ceiling": { amplitude: 1.0, expected: 255 },
    "center rounds up": { amplitude: 0.0, expected: 128 },
    "clipped high": { amplitude: 1.5, expected: 255 },
    "clipped low": { amplitude: -1.5, expected: 0 },
  }

  for name, test := range tests {
    t.Run(name, func(t *testing.T){
      Equals(t, test.expected, Grayscale(test.amplitude))
    })
  }
}

func TestRenderMapsBlanking(t *testing.T) {
  for _, threads := range []int{1, 3, 8} {
    renderer, err := NewRenderer(smallGeometry, threads)
    Ok(t, err)

    frame := make([]byte, renderer.FrameSize())
    Ok(t, renderer.Render(identity{}, frame))

    expected := []uint8{0, 1, 2, 3, 6, 7, 8, 9}
    for i, total := range expected {
      Equals(t, []byte{total, total, total, 255}, frame[i * 4:i * 4 + 4])
    }
  }
}

func TestRenderMatchesSequentialSampling(t *testing.T) {
  geometry := timing.Presets["640x480@60"]

  carrier, err := signal.NewSine(1700000, geometry.DotClock())
  Ok(t, err)

  information, err := signal.NewSine(1000, geometry.DotClock())
  Ok(t, err)

  am := signal.AmplitudeModulator{Carrier: carrier, Information: information}

  renderer, err := NewRenderer(geometry, 7)
  Ok(t, err)

  frame := make([]byte, renderer.FrameSize())
  Ok(t, renderer.Render(am, frame))

  for visible := uint32(0); visible < geometry.VisiblePixels(); visible += 997 {
    gray := Grayscale(am.Sample(geometry.TotalIndex(visible)))
    Equals(t, gray, frame[visible * 4])
    Equals(t, byte(255), frame[visible * 4 + 3])
  }
}

func TestReassemblyIgnoresArrivalOrder(t *testing.T) {
  renderer, err := NewRenderer(smallGeometry, 3)
  Ok(t, err)

  results := []chunkResult{}
  for _, chunk := range renderer.Chunks() {
    results = append(results, renderer.renderChunk(identity{}, chunk))
  }

  ordered := make([]byte, renderer.FrameSize())
  Ok(t, compose(append([]chunkResult{}, results...), ordered))

  random := rand.New(rand.NewSource(2600))
  for i := 0; i < 20; i++ {
    shuffled := append([]chunkResult{}, results...)
    random.Shuffle(len(shuffled), func(a, b int) {
      shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
    })

    frame := make([]byte, renderer.FrameSize())
    Ok(t, compose(shuffled, frame))
    Equals(t, ordered, frame)
  }
}

func TestRenderFailsWholeFrame(t *testing.T) {
  renderer, err := NewRenderer(smallGeometry, 2)
  Ok(t, err)

  frame := make([]byte, renderer.FrameSize())
  err = renderer.Render(exploding{}, frame)
  Assert(t, err != nil, "a panicking worker should fail the frame")
  Equals(t, make([]byte, renderer.FrameSize()), frame)

  err = renderer.Render(identity{}, make([]byte, 4))
  Assert(t, err != nil, "short frame buffer should fail")
}

func TestNewRendererValidates(t *testing.T) {
  _, err := NewRenderer(smallGeometry, 0)
  Assert(t, err != nil, "zero threads should fail")

  _, err = NewRenderer(timing.Geometry{HTotal: 2, VTotal: 2, HDisplay: 4, VDisplay: 2, VerticalSync: 1}, 2)
  Assert(t, err != nil, "invalid geometry should fail")
}
