// Package display presents finished RGBA frames.
package display

import(
  "fmt"
  "image"
  "image/png"
  "os"
  "path/filepath"
)

// Sink accepts one RGBA8 frame of the configured display resolution. The
// frame may be reused by the caller once Present returns.
type Sink interface {
  Present(frame []byte) error
}

// PNGSink writes each frame to its own numbered PNG file.
type PNGSink struct {
  Dir string
  Width int
  Height int
  Count int
}

func NewPNGSink(dir string, width, height int) (*PNGSink, error) {
  info, err := os.Stat(dir)

  if err != nil {
    return nil, err
  }

  if !info.IsDir() {
    return nil, fmt.Errorf("%s is not a directory", dir)
  }

  return &PNGSink{Dir: dir, Width: width, Height: height}, nil
}

// Path is where frame number n is written.
func (ps *PNGSink) Path(n int) string {
  return filepath.Join(ps.Dir, fmt.Sprintf("frame_%05d.png", n))
}

func (ps *PNGSink) Present(frame []byte) error {
  if len(frame) != ps.Width * ps.Height * 4 {
    return fmt.Errorf("frame of %d bytes is not %dx%d RGBA", len(frame), ps.Width, ps.Height)
  }

  img := image.NewRGBA(image.Rect(0, 0, ps.Width, ps.Height))
  copy(img.Pix, frame)

  f, err := os.Create(ps.Path(ps.Count))

  if err != nil {
    return err
  }

  if err = png.Encode(f, img); err != nil {
    f.Close()
    return err
  }

  ps.Count++

  return f.Close()
}
