//go:build !headless

package display

import(
  "errors"
  "github.com/hajimehoshi/ebiten/v2"
  "github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Window presents frames in an ebiten window. Every game tick is a redraw
// request: Update asks Next for a frame and Draw puts it on screen.
// Escape quits and F toggles fullscreen.
type Window struct {
  Width int
  Height int
  Title string
  Fullscreen bool
  RefreshRate int
  Next func(frame []byte) error
  scratch []byte
  frame []byte
}

func NewWindow(width, height, refreshRate int, title string, next func(frame []byte) error) *Window {
  return &Window{
    Width: width,
    Height: height,
    Title: title,
    RefreshRate: refreshRate,
    Next: next,
    scratch: make([]byte, width * height * 4),
    frame: make([]byte, width * height * 4),
  }
}

// Run blocks until the window is closed or Next fails.
func (w *Window) Run() error {
  ebiten.SetWindowSize(w.Width, w.Height)
  ebiten.SetWindowTitle(w.Title)
  ebiten.SetWindowResizable(true)
  ebiten.SetRunnableOnUnfocused(true)
  ebiten.SetVsyncEnabled(true)
  ebiten.SetTPS(w.RefreshRate)
  ebiten.SetFullscreen(w.Fullscreen)

  err := ebiten.RunGame(w)

  if errors.Is(err, ebiten.Termination) {
    return nil
  }
  return err
}

func (w *Window) Present(frame []byte) error {
  copy(w.frame, frame)
  return nil
}

func (w *Window) Update() error {
  if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
    return ebiten.Termination
  }

  if inpututil.IsKeyJustPressed(ebiten.KeyF) {
    w.Fullscreen = !w.Fullscreen
    ebiten.SetFullscreen(w.Fullscreen)
  }

  if err := w.Next(w.scratch); err != nil {
    return err
  }

  return w.Present(w.scratch)
}

func (w *Window) Draw(screen *ebiten.Image) {
  screen.WritePixels(w.frame)
}

// Layout keeps the logical screen at the display resolution and lets ebiten
// scale it to the window.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
  return w.Width, w.Height
}
