//go:build headless

package display

import(
  "errors"
)

var ErrHeadless = errors.New("built with the headless tag, no window available")

type Window struct {
  Width int
  Height int
  Title string
  Fullscreen bool
  RefreshRate int
  Next func(frame []byte) error
}

func NewWindow(width, height, refreshRate int, title string, next func(frame []byte) error) *Window {
  return &Window{Width: width, Height: height, Title: title, RefreshRate: refreshRate, Next: next}
}

func (w *Window) Run() error {
  return ErrHeadless
}

func (w *Window) Present(frame []byte) error {
  return ErrHeadless
}
