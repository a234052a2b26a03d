package transmitter

import(
  "fmt"
)

// Kind classifies an Error. Every kind is fatal to a run.
type Kind int

const (
  // ConfigError is a bad or missing setting or input file at startup.
  ConfigError Kind = iota
  // IOError is a read failure or end of stream while advancing a frame.
  IOError
  // InternalError is an index computed out of bounds: the geometry and
  // sample rate disagree.
  InternalError
)

var kindNames = map[Kind]string {
  ConfigError: "configuration error",
  IOError: "i/o error",
  InternalError: "internal error",
}

func (k Kind) String() string {
  return kindNames[k]
}

type Error struct {
  Kind Kind
  Err error
}

func newError(kind Kind, err error) error {
  if err == nil {
    return nil
  }

  // don't wrap twice
  if existing, ok := err.(*Error); ok {
    return existing
  }

  return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
  return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
  return e.Err
}
