package audioio

import(
  "fmt"
)

// Convert streams the first channel of reader into writer. Both must already
// be open. Progress goes out as 0-100, the first error ends the conversion,
// and done receives true after the last sample is written.
func Convert(reader *Reader, writer *RawWriter, progress chan<- int, errors chan<- error, done chan<- bool) {
  frames := 0
  lastPercent := -1

  for {
    amplitudes, err := reader.ReadMono()

    if err != nil {
      errors <- fmt.Errorf("Error reading %s: %w", reader.Filepath, err)
      return
    }

    if len(amplitudes) == 0 {
      break
    }

    if err := writer.Write(amplitudes); err != nil {
      errors <- fmt.Errorf("Error writing %s: %w", writer.Filepath, err)
      return
    }

    frames += len(amplitudes)

    if reader.NumSampleFrames > 0 {
      percent := frames * 100 / reader.NumSampleFrames

      if percent > 100 {
        percent = 100
      }

      if percent != lastPercent {
        progress <- percent
        lastPercent = percent
      }
    }
  }

  if lastPercent != 100 {
    progress <- 100
  }

  done <- true
}
