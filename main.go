package main

import (
  "fmt"
  "os"
  "rasterwave/audioio"
  "rasterwave/charter"
  "rasterwave/cli"
  "rasterwave/display"
  "rasterwave/pcm"
  "rasterwave/transmitter"
  "github.com/schollz/progressbar/v3"
  "golang.org/x/term"
)

var Version = ""

// frames read per buffer during convert
const convertBufferLength = 4096

func fail(a ...interface{}) {
  fmt.Fprintln(os.Stderr, a...)
  os.Exit(1)
}

func newProgressBar(description string) *progressbar.ProgressBar {
  return progressbar.NewOptions(
    100,
    progressbar.OptionEnableColorCodes(true),
    progressbar.OptionSetDescription(description),
    progressbar.OptionFullWidth(),
    progressbar.OptionSetTheme(progressbar.Theme{
      Saucer:        "[green]=[reset]",
      SaucerHead:    "[green]=[reset]",
      SaucerPadding: " ",
      BarStart:      "[",
      BarEnd:        "]",
    }),
  )
}

// wait drains a worker's channels until it reports done or an error. The bar
// is only drawn when stdout is a terminal.
func wait(quiet bool, description string, progress <-chan int, errors <-chan error, done <-chan bool) {
  bar := newProgressBar(description)
  showBar := !quiet && term.IsTerminal(int(os.Stdout.Fd()))

  for {
    select {
    case err := <- errors:
      fail("\n >>> Processing error:", err, " <<<\n")
    case curProgress := <-progress:
      if showBar {
        bar.Set(curProgress)
      }
    case <- done:
      if !quiet {
        fmt.Println("\n\nDone!")
      }
      return
    }
  }
}

func main() {
  // parse cli flags/arguments
  parsedArgs, err := cli.ParseFlags(os.Args, Version)

  if err != nil {
    fail(err)
  }

  if parsedArgs.Command == cli.Convert {
    convert(parsedArgs)
    return
  }

  config, err := parsedArgs.Config()

  if err != nil {
    fail(err)
  }

  tx, err := transmitter.New(config)

  if err != nil {
    fail(err)
  }

  defer tx.Close()

  if !parsedArgs.Quiet {
    fmt.Print(tx.String())
  }

  switch parsedArgs.Command {
  case cli.Play:
    err = play(tx, parsedArgs)
  case cli.Render:
    err = render(tx, parsedArgs)
  case cli.Scope:
    err = scope(tx, parsedArgs)
  }

  if err != nil {
    tx.Close()
    fail(err)
  }
}

func play(tx *transmitter.Transmitter, parsedArgs *cli.Arguments) error {
  geometry := tx.Geometry
  window := display.NewWindow(
    int(geometry.HDisplay),
    int(geometry.VDisplay),
    int(geometry.VerticalSync),
    fmt.Sprintf("rasterwave %s %s %d Hz", tx.Modulation, tx.Carrier, tx.CarrierHz),
    tx.Frame,
  )
  window.Fullscreen = parsedArgs.Fullscreen

  return window.Run()
}

func render(tx *transmitter.Transmitter, parsedArgs *cli.Arguments) error {
  sink, err := display.NewPNGSink(parsedArgs.OutputPath, int(tx.Geometry.HDisplay), int(tx.Geometry.VDisplay))

  if err != nil {
    return err
  }

  if !parsedArgs.Quiet {
    fmt.Printf("%24s   %d\n", "Frames:", parsedArgs.Frames)
    fmt.Printf("%24s   %s\n", "Output Directory:", parsedArgs.OutputPath)
  }

  // progress will be a number 0-100
  progress := make(chan int)
  errors := make(chan error)
  done := make(chan bool)

  go tx.Run(parsedArgs.Frames, sink, progress, errors, done)

  wait(parsedArgs.Quiet, "rendering...", progress, errors, done)

  return nil
}

func scope(tx *transmitter.Transmitter, parsedArgs *cli.Arguments) error {
  for i := 0; i < parsedArgs.Frames; i++ {
    if err := tx.Advance(); err != nil {
      return err
    }
  }

  amplitudes, err := tx.Scanline(uint32(parsedArgs.Row))

  if err != nil {
    return err
  }

  scan := charter.Scanline{
    Title: fmt.Sprintf("%s %s %d Hz", tx.Modulation, tx.Carrier, tx.CarrierHz),
    Frame: tx.FrameCount(),
    Row: int(parsedArgs.Row),
    Amplitudes: amplitudes,
  }

  if err := charter.MakeChart(scan, parsedArgs.OutputPath); err != nil {
    return err
  }

  if !parsedArgs.Quiet {
    fmt.Printf("%24s   %s\n", "Chart:", parsedArgs.OutputPath)
  }

  return nil
}

func convert(parsedArgs *cli.Arguments) {
  // check if input file exists
  if _, err := os.Stat(parsedArgs.InputPath); err != nil {
    fail("File does not exist:", parsedArgs.InputPath)
  }

  reader, err := audioio.NewReader(parsedArgs.InputPath)

  if err != nil {
    fail(err)
  }

  if err = reader.Open(convertBufferLength); err != nil {
    fail("Could not open audio file:", parsedArgs.InputPath, err)
  }

  defer reader.Close()

  format, err := pcm.FormatByName(parsedArgs.FormatName)

  if err != nil {
    fail(err)
  }

  writer, err := audioio.NewRawWriter(parsedArgs.OutputPath, format)

  if err != nil {
    fail(err)
  }

  if err = writer.Create(); err != nil {
    fail("Could not open raw file for writing:", parsedArgs.OutputPath)
  }

  if !parsedArgs.Quiet {
    fmt.Printf("%24s   %s\n", "Input Type:", audioio.TypeNames[reader.FileType])
    fmt.Printf("%24s   %d\n", "Number of Channels:", reader.NumChans)
    fmt.Printf("%24s   %d\n", "Bit Depth:", reader.BitDepth)
    fmt.Printf("%24s   %d\n", "Sample Rate:", reader.SampleRate)
    fmt.Printf("%24s   %.2f s\n", "Input Duration:", reader.Duration)
    fmt.Printf("%24s   %s mono\n", "Output Format:", format.Name())
    fmt.Printf("%24s   -fmt %s -r %d\n", "Transmit With:", format.Name(), reader.SampleRate)
  }

  progress := make(chan int)
  errors := make(chan error)
  done := make(chan bool)

  go audioio.Convert(reader, writer, progress, errors, done)

  wait(parsedArgs.Quiet, "converting...", progress, errors, done)

  if err := writer.Close(); err != nil {
    fail("Could not finish raw file:", err)
  }
}
