package cli

import(
  "flag"
  "fmt"
  "io"
  "math"
  "os"
  "path/filepath"
  "runtime"
  "strings"
  "rasterwave/pcm"
  "rasterwave/signal"
  "rasterwave/timing"
  "rasterwave/transmitter"
)

// Commands
const Play = "play"
const Render = "render"
const Scope = "scope"
const Convert = "convert"

const DefaultCarrierHz = 1700000
const DefaultToneHz = 440
const DefaultSampleRate = 44100

type Arguments struct {
  Command string
  Quiet bool
  Mode string
  Modulation string
  Carrier string
  CarrierHz uint
  Source string
  InputPath string
  FormatName string
  SampleRate uint
  InterpolationName string
  ToneHz uint
  DeviationHz uint
  Threads int
  LUT bool
  Frames int
  Row uint
  Fullscreen bool
  OutputPath string
}

// signalFlags registers the flags shared by every command that drives a
// transmitter and stores them into parsedArgs.
func signalFlags(cmd *flag.FlagSet, parsedArgs *Arguments) {
  cmd.StringVar(&parsedArgs.Mode, "m", timing.DefaultPreset, "display mode: scan timing to mimic, one of: " + timing.PresetNamesString())
  cmd.StringVar(&parsedArgs.Modulation, "mod", transmitter.AM, "modulation: am or fm")
  cmd.StringVar(&parsedArgs.Carrier, "c", transmitter.Sine, "carrier waveform: sine or square")
  cmd.UintVar(&parsedArgs.CarrierHz, "cf", DefaultCarrierHz, "carrier frequency (Hz): must be below half the dot clock")
  cmd.StringVar(&parsedArgs.InputPath, "i", "", "input file: raw headerless PCM. When omitted a tone is transmitted instead")
  cmd.StringVar(&parsedArgs.FormatName, "fmt", "u8", "PCM format: sample encoding of the input file, one of: " + pcm.FormatNamesString())
  cmd.UintVar(&parsedArgs.SampleRate, "r", DefaultSampleRate, "sample rate (Hz) of the input file")
  cmd.StringVar(&parsedArgs.InterpolationName, "interp", "nearest", "interpolation between PCM samples: nearest or linear")
  cmd.UintVar(&parsedArgs.ToneHz, "tone", DefaultToneHz, "tone frequency (Hz): used when no input file is given")
  cmd.UintVar(&parsedArgs.DeviationHz, "dev", signal.DefaultDeviation, "FM deviation (Hz): carrier swing at full scale")
  cmd.IntVar(&parsedArgs.Threads, "t", runtime.NumCPU(), "threads: number of render workers")
  cmd.BoolVar(&parsedArgs.LUT, "lut", false, "lookup table flag: evaluate the sine carrier through a table")
  cmd.BoolVar(&parsedArgs.Quiet, "q", false, "quiet flag: suppress informational output")
}

func usage(version string) error {
  header := "usage: rasterwave <command> <args>"
  if len(version) > 0 {
    header = fmt.Sprintf("rasterwave %s\n\n%s", version, header)
  }

  return fmt.Errorf("%s\n\nAvailable Commands:\n\n    play      transmit into a window\n    render    render frames to PNG files\n    scope     chart one scanline to an HTML file\n    convert   convert a WAVE or AIFF file to raw PCM\n\nFor specific command options:\n\nrasterwave <command> -h\n\n", header)
}

func missing(flagName, description, command string) error {
  return fmt.Errorf("Required argument missing:\n\n-%s <%s> is required, for help:\n\nrasterwave %s -h\n\n", flagName, description, command)
}

// ParseFlags parses os.Args style arguments: args[0] is the program and
// args[1] the command.
func ParseFlags(args []string, version string) (*Arguments, error) {
  return parseFlags(args, version, os.Stderr)
}

func parseFlags(args []string, version string, output io.Writer) (*Arguments, error) {
  if len(args) < 2 {
    return nil, usage(version)
  }

  parsedArgs := &Arguments{Command: args[1]}

  cmd := flag.NewFlagSet(args[1], flag.ContinueOnError)
  cmd.SetOutput(output)

  switch parsedArgs.Command {
  case Play:
    signalFlags(cmd, parsedArgs)
    cmd.BoolVar(&parsedArgs.Fullscreen, "fs", false, "fullscreen flag: start the window fullscreen")
  case Render:
    signalFlags(cmd, parsedArgs)
    cmd.IntVar(&parsedArgs.Frames, "n", 60, "frames: number of frames to render")
    cmd.StringVar(&parsedArgs.OutputPath, "o", "", "output directory: PNG frames are written here and overwritten if they exist")
  case Scope:
    signalFlags(cmd, parsedArgs)
    cmd.IntVar(&parsedArgs.Frames, "n", 0, "frame: number of frames to skip before charting")
    cmd.UintVar(&parsedArgs.Row, "row", 0, "row: visible scanline to chart")
    cmd.StringVar(&parsedArgs.OutputPath, "o", "", "output file: path to write the HTML chart. It will be overwritten if it exists")
  case Convert:
    cmd.StringVar(&parsedArgs.InputPath, "i", "", "input file: path to input WAVE or AIFF")
    cmd.StringVar(&parsedArgs.FormatName, "fmt", "u8", "PCM format: sample encoding to write, one of: " + pcm.FormatNamesString())
    cmd.StringVar(&parsedArgs.OutputPath, "o", "", "output file: path to write raw PCM. It will be overwritten if it exists")
    cmd.BoolVar(&parsedArgs.Quiet, "q", false, "quiet flag: suppress informational output")
  default:
    return nil, usage(version)
  }

  if err := cmd.Parse(args[2:]); err != nil {
    return nil, err
  }

  if len(parsedArgs.InputPath) > 0 {
    parsedArgs.InputPath, _ = filepath.Abs(parsedArgs.InputPath)
  }

  switch parsedArgs.Command {
  case Render:
    if parsedArgs.Frames < 1 {
      return nil, fmt.Errorf("frames must be at least 1, got %d", parsedArgs.Frames)
    }

    if len(parsedArgs.OutputPath) == 0 {
      return nil, missing("o", "output directory", Render)
    }

    outputPath, err := parseOutputDirectory(parsedArgs.OutputPath)
    if err != nil {
      return nil, err
    }
    parsedArgs.OutputPath = outputPath
  case Scope:
    if parsedArgs.Frames < 0 {
      return nil, fmt.Errorf("frame must not be negative, got %d", parsedArgs.Frames)
    }

    if len(parsedArgs.OutputPath) == 0 {
      return nil, missing("o", "path to output file", Scope)
    }

    outputPath, err := parseOutputFilePath(parsedArgs.OutputPath, ".html")
    if err != nil {
      return nil, err
    }
    parsedArgs.OutputPath = outputPath
  case Convert:
    if len(parsedArgs.InputPath) == 0 {
      return nil, missing("i", "path to input file", Convert)
    }

    if _, err := pcm.FormatByName(parsedArgs.FormatName); err != nil {
      return nil, err
    }

    if len(parsedArgs.OutputPath) == 0 {
      return nil, missing("o", "path to output file", Convert)
    }

    outputPath, err := parseOutputFilePath(parsedArgs.OutputPath, "." + strings.ToLower(parsedArgs.FormatName))
    if err != nil {
      return nil, err
    }
    parsedArgs.OutputPath = outputPath
  }

  return parsedArgs, nil
}

// parseOutputDirectory resolves path and requires it to be an existing directory.
func parseOutputDirectory(path string) (string, error) {
  absPath, err := filepath.Abs(path)
  if err != nil {
    return "", err
  }

  info, err := os.Stat(absPath)
  if err != nil || !info.IsDir() {
    return "", fmt.Errorf("Output directory does not exist: %s", absPath)
  }

  return absPath, nil
}

// parseOutputFilePath resolves path to a file. An existing directory gets
// "out" plus extension appended; otherwise the parent directory must exist.
func parseOutputFilePath(path string, extension string) (string, error) {
  absPath, err := filepath.Abs(path)
  if err != nil {
    return "", err
  }

  if info, err := os.Stat(absPath); err == nil && info.IsDir() {
    return filepath.Join(absPath, "out" + extension), nil
  }

  if _, err := parseOutputDirectory(filepath.Dir(absPath)); err != nil {
    return "", err
  }

  return absPath, nil
}

// toUint32 narrows a flag value, rejecting anything that would lose bits.
func toUint32(flagName string, value uint) (uint32, error) {
  if uint64(value) > math.MaxUint32 {
    return 0, fmt.Errorf("-%s %d is out of range, the maximum is %d", flagName, value, uint32(math.MaxUint32))
  }
  return uint32(value), nil
}

// Config turns the parsed signal flags into a transmitter configuration.
func (a *Arguments) Config() (transmitter.Config, error) {
  geometry, err := timing.Preset(a.Mode)
  if err != nil {
    return transmitter.Config{}, err
  }

  interpolation, ok := pcm.InterpolationNames[strings.ToLower(a.InterpolationName)]
  if !ok {
    return transmitter.Config{}, fmt.Errorf("Invalid interpolation (%s), valid options are: nearest, linear", a.InterpolationName)
  }

  carrierHz, err := toUint32("cf", a.CarrierHz)
  if err != nil {
    return transmitter.Config{}, err
  }

  toneHz, err := toUint32("tone", a.ToneHz)
  if err != nil {
    return transmitter.Config{}, err
  }

  deviationHz, err := toUint32("dev", a.DeviationHz)
  if err != nil {
    return transmitter.Config{}, err
  }

  config := transmitter.Config{
    Geometry: geometry,
    Modulation: strings.ToLower(a.Modulation),
    Carrier: strings.ToLower(a.Carrier),
    CarrierHz: carrierHz,
    Source: transmitter.SourceTone,
    ToneHz: toneHz,
    DeviationHz: deviationHz,
    Threads: a.Threads,
    LUT: a.LUT,
  }

  if len(a.InputPath) > 0 {
    format, err := pcm.FormatByName(a.FormatName)
    if err != nil {
      return transmitter.Config{}, err
    }

    sampleRate, err := toUint32("r", a.SampleRate)
    if err != nil {
      return transmitter.Config{}, err
    }

    config.Source = transmitter.SourcePCM
    config.PCMPath = a.InputPath
    config.Format = format
    config.SampleRate = sampleRate
    config.Interpolation = interpolation
  }

  return config, nil
}
