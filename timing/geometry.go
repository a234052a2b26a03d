// Package timing describes a display's scan geometry: the visible raster, the
// blanking intervals around it and the dot clock they imply.
package timing

import(
  "fmt"
  "sort"
  "strings"
)

type Geometry struct {
  HTotal uint32
  VTotal uint32
  HDisplay uint32
  VDisplay uint32
  VerticalSync uint32
}

// Presets are VESA DMT timings keyed by mode name.
var Presets = map[string]Geometry {
  "640x480@60": { HTotal: 800, VTotal: 525, HDisplay: 640, VDisplay: 480, VerticalSync: 60 },
  "800x600@60": { HTotal: 1056, VTotal: 628, HDisplay: 800, VDisplay: 600, VerticalSync: 60 },
  "1024x768@60": { HTotal: 1344, VTotal: 806, HDisplay: 1024, VDisplay: 768, VerticalSync: 60 },
  "1024x768@70": { HTotal: 1328, VTotal: 806, HDisplay: 1024, VDisplay: 768, VerticalSync: 70 },
  "1280x1024@60": { HTotal: 1688, VTotal: 1066, HDisplay: 1280, VDisplay: 1024, VerticalSync: 60 },
}

const DefaultPreset = "1024x768@60"

func PresetNames() []string {
  names := make([]string, 0, len(Presets))
  for name := range Presets {
    names = append(names, name)
  }
  sort.Strings(names)
  return names
}

func PresetNamesString() string {
  return strings.Join(PresetNames(), ", ")
}

func Preset(name string) (Geometry, error) {
  preset, ok := Presets[name]
  if !ok {
    return Geometry{}, fmt.Errorf("Unknown display mode (%s), valid options are: %s", name, PresetNamesString())
  }
  return NewGeometry(preset.HTotal, preset.VTotal, preset.HDisplay, preset.VDisplay, preset.VerticalSync)
}

func NewGeometry(hTotal, vTotal, hDisplay, vDisplay, verticalSync uint32) (Geometry, error) {
  geometry := Geometry{
    HTotal: hTotal,
    VTotal: vTotal,
    HDisplay: hDisplay,
    VDisplay: vDisplay,
    VerticalSync: verticalSync,
  }
  return geometry, geometry.Validate()
}

func (g Geometry) Validate() error {
  if g.HDisplay == 0 || g.VDisplay == 0 || g.VerticalSync == 0 {
    return fmt.Errorf("display size and vertical sync must be greater than 0, got %dx%d@%d", g.HDisplay, g.VDisplay, g.VerticalSync)
  }

  if g.HDisplay > g.HTotal {
    return fmt.Errorf("horizontal display %d cannot exceed horizontal total %d", g.HDisplay, g.HTotal)
  }

  if g.VDisplay > g.VTotal {
    return fmt.Errorf("vertical display %d cannot exceed vertical total %d", g.VDisplay, g.VTotal)
  }

  if uint64(g.HTotal) * uint64(g.VTotal) * uint64(g.VerticalSync) > 0xffffffff {
    return fmt.Errorf("dot clock of %dx%d@%d does not fit in 32 bits", g.HTotal, g.VTotal, g.VerticalSync)
  }

  return nil
}

// DotClock is the number of pixels synthesized per second.
func (g Geometry) DotClock() uint32 {
  return g.HTotal * g.VTotal * g.VerticalSync
}

// FramePixels is the number of pixels in one frame, blanking included.
func (g Geometry) FramePixels() uint32 {
  return g.HTotal * g.VTotal
}

func (g Geometry) VisiblePixels() uint32 {
  return g.HDisplay * g.VDisplay
}

// TotalIndex maps a visible pixel to its position in total timing. Integer
// division counts the completed rows, each of which skips one horizontal
// blank, and the completed frames, each of which skips the vertical blank.
func (g Geometry) TotalIndex(visibleIndex uint32) uint32 {
  return visibleIndex +
    (visibleIndex / g.HDisplay) * (g.HTotal - g.HDisplay) +
    (visibleIndex / g.VisiblePixels()) * g.HTotal * (g.VTotal - g.VDisplay)
}

func (g Geometry) String() string {
  return fmt.Sprintf("%dx%d@%d (%dx%d total)", g.HDisplay, g.VDisplay, g.VerticalSync, g.HTotal, g.VTotal)
}
