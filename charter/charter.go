// Package charter plots one scanline of rendered amplitudes as an HTML line
// chart, a software oscilloscope for the scope command.
package charter

import (
  "errors"
  "fmt"
  "os"
  "github.com/go-echarts/go-echarts/v2/charts"
  "github.com/go-echarts/go-echarts/v2/opts"
  "github.com/go-echarts/go-echarts/v2/types"
)

// Scanline is one visible row of amplitudes and where it came from.
type Scanline struct {
  Title string
  Frame uint64
  Row int
  Amplitudes []float64
}

func (s Scanline) subtitle() string {
  return fmt.Sprintf("frame %d, row %d, %d pixels", s.Frame, s.Row, len(s.Amplitudes))
}

// MakeChart renders the scanline to outputPath.
func MakeChart(scan Scanline, outputPath string) error {
  if len(scan.Amplitudes) == 0 {
    return errors.New("Scanline has no amplitudes to chart")
  }

  items := make([]opts.LineData, len(scan.Amplitudes), len(scan.Amplitudes))
  xLabels := make([]string, len(scan.Amplitudes), len(scan.Amplitudes))

  for i, amplitude := range scan.Amplitudes {
    items[i] = opts.LineData{
      Value: amplitude,
    }
    xLabels[i] = fmt.Sprint(i)
  }

  line := charts.NewLine()
  line.SetGlobalOptions(
    charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
    charts.WithTitleOpts(opts.Title{
      Title:    scan.Title,
      Subtitle: scan.subtitle(),
    }),
    charts.WithYAxisOpts(opts.YAxis{
      Min: -1,
      Max: 1,
    }),
    charts.WithDataZoomOpts(opts.DataZoom{
      Type:  "slider",
      Start: 0,
      End:   100,
    }),
  )

  line.SetXAxis(xLabels).
    AddSeries("Amplitude", items).
    SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: false}))

  f, err := os.Create(outputPath)

  if err != nil {
    return err
  }

  if err := line.Render(f); err != nil {
    f.Close()
    return fmt.Errorf("Error rendering chart: %w", err)
  }

  return f.Close()
}
