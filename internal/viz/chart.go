package viz

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/fuzzypend/internal/experiment"
)

const chartDPI = 150

var seriesColors = []color.Color{
	color.RGBA{R: 40, G: 140, B: 255, A: 255},
	color.RGBA{R: 240, G: 70, B: 70, A: 255},
	color.RGBA{R: 30, G: 170, B: 90, A: 255},
}

func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.TextStyle.Font.Size = vg.Points(11)
	p.Y.Label.TextStyle.Font.Size = vg.Points(11)
	p.X.Tick.Label.Font.Size = vg.Points(9)
	p.Y.Tick.Label.Font.Size = vg.Points(9)
	p.Add(plotter.NewGrid())
}

func linePlot(title, ylabel string, times, values []float64, c color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = ylabel
	stylePlot(p)

	pts := make(plotter.XYs, len(times))
	for i := range times {
		pts[i].X = times[i]
		pts[i].Y = values[i]
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = c
	p.Add(line)
	return p, nil
}

// chartPlots builds the angle, velocity and force panels. The angle panel
// carries a dashed reference line at 0°.
func chartPlots(h *experiment.History) ([]*plot.Plot, error) {
	if h.Len() < 2 {
		return nil, fmt.Errorf("need at least two entries to chart, have %d", h.Len())
	}

	angle, err := linePlot("Pole angle", "angle (deg)", h.Times, h.Angles, seriesColors[0])
	if err != nil {
		return nil, err
	}
	zero, err := plotter.NewLine(plotter.XYs{{X: h.Times[0], Y: 0}, {X: h.Times[h.Len()-1], Y: 0}})
	if err != nil {
		return nil, err
	}
	zero.LineStyle.Width = vg.Points(1)
	zero.LineStyle.Color = color.Gray{Y: 90}
	zero.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(4)}
	angle.Add(zero)

	velocity, err := linePlot("Angular velocity", "velocity (deg/s)", h.Times, h.Velocities, seriesColors[1])
	if err != nil {
		return nil, err
	}
	force, err := linePlot("Control force", "force (N)", h.Times, h.Forces, seriesColors[2])
	if err != nil {
		return nil, err
	}
	return []*plot.Plot{angle, velocity, force}, nil
}

// WriteChart renders the three stacked charts as PNG to w. Size is in
// inches.
func WriteChart(w io.Writer, h *experiment.History, widthIn, heightIn float64) error {
	plots, err := chartPlots(h)
	if err != nil {
		return err
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(chartDPI),
	)
	dc := draw.New(c)

	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}

	grid := make([][]*plot.Plot, len(plots))
	for i, p := range plots {
		grid[i] = []*plot.Plot{p}
	}
	canvases := plot.Align(grid, tiles, dc)
	for i := range grid {
		grid[i][0].Draw(canvases[i][0])
	}

	bw := bufio.NewWriter(w)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}

// SaveChart writes an 8x9 inch PNG of h to path, creating parent
// directories.
func SaveChart(path string, h *experiment.History) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	if err := WriteChart(f, h, 8, 9); err != nil {
		return err
	}
	return f.Close()
}
