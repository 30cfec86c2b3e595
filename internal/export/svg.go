// Package export writes run traces in formats other tools can open.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/fuzzypend/internal/analysis"
)

var ErrTooFewPoints = errors.New("export: need at least two points")

const (
	background = "#0a0a0a"
	axisColor  = "#444466"
	textColor  = "#aaaaaa"
)

// PhaseSVG draws the portrait as a single polyline with the θ = 0 and
// ω = 0 axes when they fall inside the padded bounds.
func PhaseSVG(w io.Writer, portrait *analysis.PhasePortrait2D, width, height int, stroke string) error {
	if portrait == nil || len(portrait.Points) < 2 {
		return ErrTooFewPoints
	}
	points := portrait.Points

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	px := func(x float64) float64 { return (x - minX) / rangeX * float64(width) }
	py := func(y float64) float64 { return float64(height) - (y-minY)/rangeY*float64(height) }

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	if minX <= 0 && maxX >= 0 {
		fmt.Fprintf(bw, `<line x1="%.1f" y1="0" x2="%.1f" y2="%d" stroke="%s"/>`+"\n", px(0), px(0), height, axisColor)
	}
	if minY <= 0 && maxY >= 0 {
		fmt.Fprintf(bw, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="%s"/>`+"\n", py(0), width, py(0), axisColor)
	}

	fmt.Fprintf(bw, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke)
	for i, p := range points {
		if i == 0 {
			fmt.Fprintf(bw, "%.1f,%.1f", px(p.X), py(p.Y))
		} else {
			fmt.Fprintf(bw, " L%.1f,%.1f", px(p.X), py(p.Y))
		}
	}
	bw.WriteString(`"/>` + "\n")

	fmt.Fprintf(bw, `<text x="4" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>`+"\n", height-4, textColor, portrait.XLabel)
	fmt.Fprintf(bw, `<text x="4" y="14" fill="%s" font-family="monospace" font-size="12">%s</text>`+"\n", textColor, portrait.YLabel)
	bw.WriteString("</svg>\n")
	return bw.Flush()
}

// SavePhaseSVG writes PhaseSVG to path.
func SavePhaseSVG(path string, portrait *analysis.PhasePortrait2D, width, height int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create svg: %w", err)
	}
	defer f.Close()

	if err := PhaseSVG(f, portrait, width, height, "#00ff88"); err != nil {
		return err
	}
	return f.Close()
}
