package orbitsim

import (
	"fmt"
	"strings"
)

// SVG plot constants
const (
	backgroundColor     = "#646464" // same grey the window shell clears to
	foregroundColor     = "white"
	secondaryColor      = "lightgray"
	gridLineStrokeWidth = "0.5"
	pathStrokeWidth     = "2"
	pointRadius         = 4.0
	labelOffsetPoints   = 8.0
	labelFontSize       = 12
)

// GenerateTrajectorySVG draws the path of every body across frames on a
// canvas the size of display: the central body as a filled circle, one
// polyline per body in its color, and markers at the first and last frame.
func GenerateTrajectorySVG(frames []Frame, display Display) string {
	w, h := display.Width, display.Height
	if len(frames) < 2 {
		return fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg"><rect width="100%%" height="100%%" fill="%s"/><text x="50" y="50" fill="%s">Not enough frames for a trajectory plot.</text></svg>`, w, h, backgroundColor, foregroundColor)
	}

	var svgBuilder strings.Builder
	svgBuilder.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, w, h))
	svgBuilder.WriteString(fmt.Sprintf(`<rect width="100%%" height="100%%" fill="%s"/>`, backgroundColor))

	// Orbit-plane axes, shifted like the bodies
	svgBuilder.WriteString(fmt.Sprintf(`<line x1="0" y1="%f" x2="%d" y2="%f" stroke="%s" stroke-width="%s" stroke-dasharray="4,4"/>`, DisplayOffset, w, DisplayOffset, secondaryColor, gridLineStrokeWidth))
	svgBuilder.WriteString(fmt.Sprintf(`<line x1="%f" y1="0" x2="%f" y2="%d" stroke="%s" stroke-width="%s" stroke-dasharray="4,4"/>`, DisplayOffset, DisplayOffset, h, secondaryColor, gridLineStrokeWidth))

	first, last := frames[0], frames[len(frames)-1]

	c := last.Central
	svgBuilder.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="%f" fill="%s"/>`, c.X, c.Y, c.Radius, hexColor(c.Color)))

	for i := range first.Bodies {
		var points strings.Builder
		for _, f := range frames {
			if i >= len(f.Bodies) {
				continue
			}
			fmt.Fprintf(&points, "%d,%d ", f.Bodies[i].X, f.Bodies[i].Y)
		}
		svgBuilder.WriteString(fmt.Sprintf(`<polyline points="%s" fill="none" stroke="%s" stroke-width="%s"/>`, strings.TrimSpace(points.String()), hexColor(first.Bodies[i].Color), pathStrokeWidth))
	}

	// Mark start and end of every path
	for i, b := range first.Bodies {
		svgBuilder.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="%f" fill="darkblue" stroke="black" stroke-width="0.5"/>`, b.X, b.Y, pointRadius))
		svgBuilder.WriteString(fmt.Sprintf(`<text x="%d" y="%f" fill="%s" font-size="%d" text-anchor="middle" dominant-baseline="text-after-edge">%d</text>`, b.X, float64(b.Y)-labelOffsetPoints, foregroundColor, labelFontSize, i))
	}
	for _, b := range last.Bodies {
		svgBuilder.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="%f" fill="darkred" stroke="black" stroke-width="0.5"/>`, b.X, b.Y, pointRadius))
	}
	svgBuilder.WriteString(fmt.Sprintf(`<text x="10" y="%d" fill="%s" font-size="%d">ticks %d-%d</text>`, h-10, foregroundColor, labelFontSize, first.Tick, last.Tick))

	svgBuilder.WriteString(`</svg>`)
	return svgBuilder.String()
}
