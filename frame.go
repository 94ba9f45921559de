package orbitsim

import (
	"encoding/json"
	"fmt"
	"image/color"
)

// BodyView is what a renderer needs to draw one body.
type BodyView struct {
	X      int        `json:"x"`
	Y      int        `json:"y"`
	Radius float64    `json:"radius"`
	Color  color.RGBA `json:"-"`
}

// MarshalJSON encodes the color as "#rrggbb" next to the geometry.
func (v BodyView) MarshalJSON() ([]byte, error) {
	type plain BodyView
	return json.Marshal(struct {
		plain
		Color string `json:"color"`
	}{plain(v), hexColor(v.Color)})
}

// Frame is an immutable snapshot of one tick, in display coordinates.
type Frame struct {
	Tick    uint64     `json:"tick"`
	Central BodyView   `json:"central"`
	Bodies  []BodyView `json:"bodies"`
}

// Frame snapshots the current state. Orbiting bodies go through
// AdjustCoordinates; the central body keeps its own display position.
// The returned frame shares no memory with m.
func (m *Mechanics) Frame() Frame {
	f := Frame{
		Tick: m.ticks,
		Central: BodyView{
			X:      int(m.Central.Position.X),
			Y:      int(m.Central.Position.Y),
			Radius: m.Central.Radius,
			Color:  m.Central.Color,
		},
		Bodies: make([]BodyView, len(m.Bodies)),
	}
	for i, b := range m.Bodies {
		x, y := AdjustCoordinates(b.Position)
		f.Bodies[i] = BodyView{X: x, Y: y, Radius: b.Radius, Color: b.Color}
	}
	return f
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
