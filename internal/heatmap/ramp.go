package heatmap

import (
	"fmt"
	"math"
	"strconv"
)

// RGBA is a colour with an alpha channel in [0, 1].
type RGBA struct {
	R, G, B uint8
	A       float64
}

// String renders the colour in CSS form, e.g. "rgba(255, 0, 0, 1)".
func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// MarshalText lets colours travel as CSS strings in JSON.
func (c RGBA) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses the CSS form written by MarshalText.
func (c *RGBA) UnmarshalText(text []byte) error {
	var r, g, b int
	var a float64
	if _, err := fmt.Sscanf(string(text), "rgba(%d, %d, %d, %g)", &r, &g, &b, &a); err != nil {
		return fmt.Errorf("parse colour %q: %w", text, err)
	}
	if r < 0 || r > 255 || g < 0 || g > 255 || b < 0 || b > 255 || a < 0 || a > 1 {
		return fmt.Errorf("parse colour %q: component out of range", text)
	}
	*c = RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: a}
	return nil
}

// Stop pins a colour at a position on a ramp.
type Stop struct {
	At    float64 `json:"at"`
	Color RGBA    `json:"color"`
}

// Ramp is an ordered list of stops with linear interpolation between them.
type Ramp []Stop

// DensityRamp colours heatmap density from transparent green to solid red.
var DensityRamp = Ramp{
	{0, RGBA{0, 200, 0, 0}},
	{0.2, RGBA{120, 0, 150, 0.6}},
	{0.4, RGBA{180, 0, 120, 0.7}},
	{0.6, RGBA{230, 80, 0, 0.8}},
	{0.8, RGBA{255, 100, 0, 0.9}},
	{1, RGBA{255, 0, 0, 1}},
}

// MarkerRamp colours the selected-city marker by precipitation in mm.
var MarkerRamp = Ramp{
	{0, RGBA{0, 200, 0, 1}},
	{0.5, RGBA{120, 0, 150, 0.6}},
	{1, RGBA{180, 0, 120, 0.7}},
	{1.5, RGBA{230, 80, 0, 0.8}},
	{2, RGBA{255, 100, 0, 0.9}},
	{2.5, RGBA{255, 0, 0, 1}},
}

// At returns the colour at x, clamped to the first and last stops.
func (r Ramp) At(x float64) RGBA {
	if len(r) == 0 {
		return RGBA{}
	}
	if x <= r[0].At {
		return r[0].Color
	}
	for i := 1; i < len(r); i++ {
		lo, hi := r[i-1], r[i]
		if x > hi.At {
			continue
		}
		t := (x - lo.At) / (hi.At - lo.At)
		return RGBA{
			R: lerp8(lo.Color.R, hi.Color.R, t),
			G: lerp8(lo.Color.G, hi.Color.G, t),
			B: lerp8(lo.Color.B, hi.Color.B, t),
			A: math.Round((lo.Color.A+(hi.Color.A-lo.Color.A)*t)*1000) / 1000,
		}
	}
	return r[len(r)-1].Color
}

// MarkerColor is the city marker colour for a precipitation reading.
func MarkerColor(precipitation float64) RGBA {
	return MarkerRamp.At(precipitation)
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}
