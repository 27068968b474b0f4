// Package background is the decorative particle animation behind the home
// view. Nothing in navigation depends on it; a Disabled renderer can stand in
// anywhere.
package background

import "time"

// Renderer advances and exposes a decorative animation.
type Renderer interface {
	// Step advances the animation by dt with the pointer at p.
	Step(dt time.Duration, p Pointer)
	// Frame returns the current state for drawing.
	Frame() Frame
	// Describe returns the parameters a client needs to run the same
	// animation locally.
	Describe() Descriptor
}

// Pointer is the mouse or touch position in field coordinates.
type Pointer struct {
	X, Y   float64
	Active bool
}

// Particle is one drawn point. Glow in [0, 1] is how strongly it is lit by
// the pointer.
type Particle struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
	Glow  float64 `json:"glow"`
}

// Line is a falling energy line.
type Line struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Length float64 `json:"length"`
}

// Frame is a snapshot of the animation. Coordinates span
// [-Size/2, Size/2] on both axes with Y pointing up.
type Frame struct {
	Size      float64    `json:"size"`
	Elapsed   float64    `json:"elapsed"`
	Particles []Particle `json:"particles"`
	Lines     []Line     `json:"lines"`
}

// Descriptor tells a client which animation to run.
type Descriptor struct {
	Kind      string   `json:"kind"` // "particles" or "disabled"
	Seed      uint64   `json:"seed,omitempty"`
	Particles int      `json:"particles,omitempty"`
	Lines     int      `json:"lines,omitempty"`
	Palette   []string `json:"palette,omitempty"`
}

// Disabled draws nothing.
type Disabled struct{}

func (Disabled) Step(time.Duration, Pointer) {}
func (Disabled) Frame() Frame                { return Frame{} }
func (Disabled) Describe() Descriptor        { return Descriptor{Kind: "disabled"} }
