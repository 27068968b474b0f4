package background

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// Theme colours.
const (
	ColorBackground = 0x0a0a0c
	ColorAccent     = 0x00f0ff
	ColorAccent2    = 0x4fc3f7
	ColorMid        = 0x20a8c9
	ColorMuted      = 0x9dc9d9
)

// Palette lists the theme colours, background first.
var Palette = []int{ColorBackground, ColorAccent, ColorAccent2, ColorMid, ColorMuted}

const (
	repelRadius   = 25.0
	repelStrength = 0.08
	springK       = 0.015
	damping       = 0.90
	maxGlowMix    = 0.9
)

// Config sizes a ParticleField.
type Config struct {
	Particles int
	Lines     int
	Size      float64
	Seed      uint64
}

// DefaultConfig is the home screen field.
func DefaultConfig() Config {
	return Config{Particles: 8000, Lines: 20, Size: 100, Seed: 1}
}

type particle struct {
	homeX, homeY float64
	x, y         float64
	vx, vy       float64
	highlight    int
	glow         float64
}

type line struct {
	x, y, length, speed float64
}

// ParticleField is a seeded 2D particle cloud. Particles are pushed away
// from the pointer, spring back to their home positions and lose 10% of
// their velocity every step. Energy lines fall and wrap around.
type ParticleField struct {
	cfg       Config
	particles []particle
	lines     []line
	elapsed   time.Duration
}

// NewParticleField lays out a field. The same config yields the same field.
func NewParticleField(cfg Config) *ParticleField {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	f := &ParticleField{cfg: cfg}

	f.particles = make([]particle, cfg.Particles)
	for i := range f.particles {
		x := (rng.Float64() - 0.5) * cfg.Size
		y := (rng.Float64() - 0.5) * cfg.Size
		f.particles[i] = particle{homeX: x, homeY: y, x: x, y: y, highlight: pickHighlight(rng.Float64())}
	}

	span := cfg.Size * 1.2
	f.lines = make([]line, cfg.Lines)
	for i := range f.lines {
		f.lines[i] = line{
			x:      (rng.Float64() - 0.5) * span,
			y:      (rng.Float64() - 0.5) * span,
			length: rng.Float64()*8 + 3,
			speed:  rng.Float64()*20 + 10,
		}
	}
	return f
}

// pickHighlight weights the accent colours 50/25/15/10.
func pickHighlight(r float64) int {
	switch {
	case r < 0.5:
		return ColorAccent
	case r < 0.75:
		return ColorAccent2
	case r < 0.9:
		return ColorMid
	default:
		return ColorMuted
	}
}

func (f *ParticleField) Step(dt time.Duration, p Pointer) {
	f.elapsed += dt

	for i := range f.particles {
		pt := &f.particles[i]
		pt.glow = 0

		if p.Active {
			dx, dy := pt.x-p.X, pt.y-p.Y
			if dist := math.Hypot(dx, dy); dist < repelRadius {
				pt.glow = 1 - dist/repelRadius
				if dist > 0 {
					force := pt.glow * repelStrength
					pt.vx += dx / dist * force
					pt.vy += dy / dist * force
				}
			}
		}

		pt.vx += (pt.homeX - pt.x) * springK
		pt.vy += (pt.homeY - pt.y) * springK
		pt.vx *= damping
		pt.vy *= damping
		pt.x += pt.vx
		pt.y += pt.vy
	}

	half := f.cfg.Size * 0.6
	for i := range f.lines {
		l := &f.lines[i]
		l.y -= l.speed * dt.Seconds()
		if l.y+l.length < -half {
			l.y = half
		}
	}
}

func (f *ParticleField) Frame() Frame {
	frame := Frame{
		Size:      f.cfg.Size,
		Elapsed:   f.elapsed.Seconds(),
		Particles: make([]Particle, len(f.particles)),
		Lines:     make([]Line, len(f.lines)),
	}
	for i, pt := range f.particles {
		frame.Particles[i] = Particle{
			X:     pt.x,
			Y:     pt.y,
			Color: hex(mix(ColorBackground, pt.highlight, pt.glow*maxGlowMix)),
			Glow:  pt.glow,
		}
	}
	for i, l := range f.lines {
		frame.Lines[i] = Line{X: l.x, Y: l.y, Length: l.length}
	}
	return frame
}

func (f *ParticleField) Describe() Descriptor {
	palette := make([]string, len(Palette))
	for i, c := range Palette {
		palette[i] = hex(c)
	}
	return Descriptor{
		Kind:      "particles",
		Seed:      f.cfg.Seed,
		Particles: f.cfg.Particles,
		Lines:     f.cfg.Lines,
		Palette:   palette,
	}
}

// mix blends two 0xRRGGBB colours; t=0 is a, t=1 is b.
func mix(a, b int, t float64) int {
	ch := func(shift uint) int {
		ca := float64((a >> shift) & 0xff)
		cb := float64((b >> shift) & 0xff)
		return int(math.Round(ca+(cb-ca)*t)) << shift
	}
	return ch(16) | ch(8) | ch(0)
}

func hex(c int) string {
	return fmt.Sprintf("#%06x", c)
}
