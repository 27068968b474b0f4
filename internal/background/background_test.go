package background

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frameTime = 16 * time.Millisecond

func smallConfig() Config {
	return Config{Particles: 200, Lines: 4, Size: 100, Seed: 42}
}

func TestParticleField_Deterministic(t *testing.T) {
	a := NewParticleField(smallConfig())
	b := NewParticleField(smallConfig())

	for range 10 {
		a.Step(frameTime, Pointer{X: 3, Y: -4, Active: true})
		b.Step(frameTime, Pointer{X: 3, Y: -4, Active: true})
	}

	if diff := cmp.Diff(a.Frame(), b.Frame()); diff != "" {
		t.Errorf("same seed produced different frames (-a +b):\n%s", diff)
	}
}

func TestParticleField_RepelsAndSpringsBack(t *testing.T) {
	f := NewParticleField(Config{Particles: 1, Size: 100, Seed: 7})
	home := f.particles[0]

	// Pointer just left of the particle pushes it right.
	pointer := Pointer{X: home.homeX - 1, Y: home.homeY, Active: true}
	f.Step(frameTime, pointer)
	pushed := f.particles[0]
	assert.Greater(t, pushed.x, home.homeX)
	assert.Greater(t, pushed.glow, 0.9)

	for range 500 {
		f.Step(frameTime, Pointer{})
	}
	settled := f.particles[0]
	assert.InDelta(t, home.homeX, settled.x, 1e-3)
	assert.InDelta(t, home.homeY, settled.y, 1e-3)
	assert.Zero(t, settled.glow)
}

func TestParticleField_GlowColour(t *testing.T) {
	f := NewParticleField(Config{Particles: 1, Size: 100, Seed: 7})
	assert.Equal(t, "#0a0a0c", f.Frame().Particles[0].Color, "unlit particles take the background colour")

	p := f.particles[0]
	f.Step(frameTime, Pointer{X: p.x, Y: p.y, Active: true})
	assert.NotEqual(t, "#0a0a0c", f.Frame().Particles[0].Color)
}

func TestParticleField_LinesWrap(t *testing.T) {
	f := NewParticleField(Config{Lines: 1, Size: 100, Seed: 3})
	for range 1000 {
		f.Step(100*time.Millisecond, Pointer{})
		l := f.Frame().Lines[0]
		require.GreaterOrEqual(t, l.Y+l.Length, -60.0-40)
		require.LessOrEqual(t, l.Y, 60.0)
	}
	assert.InDelta(t, 100.0, f.Frame().Elapsed, 1e-6)
}

func TestDescribe(t *testing.T) {
	d := NewParticleField(smallConfig()).Describe()
	assert.Equal(t, "particles", d.Kind)
	assert.Equal(t, uint64(42), d.Seed)
	assert.Equal(t, []string{"#0a0a0c", "#00f0ff", "#4fc3f7", "#20a8c9", "#9dc9d9"}, d.Palette)

	assert.Equal(t, Descriptor{Kind: "disabled"}, Disabled{}.Describe())
}

func TestDisabled(t *testing.T) {
	var r Renderer = Disabled{}
	r.Step(frameTime, Pointer{Active: true})
	assert.Empty(t, r.Frame().Particles)
}

func TestRasterize(t *testing.T) {
	frame := Frame{
		Size: 100,
		Particles: []Particle{
			{X: 0, Y: 0, Color: "#00f0ff", Glow: 1},
			{X: 0.1, Y: 0.1, Color: "#0a0a0c", Glow: 0},
			{X: 500, Y: 0},
		},
	}

	grid := Rasterize(frame, 10, 10)
	require.Len(t, grid, 10)
	require.Len(t, grid[0], 10)
	assert.Equal(t, Cell{Rune: '●', Color: "#00f0ff"}, grid[5][5], "brightest particle wins the cell")
	assert.Equal(t, ' ', grid[0][0].Rune)
}
