package background

// Cell is one character cell of a rasterized frame.
type Cell struct {
	Rune  rune
	Color string
}

// Rasterize projects f onto a cols x rows character grid. Lit particles win
// over dim ones; energy lines are drawn last.
func Rasterize(f Frame, cols, rows int) [][]Cell {
	grid := make([][]Cell, rows)
	glow := make([][]float64, rows)
	for r := range grid {
		grid[r] = make([]Cell, cols)
		glow[r] = make([]float64, cols)
		for c := range grid[r] {
			grid[r][c] = Cell{Rune: ' '}
			glow[r][c] = -1
		}
	}
	if cols == 0 || rows == 0 || f.Size == 0 {
		return grid
	}

	cell := func(x, y float64) (int, int, bool) {
		c := int((x/f.Size + 0.5) * float64(cols))
		r := int((0.5 - y/f.Size) * float64(rows))
		return c, r, c >= 0 && c < cols && r >= 0 && r < rows
	}

	for _, p := range f.Particles {
		c, r, ok := cell(p.X, p.Y)
		if !ok || p.Glow <= glow[r][c] {
			continue
		}
		glow[r][c] = p.Glow
		grid[r][c] = Cell{Rune: particleRune(p.Glow), Color: p.Color}
	}

	accent := hex(ColorAccent)
	for _, l := range f.Lines {
		for y := l.Y; y > l.Y-l.Length; y -= f.Size / float64(rows) {
			if c, r, ok := cell(l.X, y); ok {
				grid[r][c] = Cell{Rune: '│', Color: accent}
			}
		}
	}
	return grid
}

func particleRune(glow float64) rune {
	switch {
	case glow > 0.6:
		return '●'
	case glow > 0.2:
		return '•'
	default:
		return '·'
	}
}
