package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/couchcryptid/storm-viewer/internal/background"
	"github.com/couchcryptid/storm-viewer/internal/domain"
	"github.com/couchcryptid/storm-viewer/internal/heatmap"
	"github.com/couchcryptid/storm-viewer/internal/viewer"
)

// Danger colours, ANSI 256.
var dangerColors = map[string]lipgloss.Color{
	viewer.DangerNormal:   lipgloss.Color("33"),
	viewer.DangerElevated: lipgloss.Color("208"),
	viewer.DangerSevere:   lipgloss.Color("196"),
}

const investColor = lipgloss.Color("226")

// terminalSize reports the size of w when it is a terminal.
func terminalSize(w io.Writer) (cols, rows int, ok bool) {
	f, isFile := w.(*os.File)
	if !isFile || !term.IsTerminal(int(f.Fd())) {
		return 0, 0, false
	}
	cols, rows, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, 0, false
	}
	return cols, rows, true
}

func cssHex(c heatmap.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// renderStorms draws the storm list with its counters.
func renderStorms(r *lipgloss.Renderer, storms []domain.StormRecord, date string) string {
	title := r.NewStyle().Bold(true)
	dim := r.NewStyle().Faint(true)

	var b strings.Builder
	heading := "Latest storms"
	if date != "" {
		heading = "Storms on " + domain.DisplayDate(date)
	}
	b.WriteString(title.Render(heading) + "\n")

	st := domain.SummarizeStorms(storms)
	b.WriteString(dim.Render(fmt.Sprintf("active %d  severe %d", st.Active, st.Severe)) + "\n\n")

	if len(storms) == 0 {
		b.WriteString(dim.Render("no storms") + "\n")
		return b.String()
	}

	name := r.NewStyle().Width(18)
	id := r.NewStyle().Width(11).Faint(true)
	for _, s := range storms {
		level := viewer.DangerLevel(s.Category)
		badge := r.NewStyle().Foreground(dangerColors[level]).Bold(true).Width(7).Render(fmt.Sprintf("cat %d", s.Category))
		if s.Invest {
			badge = r.NewStyle().Foreground(investColor).Bold(true).Width(7).Render("invest")
		}
		fmt.Fprintf(&b, "%s %s %s wind %-4s pressure %-5s %s\n",
			badge,
			name.Render(s.DisplayName()),
			id.Render(s.ID),
			formatNumber(s.WindSpeed),
			formatNumber(s.Pressure),
			s.Location.En,
		)
	}
	return b.String()
}

func formatNumber(v float64) string {
	if v == 0 {
		return "-"
	}
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", v), "0"), ".")
}

// renderWeather draws the city weather card.
func renderWeather(r *lipgloss.Renderer, w domain.CityWeather) string {
	marker := heatmap.MarkerColor(w.Precipitation)
	card := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cssHex(marker)).
		Padding(0, 2)

	body := fmt.Sprintf("%s, %s\n%s  %s rain\nlat %.4f  lon %.4f\nupdated %s",
		w.City, w.State,
		r.NewStyle().Foreground(cssHex(marker)).Render(w.Glyph()), w.PercentLabel(),
		w.Lat, w.Lon,
		w.UpdatedAt(),
	)
	return card.Render(body) + "\n"
}

// Density glyphs from light to heavy.
var densityRunes = []rune{'░', '▒', '▓', '█'}

// renderGrid projects the plotted heatmap features onto a cols x rows
// character map, north up. Each cell shows its wettest sample.
func renderGrid(r *lipgloss.Renderer, layer heatmap.Layer, cols, rows int) string {
	features := layer.Data.Features
	if len(features) == 0 || cols <= 0 || rows <= 0 {
		return ""
	}

	minLon, maxLon := math.Inf(1), math.Inf(-1)
	minLat, maxLat := math.Inf(1), math.Inf(-1)
	for _, f := range features {
		lon, lat := f.Geometry.Coordinates[0], f.Geometry.Coordinates[1]
		minLon, maxLon = math.Min(minLon, lon), math.Max(maxLon, lon)
		minLat, maxLat = math.Min(minLat, lat), math.Max(maxLat, lat)
	}

	cell := make([][]float64, rows)
	for i := range cell {
		cell[i] = make([]float64, cols)
		for j := range cell[i] {
			cell[i][j] = -1
		}
	}
	scale := func(v, lo, hi float64, n int) int {
		if hi == lo {
			return n / 2
		}
		return int(math.Round((v - lo) / (hi - lo) * float64(n-1)))
	}
	for _, f := range features {
		lon, lat := f.Geometry.Coordinates[0], f.Geometry.Coordinates[1]
		c := scale(lon, minLon, maxLon, cols)
		row := rows - 1 - scale(lat, minLat, maxLat, rows)
		intensity, _ := f.Properties["intensity"].(float64)
		cell[row][c] = math.Max(cell[row][c], intensity)
	}

	var b strings.Builder
	for _, line := range cell {
		for _, v := range line {
			if v < 0 {
				b.WriteByte(' ')
				continue
			}
			idx := min(int(v*float64(len(densityRunes))), len(densityRunes)-1)
			color := heatmap.DensityRamp.At(v)
			b.WriteString(r.NewStyle().Foreground(cssHex(color)).Render(string(densityRunes[idx])))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// renderFrame draws a rasterized particle frame.
func renderFrame(r *lipgloss.Renderer, grid [][]background.Cell) string {
	var b strings.Builder
	styles := map[string]lipgloss.Style{}
	for _, line := range grid {
		for _, c := range line {
			if c.Color == "" {
				b.WriteRune(c.Rune)
				continue
			}
			st, ok := styles[c.Color]
			if !ok {
				st = r.NewStyle().Foreground(lipgloss.Color(c.Color))
				styles[c.Color] = st
			}
			b.WriteString(st.Render(string(c.Rune)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
