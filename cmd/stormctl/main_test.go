package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-viewer/internal/background"
	"github.com/couchcryptid/storm-viewer/internal/domain"
	"github.com/couchcryptid/storm-viewer/internal/mockbackend"
	"github.com/couchcryptid/storm-viewer/internal/observability"
)

// run executes stormctl against the mock backend and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	srv := httptest.NewServer(mockbackend.NewHandler(mockbackend.Options{Logger: observability.DiscardLogger()}))
	t.Cleanup(srv.Close)

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--backend", srv.URL, "--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestStorms_Latest(t *testing.T) {
	out, err := run(t, "storms")
	require.NoError(t, err)

	assert.Contains(t, out, "Latest storms")
	assert.Contains(t, out, "active 3  severe 1")
	assert.Less(t, strings.Index(out, "Ernesto"), strings.Index(out, "Ileana"), "storms are sorted by name")
	assert.Contains(t, out, "invest")
	assert.Contains(t, out, "Storm "+mockbackend.InvestID)
	assert.Contains(t, out, "East Pacific")
}

func TestStorms_Archive(t *testing.T) {
	out, err := run(t, "storms", "--date", mockbackend.ArchiveDate)
	require.NoError(t, err)
	assert.Contains(t, out, "Storms on 15/09/2024")
	assert.Contains(t, out, "active 2")

	_, err = run(t, "storms", "--date", "20200101")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no storm data for 01/01/2020")

	_, err = run(t, "storms", "--date", "2020-01-01")
	require.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestImages(t *testing.T) {
	out, err := run(t, "images", "--date", mockbackend.ArchiveDate)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "/api/date/20240915/maps/general/0?v=20240915")

	out, err = run(t, "images", mockbackend.HurricaneID)
	require.NoError(t, err)
	assert.Contains(t, out, "/api/maps/"+mockbackend.HurricaneID+"?v=")

	_, err = run(t, "images", mockbackend.InvestID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no map found for "+mockbackend.InvestID)
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect", mockbackend.StormID)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Ernesto"`)

	out, err = run(t, "inspect", "--date", mockbackend.ArchiveDate)
	require.NoError(t, err)
	assert.Contains(t, out, "tormentas_"+mockbackend.ArchiveDate)

	_, err = run(t, "inspect", "nope")
	require.Error(t, err)
}

func TestCities(t *testing.T) {
	out, err := run(t, "cities")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), domain.SuggestionLimit)

	out, err = run(t, "cities", "juarez")
	require.NoError(t, err)
	assert.Contains(t, out, "Juárez, Chihuahua")

	_, err = run(t, "cities", "zzzz")
	require.Error(t, err)
}

func TestRain(t *testing.T) {
	out, err := run(t, "rain", "ciudad", "de", "mexico")
	require.NoError(t, err)
	assert.Contains(t, out, "Ciudad de Mexico, CDMX")
	assert.Contains(t, out, "⬤")

	_, err = run(t, "rain", "Atlantis")
	require.Error(t, err)
}

func TestGrid(t *testing.T) {
	out, err := run(t, "grid", "--size", "10", "--cols", "30", "--rows", "10", "--mapbox-token", "")
	require.NoError(t, err)
	assert.Contains(t, out, "of 100 samples")
	assert.Contains(t, out, "peak ")
	assert.Contains(t, out, "█")
}

func TestGrid_Timeout(t *testing.T) {
	srv := httptest.NewServer(mockbackend.NewHandler(mockbackend.Options{GridDelay: time.Second, Logger: observability.DiscardLogger()}))
	t.Cleanup(srv.Close)

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--backend", srv.URL, "grid", "--grid-timeout", "50ms", "--mapbox-token", ""})
	err := root.Execute()
	require.ErrorIs(t, err, domain.ErrTimeout)
}

func TestSplash_SingleFrameWhenPiped(t *testing.T) {
	out, err := run(t, "splash", "--cols", "40", "--rows", "12", "--particles", "400")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Len(t, lines, 12)
	assert.NotContains(t, out, "\x1b[H")
}

func TestRenderFrame_PlainWithoutTerminal(t *testing.T) {
	grid := [][]background.Cell{{{Rune: '●', Color: "#00f0ff"}, {Rune: ' '}}}
	out := renderFrame(lipgloss.NewRenderer(&bytes.Buffer{}), grid)
	assert.Equal(t, "● \n", out)
}

func TestFormatEvent(t *testing.T) {
	e := domain.ViewEvent{
		SessionID:  "0123456789abcdef",
		Action:     "select_city",
		View:       "map",
		City:       "León",
		OccurredAt: time.Date(2024, 9, 15, 8, 30, 0, 0, time.UTC),
	}
	assert.Equal(t, `08:30:00 01234567 select_city   view=map city="León"`, formatEvent(e))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "-", formatNumber(0))
	assert.Equal(t, "85", formatNumber(85))
	assert.Equal(t, "3.1", formatNumber(3.14))
}
