// Command validate checks a running weather/storm backend against what the
// viewer expects from it: storm snapshots that normalize cleanly, reachable
// map images, a well-formed realtime grid and rainfall for the quick-pick
// cities. Each check group is a phase; the exit code is non-zero when any
// phase fails.
//
// Usage:
//
//	go run ./cmd/validate -backend http://localhost:8000 -date 20240915
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/storm-viewer/internal/adapter/backend"
	"github.com/couchcryptid/storm-viewer/internal/config"
	"github.com/couchcryptid/storm-viewer/internal/domain"
	"github.com/couchcryptid/storm-viewer/internal/heatmap"
	"github.com/couchcryptid/storm-viewer/internal/observability"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

type options struct {
	date     string
	gridSize int
}

func main() {
	backendURL := flag.String("backend", sharedcfg.EnvOrDefault("BACKEND_URL", config.DefaultBackendURL), "backend base URL")
	date := flag.String("date", "", "archived day to check, as YYYYMMDD (skipped when empty)")
	gridSize := flag.Int("grid-size", 10, "realtime grid size per side")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall deadline")
	flag.Parse()

	if *date != "" {
		if _, err := domain.ParseDate(*date); err != nil {
			fmt.Fprintf(os.Stderr, "invalid -date: %v\n", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := backend.NewClient(*backendURL, observability.NewPrettyLogger(os.Stderr, "error"))
	code := run(ctx, client, os.Stdout, options{date: *date, gridSize: *gridSize})
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, client *backend.Client, out io.Writer, opts options) int {
	fmt.Fprintln(out, "=== Storm Backend Validation ===")
	fmt.Fprintln(out)

	phases := []*phase{
		validateLatestSnapshot(ctx, client),
		validateLatestImages(ctx, client),
	}
	if opts.date != "" {
		phases = append(phases, validateArchive(ctx, client, opts.date))
	}
	phases = append(phases,
		validateRealtimeGrid(ctx, client, opts.gridSize),
		validateCities(ctx, client),
	)

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// checkStorms applies the record-level checks shared by both snapshots.
func checkStorms(p *phase, storms []domain.StormRecord) {
	seen := map[string]bool{}
	for _, s := range storms {
		if seen[s.ID] {
			p.errorf("duplicate storm id %s", s.ID)
		}
		seen[s.ID] = true
		if s.Category < domain.CategoryDepression || s.Category > domain.CategoryHurricane {
			p.errorf("%s: category %d outside 1-3", s.ID, s.Category)
		}
		if s.ImageURL == "" {
			p.errorf("%s: no image URL", s.ID)
		}
		if s.Location.En == "" {
			p.errorf("%s: no basin label", s.ID)
		}
		if s.WindSpeed < 0 || s.Pressure < 0 {
			p.errorf("%s: negative wind %g or pressure %g", s.ID, s.WindSpeed, s.Pressure)
		}
	}
}

func validateLatestSnapshot(ctx context.Context, client *backend.Client) *phase {
	p := &phase{name: "Latest snapshot normalizes"}
	raw, err := client.LatestStorms(ctx)
	if err != nil {
		p.errorf("fetch: %v", err)
		return p
	}
	storms := domain.NormalizeStorms(raw, "", client.URLs())
	if len(storms) == 0 && len(raw) > 0 {
		p.errorf("%d raw entries, none normalized", len(raw))
	}
	checkStorms(p, storms)
	return p
}

func validateLatestImages(ctx context.Context, client *backend.Client) *phase {
	p := &phase{name: "Latest map images reachable"}
	if err := client.CheckLatestImage(ctx, ""); err != nil {
		p.errorf("general map: %v", err)
	}
	raw, err := client.LatestStorms(ctx)
	if err != nil {
		p.errorf("fetch storms: %v", err)
		return p
	}
	for _, s := range domain.NormalizeStorms(raw, "", client.URLs()) {
		// Invests have no storm map.
		if s.Invest {
			continue
		}
		if err := client.CheckLatestImage(ctx, s.ID); err != nil {
			p.errorf("%s map: %v", s.ID, err)
		}
	}
	return p
}

func validateArchive(ctx context.Context, client *backend.Client, date string) *phase {
	p := &phase{name: "Archive " + domain.DisplayDate(date)}
	raw, err := client.StormsByDate(ctx, date)
	if err != nil {
		p.errorf("fetch: %v", err)
		return p
	}
	storms := domain.NormalizeStorms(raw, date, client.URLs())
	checkStorms(p, storms)

	indices, err := client.ImageIndices(ctx, date, domain.GeneralContext)
	switch {
	case err != nil:
		p.errorf("general image list: %v", err)
	case len(indices) == 0:
		p.errorf("general image list is empty")
	}
	for _, s := range storms {
		_, err := client.ImageIndices(ctx, date, s.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			p.errorf("%s image list: %v", s.ID, err)
		}
	}
	return p
}

func validateRealtimeGrid(ctx context.Context, client *backend.Client, gridSize int) *phase {
	p := &phase{name: "Realtime grid well-formed"}
	samples, err := client.RealtimeGrid(ctx, gridSize, 100)
	if err != nil {
		p.errorf("fetch: %v", err)
		return p
	}
	if len(samples) == 0 {
		p.errorf("grid is empty")
		return p
	}
	for i, s := range samples {
		if math.Abs(s.Lat) > 90 || math.Abs(s.Lon) > 180 {
			p.errorf("sample %d: coordinate %g,%g out of range", i, s.Lat, s.Lon)
		}
		if s.Precipitation < 0 || math.IsNaN(s.Precipitation) {
			p.errorf("sample %d: precipitation %g", i, s.Precipitation)
		}
	}
	if layer, ok := heatmap.BuildLayer(samples, 5, heatmap.DefaultKernel()); ok {
		if want := len(heatmap.Filter(samples)); layer.Plotted != want {
			p.errorf("layer plotted %d samples, filter kept %d", layer.Plotted, want)
		}
	}
	return p
}

func validateCities(ctx context.Context, client *backend.Client) *phase {
	p := &phase{name: "Quick-pick city rainfall"}
	for _, c := range domain.QuickCities() {
		got, err := client.CityPrecipitation(ctx, c.Name)
		if err != nil {
			p.errorf("%s: %v", c.Name, err)
			continue
		}
		if got.Lat == 0 && got.Lon == 0 {
			p.errorf("%s: no coordinates", c.Name)
		}
		if got.Precipitation < 0 {
			p.errorf("%s: precipitation %g", c.Name, got.Precipitation)
		}
	}
	return p
}
