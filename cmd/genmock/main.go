// Command genmock writes the mock backend fixtures to disk: the raw storm
// snapshots the backend serves, the records the viewer normalizes them into,
// and the realtime grid with the heatmap layer built from it. Front-end work
// and snapshot diffs read these files instead of a running backend.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock -grid-size 15 -zoom 5
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/storm-viewer/internal/domain"
	"github.com/couchcryptid/storm-viewer/internal/heatmap"
	"github.com/couchcryptid/storm-viewer/internal/mockbackend"
)

// fixtureBase is the backend URL baked into generated image URLs.
const fixtureBase = "http://localhost:8000"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "", "output directory for the fixture files")
	gridSize := flag.Int("grid-size", 15, "realtime grid size per side")
	density := flag.Int("density", 100, "realtime grid density percentage")
	zoom := flag.Float64("zoom", 5, "map zoom used to size the heatmap kernel")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	// Set a fixed clock for reproducible image URL cache busters.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.September, 15, 18, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	urls := domain.NewImageURLs(fixtureBase)

	latestRaw, err := rawSnapshot(mockbackend.LatestStorms())
	if err != nil {
		return fmt.Errorf("latest snapshot: %w", err)
	}
	archive := mockbackend.ArchiveStorms()
	archiveRaw, err := rawSnapshot(archive["data"].(map[string]any)["tormentas_"+mockbackend.ArchiveDate])
	if err != nil {
		return fmt.Errorf("archive snapshot: %w", err)
	}

	latest := domain.NormalizeStorms(latestRaw, "", urls)
	archived := domain.NormalizeStorms(archiveRaw, mockbackend.ArchiveDate, urls)
	log.Printf("latest: %d storms", len(latest))
	log.Printf("archive %s: %d storms", mockbackend.ArchiveDate, len(archived))

	samples := mockbackend.Grid(*gridSize, *density)
	layer, ok := heatmap.BuildLayer(samples, *zoom, heatmap.DefaultKernel())
	log.Printf("grid: %d samples, %d plotted", len(samples), layer.Plotted)

	files := []struct {
		name string
		v    any
	}{
		{"storms_latest_raw.json", mockbackend.LatestStorms()},
		{"storms_latest.json", latest},
		{"storms_" + mockbackend.ArchiveDate + "_raw.json", archive},
		{"storms_" + mockbackend.ArchiveDate + ".json", archived},
		{"realtime_grid.json", map[string]any{"data": samples}},
	}
	if ok {
		files = append(files, struct {
			name string
			v    any
		}{"heatmap_layer.json", layer})
	}

	for _, f := range files {
		path := filepath.Join(*outDir, f.name)
		if err := writeJSON(path, f.v); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
		log.Printf("wrote %s", path)
	}

	printStats("latest", latest)
	printStats(mockbackend.ArchiveDate, archived)
	return nil
}

// rawSnapshot round-trips a fixture through JSON into the shape the backend
// client hands to the normalizer.
func rawSnapshot(v any) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644) //nolint:gosec // fixtures are not sensitive
}

func printStats(label string, storms []domain.StormRecord) {
	st := domain.SummarizeStorms(storms)
	fmt.Printf("\n%s: active=%d severe=%d\n", label, st.Active, st.Severe)
	for _, s := range storms {
		fmt.Printf("  %-10s %-16s cat=%d status=%s %s\n", s.ID, s.DisplayName(), s.Category, s.Status, s.Location.En)
	}
}
