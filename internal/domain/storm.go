package domain

import "encoding/json"

// Category is the simplified 1-3 storm intensity.
type Category int

const (
	CategoryDepression Category = 1
	CategoryStorm      Category = 2
	CategoryHurricane  Category = 3
)

// Status values for a storm tile.
const (
	StatusActive = "active"
	StatusWatch  = "watch"
)

// Basin identifiers with localized labels.
const (
	BasinNorthAtlantic = "north_atlantic"
	BasinEastPacific   = "east_pacific"
)

// Label is a bilingual display string.
type Label struct {
	Es string `json:"es"`
	En string `json:"en"`
}

// StormRecord is the uniform view-model produced from a raw backend record.
type StormRecord struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Category  Category `json:"category"`
	WindSpeed float64  `json:"wind_speed"`
	Pressure  float64  `json:"pressure"`
	Location  Label    `json:"location"`
	Year      int      `json:"year,omitempty"`
	Season    string   `json:"season,omitempty"`
	ACE       float64  `json:"ace,omitempty"`
	Invest    bool     `json:"invest"`
	StormType []string `json:"storm_type,omitempty"`
	Status    string   `json:"status"`
	ImageURL  string   `json:"image_url,omitempty"`
}

// DisplayName returns the storm name, falling back to its id.
func (s StormRecord) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return "Storm " + s.ID
}

// Stats are the aggregate counters shown beside the storm list.
type Stats struct {
	Active int `json:"active"`
	Severe int `json:"severe"`
}

// SummarizeStorms counts active storms and severe storms (category 3 and up).
func SummarizeStorms(storms []StormRecord) Stats {
	st := Stats{Active: len(storms)}
	for _, s := range storms {
		if s.Category >= CategoryHurricane {
			st.Severe++
		}
	}
	return st
}

// FindRawStorm returns the raw record whose "id" equals id, scanning a
// snapshot mapping. The second result is false when no entry matches.
func FindRawStorm(raw map[string]json.RawMessage, id string) (json.RawMessage, bool) {
	for _, v := range raw {
		fields, ok := objectFields(v)
		if !ok {
			continue
		}
		if sid, ok := idOf(fields); ok && sid == id {
			return v, true
		}
	}
	return nil, false
}
