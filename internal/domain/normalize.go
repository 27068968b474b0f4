package domain

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// NormalizeStorms maps a raw snapshot into storm records. Entries that are
// not JSON objects or lack an id are skipped. date selects historical image
// URLs; pass "" for the latest reading. The result is sorted by name, then
// id, with unnamed storms last.
func NormalizeStorms(raw map[string]json.RawMessage, date string, urls ImageURLs) []StormRecord {
	storms := make([]StormRecord, 0, len(raw))
	for _, v := range raw {
		fields, ok := objectFields(v)
		if !ok {
			continue
		}
		id, ok := idOf(fields)
		if !ok {
			continue
		}
		storms = append(storms, normalizeStorm(id, fields, date, urls))
	}

	sort.Slice(storms, func(i, j int) bool {
		a, b := storms[i].Name, storms[j].Name
		if (a == "") != (b == "") {
			return b == ""
		}
		if a != b {
			return a < b
		}
		return storms[i].ID < storms[j].ID
	})
	return storms
}

func normalizeStorm(id string, f map[string]json.RawMessage, date string, urls ImageURLs) StormRecord {
	stormType := stringList(f["storm_type"])
	invest := truthy(f["invest"])

	status := StatusActive
	if invest {
		status = StatusWatch
	}

	imageURL := urls.LatestStorm(id, clock.Now())
	if date != "" {
		imageURL = urls.HistoricalStorm(date, id, 0)
	}

	return StormRecord{
		ID:        id,
		Name:      stringOf(f["name"]),
		Category:  DeriveCategory(stormType),
		WindSpeed: numberOf(f["max_wind"]),
		Pressure:  numberOf(f["min_pressure"]),
		Location:  BasinLabel(stringOf(f["basin"])),
		Year:      int(numberOf(f["year"])),
		Season:    stringOf(f["season"]),
		ACE:       numberOf(f["ace"]),
		Invest:    invest,
		StormType: stormType,
		Status:    status,
		ImageURL:  imageURL,
	}
}

// DeriveCategory maps the latest storm_type entry to a category:
// HU -> 3, TS -> 2, anything else (including an empty history) -> 1.
func DeriveCategory(stormType []string) Category {
	if len(stormType) == 0 {
		return CategoryDepression
	}
	switch stormType[len(stormType)-1] {
	case "HU":
		return CategoryHurricane
	case "TS":
		return CategoryStorm
	default:
		return CategoryDepression
	}
}

// BasinLabel localizes known basins; unknown basins are passed through.
func BasinLabel(basin string) Label {
	switch basin {
	case BasinNorthAtlantic:
		return Label{Es: "Atlántico Norte", En: "North Atlantic"}
	case BasinEastPacific:
		return Label{Es: "Pacífico Este", En: "East Pacific"}
	default:
		return Label{Es: basin, En: basin}
	}
}

// objectFields decodes v when it is a JSON object.
func objectFields(v json.RawMessage) (map[string]json.RawMessage, bool) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || v[0] != '{' {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(v, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// idOf extracts a non-null, non-empty id as a string. Numeric ids keep their
// literal form.
func idOf(fields map[string]json.RawMessage) (string, bool) {
	raw, ok := fields["id"]
	if !ok || isNull(raw) {
		return "", false
	}
	id := stringOf(raw)
	if id == "" {
		id = strings.TrimSpace(string(raw))
	}
	if id == "" || id == `""` {
		return "", false
	}
	return id, true
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// stringOf returns a JSON string value, or the literal text of a number.
func stringOf(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// numberOf returns a JSON number (or numeric string) as float64, else 0.
func numberOf(raw json.RawMessage) float64 {
	if isNull(raw) {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v
		}
	}
	return 0
}

// stringList decodes an array of strings; anything else yields nil.
// Non-string array members become "".
func stringList(raw json.RawMessage) []string {
	if isNull(raw) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = stringOf(item)
	}
	return out
}

// truthy follows the backend's loose booleans: true, non-zero numbers and
// non-empty strings count as set.
func truthy(raw json.RawMessage) bool {
	if isNull(raw) {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f != 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s != ""
	}
	// Objects and arrays are truthy.
	return true
}
