// Package domain models the storm and rain data served by the weather/storm
// backend and the view-independent transforms applied to it.
//
// # Storm snapshots
//
// The backend publishes storm snapshots as a JSON object keyed by arbitrary
// strings. Only values that are objects carrying an "id" are storms; the
// remaining keys are metadata (generation time, version tags) and are
// skipped. Historical snapshots are nested one level deeper under a
// backend-versioned key that starts with "tormentas", e.g.
//
//	{"data": {"tormentas_v2.json": {"al092025": {...}, "updated": "..."}}}
//
// Storm fields used here:
//
//	id            storm identifier, e.g. "al092025"
//	name          storm name, e.g. "IMELDA"
//	storm_type    classification history, oldest first: "TD", "TS", "HU", ...
//	max_wind      maximum sustained wind
//	min_pressure  minimum central pressure in mb
//	basin         "north_atlantic", "east_pacific", or a raw basin name
//	invest        true for areas under investigation (no forecast imagery)
//
// # Category
//
// Category is a 1-3 simplification of the latest classification:
//
//	HU -> 3   TS -> 2   TD or anything else -> 1
//
// Missing or non-array storm_type yields 1.
//
// # Dates
//
// Historical endpoints take dates as 8-digit YYYYMMDD strings. An empty date
// means "latest reading".
//
// # Ordering
//
// Snapshot keys carry no order, so normalized storms are sorted by name and
// then id for a stable display.
package domain
