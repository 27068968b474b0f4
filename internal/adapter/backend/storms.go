package backend

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"strings"

	"github.com/couchcryptid/storm-viewer/internal/domain"
)

// snapshotKeyPrefix marks the backend-versioned key holding a dated snapshot.
const snapshotKeyPrefix = "tormentas"

// LatestStorms fetches the latest snapshot as a raw key -> record mapping.
func (c *Client) LatestStorms(ctx context.Context) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	err := c.getJSON(ctx, request{endpoint: "latest_storms", op: "latest storms", path: "/api/storms"}, &raw)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// StormsByDate fetches the snapshot for date (YYYYMMDD). A date without a
// storm file yields an empty mapping; a 404 yields domain.ErrNotFound.
func (c *Client) StormsByDate(ctx context.Context, date string) (map[string]json.RawMessage, error) {
	var envelope struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	r := request{endpoint: "storms_by_date", op: "storms by date", path: "/api/date/" + url.PathEscape(date) + "/storms", dated: true}
	if err := c.getJSON(ctx, r, &envelope); err != nil {
		return nil, err
	}
	return snapshotFromData(envelope.Data), nil
}

// snapshotFromData picks the first (sorted) "tormentas*" key holding an object.
func snapshotFromData(data map[string]json.RawMessage) map[string]json.RawMessage {
	keys := make([]string, 0, len(data))
	for k := range data {
		if strings.HasPrefix(k, snapshotKeyPrefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		var storms map[string]json.RawMessage
		if err := json.Unmarshal(data[k], &storms); err == nil && storms != nil {
			return storms
		}
	}
	return map[string]json.RawMessage{}
}

// LatestSnapshotJSON returns the raw latest snapshot for inspection.
func (c *Client) LatestSnapshotJSON(ctx context.Context) (json.RawMessage, error) {
	body, err := c.get(ctx, request{endpoint: "latest_storms", op: "latest storms", path: "/api/storms"})
	if err != nil {
		return nil, err
	}
	return rawJSON(body, "latest storms")
}

// SnapshotJSON returns the raw dated snapshot for inspection.
func (c *Client) SnapshotJSON(ctx context.Context, date string) (json.RawMessage, error) {
	body, err := c.get(ctx, request{endpoint: "storms_by_date", op: "storms by date", path: "/api/date/" + url.PathEscape(date) + "/storms", dated: true})
	if err != nil {
		return nil, err
	}
	return rawJSON(body, "storms by date")
}

// StormJSON returns one raw storm record of a dated snapshot.
func (c *Client) StormJSON(ctx context.Context, date, id string) (json.RawMessage, error) {
	path := "/api/date/" + url.PathEscape(date) + "/storms/" + url.PathEscape(id)
	body, err := c.get(ctx, request{endpoint: "storm_by_date", op: "storm by date", path: path, dated: true})
	if err != nil {
		return nil, err
	}
	return rawJSON(body, "storm by date")
}

func rawJSON(body []byte, op string) (json.RawMessage, error) {
	if !json.Valid(body) {
		return nil, &domain.APIError{Op: op, Kind: domain.ErrParse}
	}
	return json.RawMessage(body), nil
}
