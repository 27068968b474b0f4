package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/couchcryptid/storm-viewer/internal/domain"
)

// CityPrecipitation fetches the current reading for a named city.
func (c *Client) CityPrecipitation(ctx context.Context, name string) (domain.CityPrecipitation, error) {
	params := url.Values{"selectedCity": {name}}
	var p domain.CityPrecipitation
	err := c.getJSON(ctx, request{endpoint: "city", op: "city precipitation", path: "/rainmap/city?" + params.Encode()}, &p)
	if err != nil {
		return domain.CityPrecipitation{}, err
	}
	return p, nil
}

// RealtimeGrid fetches the realtime rain grid. The call is bounded by the
// grid timeout; exceeding it yields domain.ErrTimeout. The backend answers
// either with a bare array or with {"data": [...]}.
func (c *Client) RealtimeGrid(ctx context.Context, gridSize, density int) ([]domain.WeatherSample, error) {
	params := url.Values{
		"grid_size": {strconv.Itoa(gridSize)},
		"density":   {strconv.Itoa(density)},
	}
	var samples []domain.WeatherSample
	r := request{
		endpoint: "realtime_grid",
		op:       "realtime grid",
		path:     "/rainmap/realtime?" + params.Encode(),
		timeout:  c.gridTimeout,
		decode: func(body []byte) (err error) {
			samples, err = decodeGrid(body)
			return err
		},
	}
	if _, err := c.get(ctx, r); err != nil {
		return nil, err
	}
	return samples, nil
}

func decodeGrid(body []byte) ([]domain.WeatherSample, error) {
	var samples []domain.WeatherSample
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		err := json.Unmarshal(trimmed, &samples)
		return samples, err
	}

	var envelope struct {
		Data []domain.WeatherSample `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}
