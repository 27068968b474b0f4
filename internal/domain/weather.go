package domain

import (
	"fmt"
	"time"
)

// WeatherSample is one point of the realtime rain grid. Precipitation is in mm.
type WeatherSample struct {
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	Precipitation float64 `json:"precipitation"`
}

// CityPrecipitation is the backend answer for a single named city.
type CityPrecipitation struct {
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	Precipitation float64 `json:"precipitation"`
}

// CityWeather is the weather card for the selected city.
type CityWeather struct {
	City          string    `json:"city"`
	State         string    `json:"state"`
	Lat           float64   `json:"lat"`
	Lon           float64   `json:"lon"`
	Precipitation float64   `json:"precipitation"`
	LastUpdate    time.Time `json:"last_update"`
}

// NewCityWeather stamps a city reading with the current time.
func NewCityWeather(c City, p CityPrecipitation) CityWeather {
	return CityWeather{
		City:          c.Name,
		State:         c.State,
		Lat:           p.Lat,
		Lon:           p.Lon,
		Precipitation: p.Precipitation,
		LastUpdate:    clock.Now(),
	}
}

// Glyph is the card symbol for the reading: dry, light, moderate, heavy.
func (w CityWeather) Glyph() string {
	switch p := w.Precipitation; {
	case p == 0:
		return "◎"
	case p < 0.3:
		return "◔"
	case p < 0.6:
		return "◑"
	default:
		return "⬤"
	}
}

// PercentLabel renders precipitation the way the card shows it, e.g. "42%".
func (w CityWeather) PercentLabel() string {
	return fmt.Sprintf("%.0f%%", w.Precipitation*100)
}

// UpdatedAt is the HH:MM of the last update.
func (w CityWeather) UpdatedAt() string {
	return w.LastUpdate.Format("15:04")
}
