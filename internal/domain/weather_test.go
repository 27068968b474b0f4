package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestCityWeather_Glyph(t *testing.T) {
	tests := []struct {
		precip float64
		glyph  string
	}{
		{0, "◎"},
		{0.1, "◔"},
		{0.3, "◑"},
		{0.59, "◑"},
		{0.6, "⬤"},
		{2.5, "⬤"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.glyph, CityWeather{Precipitation: tt.precip}.Glyph(), "precip %v", tt.precip)
	}
}

func TestNewCityWeather(t *testing.T) {
	at := time.Date(2025, 10, 27, 14, 5, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { SetClock(nil) })

	w := NewCityWeather(City{Name: "Puebla", State: "Puebla"}, CityPrecipitation{Lat: 19.04, Lon: -98.2, Precipitation: 0.42})

	assert.Equal(t, "Puebla", w.City)
	assert.Equal(t, at, w.LastUpdate)
	assert.Equal(t, "14:05", w.UpdatedAt())
	assert.Equal(t, "42%", w.PercentLabel())
}
