package nav

import "github.com/couchcryptid/storm-viewer/internal/domain"

// Action is an input to Reduce.
type Action interface {
	isAction()
}

type (
	// NavigateHome resets every selection and returns to the home view.
	NavigateHome struct{}
	// NavigateTo switches to View.
	NavigateTo struct{ View View }
	// SelectCity picks a city on the map.
	SelectCity struct{ City domain.City }
	// SelectStorm picks a dashboard tile; nil selects the general tile.
	SelectStorm struct{ Storm *domain.StormRecord }
	// SelectDate switches the dashboard to a YYYYMMDD date.
	SelectDate struct{ Date string }
	// ClearDate returns the dashboard to the latest reading.
	ClearDate struct{}
)

func (NavigateHome) isAction() {}
func (NavigateTo) isAction()   {}
func (SelectCity) isAction()   {}
func (SelectStorm) isAction()  {}
func (SelectDate) isAction()   {}
func (ClearDate) isAction()    {}

// Effect is work the caller must perform after a transition.
type Effect interface {
	isEffect()
}

type (
	// FetchLatestStorms loads the latest storm snapshot.
	FetchLatestStorms struct{}
	// FetchStormsByDate loads the snapshot of Date.
	FetchStormsByDate struct{ Date string }
	// FetchCityWeather loads the reading for City.
	FetchCityWeather struct{ City domain.City }
	// FetchRealtimeGrid loads the rain grid for the heatmap.
	FetchRealtimeGrid struct{}
	// LoadDetail fills the detail panel for Storm (nil for general) in the
	// mode given by Date.
	LoadDetail struct {
		Storm *domain.StormRecord
		Date  string
	}
	// ResetStorms drops the loaded storm list and detail panel.
	ResetStorms struct{}
	// ResetMap drops the city reading and weather samples.
	ResetMap struct{}
)

func (FetchLatestStorms) isEffect() {}
func (FetchStormsByDate) isEffect() {}
func (FetchCityWeather) isEffect()  {}
func (FetchRealtimeGrid) isEffect() {}
func (LoadDetail) isEffect()        {}
func (ResetStorms) isEffect()       {}
func (ResetMap) isEffect()          {}
