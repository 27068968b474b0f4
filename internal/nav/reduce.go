package nav

import (
	"fmt"

	"github.com/couchcryptid/storm-viewer/internal/domain"
)

// Reduce applies a to s. On error s is returned unchanged with no effects.
func Reduce(s State, a Action) (State, []Effect, error) {
	switch a := a.(type) {
	case NavigateHome:
		return home()
	case NavigateTo:
		return navigateTo(s, a.View)
	case SelectCity:
		if s.View != ViewMap {
			return s, nil, fmt.Errorf("select city: %w", ErrWrongView)
		}
		city := a.City
		s.SelectedCity = &city
		return s, []Effect{FetchCityWeather{City: city}}, nil
	case SelectStorm:
		if s.View != ViewDashboard {
			return s, nil, fmt.Errorf("select storm: %w", ErrWrongView)
		}
		s.SelectedStorm = a.Storm
		return s, []Effect{LoadDetail{Storm: a.Storm, Date: s.SelectedDate}}, nil
	case SelectDate:
		if s.View != ViewDashboard {
			return s, nil, fmt.Errorf("select date: %w", ErrWrongView)
		}
		if _, err := domain.ParseDate(a.Date); err != nil {
			return s, nil, fmt.Errorf("select date: %w", err)
		}
		if a.Date == s.SelectedDate {
			return s, nil, nil
		}
		s.SelectedDate = a.Date
		return dateChanged(s)
	case ClearDate:
		if s.View != ViewDashboard {
			return s, nil, fmt.Errorf("clear date: %w", ErrWrongView)
		}
		if s.SelectedDate == "" {
			return s, nil, nil
		}
		s.SelectedDate = ""
		return dateChanged(s)
	default:
		return s, nil, fmt.Errorf("unsupported action %T", a)
	}
}

func home() (State, []Effect, error) {
	return Initial(), []Effect{ResetStorms{}, ResetMap{}}, nil
}

func navigateTo(s State, v View) (State, []Effect, error) {
	if _, err := ParseView(string(v)); err != nil {
		return s, nil, fmt.Errorf("navigate to %q: %w", v, err)
	}
	if v == ViewHome {
		return home()
	}
	if v == s.View {
		return s, nil, nil
	}

	var effects []Effect
	if s.View == ViewMap {
		s.SelectedCity = nil
		effects = append(effects, ResetMap{})
	}
	// Entering either view starts from the latest reading with nothing selected.
	s.View = v
	s.SelectedStorm = nil
	s.SelectedDate = ""

	switch v {
	case ViewMap:
		effects = append(effects, ResetStorms{}, FetchRealtimeGrid{})
	case ViewDashboard:
		effects = append(effects, FetchLatestStorms{}, LoadDetail{})
	}
	return s, effects, nil
}

// dateChanged refetches the dashboard for the new date.
func dateChanged(s State) (State, []Effect, error) {
	s.SelectedStorm = nil
	return s, []Effect{fetchStorms(s.SelectedDate), LoadDetail{Date: s.SelectedDate}}, nil
}

func fetchStorms(date string) Effect {
	if date == "" {
		return FetchLatestStorms{}
	}
	return FetchStormsByDate{Date: date}
}
