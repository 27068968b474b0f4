// Package nav is the navigation state machine: which view is shown and what
// is selected in it. Reduce is a pure function; side effects are returned as
// Effect values for the caller to run.
package nav

import (
	"errors"

	"github.com/couchcryptid/storm-viewer/internal/domain"
)

// View is a top-level screen.
type View string

const (
	ViewHome      View = "home"
	ViewMap       View = "map"
	ViewDashboard View = "dashboard"
)

// ParseView validates a view name.
func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case ViewHome, ViewMap, ViewDashboard:
		return v, nil
	}
	return "", ErrUnknownView
}

var (
	ErrUnknownView = errors.New("unknown view")
	ErrWrongView   = errors.New("action not available in the current view")
)

// State is the cross-view selection state. An empty SelectedDate means the
// dashboard shows the latest reading; a YYYYMMDD date means historical mode.
type State struct {
	View          View                `json:"view"`
	SelectedCity  *domain.City        `json:"selected_city,omitempty"`
	SelectedStorm *domain.StormRecord `json:"selected_storm,omitempty"`
	SelectedDate  string              `json:"selected_date,omitempty"`
}

// Initial is the state on launch.
func Initial() State {
	return State{View: ViewHome}
}

// Historical reports whether a calendar date is selected.
func (s State) Historical() bool {
	return s.SelectedDate != ""
}
