package http

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/storm-viewer/internal/domain"
	"github.com/couchcryptid/storm-viewer/internal/nav"
	"github.com/couchcryptid/storm-viewer/internal/viewer"
)

var errUnknownCity = errors.New("unknown city")

// actionRequest is the wire form of a view action, tagged by Type.
type actionRequest struct {
	Type    string   `json:"type"`
	View    string   `json:"view,omitempty"`
	City    string   `json:"city,omitempty"`
	StormID string   `json:"storm_id,omitempty"`
	Date    string   `json:"date,omitempty"`
	Index   *int     `json:"index,omitempty"`
	URL     string   `json:"url,omitempty"`
	Zoom    *float64 `json:"zoom,omitempty"`
}

// action converts the request into a session action. Field validation that
// depends on session state is left to the session.
func (r actionRequest) action() (viewer.Action, error) {
	switch r.Type {
	case "navigate_home":
		return nav.NavigateHome{}, nil
	case "navigate":
		v, err := nav.ParseView(r.View)
		if err != nil {
			return nil, fmt.Errorf("navigate %q: %w", r.View, err)
		}
		return nav.NavigateTo{View: v}, nil
	case "select_city":
		city, ok := domain.LookupCity(r.City)
		if !ok {
			return nil, fmt.Errorf("%w: %q", errUnknownCity, r.City)
		}
		return nav.SelectCity{City: city}, nil
	case "select_storm":
		return viewer.PickStorm{ID: r.StormID}, nil
	case "select_date":
		return nav.SelectDate{Date: r.Date}, nil
	case "clear_date":
		return nav.ClearDate{}, nil
	case "carousel_next":
		return viewer.CarouselNext{}, nil
	case "carousel_prev":
		return viewer.CarouselPrev{}, nil
	case "carousel_select":
		if r.Index == nil {
			return nil, fmt.Errorf("%w: carousel_select needs an index", viewer.ErrUnknownAction)
		}
		return viewer.CarouselSelect{Index: *r.Index}, nil
	case "image_loaded":
		return viewer.ImageLoaded{URL: r.URL}, nil
	case "image_failed":
		return viewer.ImageFailed{URL: r.URL}, nil
	case "inspect":
		return viewer.Inspect{StormID: r.StormID}, nil
	case "close_inspect":
		return viewer.CloseInspect{}, nil
	case "reload_grid":
		return viewer.ReloadGrid{}, nil
	case "map_zoom":
		if r.Zoom == nil {
			return nil, fmt.Errorf("%w: map_zoom needs a zoom", viewer.ErrUnknownAction)
		}
		return viewer.SetZoom{Zoom: *r.Zoom}, nil
	default:
		return nil, fmt.Errorf("%w: %q", viewer.ErrUnknownAction, r.Type)
	}
}
