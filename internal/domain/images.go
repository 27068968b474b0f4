package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// GeneralContext is the image context for the basin-wide map.
const GeneralContext = "general"

// ImageURLs builds image URLs against the backend origin. Path segments are
// escaped the same way the backend client escapes them. The v query
// parameter only defeats client caches; the backend ignores it.
type ImageURLs struct {
	Base string
}

// NewImageURLs trims any trailing slash from base.
func NewImageURLs(base string) ImageURLs {
	return ImageURLs{Base: strings.TrimRight(base, "/")}
}

// LatestGeneral is the most recent basin-wide map.
func (u ImageURLs) LatestGeneral(now time.Time) string {
	return fmt.Sprintf("%s/api/maps?v=%d", u.Base, now.UnixMilli())
}

// LatestStorm is the most recent map for one storm.
func (u ImageURLs) LatestStorm(id string, now time.Time) string {
	return fmt.Sprintf("%s/api/maps/%s?v=%d", u.Base, url.PathEscape(id), now.UnixMilli())
}

// HistoricalStorm is image index of a storm on date.
func (u ImageURLs) HistoricalStorm(date, id string, index int) string {
	return u.Historical(date, id, index)
}

// Historical is image index of context ("general" or a storm id) on date.
func (u ImageURLs) Historical(date, context string, index int) string {
	return fmt.Sprintf("%s/api/date/%s/maps/%s/%s?v=%s",
		u.Base, url.PathEscape(date), url.PathEscape(context), strconv.Itoa(index), url.QueryEscape(date))
}

// HistoricalSet expands image indices into URLs for context on date.
func (u ImageURLs) HistoricalSet(date, context string, indices []int) []string {
	urls := make([]string, len(indices))
	for i, idx := range indices {
		urls[i] = u.Historical(date, context, idx)
	}
	return urls
}
