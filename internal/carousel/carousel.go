// Package carousel is the paginated image viewer of the detail panel.
//
// A Carousel is a plain value owned by a single session goroutine; it is not
// safe for concurrent use.
package carousel

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned by Select for an index outside the image set.
var ErrOutOfRange = errors.New("image index out of range")

// MaxThumbnails is the largest image set that gets a thumbnail strip.
// Larger sets get a dot strip instead.
const MaxThumbnails = 10

// Strip is the navigation strip shown under the current image.
type Strip string

const (
	StripNone       Strip = "none"
	StripThumbnails Strip = "thumbnails"
	StripDots       Strip = "dots"
)

// Carousel tracks the current image of an ordered set of URLs.
type Carousel struct {
	Images  []string `json:"images"`
	Index   int      `json:"index"`
	Loading bool     `json:"loading"`
	// Broken is set when the current image failed to load; the shell shows
	// a placeholder instead.
	Broken bool `json:"broken"`
}

// New returns a carousel positioned on the first image.
func New(images []string) Carousel {
	var c Carousel
	c.SetImages(images)
	return c
}

// SetImages replaces the image set and rewinds to the first image.
func (c *Carousel) SetImages(images []string) {
	c.Images = images
	c.Index = 0
	c.Loading = true
	c.Broken = false
}

// Next advances to the following image, wrapping to the first.
func (c *Carousel) Next() {
	if len(c.Images) == 0 {
		return
	}
	c.show((c.Index + 1) % len(c.Images))
}

// Prev steps back to the previous image, wrapping to the last.
func (c *Carousel) Prev() {
	if len(c.Images) == 0 {
		return
	}
	c.show((c.Index - 1 + len(c.Images)) % len(c.Images))
}

// Select jumps to image i. Out-of-range indices are rejected.
func (c *Carousel) Select(i int) error {
	if i < 0 || i >= len(c.Images) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, i, len(c.Images))
	}
	c.show(i)
	return nil
}

func (c *Carousel) show(i int) {
	c.Index = i
	c.Loading = true
	c.Broken = false
}

// Current returns the URL being shown, or "" for an empty set.
func (c Carousel) Current() string {
	if len(c.Images) == 0 {
		return ""
	}
	return c.Images[c.Index]
}

// Loaded records that url finished loading. Events for a URL that is no
// longer current are ignored.
func (c *Carousel) Loaded(url string) {
	if url == "" || url != c.Current() {
		return
	}
	c.Loading = false
	c.Broken = false
}

// Failed records that url could not be loaded.
func (c *Carousel) Failed(url string) {
	if url == "" || url != c.Current() {
		return
	}
	c.Loading = false
	c.Broken = true
}

// Strip reports which navigation strip to show.
func (c Carousel) Strip() Strip {
	switch n := len(c.Images); {
	case n <= 1:
		return StripNone
	case n <= MaxThumbnails:
		return StripThumbnails
	default:
		return StripDots
	}
}

// Counter is the "i / n" position label, empty for an empty set.
func (c Carousel) Counter() string {
	if len(c.Images) == 0 {
		return ""
	}
	return fmt.Sprintf("%d / %d", c.Index+1, len(c.Images))
}

// HasArrows reports whether prev/next controls are shown.
func (c Carousel) HasArrows() bool {
	return len(c.Images) > 1
}
