package viewer

import "github.com/couchcryptid/storm-viewer/internal/nav"

// SetResultHook observes every fetch result. It must be set before Run.
func (s *Session) SetResultHook(fn func(c nav.Context, applied bool)) {
	s.onResult = fn
}
