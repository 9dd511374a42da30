package handoff

import "time"

// SetNow replaces the clock used to touch the object directory.
func (s *Sink) SetNow(now func() time.Time) {
	s.now = now
}
