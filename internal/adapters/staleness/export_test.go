package staleness

import "time"

// SetNow replaces the clock used for build records.
func (o *Oracle) SetNow(now func() time.Time) {
	o.now = now
}
