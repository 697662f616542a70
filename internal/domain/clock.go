package domain

import "github.com/jonboulle/clockwork"

// clock is a package-level time source so tests can freeze time via SetClock.
// Production code uses the real clock; tests inject a fake for deterministic
// mission dates.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used by MissionDate. Pass nil to reset to
// real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// MissionDate resolves the YYYYMMDD date a bulletin's day-of-month attaches
// to. A nonzero override wins; otherwise the current UTC date is used.
// Decoders replace the day portion with the bulletin's own day-of-month.
func MissionDate(override int) int {
	if override != 0 {
		return override
	}
	now := clock.Now().UTC()
	return now.Year()*10000 + int(now.Month())*100 + now.Day()
}
