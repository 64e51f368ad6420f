package core

import (
	"time"

	"github.com/banshee-data/radard/internal/timeutil"
)

// rateKeeper paces the cycle loop to a fixed period, grounded on
// original_source/radard.py's Ratekeeper (rk.remaining / rk.monitor_time)
// and generalized over internal/timeutil.Clock so cumLagMs is
// deterministic in tests.
type rateKeeper struct {
	clock  timeutil.Clock
	period time.Duration
	next   time.Time
}

func newRateKeeper(clock timeutil.Clock, period time.Duration) *rateKeeper {
	return &rateKeeper{
		clock:  clock,
		period: period,
		next:   clock.Now().Add(period),
	}
}

// remaining returns the time left until the next tick boundary, negative
// once the boundary has passed.
func (r *rateKeeper) remaining() time.Duration {
	return r.next.Sub(r.clock.Now())
}

// monitorTime sleeps until the next tick boundary (if there's time left)
// and returns cumLagMs: the negative remaining time in milliseconds,
// positive when the cycle overran its period.
func (r *rateKeeper) monitorTime() float64 {
	now := r.clock.Now()
	remaining := r.next.Sub(now)
	if remaining > 0 {
		r.clock.Sleep(remaining)
	}
	lagMs := -remaining.Seconds() * 1000
	r.next = r.next.Add(r.period)
	return lagMs
}
