// Package audience decides which subscriptions a campaign may be
// delivered to. The filter is a pure predicate over a subscription's
// preferences and the current instant; it performs no I/O.
package audience

import (
	"strconv"
	"strings"
	"time"

	"github.com/ekaradag/shopsync/internal/domain"
)

// Eligible reports whether the subscription may receive a push for the
// given category at instant now. A subscription is eligible iff it opted
// into the category, is not muted, is not inside its quiet-hours window,
// and has not expired.
func Eligible(sub *domain.Subscription, category domain.Category, now time.Time) bool {
	if !sub.Preferences.Categories[category] {
		return false
	}
	if m := sub.Preferences.MutedUntil; m != nil && m.After(now) {
		return false
	}
	if withinQuietHours(sub.Preferences.QuietHours, now) {
		return false
	}
	if e := sub.ExpirationTime; e != nil && !e.After(now) {
		return false
	}
	return true
}

// Filter returns the subset of subs eligible for category at now,
// preserving input order.
func Filter(subs []*domain.Subscription, category domain.Category, now time.Time) []*domain.Subscription {
	eligible := make([]*domain.Subscription, 0, len(subs))
	for _, s := range subs {
		if Eligible(s, category, now) {
			eligible = append(eligible, s)
		}
	}
	return eligible
}

// withinQuietHours evaluates the window against local wall-clock time in
// the subscription's timezone. A window whose start is later than its end
// wraps midnight. Malformed times or an unknown timezone disable the
// check for this subscription rather than suppressing or failing delivery.
func withinQuietHours(q domain.QuietHours, now time.Time) bool {
	if !q.Enabled {
		return false
	}

	start, ok := parseHHMM(q.Start)
	if !ok {
		return false
	}
	end, ok := parseHHMM(q.End)
	if !ok {
		return false
	}

	loc, err := time.LoadLocation(q.Timezone)
	if err != nil {
		return false
	}

	local := now.In(loc)
	current := local.Hour()*60 + local.Minute()

	if start <= end {
		return current >= start && current < end
	}
	// Window wraps midnight, e.g. 22:00–08:00.
	return current >= start || current < end
}

// parseHHMM converts "HH:MM" to minutes since midnight.
func parseHHMM(s string) (int, bool) {
	hh, mm, found := strings.Cut(s, ":")
	if !found || len(hh) != 2 || len(mm) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
