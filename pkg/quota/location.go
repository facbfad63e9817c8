package quota

import (
	"strings"
	"time"
	_ "time/tzdata" // zone database for images without /usr/share/zoneinfo

	"github.com/patrickmn/go-cache"
)

var locations = cache.New(cache.NoExpiration, 0)

// ValidTimezone reports whether name is a loadable IANA zone.
func ValidTimezone(name string) bool {
	_, ok := load(name)
	return ok
}

// Location resolves a viewer's IANA timezone, falling back to UTC for empty
// or unknown names.
func Location(name string) *time.Location {
	if loc, ok := load(name); ok {
		return loc
	}
	return time.UTC
}

// ViewerNow is now as a wall clock in the viewer's timezone. Day rollover and
// the next reset are computed from it.
func ViewerNow(clock Clock, timezone string) time.Time {
	return clock.Now().In(Location(timezone))
}

func load(name string) (*time.Location, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	if cached, ok := locations.Get(name); ok {
		return cached.(*time.Location), true
	}
	loc, err := time.LoadLocation(name)
	if err != nil || strings.EqualFold(name, "local") {
		return nil, false
	}
	locations.SetDefault(name, loc)
	return loc, true
}
