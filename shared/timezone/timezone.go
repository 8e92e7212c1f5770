package timezone

import (
	"sync"
	"sync/atomic"
	"time"

	"innkeep/config"
	"innkeep/shared/daterange"

	"github.com/rs/zerolog/log"
)

const defaultTimezone = "Asia/Taipei"

var (
	configured = sync.OnceValue(load)
	override   atomic.Pointer[time.Location]
)

func load() *time.Location {
	name := config.Get().App.Timezone
	if name == "" {
		log.Warn().Str("timezone", defaultTimezone).Msg("No timezone configured, using default")
		name = defaultTimezone
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Unknown timezone, falling back to UTC")

		return time.UTC
	}

	log.Info().Str("timezone", loc.String()).Msg("Application timezone loaded")

	return loc
}

// Use pins the location, replacing the configured one. Passing nil restores it.
func Use(loc *time.Location) {
	override.Store(loc)
}

// Location is where the hotel's calendar days start and end.
func Location() *time.Location {
	if loc := override.Load(); loc != nil {
		return loc
	}

	return configured()
}

func Now() time.Time {
	return time.Now().In(Location())
}

// Today returns the wall-clock calendar date in the application timezone.
func Today() time.Time {
	return daterange.DateOf(Now())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(Location())
}

// Parse reads value as wall-clock time in the application timezone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, Location()) //nolint:wrapcheck
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
