// Package timezone pins timestamps to the configured application timezone
// (APP_TIMEZONE, an IANA name such as "Asia/Kolkata"). UTC is used when the
// variable is empty or unknown.
package timezone

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"hostel/config"
)

var (
	appLocation *time.Location
	once        sync.Once
)

func location() *time.Location {
	once.Do(func() {
		appLocation = load(config.Get().App.Timezone)
	})

	return appLocation
}

func load(name string) *time.Location {
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, falling back to UTC")

		return time.UTC
	}

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")

	return loc
}

// SetLocation overrides the configured timezone.
func SetLocation(name string) {
	loc := load(name)

	once.Do(func() {})
	appLocation = loc
}

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(location())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(location())
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
