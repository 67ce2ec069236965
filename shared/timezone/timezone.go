package timezone

import (
	"errors"
	"time"

	"vrent/config"

	"github.com/rs/zerolog/log"
)

var ErrInvalidDate = errors.New("date must be YYYY-MM-DD or RFC 3339")

var (
	appLocation *time.Location
)

func init() {
	cfg := config.Get()

	if cfg.App.Timezone == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")
		cfg.App.Timezone = "UTC"
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", cfg.App.Timezone).
			Msg("Failed to load timezone, falling back to UTC. Please use standard timezone names like 'Asia/Jakarta', 'UTC', 'America/New_York'")
		appLocation = time.UTC
		return
	}

	appLocation = loc
	log.Info().
		Str("timezone", cfg.App.Timezone).
		Str("location", loc.String()).
		Msg("Application timezone initialized")
}

// Now returns the current time in the application timezone
func Now() time.Time {
	if appLocation == nil {
		log.Warn().Msg("Timezone not initialized, using UTC")
		return time.Now().UTC()
	}
	return time.Now().In(appLocation)
}

// Format renders t in the application timezone.
func Format(t time.Time, layout string) string {
	if appLocation == nil {
		return t.UTC().Format(layout)
	}

	return t.In(appLocation).Format(layout)
}

// ParseDate parses a wire date. Date-only values are pinned to UTC midnight so that
// day arithmetic never crosses a daylight-saving shift.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	return time.Time{}, ErrInvalidDate
}
