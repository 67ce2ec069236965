// Package timezone holds the application timezone, loaded from APP_TIMEZONE
// when the package is imported (UTC when unset or unknown).
//
//	now := timezone.Now()
//	stamp := timezone.Format(now, time.RFC3339)
//	start, err := timezone.ParseDate("2024-01-01")
//
// Use IANA names such as "UTC" or "America/Sao_Paulo".
package timezone
