package id

import (
	"github.com/oklog/ulid/v2"
)

// New returns a ULID string for a user record. ulid.Make draws from a
// process-wide monotonic source, so ids created within the same millisecond
// still sort in creation order.
func New() string {
	return ulid.Make().String()
}

// Valid reports whether s parses as a ULID. Used to reject malformed ids
// before they reach the directory.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
