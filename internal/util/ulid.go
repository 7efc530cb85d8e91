package util

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID string.
// ulid.Make reads from a process-wide monotonic entropy source, so IDs made
// within the same millisecond still sort in creation order.
func NewULID() string {
	return ulid.Make().String()
}

// ULIDTime returns the timestamp embedded in a ULID string.
func ULIDTime(id string) (time.Time, error) {
	parsed, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
