package domain

import (
	"context"
	"time"
)

// RunStore keeps small per-run hashes outside the process so an operator can
// watch a seeding run from another shell.
type RunStore interface {
	Ping(ctx context.Context) error

	// PutField writes one field of the hash at key and refreshes the key's
	// expiry in the same round trip. A zero ttl leaves the key without expiry.
	PutField(ctx context.Context, key, field, value string, ttl time.Duration) error

	// Fields returns every field of the hash at key; a missing key yields an empty map.
	Fields(ctx context.Context, key string) (map[string]string, error)
}
