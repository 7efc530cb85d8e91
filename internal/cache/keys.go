// Package cache names and opens the Redis keyspace used for run bookkeeping.
package cache

import "strings"

// KeyPrefix namespaces every key this module writes.
const KeyPrefix = "quizseed"

// Key joins parts under KeyPrefix with ":", skipping empty parts.
func Key(parts ...string) string {
	out := make([]string, 0, len(parts)+1)
	out = append(out, KeyPrefix)
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ":")
}

// SeedRunKey is the hash holding per-tier progress of one seeding run.
func SeedRunKey(runID string) string {
	return Key("seed", "run", runID)
}
