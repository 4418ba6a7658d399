// Package store implements SQLite-backed persistence for the election
// service. Each aggregate gets its own store over a shared *sql.DB; the
// schema's uniqueness constraints, not the stores' pre-checks, are the
// final word on double votes and duplicate nominations.
package store

import (
	"math"
	"strings"
)

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. modernc.org/sqlite exposes no typed error for this, so the
// message is matched the same way the driver's own tests do.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
