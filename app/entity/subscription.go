package entity

import (
	"math/big"
	"time"
)

// Subscription binds an address to a plan for a bounded time window. The
// ledger holds at most one record per address; a renewal replaces the record
// wholesale. Expiry is a read-time interpretation of ExpiresAt, never a stored
// state.
type Subscription struct {
	Address    string
	PlanID     uint32
	StartedAt  time.Time
	ExpiresAt  time.Time
	PaidAmount *big.Int
}

// ActiveAt reports whether the subscription covers the given instant.
func (s *Subscription) ActiveAt(t time.Time) bool {
	return !t.Before(s.StartedAt) && t.Before(s.ExpiresAt)
}
