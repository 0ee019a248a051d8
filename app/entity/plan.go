package entity

import (
	"math"
	"math/big"
	"time"
)

// MaxDurationDays is the largest plan duration whose subscription window
// still fits time.Duration; anything above would wrap the expiry computation
// negative.
const MaxDurationDays uint64 = math.MaxInt64 / uint64(24*time.Hour)

// Plan is an administrator-defined subscription offering. Plans are immutable
// once created; identifiers are assigned by the registry starting at 1 and are
// never reused.
type Plan struct {
	ID           uint32
	Title        string
	DurationDays uint64
	Price        *big.Int
	CreatedAt    time.Time
}

// Duration is the plan's subscription window in clock units.
func (p *Plan) Duration() time.Duration {
	return time.Duration(p.DurationDays) * 24 * time.Hour
}
