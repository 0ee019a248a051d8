package payment

import (
	"errors"
	"math/big"
)

// ErrAmountMismatch is returned when the paid amount does not exactly equal
// the required price.
var ErrAmountMismatch = errors.New("paid amount does not match required price")

// Gate validates the payment attached to a subscribe request before the
// ledger commits anything.
type Gate interface {
	Validate(paid, price *big.Int) error
}

// ExactAmountGate accepts only payments that equal the plan price exactly.
// No overpayment credit, no partial payments: a zero or mismatched amount is
// a rejection, not a warning.
type ExactAmountGate struct{}

func NewExactAmountGate() ExactAmountGate {
	return ExactAmountGate{}
}

func (ExactAmountGate) Validate(paid, price *big.Int) error {
	if paid == nil || price == nil {
		return ErrAmountMismatch
	}
	if paid.Cmp(price) != 0 {
		return ErrAmountMismatch
	}
	return nil
}
