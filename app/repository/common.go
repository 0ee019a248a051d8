package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
)

// ErrIDExhausted is returned when the registry cannot allocate another
// 32-bit plan identifier.
var ErrIDExhausted = errors.New("plan identifier space exhausted")

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Amounts are u128-sized and stored as DECIMAL(39,0); they travel through the
// driver as decimal strings.
func amountValue(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func scanAmount(raw string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount column value %q", raw)
	}
	return v, nil
}
