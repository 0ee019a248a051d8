package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/andreiblt1304/subscription-service/app/entity"
)

type fakeDB struct {
	execFn func(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (f *fakeDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if f.execFn != nil {
		return f.execFn(ctx, query, args...)
	}
	return fakeResult{lastInsertID: 1, rowsAffected: 1}, nil
}

func (f *fakeDB) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDB) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

type fakeResult struct {
	lastInsertID int64
	rowsAffected int64
	lastErr      error
	rowsErr      error
}

func (r fakeResult) LastInsertId() (int64, error) {
	return r.lastInsertID, r.lastErr
}

func (r fakeResult) RowsAffected() (int64, error) {
	return r.rowsAffected, r.rowsErr
}

func TestPlanCreateAssignsID(t *testing.T) {
	var gotArgs []interface{}
	repo := NewPlanRepository(&fakeDB{execFn: func(_ context.Context, _ string, args ...interface{}) (sql.Result, error) {
		gotArgs = args
		return fakeResult{lastInsertID: 7}, nil
	}})

	plan := &entity.Plan{
		Title:        "Monthly Plan",
		DurationDays: 30,
		Price:        new(big.Int).SetUint64(1_000_000_000_000_000),
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), plan); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if plan.ID != 7 {
		t.Fatalf("expected id=7, got %d", plan.ID)
	}
	if len(gotArgs) != 4 {
		t.Fatalf("expected 4 insert args, got %d", len(gotArgs))
	}
	if gotArgs[2] != "1000000000000000" {
		t.Fatalf("expected price bound as decimal string, got %v", gotArgs[2])
	}
}

func TestPlanCreateIDOverflow(t *testing.T) {
	repo := NewPlanRepository(&fakeDB{execFn: func(_ context.Context, _ string, _ ...interface{}) (sql.Result, error) {
		return fakeResult{lastInsertID: math.MaxUint32 + 1}, nil
	}})

	err := repo.Create(context.Background(), &entity.Plan{Title: "t", DurationDays: 1, Price: big.NewInt(1)})
	if !errors.Is(err, ErrIDExhausted) {
		t.Fatalf("expected ErrIDExhausted, got %v", err)
	}
}

func TestPlanCreatePropagatesExecError(t *testing.T) {
	wantErr := errors.New("connection lost")
	repo := NewPlanRepository(&fakeDB{execFn: func(_ context.Context, _ string, _ ...interface{}) (sql.Result, error) {
		return nil, wantErr
	}})

	err := repo.Create(context.Background(), &entity.Plan{Title: "t", DurationDays: 1, Price: big.NewInt(1)})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected exec error, got %v", err)
	}
}

func TestScanAmount(t *testing.T) {
	v, err := scanAmount("340282366920938463463374607431768211455")
	if err != nil {
		t.Fatalf("expected u128 max to scan, got %v", err)
	}
	if v.String() != "340282366920938463463374607431768211455" {
		t.Fatalf("unexpected value %s", v)
	}

	if _, err := scanAmount("not-a-number"); err == nil {
		t.Fatal("expected error for malformed amount")
	}
}
