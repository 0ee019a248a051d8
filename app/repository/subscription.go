package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/andreiblt1304/subscription-service/app/entity"
)

// SubscriptionRepository is the MySQL-backed ledger. It is keyed by address:
// a second subscribe for the same address replaces the record wholesale.
type SubscriptionRepository struct {
	db DBTX
}

func NewSubscriptionRepository(db DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Upsert(ctx context.Context, subscription *entity.Subscription) error {
	query := `
		INSERT INTO subscriptions (address, plan_id, started_at, expires_at, paid_amount)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			plan_id = VALUES(plan_id),
			started_at = VALUES(started_at),
			expires_at = VALUES(expires_at),
			paid_amount = VALUES(paid_amount)
	`

	_, err := r.db.ExecContext(ctx, query,
		subscription.Address,
		subscription.PlanID,
		subscription.StartedAt,
		subscription.ExpiresAt,
		amountValue(subscription.PaidAmount),
	)
	return err
}

func (r *SubscriptionRepository) FindByAddress(ctx context.Context, address string) (*entity.Subscription, error) {
	query := `
		SELECT address, plan_id, started_at, expires_at, paid_amount
		FROM subscriptions
		WHERE address = ?
	`

	item := &entity.Subscription{}
	var paid string
	err := r.db.QueryRowContext(ctx, query, address).Scan(
		&item.Address,
		&item.PlanID,
		&item.StartedAt,
		&item.ExpiresAt,
		&paid,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if item.PaidAmount, err = scanAmount(paid); err != nil {
		return nil, err
	}

	return item, nil
}

func (r *SubscriptionRepository) ListExpired(ctx context.Context, now time.Time) ([]*entity.Subscription, error) {
	query := `
		SELECT address, plan_id, started_at, expires_at, paid_amount
		FROM subscriptions
		WHERE expires_at <= ?
		ORDER BY expires_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.Subscription, 0)
	for rows.Next() {
		item := &entity.Subscription{}
		var paid string
		if err := rows.Scan(&item.Address, &item.PlanID, &item.StartedAt, &item.ExpiresAt, &paid); err != nil {
			return nil, err
		}
		if item.PaidAmount, err = scanAmount(paid); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
