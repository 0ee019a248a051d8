package repository

import (
	"context"
	"database/sql"
	"math"

	"github.com/andreiblt1304/subscription-service/app/entity"
)

// PlanRepository is the MySQL-backed plan registry. Identifier allocation
// rides on AUTO_INCREMENT, which starts at 1 and never reassigns an id.
type PlanRepository struct {
	db DBTX
}

func NewPlanRepository(db DBTX) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(ctx context.Context, plan *entity.Plan) error {
	query := `
		INSERT INTO plans (title, duration_days, price, created_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		plan.Title,
		plan.DurationDays,
		amountValue(plan.Price),
		plan.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	if id < 1 || id > math.MaxUint32 {
		return ErrIDExhausted
	}
	plan.ID = uint32(id)

	return nil
}

func (r *PlanRepository) FindByID(ctx context.Context, id uint32) (*entity.Plan, error) {
	query := `
		SELECT id, title, duration_days, price, created_at
		FROM plans
		WHERE id = ?
	`

	item := &entity.Plan{}
	var price string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.Title,
		&item.DurationDays,
		&price,
		&item.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if item.Price, err = scanAmount(price); err != nil {
		return nil, err
	}

	return item, nil
}

func (r *PlanRepository) ListIDs(ctx context.Context) ([]uint32, error) {
	query := `
		SELECT id
		FROM plans
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uint32, 0)
	for rows.Next() {
		var id uint32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
