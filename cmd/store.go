package cmd

import (
	"context"
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/andreiblt1304/subscription-service/app/entity"
	"github.com/andreiblt1304/subscription-service/app/repository"
	"github.com/andreiblt1304/subscription-service/config"

	_ "github.com/go-sql-driver/mysql"
)

type planStore interface {
	Create(ctx context.Context, plan *entity.Plan) error
	FindByID(ctx context.Context, id uint32) (*entity.Plan, error)
	ListIDs(ctx context.Context) ([]uint32, error)
}

type subscriptionStore interface {
	Upsert(ctx context.Context, subscription *entity.Subscription) error
	FindByAddress(ctx context.Context, address string) (*entity.Subscription, error)
	ListExpired(ctx context.Context, now time.Time) ([]*entity.Subscription, error)
}

func mustCreateStore(cfg *config.Config) (planStore, subscriptionStore, func()) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		store := repository.NewMemoryStore()
		return store, store, func() {}
	}

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}

	return repository.NewPlanRepository(db), repository.NewSubscriptionRepository(db), cleanup
}
