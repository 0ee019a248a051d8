package repository

import (
	"context"
	"math"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/andreiblt1304/subscription-service/app/entity"
)

// MemoryStore holds the plan registry and subscription ledger in process. A
// single mutex guards all state, so identifier allocation is linearizable and
// a subscribe's lookup-then-write sequence never observes a half-applied
// record. Records are copied on the way in and out; callers cannot mutate
// stored state through returned pointers.
type MemoryStore struct {
	mu            sync.Mutex
	nextPlanID    uint32
	plans         map[uint32]*entity.Plan
	planOrder     []uint32
	subscriptions map[string]*entity.Subscription
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextPlanID:    1,
		plans:         make(map[uint32]*entity.Plan),
		subscriptions: make(map[string]*entity.Subscription),
	}
}

func (s *MemoryStore) Create(_ context.Context, plan *entity.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nextPlanID == math.MaxUint32 {
		return ErrIDExhausted
	}
	plan.ID = s.nextPlanID
	s.nextPlanID++

	s.plans[plan.ID] = copyPlan(plan)
	s.planOrder = append(s.planOrder, plan.ID)

	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uint32) (*entity.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, ok := s.plans[id]
	if !ok {
		return nil, nil
	}
	return copyPlan(plan), nil
}

func (s *MemoryStore) ListIDs(_ context.Context) ([]uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]uint32, len(s.planOrder))
	copy(ids, s.planOrder)
	return ids, nil
}

func (s *MemoryStore) Upsert(_ context.Context, subscription *entity.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscriptions[subscription.Address] = copySubscription(subscription)
	return nil
}

func (s *MemoryStore) FindByAddress(_ context.Context, address string) (*entity.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subscription, ok := s.subscriptions[address]
	if !ok {
		return nil, nil
	}
	return copySubscription(subscription), nil
}

func (s *MemoryStore) ListExpired(_ context.Context, now time.Time) ([]*entity.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]*entity.Subscription, 0)
	for _, subscription := range s.subscriptions {
		if !subscription.ExpiresAt.After(now) {
			items = append(items, copySubscription(subscription))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ExpiresAt.Before(items[j].ExpiresAt)
	})

	return items, nil
}

func copyPlan(src *entity.Plan) *entity.Plan {
	cp := *src
	if src.Price != nil {
		cp.Price = new(big.Int).Set(src.Price)
	}
	return &cp
}

func copySubscription(src *entity.Subscription) *entity.Subscription {
	cp := *src
	if src.PaidAmount != nil {
		cp.PaidAmount = new(big.Int).Set(src.PaidAmount)
	}
	return &cp
}
