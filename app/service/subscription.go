package service

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/andreiblt1304/subscription-service/app/clock"
	"github.com/andreiblt1304/subscription-service/app/entity"
	"github.com/andreiblt1304/subscription-service/app/payment"
)

type createPlanRequest interface {
	GetTitle() string
	GetDurationDays() uint64
	GetPrice() string
}

type subscribeRequest interface {
	GetAddress() string
	GetPlanId() uint32
	GetAmount() string
}

type planRepository interface {
	Create(ctx context.Context, plan *entity.Plan) error
	FindByID(ctx context.Context, id uint32) (*entity.Plan, error)
	ListIDs(ctx context.Context) ([]uint32, error)
}

type subscriptionRepository interface {
	Upsert(ctx context.Context, subscription *entity.Subscription) error
	FindByAddress(ctx context.Context, address string) (*entity.Subscription, error)
	ListExpired(ctx context.Context, now time.Time) ([]*entity.Subscription, error)
}

// SubscriptionService owns the plan registry and subscription ledger state
// machine. All time flows from the injected clock; the service never reads
// the wall clock directly.
type SubscriptionService struct {
	planRepo         planRepository
	subscriptionRepo subscriptionRepository
	gate             payment.Gate
	clk              clock.Clock
}

func NewSubscriptionService(
	planRepo planRepository,
	subscriptionRepo subscriptionRepository,
	gate payment.Gate,
	clk clock.Clock,
) *SubscriptionService {
	return &SubscriptionService{
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		gate:             gate,
		clk:              clk,
	}
}

// CreatePlan validates the definition and registers a new immutable plan.
// A rejected definition allocates no identifier.
func (s *SubscriptionService) CreatePlan(ctx context.Context, req createPlanRequest) (*entity.Plan, error) {
	title := strings.TrimSpace(req.GetTitle())
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidPlan)
	}
	if req.GetDurationDays() == 0 {
		return nil, fmt.Errorf("%w: duration_days must be greater than zero", ErrInvalidPlan)
	}
	if req.GetDurationDays() > entity.MaxDurationDays {
		return nil, fmt.Errorf("%w: duration_days must not exceed %d", ErrInvalidPlan, entity.MaxDurationDays)
	}
	price, err := parseAmount(req.GetPrice())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPlan, err)
	}
	if price.Sign() <= 0 {
		return nil, fmt.Errorf("%w: price must be greater than zero", ErrInvalidPlan)
	}

	plan := &entity.Plan{
		Title:        title,
		DurationDays: req.GetDurationDays(),
		Price:        price,
		CreatedAt:    s.clk.Now().UTC(),
	}
	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}

	return plan, nil
}

// Subscribe commits a subscription for the address after the payment gate
// accepts the attached amount. The sequence is: plan lookup, payment
// validation, window derivation, ledger upsert; a rejection at any step
// writes nothing. An existing record for the address is replaced wholesale,
// expired or not.
func (s *SubscriptionService) Subscribe(ctx context.Context, req subscribeRequest) (*entity.Subscription, error) {
	address := strings.TrimSpace(req.GetAddress())
	if address == "" {
		return nil, fmt.Errorf("%w: address is required", ErrInvalidRequest)
	}
	amount, err := parseAmount(req.GetAmount())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	plan, err := s.planRepo.FindByID(ctx, req.GetPlanId())
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}

	if err := s.gate.Validate(amount, plan.Price); err != nil {
		return nil, fmt.Errorf("%w: paid %s, required %s", ErrInsufficientPayment, amount, plan.Price)
	}

	now := s.clk.Now().UTC()
	subscription := &entity.Subscription{
		Address:    address,
		PlanID:     plan.ID,
		StartedAt:  now,
		ExpiresAt:  now.Add(plan.Duration()),
		PaidAmount: amount,
	}
	if err := s.subscriptionRepo.Upsert(ctx, subscription); err != nil {
		return nil, err
	}

	return subscription, nil
}

func (s *SubscriptionService) GetPlan(ctx context.Context, id uint32) (*entity.Plan, error) {
	plan, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

func (s *SubscriptionService) ListPlanIDs(ctx context.Context) ([]uint32, error) {
	return s.planRepo.ListIDs(ctx)
}

func (s *SubscriptionService) GetSubscription(ctx context.Context, address string) (*entity.Subscription, error) {
	subscription, err := s.subscriptionRepo.FindByAddress(ctx, strings.TrimSpace(address))
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		return nil, ErrSubscriptionNotFound
	}
	return subscription, nil
}

// IsActive reports whether the address holds a subscription that covers the
// given instant. A zero instant means "now" per the service clock. An absent
// record is simply inactive, not an error.
func (s *SubscriptionService) IsActive(ctx context.Context, address string, at time.Time) (bool, error) {
	if at.IsZero() {
		at = s.clk.Now().UTC()
	}

	subscription, err := s.subscriptionRepo.FindByAddress(ctx, strings.TrimSpace(address))
	if err != nil {
		return false, err
	}
	if subscription == nil {
		return false, nil
	}

	return subscription.ActiveAt(at), nil
}

// ListExpiredSubscriptions returns the ledger entries whose window has closed
// as of the service clock. Expiry stays a derived condition; nothing is
// evicted or rewritten.
func (s *SubscriptionService) ListExpiredSubscriptions(ctx context.Context) ([]*entity.Subscription, error) {
	return s.subscriptionRepo.ListExpired(ctx, s.clk.Now().UTC())
}

func parseAmount(value string) (*big.Int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, fmt.Errorf("amount is required")
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("amount %q is not a base-10 integer", value)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("amount must not be negative")
	}
	return amount, nil
}
