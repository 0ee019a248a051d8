package types

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/andreiblt1304/subscription-service/app/entity"
	"github.com/labstack/echo/v4"
)

// Request types for the subscription API. Amounts are decimal strings because
// prices are 128-bit values that do not survive a JSON number.

type CreatePlanRequest struct {
	Title        string `json:"title"`
	DurationDays uint64 `json:"duration_days"`
	Price        string `json:"price"`
}

func (r *CreatePlanRequest) GetTitle() string        { return r.Title }
func (r *CreatePlanRequest) GetDurationDays() uint64 { return r.DurationDays }
func (r *CreatePlanRequest) GetPrice() string        { return r.Price }

func NewCreatePlanRequestFromContext(ctx echo.Context) (*CreatePlanRequest, error) {
	var body CreatePlanRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Title = strings.TrimSpace(body.Title)
	body.Price = strings.TrimSpace(body.Price)
	return &body, nil
}

func (r *CreatePlanRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if r.DurationDays == 0 {
		return errors.New("duration_days must be greater than zero")
	}
	if r.DurationDays > entity.MaxDurationDays {
		return fmt.Errorf("duration_days must not exceed %d", entity.MaxDurationDays)
	}
	price, ok := new(big.Int).SetString(strings.TrimSpace(r.Price), 10)
	if !ok {
		return errors.New("price must be a base-10 integer string")
	}
	if price.Sign() <= 0 {
		return errors.New("price must be greater than zero")
	}
	return nil
}

type SubscribeRequest struct {
	Address string `json:"address"`
	PlanId  uint32 `json:"plan_id"`
	Amount  string `json:"amount"`
}

func (r *SubscribeRequest) GetAddress() string { return r.Address }
func (r *SubscribeRequest) GetPlanId() uint32  { return r.PlanId }
func (r *SubscribeRequest) GetAmount() string  { return r.Amount }

func NewSubscribeRequestFromContext(ctx echo.Context) (*SubscribeRequest, error) {
	var body SubscribeRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Address = strings.TrimSpace(body.Address)
	body.Amount = strings.TrimSpace(body.Amount)
	return &body, nil
}

func (r *SubscribeRequest) Validate() error {
	if strings.TrimSpace(r.Address) == "" {
		return errors.New("address is required")
	}
	if r.PlanId == 0 {
		return errors.New("plan_id is required")
	}
	amount, ok := new(big.Int).SetString(strings.TrimSpace(r.Amount), 10)
	if !ok {
		return errors.New("amount must be a base-10 integer string")
	}
	if amount.Sign() < 0 {
		return errors.New("amount must not be negative")
	}
	return nil
}

type GetPlanRequest struct {
	Id uint32
}

func (r *GetPlanRequest) GetId() uint32 { return r.Id }

func NewGetPlanRequestFromContext(ctx echo.Context) (*GetPlanRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return nil, err
	}
	return &GetPlanRequest{Id: uint32(id)}, nil
}

func (r *GetPlanRequest) Validate() error {
	if r.Id == 0 {
		return errors.New("invalid plan id")
	}
	return nil
}

type GetSubscriptionRequest struct {
	Address string
}

func (r *GetSubscriptionRequest) GetAddress() string { return r.Address }

func NewGetSubscriptionRequestFromContext(ctx echo.Context) (*GetSubscriptionRequest, error) {
	return &GetSubscriptionRequest{Address: strings.TrimSpace(ctx.Param("address"))}, nil
}

func (r *GetSubscriptionRequest) Validate() error {
	if strings.TrimSpace(r.Address) == "" {
		return errors.New("address is required")
	}
	return nil
}

type IsActiveRequest struct {
	Address string
	HasAt   bool
	At      time.Time
}

func (r *IsActiveRequest) GetAddress() string { return r.Address }

func NewIsActiveRequestFromContext(ctx echo.Context) (*IsActiveRequest, error) {
	req := &IsActiveRequest{Address: strings.TrimSpace(ctx.Param("address"))}

	atRaw := strings.TrimSpace(ctx.QueryParam("at"))
	if atRaw != "" {
		at, err := time.Parse(time.RFC3339, atRaw)
		if err != nil {
			return nil, err
		}
		req.HasAt = true
		req.At = at.UTC()
	}

	return req, nil
}

func (r *IsActiveRequest) Validate() error {
	if strings.TrimSpace(r.Address) == "" {
		return errors.New("address is required")
	}
	return nil
}
