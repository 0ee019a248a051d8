package mapper

import (
	"math/big"
	"time"

	"github.com/andreiblt1304/subscription-service/app/dto"
	"github.com/andreiblt1304/subscription-service/app/entity"
)

func PlanToResponse(item *entity.Plan) dto.PlanResponse {
	return dto.PlanResponse{
		ID:           item.ID,
		Title:        item.Title,
		DurationDays: item.DurationDays,
		Price:        amountString(item.Price),
		CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func SubscriptionToResponse(item *entity.Subscription) dto.SubscriptionResponse {
	return dto.SubscriptionResponse{
		Address:    item.Address,
		PlanID:     item.PlanID,
		StartedAt:  item.StartedAt.UTC().Format(time.RFC3339),
		ExpiresAt:  item.ExpiresAt.UTC().Format(time.RFC3339),
		PaidAmount: amountString(item.PaidAmount),
	}
}

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
