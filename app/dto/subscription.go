package dto

type PlanResponse struct {
	ID           uint32 `json:"id"`
	Title        string `json:"title"`
	DurationDays uint64 `json:"duration_days"`
	Price        string `json:"price"`
	CreatedAt    string `json:"created_at"`
}

type SubscriptionResponse struct {
	Address    string `json:"address"`
	PlanID     uint32 `json:"plan_id"`
	StartedAt  string `json:"started_at"`
	ExpiresAt  string `json:"expires_at"`
	PaidAmount string `json:"paid_amount"`
}

type PlanEnvelopeResponse struct {
	Plan PlanResponse `json:"plan"`
}

type ListPlanIDsResponse struct {
	PlanIDs []uint32 `json:"plan_ids"`
}

type SubscriptionEnvelopeResponse struct {
	Subscription SubscriptionResponse `json:"subscription"`
}

type IsActiveResponse struct {
	Address string `json:"address"`
	At      string `json:"at"`
	Active  bool   `json:"active"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
