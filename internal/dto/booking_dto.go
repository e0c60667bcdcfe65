package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// BookingFilter is bound from query string of GET /v1/bookings.
type BookingFilter struct {
	Status string `form:"status"` // derived status; empty = any
	Health string `form:"health"` // Healthy | Needs Attention | High Risk
	From   string `form:"from"`   // YYYY-MM-DD, start_date >= from
	To     string `form:"to"`     // YYYY-MM-DD, start_date <= to
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type BookingListResponse struct {
	Data  []BookingResponse `json:"data"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type HealthBreakdown struct {
	Payment   int `json:"payment"`
	Vendor    int `json:"vendor"`
	Menu      int `json:"menu"`
	Guest     int `json:"guest"`
	Stock     int `json:"stock"`
	FollowUps int `json:"follow_ups"`
}

// BookingResponse is a booking enriched with its derived status and health.
type BookingResponse struct {
	ID            string          `json:"id"`
	BookingNumber string          `json:"booking_number"`
	BranchID      string          `json:"branch_id"`
	GuestCount    int             `json:"guest_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AdvanceAmount decimal.Decimal `json:"advance_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	EventClosed   bool            `json:"event_closed"`
	EventID       *string         `json:"event_id"`
	Status        string          `json:"status"`
	StoredStatus  string          `json:"stored_status"`
	HealthScore   int             `json:"health_score"`
	HealthLabel   string          `json:"health_label"`
	Breakdown     HealthBreakdown `json:"breakdown"`
}
