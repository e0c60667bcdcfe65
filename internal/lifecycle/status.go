// Package lifecycle derives a booking's status and health from its facts.
// Nothing here touches storage or the wall clock: callers pass "today" in.
package lifecycle

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusTentative Status = "TENTATIVE"
	StatusConfirmed Status = "CONFIRMED"
	StatusLive      Status = "LIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus returns the status named by s and whether it is a known value.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusTentative, StatusConfirmed, StatusLive, StatusCompleted, StatusCancelled:
		return st, true
	}
	return "", false
}

// confirmationShare is the fraction of the total that must be paid to confirm.
var confirmationShare = decimal.RequireFromString("0.30")

// PaymentFacts are the money figures shared by status and health rules.
type PaymentFacts struct {
	TotalAmount   decimal.Decimal
	AdvanceAmount decimal.Decimal
	// InvoicePaid is nil when the booking has no invoice.
	InvoicePaid *decimal.Decimal
}

// Paid is the invoice's paid amount, falling back to the advance.
func (p PaymentFacts) Paid() decimal.Decimal {
	if p.InvoicePaid != nil {
		return *p.InvoicePaid
	}
	return p.AdvanceAmount
}

// Total treats a zero total as 1 so ratios stay defined; any positive payment
// then satisfies every threshold below 100%.
func (p PaymentFacts) Total() decimal.Decimal {
	if p.TotalAmount.IsZero() {
		return decimal.NewFromInt(1)
	}
	return p.TotalAmount
}

type BookingFacts struct {
	PaymentFacts
	// StoredStatus only matters when it is CANCELLED.
	StoredStatus string
	StartDate    time.Time
	EndDate      time.Time
	EventClosed  bool
}

// DeriveStatus applies the lifecycle rules in priority order; the first match wins.
// today must already be expressed in the business time zone. Booking dates are
// compared by their calendar day only.
func DeriveStatus(f BookingFacts, today time.Time) Status {
	if f.StoredStatus == string(StatusCancelled) {
		return StatusCancelled
	}

	day := calendarDay(today)
	start := calendarDay(f.StartDate)
	end := calendarDay(f.EndDate)

	if f.EventClosed && day.After(end) {
		return StatusCompleted
	}
	// The date window outranks payment: an unpaid event in progress is still LIVE.
	if !day.Before(start) && !day.After(end) {
		return StatusLive
	}
	if f.Paid().GreaterThanOrEqual(f.Total().Mul(confirmationShare)) {
		return StatusConfirmed
	}
	return StatusTentative
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
