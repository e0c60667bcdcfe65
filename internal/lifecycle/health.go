package lifecycle

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Label string

const (
	LabelHealthy        Label = "Healthy"
	LabelNeedsAttention Label = "Needs Attention"
	LabelHighRisk       Label = "High Risk"
)

// Category maxima. They sum to 100.
const (
	MaxPayment   = 25
	MaxVendor    = 15
	MaxMenu      = 15
	MaxGuest     = 10
	MaxStock     = 20
	MaxFollowUps = 15
)

var halfShare = decimal.RequireFromString("0.5")

type Breakdown struct {
	Payment   int `json:"payment"`
	Vendor    int `json:"vendor"`
	Menu      int `json:"menu"`
	Guest     int `json:"guest"`
	Stock     int `json:"stock"`
	FollowUps int `json:"follow_ups"`
}

// Total is the sum of every category.
func (b Breakdown) Total() int {
	return b.Payment + b.Vendor + b.Menu + b.Guest + b.Stock + b.FollowUps
}

type Health struct {
	Score     int       `json:"score"`
	Label     Label     `json:"label"`
	Breakdown Breakdown `json:"breakdown"`
}

type HealthFacts struct {
	PaymentFacts
	GuestCount         int
	VendorBookingCount int
	MenuSelectionCount int
	// EffectiveQtys holds one effective quantity per booking resource row.
	EffectiveQtys []decimal.Decimal
	// Activities are the raw action texts of the lead's activity log.
	Activities []string
}

// ScoreHealth computes the weighted health score. Score always equals the
// breakdown total.
func ScoreHealth(f HealthFacts) Health {
	var b Breakdown

	paid, total := f.Paid(), f.Total()
	switch {
	case paid.GreaterThanOrEqual(total):
		b.Payment = MaxPayment
	case paid.GreaterThanOrEqual(total.Mul(halfShare)):
		b.Payment = 15
	case paid.IsPositive():
		b.Payment = 8
	}

	if f.VendorBookingCount > 0 {
		b.Vendor = MaxVendor
	}
	if f.MenuSelectionCount > 0 {
		b.Menu = MaxMenu
	}
	if f.GuestCount > 0 {
		b.Guest = MaxGuest
	}

	if len(f.EffectiveQtys) > 0 {
		b.Stock = MaxStock
		for _, q := range f.EffectiveQtys {
			if !q.IsPositive() {
				b.Stock = 5
				break
			}
		}
	}

	b.FollowUps = MaxFollowUps
	if HasPendingFollowUp(f.Activities) {
		b.FollowUps = 5
	}

	score := b.Total()
	return Health{Score: score, Label: labelFor(score), Breakdown: b}
}

// HasPendingFollowUp reports whether any action mentions "follow" without "done".
func HasPendingFollowUp(actions []string) bool {
	for _, a := range actions {
		lower := strings.ToLower(a)
		if strings.Contains(lower, "follow") && !strings.Contains(lower, "done") {
			return true
		}
	}
	return false
}

func labelFor(score int) Label {
	switch {
	case score >= 80:
		return LabelHealthy
	case score >= 60:
		return LabelNeedsAttention
	default:
		return LabelHighRisk
	}
}
