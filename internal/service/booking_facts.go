package service

import (
	"venueops/internal/lifecycle"
	"venueops/internal/model"

	"github.com/shopspring/decimal"
)

func paymentFacts(b *model.Booking) lifecycle.PaymentFacts {
	p := lifecycle.PaymentFacts{TotalAmount: b.TotalAmount, AdvanceAmount: b.AdvanceAmount}
	if b.Invoice != nil {
		paid := b.Invoice.PaidAmount
		p.InvoicePaid = &paid
	}
	return p
}

func bookingFacts(b *model.Booking) lifecycle.BookingFacts {
	return lifecycle.BookingFacts{
		PaymentFacts: paymentFacts(b),
		StoredStatus: b.Status,
		StartDate:    b.StartDate,
		EndDate:      b.EndDate,
		EventClosed:  b.EventClosed,
	}
}

func healthFacts(b *model.Booking) lifecycle.HealthFacts {
	f := lifecycle.HealthFacts{
		PaymentFacts: paymentFacts(b),
		GuestCount:   b.GuestCount,
	}
	if b.Event != nil {
		f.VendorBookingCount = len(b.Event.VendorBookings)
		f.MenuSelectionCount = len(b.Event.MenuSelections)
	}
	if len(b.Resources) > 0 {
		f.EffectiveQtys = make([]decimal.Decimal, len(b.Resources))
		for i := range b.Resources {
			f.EffectiveQtys[i] = b.Resources[i].EffectiveQty()
		}
	}
	if b.Lead != nil {
		for _, a := range b.Lead.Activities {
			f.Activities = append(f.Activities, a.Action)
		}
	}
	return f
}
