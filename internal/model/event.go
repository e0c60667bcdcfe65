package model

import (
	"time"

	"github.com/google/uuid"
)

// Event is created once a booking is confirmed. Its GuestCount may be revised
// independently of the booking's.
type Event struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BookingID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	GuestCount int       `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Booking        *Booking        `gorm:"foreignKey:BookingID"`
	MenuSelections []MenuSelection `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	VendorBookings []VendorBooking `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	ChecklistItems []ChecklistItem `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

type VendorBooking struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventID    uuid.UUID `gorm:"type:uuid;not null;index"`
	VendorName string    `gorm:"not null"`
	Service    string
	CreatedAt  time.Time
}

type ChecklistItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"not null"`
	Status    string    `gorm:"not null;default:'PENDING'"`
	CreatedAt time.Time
}

// MenuFinalization marks that an event's menu has been finalised and its stock
// deducted. The unique EventID is what rejects a second deduction.
type MenuFinalization struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	GuestCount   int       `gorm:"not null"`
	LineCount    int       `gorm:"not null;default:0"`
	WarningCount int       `gorm:"not null;default:0"`
	RunCount     int       `gorm:"not null;default:1"`
	FinalizedAt  time.Time `gorm:"not null"`
}
