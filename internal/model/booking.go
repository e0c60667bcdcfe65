package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stored booking status values. Only StatusCancelled is ever trusted on read;
// the rest are advisory and recomputed by the lifecycle package.
const (
	StatusTentative = "TENTATIVE"
	StatusConfirmed = "CONFIRMED"
	StatusLive      = "LIVE"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

type Booking struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BookingNumber string          `gorm:"uniqueIndex;not null"`
	BranchID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	LeadID        *uuid.UUID      `gorm:"type:uuid;index"`
	GuestCount    int             `gorm:"not null;default:0"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AdvanceAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	StartDate     time.Time       `gorm:"type:date;not null;index"`
	EndDate       time.Time       `gorm:"type:date;not null"`
	EventClosed   bool            `gorm:"not null;default:false"`
	Status        string          `gorm:"not null;default:'TENTATIVE'"`
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Invoice   *Invoice          `gorm:"foreignKey:BookingID"`
	Event     *Event            `gorm:"foreignKey:BookingID"`
	Lead      *Lead             `gorm:"foreignKey:LeadID"`
	Resources []BookingResource `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
}

// Invoice is optional; when absent the booking's AdvanceAmount is the paid figure.
type Invoice struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BookingID  uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	PaidAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
