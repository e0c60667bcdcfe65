package model

import (
	"time"

	"github.com/google/uuid"
)

type Lead struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID     uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerName string    `gorm:"not null"`
	CreatedAt    time.Time

	Activities []LeadActivity `gorm:"foreignKey:LeadID"`
}

// LeadActivity is a free-text action log entry ("Follow up Monday", "Follow-up done").
type LeadActivity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeadID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Action    string    `gorm:"not null"`
	CreatedAt time.Time
}
