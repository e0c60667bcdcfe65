package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope restricts reads and writes to one branch. The zero value is unscoped
// (privileged) access.
type Scope struct {
	BranchID *uuid.UUID
}

// Unscoped returns a Scope that sees every branch.
func Unscoped() Scope { return Scope{} }

// ForBranch returns a Scope pinned to branchID.
func ForBranch(branchID uuid.UUID) Scope { return Scope{BranchID: &branchID} }

// Allows reports whether a row owned by branchID is visible in s.
func (s Scope) Allows(branchID uuid.UUID) bool {
	return s.BranchID == nil || *s.BranchID == branchID
}

func (s Scope) apply(q *gorm.DB, column string) *gorm.DB {
	if s.BranchID == nil {
		return q
	}
	return q.Where(column+" = ?", *s.BranchID)
}

// conn picks the open transaction when there is one.
func conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// forUpdate adds SELECT … FOR UPDATE when running inside a transaction.
func forUpdate(q *gorm.DB, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		return q
	}
	return q.Clauses(clause.Locking{Strength: "UPDATE"})
}
