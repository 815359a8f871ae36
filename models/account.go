package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies what kind of money pot an account is.
type AccountType string

const (
	AccountTypeSaving     AccountType = "SAVING"
	AccountTypeCurrent    AccountType = "CURRENT"
	AccountTypeInvestment AccountType = "INVESTMENT"
)

// Account is a single user-owned balance holder. Balance is only ever
// mutated by the ledger engine; accounts are soft-deleted, never removed.
type Account struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt *time.Time      `gorm:"index" json:"deleted_at,omitempty"`
	UserID    uint            `gorm:"index;not null" json:"user_id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Type      AccountType     `gorm:"size:32;not null" json:"type"`
	Balance   decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"balance"`
}
