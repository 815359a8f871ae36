package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType selects which balance effect a transaction carries.
type TransactionType string

const (
	TransactionTypeIncome     TransactionType = "INCOME"
	TransactionTypeExpense    TransactionType = "EXPENSE"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
	TransactionTypeInvestment TransactionType = "INVESTMENT"
)

// Transaction is an immutable ledger record. Type, Amount and the account
// references never change after creation; only DeletedAt cycles between
// nil (live) and a timestamp (soft-deleted, balance effect reversed).
type Transaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt *time.Time      `gorm:"index" json:"deleted_at,omitempty"`
	UserID    uint            `gorm:"index;not null" json:"user_id"`
	Type      TransactionType `gorm:"size:32;not null" json:"type"`
	Amount    decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	Date      time.Time       `gorm:"index;not null" json:"date"`

	CategoryID uint     `gorm:"index;not null" json:"category_id"`
	Category   Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	FromAccountID *uint    `gorm:"index" json:"from_account_id,omitempty"`
	FromAccount   *Account `gorm:"foreignKey:FromAccountID" json:"from_account,omitempty"`
	ToAccountID   *uint    `gorm:"index" json:"to_account_id,omitempty"`
	ToAccount     *Account `gorm:"foreignKey:ToAccountID" json:"to_account,omitempty"`

	Note string `gorm:"size:512" json:"note,omitempty"`
}
