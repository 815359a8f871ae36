package models

import (
	"time"
)

// User model
type User struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time `gorm:"index"`
	Email          string     `gorm:"size:255;not null;unique"`
	HashedPassword []byte     `gorm:"not null"`
	// TargetInvestmentPercent is the share of income the user aims to invest.
	TargetInvestmentPercent int `gorm:"default:30;not null"`

	Accounts     []Account
	Categories   []Category
	Transactions []Transaction
}
