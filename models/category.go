package models

import "time"

// CategoryType is the money direction a category classifies.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "INCOME"
	CategoryTypeExpense CategoryType = "EXPENSE"
)

// Category is a node in a user's two-level taxonomy: roots have a nil
// ParentID, leaves point at a root. Children always share the root's type.
type Category struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	UserID    uint         `gorm:"index;not null" json:"user_id"`
	Name      string       `gorm:"size:255;not null" json:"name"`
	Type      CategoryType `gorm:"size:32;not null" json:"type"`
	ParentID  *uint        `gorm:"index" json:"parent_id,omitempty"`
	Children  []Category   `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}
