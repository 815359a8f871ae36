// Package ledger implements the transactional core of the finance backend:
// recording transactions with an immediate balance effect on the referenced
// accounts, reversing that effect on soft delete, and reapplying it on
// restore. Every operation runs inside a single database transaction so the
// balance mutation and the record change commit or roll back together.
package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"befin/models"
)

// CreateRequest carries the already shape-validated input for a new entry.
// Amount is positive; the caller (routing layer) has checked presence,
// positivity and enum membership. Business rules are checked here.
type CreateRequest struct {
	Type          models.TransactionType
	Amount        decimal.Decimal
	Date          time.Time
	CategoryID    uint
	FromAccountID *uint
	ToAccountID   *uint
	Note          string
}

// workingSet is everything Create needs loaded before any decision is made,
// so validation stays pure and unit-testable without a store. A nil entry
// means the referenced row does not exist (or is not owned by the user).
type workingSet struct {
	category *models.Category
	children []models.Category
	from     *models.Account
	to       *models.Account
}

// validateCreate runs the business-rule checks over a loaded working set.
func validateCreate(req CreateRequest, ws workingSet) error {
	if ws.category == nil {
		return ErrCategoryNotFound
	}
	if ws.category.Type != models.CategoryType(req.Type) {
		return ErrTypeMismatch
	}
	if len(ws.children) > 0 {
		return ErrLeafRequired
	}
	eff := EffectOf(req.Type, req.Amount)
	if eff.NeedsFrom() && ws.from == nil {
		return ErrInvalidAccount
	}
	if eff.NeedsTo() && ws.to == nil {
		return ErrInvalidAccount
	}
	return nil
}

// Create validates the request against the user's category and account
// state, applies the balance effect and persists the record, all inside one
// transaction. Any failure rolls back every mutation.
func Create(db *gorm.DB, userID uint, req CreateRequest) (*models.Transaction, error) {
	var created models.Transaction
	err := db.Transaction(func(tx *gorm.DB) error {
		ws, err := loadCreateSet(tx, userID, req)
		if err != nil {
			return err
		}
		if err := validateCreate(req, ws); err != nil {
			return err
		}
		if err := applyEffect(tx, EffectOf(req.Type, req.Amount), req.FromAccountID, req.ToAccountID); err != nil {
			return err
		}
		created = models.Transaction{
			UserID:        userID,
			Type:          req.Type,
			Amount:        req.Amount,
			Date:          req.Date,
			CategoryID:    req.CategoryID,
			FromAccountID: req.FromAccountID,
			ToAccountID:   req.ToAccountID,
			Note:          req.Note,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Delete soft-deletes a live transaction and reverses its balance effect.
// Category constraints are not re-checked; the account rows are updated by
// id even if the account has since been soft-deleted.
func Delete(db *gorm.DB, userID, transactionID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		trx, err := loadOwned(tx, userID, transactionID, live)
		if err != nil {
			return err
		}
		eff := EffectOf(trx.Type, trx.Amount).Negate()
		if err := applyEffect(tx, eff, trx.FromAccountID, trx.ToAccountID); err != nil {
			return err
		}
		now := time.Now().UTC()
		// the guard re-checks liveness so a concurrent delete that won the
		// race rolls this one back instead of reversing the balance twice
		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND deleted_at IS NULL", trx.ID).
			Update("deleted_at", &now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Restore brings a soft-deleted transaction back and reapplies the original
// balance effect, using the stored type and amount.
func Restore(db *gorm.DB, userID, transactionID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		trx, err := loadOwned(tx, userID, transactionID, softDeleted)
		if err != nil {
			return err
		}
		eff := EffectOf(trx.Type, trx.Amount)
		if err := applyEffect(tx, eff, trx.FromAccountID, trx.ToAccountID); err != nil {
			return err
		}
		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND deleted_at IS NOT NULL", trx.ID).
			Update("deleted_at", nil)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// List returns the user's live transactions, newest date first, with the
// category and both accounts preloaded.
func List(db *gorm.DB, userID uint) ([]models.Transaction, error) {
	var items []models.Transaction
	err := db.Where("user_id = ? AND deleted_at IS NULL", userID).
		Preload("Category").
		Preload("FromAccount").
		Preload("ToAccount").
		Order("date desc").
		Find(&items).Error
	return items, err
}

const (
	live        = false
	softDeleted = true
)

// loadOwned fetches the user's transaction row under FOR UPDATE so two
// concurrent delete/restore calls serialize on it rather than both passing
// the deleted_at predicate.
func loadOwned(tx *gorm.DB, userID, transactionID uint, deleted bool) (*models.Transaction, error) {
	q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", transactionID, userID)
	if deleted {
		q = q.Where("deleted_at IS NOT NULL")
	} else {
		q = q.Where("deleted_at IS NULL")
	}
	var trx models.Transaction
	if err := q.First(&trx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &trx, nil
}

// loadCreateSet loads the category (with children) and any referenced
// accounts. Accounts are locked FOR UPDATE: the balance is read-validated
// here and written below, and concurrent postings against the same account
// must not interleave.
func loadCreateSet(tx *gorm.DB, userID uint, req CreateRequest) (workingSet, error) {
	var ws workingSet
	var cat models.Category
	err := tx.Where("id = ? AND user_id = ?", req.CategoryID, userID).First(&cat).Error
	switch {
	case err == nil:
		ws.category = &cat
		if err := tx.Where("parent_id = ?", cat.ID).Find(&ws.children).Error; err != nil {
			return ws, err
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return ws, err
	}
	if req.FromAccountID != nil {
		if ws.from, err = lockAccount(tx, userID, *req.FromAccountID); err != nil {
			return ws, err
		}
	}
	if req.ToAccountID != nil {
		if ws.to, err = lockAccount(tx, userID, *req.ToAccountID); err != nil {
			return ws, err
		}
	}
	return ws, nil
}

// lockAccount fetches a user's account row under FOR UPDATE. A missing row
// returns (nil, nil); validateCreate decides whether that is an error.
// The account's own deleted_at is deliberately not consulted: the engine
// keeps updating accounts that were soft-deleted after the fact.
func lockAccount(tx *gorm.DB, userID, accountID uint) (*models.Account, error) {
	var acc models.Account
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", accountID, userID).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// applyEffect issues the balance updates for an effect. Increments happen
// in SQL numeric space so create/delete/restore reverse each other exactly.
func applyEffect(tx *gorm.DB, eff Effect, fromID, toID *uint) error {
	if eff.NeedsFrom() {
		if fromID == nil {
			return ErrInvalidAccount
		}
		if err := tx.Model(&models.Account{}).Where("id = ?", *fromID).
			Update("balance", gorm.Expr("balance + ?", eff.FromDelta)).Error; err != nil {
			return err
		}
	}
	if eff.NeedsTo() {
		if toID == nil {
			return ErrInvalidAccount
		}
		if err := tx.Model(&models.Account{}).Where("id = ?", *toID).
			Update("balance", gorm.Expr("balance + ?", eff.ToDelta)).Error; err != nil {
			return err
		}
	}
	return nil
}
