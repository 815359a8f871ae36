package ledger

import (
	"github.com/shopspring/decimal"

	"befin/models"
)

// Effect is the signed balance delta a transaction applies to its "from"
// and "to" accounts. Creation applies the effect, soft delete applies its
// negation, restore applies it again — all three operations share this one
// function so the reversal is exact by construction.
type Effect struct {
	FromDelta decimal.Decimal
	ToDelta   decimal.Decimal
}

// EffectOf maps a transaction type and amount to its balance effect.
func EffectOf(t models.TransactionType, amount decimal.Decimal) Effect {
	switch t {
	case models.TransactionTypeExpense, models.TransactionTypeInvestment:
		return Effect{FromDelta: amount.Neg()}
	case models.TransactionTypeIncome:
		return Effect{ToDelta: amount}
	case models.TransactionTypeTransfer:
		return Effect{FromDelta: amount.Neg(), ToDelta: amount}
	}
	return Effect{}
}

// Negate flips the effect sign; used by soft delete to undo creation.
func (e Effect) Negate() Effect {
	return Effect{FromDelta: e.FromDelta.Neg(), ToDelta: e.ToDelta.Neg()}
}

// NeedsFrom reports whether the effect touches the from account.
func (e Effect) NeedsFrom() bool { return !e.FromDelta.IsZero() }

// NeedsTo reports whether the effect touches the to account.
func (e Effect) NeedsTo() bool { return !e.ToDelta.IsZero() }
