// Package analytics is the read side of the ledger: time-windowed sums per
// transaction type, expense roll-ups by category, top spending categories
// and month-over-month comparison. It never mutates the store.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"befin/models"
)

// MonthlyReport is the month summary plus the expense breakdown by parent
// category.
type MonthlyReport struct {
	Summary
	ExpenseBreakdown []ParentBreakdown `json:"expenseBreakdown"`
}

// TopCategory is one entry of the top-spending ranking.
type TopCategory struct {
	CategoryID uint            `json:"category_id"`
	Name       string          `json:"name"`
	Total      decimal.Decimal `json:"total"`
}

// Comparison holds the requested month, the previous calendar month and
// the per-metric movement between them.
type Comparison struct {
	Current  Summary          `json:"current"`
	Previous Summary          `json:"previous"`
	Change   ComparisonChange `json:"change"`
}

// ComparisonChange carries one Change per aggregate metric.
type ComparisonChange struct {
	Income     Change `json:"income"`
	Expense    Change `json:"expense"`
	Investment Change `json:"investment"`
	Savings    Change `json:"savings"`
}

// Monthly aggregates the user's live transactions for one calendar month.
func Monthly(db *gorm.DB, userID uint, year, month int) (*MonthlyReport, error) {
	start, end := monthWindow(year, month)
	var trxs []models.Transaction
	err := windowScope(db, userID, start, end).Preload("Category").Find(&trxs).Error
	if err != nil {
		return nil, err
	}

	names, err := parentNames(db, trxs)
	if err != nil {
		return nil, err
	}
	return &MonthlyReport{
		Summary:          summarize(trxs),
		ExpenseBreakdown: buildBreakdown(trxs, names),
	}, nil
}

// Yearly aggregates the user's live transactions for one calendar year.
func Yearly(db *gorm.DB, userID uint, year int) (Summary, error) {
	start, end := yearWindow(year)
	return windowSummary(db, userID, start, end)
}

// TopSpending ranks the user's expense categories for one month by summed
// amount, capped at five entries. Categories that can no longer be resolved
// are reported as "Unknown".
func TopSpending(db *gorm.DB, userID uint, year, month int) ([]TopCategory, error) {
	start, end := monthWindow(year, month)
	var rows []topRow
	err := db.Model(&models.Transaction{}).
		Select("category_id, SUM(amount) AS total").
		Where("user_id = ? AND deleted_at IS NULL AND type = ? AND date >= ? AND date < ?",
			userID, models.TransactionTypeExpense, start, end).
		Group("category_id").
		Order("total DESC").
		Limit(5).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	names := make(map[uint]string, len(rows))
	if len(rows) > 0 {
		ids := make([]uint, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.CategoryID)
		}
		var cats []models.Category
		if err := db.Where("id IN ?", ids).Find(&cats).Error; err != nil {
			return nil, err
		}
		for _, c := range cats {
			names[c.ID] = c.Name
		}
	}
	return assembleTop(rows, names), nil
}

// topRow is one grouped SUM row coming back from the store, ranked and
// capped by the query itself.
type topRow struct {
	CategoryID uint
	Total      decimal.Decimal
}

// assembleTop shapes ranked rows into the API result, preserving the store
// order and falling back to "Unknown" for categories that no longer
// resolve to a name.
func assembleTop(rows []topRow, names map[uint]string) []TopCategory {
	out := make([]TopCategory, 0, len(rows))
	for _, r := range rows {
		name, ok := names[r.CategoryID]
		if !ok {
			name = "Unknown"
		}
		out = append(out, TopCategory{CategoryID: r.CategoryID, Name: name, Total: r.Total})
	}
	return out
}

// MonthCompare aggregates the requested month and the immediately
// preceding one (December of the previous year when month is January) and
// computes diff and rounded percent change per metric.
func MonthCompare(db *gorm.DB, userID uint, year, month int) (*Comparison, error) {
	curStart, curEnd := monthWindow(year, month)
	prevYear, prevMonth := previousMonth(year, month)
	prevStart, prevEnd := monthWindow(prevYear, prevMonth)

	current, err := windowSummary(db, userID, curStart, curEnd)
	if err != nil {
		return nil, err
	}
	previous, err := windowSummary(db, userID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	return &Comparison{
		Current:  current,
		Previous: previous,
		Change: ComparisonChange{
			Income:     change(current.TotalIncome, previous.TotalIncome),
			Expense:    change(current.TotalExpense, previous.TotalExpense),
			Investment: change(current.TotalInvestment, previous.TotalInvestment),
			Savings:    change(current.NetSavings, previous.NetSavings),
		},
	}, nil
}

func windowScope(db *gorm.DB, userID uint, start, end time.Time) *gorm.DB {
	return db.Where("user_id = ? AND deleted_at IS NULL AND date >= ? AND date < ?", userID, start, end)
}

func windowSummary(db *gorm.DB, userID uint, start, end time.Time) (Summary, error) {
	var trxs []models.Transaction
	if err := windowScope(db.Model(&models.Transaction{}), userID, start, end).Find(&trxs).Error; err != nil {
		return Summary{}, err
	}
	return summarize(trxs), nil
}

// parentNames resolves the names of the breakdown's parent categories with
// a single IN query over the roll-up targets.
func parentNames(db *gorm.DB, trxs []models.Transaction) (map[uint]string, error) {
	seen := make(map[uint]bool)
	var ids []uint
	for _, trx := range trxs {
		if trx.Type != models.TransactionTypeExpense || trx.Category.ID == 0 {
			continue
		}
		parentID := trx.Category.ID
		if trx.Category.ParentID != nil {
			parentID = *trx.Category.ParentID
		}
		if !seen[parentID] {
			seen[parentID] = true
			ids = append(ids, parentID)
		}
	}
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var parents []models.Category
	if err := db.Where("id IN ?", ids).Find(&parents).Error; err != nil {
		return nil, err
	}
	for _, p := range parents {
		names[p.ID] = p.Name
	}
	return names, nil
}
