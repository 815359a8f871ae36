package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"befin/models"
)

// Summary is the per-window aggregate over live transactions.
type Summary struct {
	TotalIncome     decimal.Decimal `json:"totalIncome"`
	TotalExpense    decimal.Decimal `json:"totalExpense"`
	TotalInvestment decimal.Decimal `json:"totalInvestment"`
	NetSavings      decimal.Decimal `json:"netSavings"`
}

// ChildTotal is one leaf category's expense total inside a breakdown.
type ChildTotal struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// ParentBreakdown is one root category's rolled-up expense total. The
// children totals always sum to Total.
type ParentBreakdown struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Children []ChildTotal    `json:"children"`
}

// Change is a period-over-period movement of one metric. Percent is nil
// when the previous value was zero.
type Change struct {
	Diff    decimal.Decimal  `json:"diff"`
	Percent *decimal.Decimal `json:"percent"`
}

func summarize(trxs []models.Transaction) Summary {
	var s Summary
	for _, trx := range trxs {
		switch trx.Type {
		case models.TransactionTypeIncome:
			s.TotalIncome = s.TotalIncome.Add(trx.Amount)
		case models.TransactionTypeExpense:
			s.TotalExpense = s.TotalExpense.Add(trx.Amount)
		case models.TransactionTypeInvestment:
			s.TotalInvestment = s.TotalInvestment.Add(trx.Amount)
		}
	}
	s.NetSavings = s.TotalIncome.Sub(s.TotalExpense).Sub(s.TotalInvestment)
	return s
}

// buildBreakdown groups expense transactions by category and rolls each
// leaf up into its parent; a parentless category rolls up into itself.
// Transactions whose category row is gone are skipped. Parent names come
// from the caller; an unknown parent keeps an empty name.
func buildBreakdown(trxs []models.Transaction, parentNames map[uint]string) []ParentBreakdown {
	type parentAcc struct {
		total      decimal.Decimal
		childOrder []uint
		children   map[uint]*ChildTotal
	}
	var order []uint
	acc := make(map[uint]*parentAcc)

	for _, trx := range trxs {
		if trx.Type != models.TransactionTypeExpense {
			continue
		}
		cat := trx.Category
		if cat.ID == 0 {
			continue
		}
		parentID := cat.ID
		if cat.ParentID != nil {
			parentID = *cat.ParentID
		}
		p, ok := acc[parentID]
		if !ok {
			p = &parentAcc{children: make(map[uint]*ChildTotal)}
			acc[parentID] = p
			order = append(order, parentID)
		}
		p.total = p.total.Add(trx.Amount)
		c, ok := p.children[cat.ID]
		if !ok {
			c = &ChildTotal{ID: cat.ID, Name: cat.Name}
			p.children[cat.ID] = c
			p.childOrder = append(p.childOrder, cat.ID)
		}
		c.Total = c.Total.Add(trx.Amount)
	}

	out := make([]ParentBreakdown, 0, len(order))
	for _, parentID := range order {
		p := acc[parentID]
		children := make([]ChildTotal, 0, len(p.childOrder))
		for _, id := range p.childOrder {
			children = append(children, *p.children[id])
		}
		out = append(out, ParentBreakdown{
			Category: parentNames[parentID],
			Total:    p.total,
			Children: children,
		})
	}
	return out
}

func change(curr, prev decimal.Decimal) Change {
	diff := curr.Sub(prev)
	if prev.IsZero() {
		return Change{Diff: diff}
	}
	pct := diff.Div(prev).Mul(decimal.NewFromInt(100)).Round(2)
	return Change{Diff: diff, Percent: &pct}
}

// monthWindow returns the half-open UTC window [1st of month, 1st of next).
func monthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func yearWindow(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

func previousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}
