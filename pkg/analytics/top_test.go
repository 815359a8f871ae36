package analytics

import "testing"

func TestAssembleTopOrderAndTotals(t *testing.T) {
	// two ranked categories: 300 must stay above 50, totals intact
	rows := []topRow{
		{CategoryID: 2, Total: dec("300")},
		{CategoryID: 5, Total: dec("50")},
	}
	names := map[uint]string{2: "Groceries", 5: "Taxi"}

	top := assembleTop(rows, names)
	if len(top) != 2 {
		t.Fatalf("got %d entries want 2", len(top))
	}
	if top[0].Name != "Groceries" || !top[0].Total.Equal(dec("300")) {
		t.Fatalf("first entry wrong: %+v", top[0])
	}
	if top[1].Name != "Taxi" || !top[1].Total.Equal(dec("50")) {
		t.Fatalf("second entry wrong: %+v", top[1])
	}
	if !top[0].Total.GreaterThan(top[1].Total) {
		t.Fatalf("ranking not descending: %s then %s", top[0].Total, top[1].Total)
	}
}

func TestAssembleTopUnknownFallback(t *testing.T) {
	rows := []topRow{
		{CategoryID: 7, Total: dec("120")},
		{CategoryID: 8, Total: dec("30")},
	}
	top := assembleTop(rows, map[uint]string{7: "Fuel"})
	if top[0].Name != "Fuel" {
		t.Fatalf("resolved name wrong: %+v", top[0])
	}
	if top[1].Name != "Unknown" {
		t.Fatalf("missing category must resolve to Unknown, got %q", top[1].Name)
	}
	if top[1].CategoryID != 8 || !top[1].Total.Equal(dec("30")) {
		t.Fatalf("fallback entry must keep id and total: %+v", top[1])
	}
}

func TestAssembleTopEmpty(t *testing.T) {
	if top := assembleTop(nil, nil); len(top) != 0 {
		t.Fatalf("expected empty result got %+v", top)
	}
}

// The cap itself lives in the query's LIMIT; assembleTop must never grow
// the result beyond the rows it was handed.
func TestAssembleTopNeverExceedsRows(t *testing.T) {
	rows := make([]topRow, 5)
	for i := range rows {
		rows[i] = topRow{CategoryID: uint(i + 1), Total: dec("10")}
	}
	if top := assembleTop(rows, nil); len(top) != 5 {
		t.Fatalf("got %d entries want 5", len(top))
	}
}
