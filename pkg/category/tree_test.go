package category

import (
	"errors"
	"testing"
	"time"

	"befin/models"
)

func uintPtr(v uint) *uint { return &v }

func TestValidateParentDepthLimit(t *testing.T) {
	leaf := &models.Category{ID: 2, Type: models.CategoryTypeExpense, ParentID: uintPtr(1)}
	err := validateParent(leaf, models.CategoryTypeExpense)
	if !errors.Is(err, ErrInvalidHierarchy) {
		t.Fatalf("got %v want ErrInvalidHierarchy", err)
	}
}

func TestValidateParentTypePropagation(t *testing.T) {
	root := &models.Category{ID: 1, Type: models.CategoryTypeExpense}
	if err := validateParent(root, models.CategoryTypeIncome); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("got %v want ErrTypeMismatch", err)
	}
	if err := validateParent(root, models.CategoryTypeExpense); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateParentMissing(t *testing.T) {
	if err := validateParent(nil, models.CategoryTypeExpense); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v want ErrNotFound", err)
	}
}

func TestBuildTreeShapeAndOrder(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cats := []models.Category{
		{ID: 1, Name: "Food", Type: models.CategoryTypeExpense, CreatedAt: base},
		{ID: 2, Name: "Groceries", Type: models.CategoryTypeExpense, ParentID: uintPtr(1), CreatedAt: base.Add(time.Minute)},
		{ID: 3, Name: "Income", Type: models.CategoryTypeIncome, CreatedAt: base.Add(2 * time.Minute)},
		{ID: 4, Name: "Dining Out", Type: models.CategoryTypeExpense, ParentID: uintPtr(1), CreatedAt: base.Add(3 * time.Minute)},
		{ID: 5, Name: "Salary", Type: models.CategoryTypeIncome, ParentID: uintPtr(3), CreatedAt: base.Add(4 * time.Minute)},
	}
	tree := buildTree(cats)
	if len(tree) != 2 {
		t.Fatalf("got %d roots want 2", len(tree))
	}
	if tree[0].Name != "Food" || tree[1].Name != "Income" {
		t.Fatalf("root order wrong: %s, %s", tree[0].Name, tree[1].Name)
	}
	if len(tree[0].Children) != 2 || tree[0].Children[0].Name != "Groceries" || tree[0].Children[1].Name != "Dining Out" {
		t.Fatalf("Food children wrong: %+v", tree[0].Children)
	}
	if len(tree[1].Children) != 1 || tree[1].Children[0].Name != "Salary" {
		t.Fatalf("Income children wrong: %+v", tree[1].Children)
	}
}

func TestBuildTreeOmitsOrphans(t *testing.T) {
	cats := []models.Category{
		{ID: 1, Name: "Food", Type: models.CategoryTypeExpense},
		{ID: 2, Name: "Lost", Type: models.CategoryTypeExpense, ParentID: uintPtr(99)},
	}
	tree := buildTree(cats)
	if len(tree) != 1 || len(tree[0].Children) != 0 {
		t.Fatalf("orphan not omitted: %+v", tree)
	}
}

func TestBuildTreeEmpty(t *testing.T) {
	if tree := buildTree(nil); len(tree) != 0 {
		t.Fatalf("expected empty tree got %+v", tree)
	}
}

func TestDefaultCategoriesShape(t *testing.T) {
	// five expense roots with two children each plus one income root with three
	expenseRoots, incomeRoots := 0, 0
	for _, set := range defaultCategories {
		switch set.typ {
		case models.CategoryTypeExpense:
			expenseRoots++
			if len(set.children) != 2 {
				t.Fatalf("%s: got %d children want 2", set.name, len(set.children))
			}
		case models.CategoryTypeIncome:
			incomeRoots++
			if len(set.children) != 3 {
				t.Fatalf("%s: got %d children want 3", set.name, len(set.children))
			}
		}
	}
	if expenseRoots != 5 || incomeRoots != 1 {
		t.Fatalf("got %d expense / %d income roots want 5 / 1", expenseRoots, incomeRoots)
	}
}
