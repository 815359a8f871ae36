package category

import (
	"gorm.io/gorm"

	"befin/models"
)

// defaultSet is the taxonomy every new user starts with.
type defaultSet struct {
	name     string
	typ      models.CategoryType
	children []string
}

var defaultCategories = []defaultSet{
	{"Food", models.CategoryTypeExpense, []string{"Groceries", "Dining Out"}},
	{"Housing", models.CategoryTypeExpense, []string{"Rent", "Maintenance"}},
	{"Transport", models.CategoryTypeExpense, []string{"Fuel", "Taxi"}},
	{"Utilities", models.CategoryTypeExpense, []string{"Electricity", "Internet"}},
	{"Entertainment", models.CategoryTypeExpense, []string{"Movies", "Subscriptions"}},
	{"Income", models.CategoryTypeIncome, []string{"Salary", "Bonus", "Freelance"}},
}

// SeedDefaults inserts the default categories for a freshly registered
// user. It expects to run inside the caller's transaction (registration
// rolls back entirely, user row included, if any insert fails).
func SeedDefaults(tx *gorm.DB, userID uint) error {
	for _, set := range defaultCategories {
		root := models.Category{UserID: userID, Name: set.name, Type: set.typ}
		if err := tx.Create(&root).Error; err != nil {
			return err
		}
		for _, childName := range set.children {
			child := models.Category{UserID: userID, Name: childName, Type: set.typ, ParentID: &root.ID}
			if err := tx.Create(&child).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
