// Package category enforces the two-level category taxonomy: root
// categories with a nil parent, leaf subcategories beneath them, and type
// consistency down the tree.
package category

import (
	"errors"

	"gorm.io/gorm"

	"befin/models"
)

// CreateInput is the already shape-validated payload for a single category.
type CreateInput struct {
	Name     string
	Type     models.CategoryType
	ParentID *uint
}

// CreateWithChildrenInput creates a root plus one child per name, all
// sharing the root's type.
type CreateWithChildrenInput struct {
	Name     string
	Type     models.CategoryType
	Children []string
}

// validateParent holds the hierarchy rules: parents must be roots and must
// share the child's type. A nil parent means the lookup found nothing.
func validateParent(parent *models.Category, typ models.CategoryType) error {
	if parent == nil {
		return ErrNotFound
	}
	if parent.ParentID != nil {
		return ErrInvalidHierarchy
	}
	if parent.Type != typ {
		return ErrTypeMismatch
	}
	return nil
}

// Create persists one category, validating the parent reference when given.
func Create(db *gorm.DB, userID uint, in CreateInput) (*models.Category, error) {
	if in.ParentID != nil {
		var parent models.Category
		err := db.Where("id = ? AND user_id = ?", *in.ParentID, userID).First(&parent).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		if err := validateParent(&parent, in.Type); err != nil {
			return nil, err
		}
	}
	cat := models.Category{UserID: userID, Name: in.Name, Type: in.Type, ParentID: in.ParentID}
	if err := db.Create(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

// CreateWithChildren creates a root category and its children as one
// atomic batch. Any failed insert rolls back the whole batch.
func CreateWithChildren(db *gorm.DB, userID uint, in CreateWithChildrenInput) (*models.Category, error) {
	var root models.Category
	err := db.Transaction(func(tx *gorm.DB) error {
		root = models.Category{UserID: userID, Name: in.Name, Type: in.Type}
		if err := tx.Create(&root).Error; err != nil {
			return err
		}
		for _, childName := range in.Children {
			child := models.Category{UserID: userID, Name: childName, Type: in.Type, ParentID: &root.ID}
			if err := tx.Create(&child).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &root, nil
}

// Tree returns the user's categories assembled into two-level trees,
// preserving creation order within each level.
func Tree(db *gorm.DB, userID uint) ([]Node, error) {
	var cats []models.Category
	if err := db.Where("user_id = ?", userID).Order("created_at asc").Find(&cats).Error; err != nil {
		return nil, err
	}
	return buildTree(cats), nil
}
