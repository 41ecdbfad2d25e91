package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/EhaabShareef/inventory-manage/internal/errs"
	"github.com/EhaabShareef/inventory-manage/internal/models"
	"github.com/EhaabShareef/inventory-manage/internal/view"
)

// CategoryWithCount is a category row plus how many items it owns, for the
// category list view.
type CategoryWithCount struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ItemCount int64     `json:"item_count"`
}

// ListCategories returns all categories matching the search text, name
// ascending, each with its item count.
func (s *Service) ListCategories(search string) ([]CategoryWithCount, error) {
	q := s.db.Model(&models.Category{}).
		Select("categories.id, categories.name, categories.created_at, categories.updated_at, " +
			"(SELECT COUNT(*) FROM items WHERE items.category_id = categories.id) AS item_count")
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}

	var categories []CategoryWithCount
	if err := q.Order("name asc").Scan(&categories).Error; err != nil {
		return nil, s.wrapDB(err, "Failed to fetch categories")
	}
	return categories, nil
}

// CreateCategory validates and persists a new category.
func (s *Service) CreateCategory(actor *models.User, name string) (*models.Category, error) {
	if err := s.requireManage(actor); err != nil {
		return nil, err
	}
	if err := validateCategoryName(&name); err != nil {
		return nil, err
	}

	category := models.Category{Name: name}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, s.wrapDB(err, "Failed to create category")
	}

	s.audit.Record(actor, "CATEGORY_CREATED", fmt.Sprintf("New category created: %s (ID: %d)", category.Name, category.ID))
	s.views.Revalidate(view.PathCategories)
	return &category, nil
}

// UpdateCategory renames a category.
func (s *Service) UpdateCategory(actor *models.User, id uint, name string) (*models.Category, error) {
	if err := s.requireManage(actor); err != nil {
		return nil, err
	}
	if err := validateCategoryName(&name); err != nil {
		return nil, err
	}

	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		return nil, s.wrapDB(err, "Failed to update category")
	}

	if err := s.db.Model(&category).Update("name", name).Error; err != nil {
		return nil, s.wrapDB(err, "Failed to update category")
	}

	s.audit.Record(actor, "CATEGORY_UPDATED", fmt.Sprintf("Category updated: %s (ID: %d)", category.Name, category.ID))
	s.views.Revalidate(view.PathCategories)
	return &category, nil
}

// DeleteCategory removes a category. There is no pre-check for owned items;
// the datastore's RESTRICT constraint rejects the delete and the failure
// surfaces as an operation error.
func (s *Service) DeleteCategory(actor *models.User, id uint) error {
	if err := s.requireManage(actor); err != nil {
		return err
	}

	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		return s.wrapDB(err, "Failed to delete category")
	}

	if err := s.db.Delete(&models.Category{}, id).Error; err != nil {
		return s.wrapDB(err, "Could not delete category. It might still contain items.")
	}

	s.audit.Record(actor, "CATEGORY_DELETED", fmt.Sprintf("Category deleted: %s (ID: %d)", category.Name, category.ID))
	s.views.Revalidate(view.PathCategories)
	return nil
}

func validateCategoryName(name *string) error {
	*name = strings.TrimSpace(*name)
	if *name == "" {
		return errs.NewValidation("name", "Category name is required")
	}
	if len(*name) > 50 {
		return errs.NewValidation("name", "Must be at most 50 characters")
	}
	return nil
}
