package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/EhaabShareef/inventory-manage/internal/errs"
	"github.com/EhaabShareef/inventory-manage/internal/models"
	"github.com/EhaabShareef/inventory-manage/internal/money"
	"github.com/EhaabShareef/inventory-manage/internal/view"
)

// ItemInput is what the item form submits. Prices arrive as whatever the
// form produced (string or number) and go through the money normalizer, the
// one place 2-decimal quantization happens.
type ItemInput struct {
	PartNo         *string     `json:"part_no"`
	ItemName       string      `json:"item_name"`
	Model          *string     `json:"model"`
	CategoryID     uint        `json:"category_id"`
	ListPrice      interface{} `json:"list_price"`
	SellingPrice   interface{} `json:"selling_price"`
	AmcPrice       interface{} `json:"amc_price"`
	NonAmcPrice    interface{} `json:"non_amc_price"`
	PriceValidTill *string     `json:"price_valid_till"`
}

// itemFilter is the listing filter: case-insensitive substring match over
// partNo/itemName/model, AND-combined with the category filter.
func itemFilter(search string, categoryID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if categoryID != 0 {
			db = db.Where("category_id = ?", categoryID)
		}
		if search != "" {
			p := "%" + search + "%"
			db = db.Where("part_no LIKE ? OR item_name LIKE ? OR model LIKE ?", p, p, p)
		}
		return db
	}
}

// ListItems returns one page of catalog items with their categories, ordered
// by item name.
func (s *Service) ListItems(search string, categoryID uint, page, pageSize int) (*OffsetPage, error) {
	page, pageSize = normalizePaging(page, pageSize, DefaultPageSize)

	var total int64
	if err := s.db.Model(&models.Item{}).Scopes(itemFilter(search, categoryID)).Count(&total).Error; err != nil {
		return nil, s.wrapDB(err, "Failed to fetch items")
	}

	var items []models.Item
	err := s.db.Scopes(itemFilter(search, categoryID)).
		Preload("Category").
		Order("item_name asc").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&items).Error
	if err != nil {
		return nil, s.wrapDB(err, "Failed to fetch items")
	}

	return newPage(items, total, page, pageSize), nil
}

// GetItem fetches one item with its category.
func (s *Service) GetItem(id uint) (*models.Item, error) {
	var item models.Item
	if err := s.db.Preload("Category").First(&item, id).Error; err != nil {
		return nil, s.wrapDB(err, "Failed to fetch item")
	}
	return &item, nil
}

// CreateItem validates and persists a new catalog item.
func (s *Service) CreateItem(actor *models.User, in ItemInput) (*models.Item, error) {
	if err := s.requireManage(actor); err != nil {
		return nil, err
	}

	ve := &errs.ValidationError{}

	name := strings.TrimSpace(in.ItemName)
	if name == "" {
		ve.Add("item_name", "Item name is required")
	}
	if in.CategoryID == 0 {
		ve.Add("category_id", "Must select a valid Category")
	}

	listPrice := s.requiredPrice(ve, "list_price", in.ListPrice, "List price")
	sellingPrice := s.requiredPrice(ve, "selling_price", in.SellingPrice, "Selling price")
	amcPrice := s.optionalPrice(ve, "amc_price", in.AmcPrice, "AMC price")
	nonAmcPrice := s.optionalPrice(ve, "non_amc_price", in.NonAmcPrice, "Non-AMC price")

	var validTill *time.Time
	if in.PriceValidTill != nil {
		t, err := money.ToTimestamp(*in.PriceValidTill)
		if err != nil {
			ve.Add("price_valid_till", "Invalid date")
		} else if t != nil && !t.After(time.Now()) {
			ve.Add("price_valid_till", "Price valid till date must be in the future")
		} else {
			validTill = t
		}
	}

	if len(ve.Fields) > 0 {
		return nil, ve
	}

	// Category existence is a validation concern, not an FK surprise
	var category models.Category
	if err := s.db.First(&category, in.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewValidation("category_id", "Category not found")
		}
		return nil, s.wrapDB(err, "Failed to create item")
	}

	item := models.Item{
		PartNo:         in.PartNo,
		ItemName:       name,
		Model:          in.Model,
		CategoryID:     in.CategoryID,
		ListPrice:      listPrice,
		SellingPrice:   sellingPrice,
		AmcPrice:       amcPrice,
		NonAmcPrice:    nonAmcPrice,
		PriceValidTill: validTill,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, s.wrapDB(err, "Failed to create item")
	}
	item.Category = category

	s.audit.Record(actor, "ITEM_CREATED", fmt.Sprintf("New item created: %s (ID: %d)", item.ItemName, item.ID))
	s.views.Revalidate(view.PathItems)
	return &item, nil
}

// UpdateItem applies a partial update: only supplied fields change.
// A supplied null clears a nullable field.
func (s *Service) UpdateItem(actor *models.User, id uint, changes map[string]interface{}) (*models.Item, error) {
	if err := s.requireManage(actor); err != nil {
		return nil, err
	}

	var item models.Item
	if err := s.db.First(&item, id).Error; err != nil {
		return nil, s.wrapDB(err, "Failed to update item")
	}

	ve := &errs.ValidationError{}
	updates := map[string]interface{}{}

	for key, raw := range changes {
		switch key {
		case "part_no", "model":
			updates[key] = asNullableString(raw)
		case "item_name":
			name := ""
			if v, ok := raw.(string); ok {
				name = strings.TrimSpace(v)
			}
			if name == "" {
				ve.Add("item_name", "Item name is required")
			} else {
				updates[key] = name
			}
		case "category_id":
			cid := asUint(raw)
			if cid == 0 {
				ve.Add("category_id", "Must select a valid Category")
				continue
			}
			var category models.Category
			if err := s.db.First(&category, cid).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ve.Add("category_id", "Category not found")
					continue
				}
				return nil, s.wrapDB(err, "Failed to update item")
			}
			updates[key] = cid
		case "list_price":
			if d := s.requiredPrice(ve, key, raw, "List price"); !d.IsZero() {
				updates[key] = d
			}
		case "selling_price":
			if d := s.requiredPrice(ve, key, raw, "Selling price"); !d.IsZero() {
				updates[key] = d
			}
		case "amc_price":
			updates[key] = s.optionalPrice(ve, key, raw, "AMC price")
		case "non_amc_price":
			updates[key] = s.optionalPrice(ve, key, raw, "Non-AMC price")
		case "price_valid_till":
			t, err := money.ToTimestamp(raw)
			if err != nil {
				ve.Add(key, "Invalid date")
				continue
			}
			updates[key] = t
		}
	}

	if len(ve.Fields) > 0 {
		return nil, ve
	}

	if len(updates) > 0 {
		if err := s.db.Model(&item).Updates(updates).Error; err != nil {
			return nil, s.wrapDB(err, "Failed to update item")
		}
	}

	s.audit.Record(actor, "ITEM_UPDATED", fmt.Sprintf("Item updated: %s (ID: %d)", item.ItemName, item.ID))
	s.views.Revalidate(view.PathItems)
	return s.GetItem(item.ID)
}

// DeleteItem removes a catalog item.
func (s *Service) DeleteItem(actor *models.User, id uint) error {
	if err := s.requireManage(actor); err != nil {
		return err
	}

	var item models.Item
	if err := s.db.First(&item, id).Error; err != nil {
		return s.wrapDB(err, "Failed to delete item")
	}

	if err := s.db.Delete(&models.Item{}, id).Error; err != nil {
		// Usually a quote line still references the item
		return s.wrapDB(err, "Could not delete item. It might be referenced by quotes.")
	}

	s.audit.Record(actor, "ITEM_DELETED", fmt.Sprintf("Item deleted: %s (ID: %d)", item.ItemName, item.ID))
	s.views.Revalidate(view.PathItems)
	return nil
}

// requiredPrice normalizes a mandatory price field and records validation
// failures. Returns zero when invalid.
func (s *Service) requiredPrice(ve *errs.ValidationError, field string, raw interface{}, label string) decimal.Decimal {
	d, err := money.ToMoney(raw)
	if err != nil {
		ve.Add(field, "Invalid price format")
		return decimal.Zero
	}
	if !d.GreaterThan(decimal.Zero) {
		ve.Add(field, label+" must be greater than 0")
		return decimal.Zero
	}
	return d
}

// optionalPrice normalizes a nullable price field; nil and empty string stay
// null, anything else must be a price greater than zero.
func (s *Service) optionalPrice(ve *errs.ValidationError, field string, raw interface{}, label string) *decimal.Decimal {
	if raw == nil {
		return nil
	}
	if str, ok := raw.(string); ok && str == "" {
		return nil
	}
	d, err := money.ToMoney(raw)
	if err != nil {
		ve.Add(field, "Invalid price format")
		return nil
	}
	if !d.GreaterThan(decimal.Zero) {
		ve.Add(field, label+" must be greater than 0")
		return nil
	}
	return &d
}
