package service

import (
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

// QuoteLineInput is one line of the quote form: a catalog item reference
// plus the negotiated amount. The amount is never derived from the item's
// catalog prices.
type QuoteLineInput struct {
	ItemID uint        `json:"item_id"`
	Amount interface{} `json:"amount"`
}

// QuoteInput is the quote form payload. Dates arrive as calendar-date
// strings and go through the normalizer.
type QuoteInput struct {
	ResortName    string           `json:"resort_name"`
	QuotedDate    string           `json:"quoted_date"`
	QuoteCategory string           `json:"quote_category"`
	NextFollowUp  string           `json:"next_follow_up"`
	Status        string           `json:"status"`
	Remarks       *string          `json:"remarks"`
	Items         []QuoteLineInput `json:"items"`
}

var quoteStatuses = []string{
	models.QuoteStatusQuoted,
	models.QuoteStatusFollowedUp,
	models.QuoteStatusConfirmed,
	models.QuoteStatusLost,
}

var quoteCategories = []string{
	models.QuoteCategoryAMC,
	models.QuoteCategoryProject,
	models.QuoteCategorySupply,
	models.QuoteCategoryOthers,
}

func validStatus(s string) bool {
	for _, v := range quoteStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func validQuoteCategory(s string) bool {
	for _, v := range quoteCategories {
		if s == v {
			return true
		}
	}
	return false
}

func quoteFilter(search, category string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if category != "" {
			db = db.Where("quotes.quote_category = ?", category)
		}
		if search != "" {
			// The quote only stores a resort-name snapshot; join the client
			// directory on the name so search can also match the company name.
			p := "%" + search + "%"
			db = db.Joins("LEFT JOIN clients ON clients.resort_name = quotes.resort_name").
				Where("quotes.resort_name LIKE ? OR clients.company_name LIKE ?", p, p)
		}
		return db
	}
}

// ListQuotes returns one page of quotes, newest quoted date first, each line
// joined with its catalog item and that item's category.
func (s *Service) ListQuotes(search, category string, page, pageSize int) (*OffsetPage, error) {
	page, pageSize = normalizePaging(page, pageSize, DefaultPageSize)

	var total int64
	if err := s.db.Model(&models.Quote{}).Scopes(quoteFilter(search, category)).Count(&total).Error; err != nil {
		return nil, s.wrapDB(err, "Failed to fetch quotes")
	}

	var quotes []models.Quote
	err := s.db.Model(&models.Quote{}).
		Scopes(quoteFilter(search, category)).
		Select("quotes.*").
		Preload("Items", lineOrder).
		Preload("Items.Item.Category").
		Order("quoted_date desc").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&quotes).Error
	if err != nil {
		return nil, s.wrapDB(err, "Failed to fetch quotes")
	}

	return newPage(quotes, total, page, pageSize), nil
}

// lineOrder keeps quote lines in insertion order.
func lineOrder(db *gorm.DB) *gorm.DB {
	return db.Order("quote_items.id asc")
}

// GetQuote fetches one quote with its lines, each joined with the referenced
// item and category.
func (s *Service) GetQuote(id uint) (*models.Quote, error) {
	var quote models.Quote
	err := s.db.
		Preload("Items", lineOrder).
		Preload("Items.Item.Category").
		First(&quote, id).Error
	if err != nil {
		return nil, s.wrapDB(err, "Failed to fetch quote")
	}
	return &quote, nil
}

// CreateQuote validates and persists a quote header plus all its lines as
// one atomic unit. A quote with no lines is a validation failure.
func (s *Service) CreateQuote(actor *models.User, in QuoteInput) (*models.Quote, error) {
	if err := s.requireManage(actor); err != nil {
		return nil, err
	}

	quote, lines, err := s.normalizeQuote(in)
	if err != nil {
		return nil, err
	}
	quote.Items = lines

	// GORM creates the header and the association rows in one transaction;
	// a partially persisted quote is never observable.
	if err := s.db.Create(quote).Error; err != nil {
		return nil, s.wrapDB(err, "Failed to create quote")
	}

	s.audit.Record(actor, "QUOTE_CREATED", fmt.Sprintf("New quote created for %s (ID: %d)", quote.ResortName, quote.ID))
	s.views.Revalidate(view.PathQuotes)
	return s.GetQuote(quote.ID)
}

// UpdateQuote replaces the quote wholesale: the header is rewritten and the
// entire line collection is deleted and recreated from the submitted list,
// even for lines that did not change. Line IDs are not stable across edits.
func (s *Service) UpdateQuote(actor *models.User, id uint, in QuoteInput) (*models.Quote, error) {
	if err := s.requireManage(actor); err != nil {
		return nil, err
	}

	quote, lines, err := s.normalizeQuote(in)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Quote
		if err := tx.First(&existing, id).Error; err != nil {
			return err
		}

		if err := tx.Where("quote_id = ?", id).Delete(&models.QuoteItem{}).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"resort_name":    quote.ResortName,
			"quoted_date":    quote.QuotedDate,
			"quote_category": quote.QuoteCategory,
			"next_follow_up": quote.NextFollowUp,
			"status":         quote.Status,
			"remarks":        quote.Remarks,
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return err
		}

		for i := range lines {
			lines[i].QuoteID = id
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return nil, s.wrapDB(err, "Failed to update quote")
	}

	s.audit.Record(actor, "QUOTE_UPDATED", fmt.Sprintf("Quote updated for %s (ID: %d)", quote.ResortName, id))
	s.views.Revalidate(view.PathQuotes)
	return s.GetQuote(id)
}

// UpdateStatus sets the lifecycle tag. Any status may move to any other;
// lines are untouched.
func (s *Service) UpdateStatus(actor *models.User, id uint, status string) (*models.Quote, error) {
	if err := s.requireManage(actor); err != nil {
		return nil, err
	}
	if !validStatus(status) {
		return nil, errs.NewValidation("status", "Must be one of: "+strings.Join(quoteStatuses, " "))
	}

	var quote models.Quote
	if err := s.db.First(&quote, id).Error; err != nil {
		return nil, s.wrapDB(err, "Failed to update quote status")
	}

	if err := s.db.Model(&quote).Update("status", status).Error; err != nil {
		return nil, s.wrapDB(err, "Failed to update quote status")
	}

	s.audit.Record(actor, "QUOTE_STATUS_UPDATED",
		fmt.Sprintf("Quote status updated for %s (ID: %d) to %s", quote.ResortName, quote.ID, status))
	s.views.Revalidate(view.PathQuotes)
	return s.GetQuote(id)
}

// DeleteQuote removes the lines first, then the header. The cleanup order
// matters when the datastore does not cascade.
func (s *Service) DeleteQuote(actor *models.User, id uint) error {
	if err := s.requireManage(actor); err != nil {
		return err
	}

	var quote models.Quote
	if err := s.db.First(&quote, id).Error; err != nil {
		return s.wrapDB(err, "Failed to delete quote")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", id).Delete(&models.QuoteItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Quote{}, id).Error
	})
	if err != nil {
		return s.wrapDB(err, "Failed to delete quote")
	}

	s.audit.Record(actor, "QUOTE_DELETED", fmt.Sprintf("Quote deleted for %s (ID: %d)", quote.ResortName, quote.ID))
	s.views.Revalidate(view.PathQuotes)
	return nil
}

// normalizeQuote validates the form payload and converts it into a header
// plus line rows. Nothing touches the datastore until everything checks out,
// except the item-existence lookup.
func (s *Service) normalizeQuote(in QuoteInput) (*models.Quote, []models.QuoteItem, error) {
	ve := &errs.ValidationError{}

	resortName := strings.TrimSpace(in.ResortName)
	if resortName == "" {
		ve.Add("resort_name", "Resort name is required")
	}

	quotedDate := time.Now()
	if in.QuotedDate != "" {
		t, err := money.ToTimestamp(in.QuotedDate)
		if err != nil {
			ve.Add("quoted_date", "Invalid date")
		} else if t != nil {
			quotedDate = *t
		}
	}

	category := in.QuoteCategory
	if category == "" {
		category = models.QuoteCategoryOthers
	} else if !validQuoteCategory(category) {
		ve.Add("quote_category", "Must be one of: "+strings.Join(quoteCategories, " "))
	}

	status := in.Status
	if status == "" {
		status = models.QuoteStatusQuoted
	} else if !validStatus(status) {
		ve.Add("status", "Must be one of: "+strings.Join(quoteStatuses, " "))
	}

	// Follow-up defaults to five days after the quoted date
	nextFollowUp := quotedDate.AddDate(0, 0, 5)
	if in.NextFollowUp != "" {
		t, err := money.ToTimestamp(in.NextFollowUp)
		if err != nil {
			ve.Add("next_follow_up", "Invalid date")
		} else if t != nil {
			nextFollowUp = *t
		}
	}

	if len(in.Items) == 0 {
		ve.Add("items", "At least one item is required")
	}

	lines := make([]models.QuoteItem, 0, len(in.Items))
	itemIDs := make([]uint, 0, len(in.Items))
	for i, line := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		if line.ItemID == 0 {
			ve.Add(field, "Must reference a valid item")
			continue
		}
		amount, err := money.ToMoney(line.Amount)
		if err != nil {
			ve.Add(field, "Invalid amount format")
			continue
		}
		if !amount.GreaterThan(decimal.Zero) {
			ve.Add(field, "Amount must be greater than 0")
			continue
		}
		itemIDs = append(itemIDs, line.ItemID)
		lines = append(lines, models.QuoteItem{ItemID: line.ItemID, Amount: amount})
	}

	if len(ve.Fields) > 0 {
		return nil, nil, ve
	}

	// Every referenced item must exist before anything is written
	var found []uint
	if err := s.db.Model(&models.Item{}).Where("id IN ?", itemIDs).Pluck("id", &found).Error; err != nil {
		return nil, nil, s.wrapDB(err, "Failed to validate quote items")
	}
	exists := make(map[uint]bool, len(found))
	for _, id := range found {
		exists[id] = true
	}
	for i, line := range lines {
		if !exists[line.ItemID] {
			ve.Add(fmt.Sprintf("items[%d]", i), fmt.Sprintf("Item %d does not exist", line.ItemID))
		}
	}
	if len(ve.Fields) > 0 {
		return nil, nil, ve
	}

	quote := &models.Quote{
		ResortName:    resortName,
		QuotedDate:    quotedDate,
		QuoteCategory: category,
		NextFollowUp:  nextFollowUp,
		Status:        status,
		Remarks:       in.Remarks,
	}
	return quote, lines, nil
}
