package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Roles. Only two exist: MANAGE can mutate, VIEW can only read.
const (
	RoleView   = "VIEW"
	RoleManage = "MANAGE"
)

// Quote lifecycle tags. Transitions are unrestricted - staff set these manually.
const (
	QuoteStatusQuoted     = "QUOTED"
	QuoteStatusFollowedUp = "FOLLOWED_UP"
	QuoteStatusConfirmed  = "CONFIRMED"
	QuoteStatusLost       = "LOST"
)

// Quote category tags.
const (
	QuoteCategoryAMC     = "AMC"
	QuoteCategoryProject = "PROJECT"
	QuoteCategorySupply  = "SUPPLY"
	QuoteCategoryOthers  = "OTHERS"
)

// User - The staff member interacting with the system
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	Email        *string   `gorm:"uniqueIndex;size:100" json:"email"`
	PasswordHash string    `json:"-"` // Never return this in JSON
	Role         string    `gorm:"size:10" json:"role"` // 'VIEW' or 'MANAGE'
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Category - A named grouping of catalog items
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:50" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item - A priced catalog entry belonging to one Category.
// All four price columns are decimal(12,2); "expired" is derived at read
// time from PriceValidTill, never stored.
type Item struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	PartNo         *string          `gorm:"size:100" json:"part_no"`
	ItemName       string           `gorm:"size:200;not null" json:"item_name"`
	Model          *string          `gorm:"size:100" json:"model"`
	CategoryID     uint             `gorm:"not null" json:"category_id"`
	Category       Category         `gorm:"constraint:OnDelete:RESTRICT" json:"category"`
	ListPrice      decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"list_price"`
	SellingPrice   decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"selling_price"`
	AmcPrice       *decimal.Decimal `gorm:"type:decimal(12,2)" json:"amc_price"`
	NonAmcPrice    *decimal.Decimal `gorm:"type:decimal(12,2)" json:"non_amc_price"`
	PriceValidTill *time.Time       `json:"price_valid_till"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// Client - A resort/company record, keyed by a unique resort name
type Client struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	ResortName        string    `gorm:"uniqueIndex;size:191;not null" json:"resort_name"`
	CompanyName       *string   `gorm:"size:200" json:"company_name"`
	GstTinNo          *string   `gorm:"size:50" json:"gst_tin_no"`
	ItContact         *string   `gorm:"size:100" json:"it_contact"`
	Designation       *string   `gorm:"size:100" json:"designation"`
	ResortContact     *string   `gorm:"size:50" json:"resort_contact"`
	MobileNo          *string   `gorm:"size:50" json:"mobile_no"`
	Email             *string   `gorm:"size:100" json:"email"`
	Atoll             *string   `gorm:"size:100" json:"atoll"`
	MaleOfficeAddress *string   `gorm:"size:300" json:"male_office_address"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Quote - The proposal header. ResortName is a point-in-time snapshot, not a
// foreign key: renaming or deleting a Client must not rewrite old quotes.
type Quote struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	ResortName    string      `gorm:"size:191;not null;index" json:"resort_name"`
	QuotedDate    time.Time   `json:"quoted_date"`
	QuoteCategory string      `gorm:"size:20" json:"quote_category"`
	NextFollowUp  time.Time   `json:"next_follow_up"`
	Status        string      `gorm:"size:20" json:"status"`
	Remarks       *string     `gorm:"type:text" json:"remarks"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Items         []QuoteItem `gorm:"foreignKey:QuoteID" json:"items"`
}

// QuoteItem - One line inside a Quote. Amount is the negotiated line price;
// it is decoupled from the referenced item's catalog prices on purpose.
type QuoteItem struct {
	ID      uint            `gorm:"primaryKey" json:"id"`
	QuoteID uint            `gorm:"not null;index" json:"quote_id"`
	ItemID  uint            `gorm:"not null" json:"item_id"`
	Item    Item            `json:"item"` // Preload item (and its category) for listings
	Amount  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
}

// AuditLog - Append-only record of who did what, when
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Action    string    `gorm:"size:50;index" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	UserID    uint      `gorm:"index" json:"user_id"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}
