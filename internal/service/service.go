// Package service holds the domain operations: catalog, client directory,
// quotes, users, audit-log queries and the dashboard. Every operation
// validates before touching the datastore and reports failures through the
// errs taxonomy - handlers never see raw GORM errors.
package service

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/EhaabShareef/inventory-manage/internal/audit"
	"github.com/EhaabShareef/inventory-manage/internal/errs"
	"github.com/EhaabShareef/inventory-manage/internal/models"
	"github.com/EhaabShareef/inventory-manage/internal/view"
)

// Default page sizes used by the list views.
const (
	DefaultPageSize  = 10
	AuditLogPageSize = 20
)

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	audit    *audit.Recorder
	views    view.Revalidator
	validate *validator.Validate
}

func New(db *gorm.DB, log *zap.Logger, recorder *audit.Recorder, views view.Revalidator) *Service {
	validate := validator.New()
	// Report validation failures under the json field names the forms use
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Service{
		db:       db,
		log:      log,
		audit:    recorder,
		views:    views,
		validate: validate,
	}
}

// OffsetPage is the envelope every paginated listing returns.
type OffsetPage struct {
	Items      interface{} `json:"items"`
	TotalCount int64       `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

func newPage(items interface{}, total int64, page, pageSize int) *OffsetPage {
	return &OffsetPage{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}
}

// normalizePaging clamps paging input. Pages are 1-indexed.
func normalizePaging(page, pageSize, defaultSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	return page, pageSize
}

// requireManage gates every mutating operation. The route layer already
// checks the role, but the domain layer must be safe on its own.
func (s *Service) requireManage(actor *models.User) error {
	if actor == nil {
		return errs.ErrUnauthenticated
	}
	if actor.Role != models.RoleManage {
		return errs.ErrForbidden
	}
	return nil
}

// wrapDB converts a datastore failure into the taxonomy. msg is what the
// caller sees; the cause stays attached for logging only.
func (s *Service) wrapDB(err error, msg string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.ErrConflict
	default:
		s.log.Error(msg, zap.Error(err))
		return errs.OperationFailed(msg, err)
	}
}

// fieldErrors flattens validator output into the per-field message map the
// presentation layer renders next to form fields.
func fieldErrors(err error) *errs.ValidationError {
	ve := &errs.ValidationError{Fields: map[string][]string{}}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		ve.Add("_", "Invalid input")
		return ve
	}
	for _, fe := range verrs {
		ve.Add(fe.Field(), messageFor(fe))
	}
	return ve
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email address"
	case "gt":
		return "Must be greater than " + fe.Param()
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "oneof":
		return "Must be one of: " + fe.Param()
	default:
		return "Invalid value"
	}
}

// asUint coerces a decoded JSON value (float64 for numbers) into a uint id.
func asUint(v interface{}) uint {
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return 0
		}
		return uint(n)
	case int:
		if n < 0 {
			return 0
		}
		return uint(n)
	case uint:
		return n
	default:
		return 0
	}
}

// asNullableString coerces a decoded JSON value into a nullable string.
func asNullableString(v interface{}) *string {
	if v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}
