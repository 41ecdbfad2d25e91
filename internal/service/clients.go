package service

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/EhaabShareef/inventory-manage/internal/errs"
	"github.com/EhaabShareef/inventory-manage/internal/models"
	"github.com/EhaabShareef/inventory-manage/internal/view"
)

// ClientInput is the client (resort) form payload.
type ClientInput struct {
	ResortName        string  `json:"resort_name" validate:"required"`
	CompanyName       *string `json:"company_name"`
	GstTinNo          *string `json:"gst_tin_no"`
	ItContact         *string `json:"it_contact"`
	Designation       *string `json:"designation"`
	ResortContact     *string `json:"resort_contact"`
	MobileNo          *string `json:"mobile_no"`
	Email             *string `json:"email" validate:"omitempty,email"`
	Atoll             *string `json:"atoll"`
	MaleOfficeAddress *string `json:"male_office_address"`
}

func clientFilter(search string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if search != "" {
			p := "%" + search + "%"
			db = db.Where("company_name LIKE ? OR resort_name LIKE ? OR gst_tin_no LIKE ?", p, p, p)
		}
		return db
	}
}

// ListClients returns one page of the client directory, resort name ascending.
func (s *Service) ListClients(search string, page, pageSize int) (*OffsetPage, error) {
	page, pageSize = normalizePaging(page, pageSize, DefaultPageSize)

	var total int64
	if err := s.db.Model(&models.Client{}).Scopes(clientFilter(search)).Count(&total).Error; err != nil {
		return nil, s.wrapDB(err, "Failed to fetch clients")
	}

	var clients []models.Client
	err := s.db.Scopes(clientFilter(search)).
		Order("resort_name asc").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&clients).Error
	if err != nil {
		return nil, s.wrapDB(err, "Failed to fetch clients")
	}

	return newPage(clients, total, page, pageSize), nil
}

// GetClientByResortName fetches one client by its unique resort name.
func (s *Service) GetClientByResortName(resortName string) (*models.Client, error) {
	var client models.Client
	if err := s.db.Where("resort_name = ?", resortName).First(&client).Error; err != nil {
		return nil, s.wrapDB(err, "Failed to fetch client")
	}
	return &client, nil
}

// CreateClient validates and persists a new client. A duplicate resort name
// is a conflict, reported by the datastore's unique index.
func (s *Service) CreateClient(actor *models.User, in ClientInput) (*models.Client, error) {
	if err := s.requireManage(actor); err != nil {
		return nil, err
	}

	in.ResortName = strings.TrimSpace(in.ResortName)
	if err := s.validate.Struct(in); err != nil {
		return nil, fieldErrors(err)
	}

	client := models.Client{
		ResortName:        in.ResortName,
		CompanyName:       in.CompanyName,
		GstTinNo:          in.GstTinNo,
		ItContact:         in.ItContact,
		Designation:       in.Designation,
		ResortContact:     in.ResortContact,
		MobileNo:          in.MobileNo,
		Email:             in.Email,
		Atoll:             in.Atoll,
		MaleOfficeAddress: in.MaleOfficeAddress,
	}
	if err := s.db.Create(&client).Error; err != nil {
		return nil, s.wrapDB(err, "Failed to create client")
	}

	s.audit.Record(actor, "CLIENT_CREATED", fmt.Sprintf("New client created: %s (ID: %d)", client.ResortName, client.ID))
	s.views.Revalidate(view.PathClients)
	return &client, nil
}

// UpdateClient applies a partial update; only supplied fields change and a
// supplied null clears a nullable field.
func (s *Service) UpdateClient(actor *models.User, id uint, changes map[string]interface{}) (*models.Client, error) {
	if err := s.requireManage(actor); err != nil {
		return nil, err
	}

	var client models.Client
	if err := s.db.First(&client, id).Error; err != nil {
		return nil, s.wrapDB(err, "Failed to update client")
	}

	ve := &errs.ValidationError{}
	updates := map[string]interface{}{}

	for key, raw := range changes {
		switch key {
		case "resort_name":
			name := ""
			if v, ok := raw.(string); ok {
				name = strings.TrimSpace(v)
			}
			if name == "" {
				ve.Add(key, "Resort name is required")
			} else {
				updates[key] = name
			}
		case "email":
			email := asNullableString(raw)
			if email != nil {
				if err := s.validate.Var(*email, "email"); err != nil {
					ve.Add(key, "Invalid email address")
					continue
				}
			}
			updates[key] = email
		case "company_name", "gst_tin_no", "it_contact", "designation",
			"resort_contact", "mobile_no", "atoll", "male_office_address":
			updates[key] = asNullableString(raw)
		}
	}

	if len(ve.Fields) > 0 {
		return nil, ve
	}

	if len(updates) > 0 {
		if err := s.db.Model(&client).Updates(updates).Error; err != nil {
			return nil, s.wrapDB(err, "Failed to update client")
		}
	}

	s.audit.Record(actor, "CLIENT_UPDATED", fmt.Sprintf("Client updated: %s (ID: %d)", client.ResortName, client.ID))
	s.views.Revalidate(view.PathClients)
	return &client, nil
}

// DeleteClient removes a client. Quotes keep their resort-name snapshot.
func (s *Service) DeleteClient(actor *models.User, id uint) error {
	if err := s.requireManage(actor); err != nil {
		return err
	}

	var client models.Client
	if err := s.db.First(&client, id).Error; err != nil {
		return s.wrapDB(err, "Failed to delete client")
	}

	if err := s.db.Delete(&models.Client{}, id).Error; err != nil {
		return s.wrapDB(err, "Failed to delete client")
	}

	s.audit.Record(actor, "CLIENT_DELETED", fmt.Sprintf("Client deleted: %s (ID: %d)", client.ResortName, client.ID))
	s.views.Revalidate(view.PathClients)
	return nil
}
