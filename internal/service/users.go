package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/EhaabShareef/inventory-manage/internal/auth"
	"github.com/EhaabShareef/inventory-manage/internal/errs"
	"github.com/EhaabShareef/inventory-manage/internal/models"
	"github.com/EhaabShareef/inventory-manage/internal/view"
)

// UserInput is the user-management form payload.
type UserInput struct {
	Username string  `json:"username" validate:"required,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Role     string  `json:"role" validate:"omitempty,oneof=VIEW MANAGE"`
}

// Login verifies credentials and issues a signed token. A failed lookup and
// a failed password compare are indistinguishable to the caller.
func (s *Service) Login(username, password string) (*models.User, string, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", errs.ErrUnauthenticated
		}
		return nil, "", s.wrapDB(err, "Failed to log in")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", errs.ErrUnauthenticated
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", errs.OperationFailed("Failed to generate token", err)
	}

	s.audit.Record(&user, "USER_LOGIN", fmt.Sprintf("User %s logged in", user.Username))
	return &user, token, nil
}

// Logout only records the audit entry; the handler clears the cookie.
func (s *Service) Logout(actor *models.User) {
	if actor != nil {
		s.audit.Record(actor, "USER_LOGOUT", fmt.Sprintf("User %s logged out", actor.Username))
	}
}

// Register creates a user through the open registration route. The audit
// entry is attributed to the newly created user itself.
func (s *Service) Register(in UserInput) (*models.User, error) {
	user, err := s.insertUser(in)
	if err != nil {
		return nil, err
	}
	s.audit.Record(user, "USER_REGISTERED", fmt.Sprintf("New user registered: %s", user.Username))
	return user, nil
}

// ListUsers returns every user, username ascending.
func (s *Service) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("username asc").Find(&users).Error; err != nil {
		return nil, s.wrapDB(err, "Failed to fetch users")
	}
	return users, nil
}

// CreateUser adds a staff account. Role defaults to VIEW.
func (s *Service) CreateUser(actor *models.User, in UserInput) (*models.User, error) {
	if err := s.requireManage(actor); err != nil {
		return nil, err
	}

	user, err := s.insertUser(in)
	if err != nil {
		return nil, err
	}

	s.audit.Record(actor, "USER_CREATED",
		fmt.Sprintf("New user created : %s (UID : %d) with role -> %s", user.Username, user.ID, user.Role))
	s.views.Revalidate(view.PathUsers)
	return user, nil
}

// UpdateUser applies a partial update to username/email/role/password.
// A supplied password is re-hashed.
func (s *Service) UpdateUser(actor *models.User, id uint, changes map[string]interface{}) (*models.User, error) {
	if err := s.requireManage(actor); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, s.wrapDB(err, "Failed to update user")
	}

	ve := &errs.ValidationError{}
	updates := map[string]interface{}{}
	var changed []string

	for key, raw := range changes {
		switch key {
		case "username":
			name := ""
			if v, ok := raw.(string); ok {
				name = strings.TrimSpace(v)
			}
			if name == "" {
				ve.Add(key, "Username is required")
			} else {
				updates[key] = name
				changed = append(changed, key)
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
			changed = append(changed, key)
		case "role":
			role, _ := raw.(string)
			if role != models.RoleView && role != models.RoleManage {
				ve.Add(key, "Must be one of: VIEW MANAGE")
			} else {
				updates[key] = role
				changed = append(changed, key)
			}
		case "password":
			password, _ := raw.(string)
			if len(password) < 6 {
				ve.Add(key, "Must be at least 6 characters")
				continue
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return nil, errs.OperationFailed("Failed to hash password", err)
			}
			updates["password_hash"] = string(hashed)
			changed = append(changed, key)
		}
	}

	if len(ve.Fields) > 0 {
		return nil, ve
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, s.wrapDB(err, "Failed to update user")
		}
	}

	sort.Strings(changed)
	s.audit.Record(actor, "USER_UPDATED",
		fmt.Sprintf("User updated : %s (UID : %d). Fields changed: %s", user.Username, user.ID, strings.Join(changed, ", ")))
	s.views.Revalidate(view.PathUsers)
	return &user, nil
}

// ResetPassword replaces a user's password outright.
func (s *Service) ResetPassword(actor *models.User, id uint, newPassword string) error {
	if err := s.requireManage(actor); err != nil {
		return err
	}
	if len(newPassword) < 6 {
		return errs.NewValidation("password", "Must be at least 6 characters")
	}

	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return s.wrapDB(err, "Failed to reset password")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errs.OperationFailed("Failed to hash password", err)
	}

	if err := s.db.Model(&user).Update("password_hash", string(hashed)).Error; err != nil {
		return s.wrapDB(err, "Failed to reset password")
	}

	s.audit.Record(actor, "USER_PASSWORD_RESET",
		fmt.Sprintf("Password reset for user %s (UID : %d)", user.Username, user.ID))
	return nil
}

// DeleteUser removes a staff account. Self-deletion is rejected so the last
// working session cannot orphan itself.
func (s *Service) DeleteUser(actor *models.User, id uint) error {
	if err := s.requireManage(actor); err != nil {
		return err
	}
	if actor.ID == id {
		return errs.NewValidation("id", "You cannot delete your own account")
	}

	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return s.wrapDB(err, "Failed to delete user")
	}

	if err := s.db.Delete(&models.User{}, id).Error; err != nil {
		return s.wrapDB(err, "Failed to delete user")
	}

	s.audit.Record(actor, "USER_DELETED", fmt.Sprintf("User deleted : %s (UID : %d)", user.Username, user.ID))
	s.views.Revalidate(view.PathUsers)
	return nil
}

func (s *Service) insertUser(in UserInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := s.validate.Struct(in); err != nil {
		return nil, fieldErrors(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.OperationFailed("Failed to hash password", err)
	}

	role := in.Role
	if role == "" {
		role = models.RoleView
	}

	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashed),
		Role:         role,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, s.wrapDB(err, "Failed to create user")
	}
	return &user, nil
}
