package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/EhaabShareef/inventory-manage/internal/errs"
	"github.com/EhaabShareef/inventory-manage/internal/models"
)

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	svc, db := newTestService(t)
	manager := seedManager(t, db)

	_, err := svc.CreateUser(manager, UserInput{
		Username: "aisha",
		Password: "s3cret!",
		Role:     models.RoleManage,
	})
	require.NoError(t, err)

	user, token, err := svc.Login("aisha", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, "aisha", user.Username)
	assert.NotEmpty(t, token)

	rows := auditRows(t, db, "USER_LOGIN")
	require.Len(t, rows, 1)
	assert.Equal(t, user.ID, rows[0].UserID)

	// Wrong password and unknown username look identical to the caller.
	_, _, err = svc.Login("aisha", "wrong")
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
	_, _, err = svc.Login("nobody", "s3cret!")
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)

	// Failed attempts leave no audit trail.
	assert.Len(t, auditRows(t, db, "USER_LOGIN"), 1)
}

func TestCreateUserDefaults(t *testing.T) {
	svc, db := newTestService(t)
	manager := seedManager(t, db)

	user, err := svc.CreateUser(manager, UserInput{Username: "fathmath", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleView, user.Role)

	// The password is stored hashed, never verbatim.
	assert.NotEqual(t, "s3cret!", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret!")))
}

func TestCreateUserValidation(t *testing.T) {
	svc, db := newTestService(t)
	manager := seedManager(t, db)

	var ve *errs.ValidationError

	_, err := svc.CreateUser(manager, UserInput{Username: "", Password: "s3cret!"})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "username")

	_, err = svc.CreateUser(manager, UserInput{Username: "aisha", Password: "short"})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "password")

	_, err = svc.CreateUser(manager, UserInput{Username: "aisha", Password: "s3cret!", Role: "ADMIN"})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "role")

	_, err = svc.CreateUser(manager, UserInput{Username: "manager", Password: "s3cret!"})
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestUpdateUserPartial(t *testing.T) {
	svc, db := newTestService(t)
	manager := seedManager(t, db)

	user, err := svc.CreateUser(manager, UserInput{Username: "aisha", Password: "s3cret!"})
	require.NoError(t, err)
	originalHash := user.PasswordHash

	_, err = svc.UpdateUser(manager, user.ID, map[string]interface{}{
		"role":  models.RoleManage,
		"email": "aisha@example.com",
	})
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, models.RoleManage, stored.Role)
	require.NotNil(t, stored.Email)
	assert.Equal(t, "aisha@example.com", *stored.Email)
	assert.Equal(t, "aisha", stored.Username)
	assert.Equal(t, originalHash, stored.PasswordHash)

	// A supplied password is re-hashed.
	_, err = svc.UpdateUser(manager, user.ID, map[string]interface{}{"password": "newpass"})
	require.NoError(t, err)
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.NotEqual(t, originalHash, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpass")))

	var ve *errs.ValidationError
	_, err = svc.UpdateUser(manager, user.ID, map[string]interface{}{"role": "ADMIN"})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "role")
	_, err = svc.UpdateUser(manager, user.ID, map[string]interface{}{"password": "short"})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "password")
}

func TestResetPassword(t *testing.T) {
	svc, db := newTestService(t)
	manager := seedManager(t, db)

	user, err := svc.CreateUser(manager, UserInput{Username: "aisha", Password: "s3cret!"})
	require.NoError(t, err)

	var ve *errs.ValidationError
	err = svc.ResetPassword(manager, user.ID, "short")
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "password")

	require.NoError(t, svc.ResetPassword(manager, user.ID, "br4nd-new"))

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("br4nd-new")))
	assert.Len(t, auditRows(t, db, "USER_PASSWORD_RESET"), 1)
}

func TestDeleteUserSelf(t *testing.T) {
	svc, db := newTestService(t)
	manager := seedManager(t, db)
	other := seedUser(t, db, "aisha", models.RoleView)

	var ve *errs.ValidationError
	err := svc.DeleteUser(manager, manager.ID)
	require.ErrorAs(t, err, &ve)

	require.NoError(t, svc.DeleteUser(manager, other.ID))
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUserMutationsRequireManage(t *testing.T) {
	svc, db := newTestService(t)
	viewer := seedUser(t, db, "viewer", models.RoleView)
	other := seedUser(t, db, "aisha", models.RoleView)

	_, err := svc.CreateUser(viewer, UserInput{Username: "blocked", Password: "s3cret!"})
	assert.ErrorIs(t, err, errs.ErrForbidden)
	_, err = svc.UpdateUser(viewer, other.ID, map[string]interface{}{"role": models.RoleManage})
	assert.ErrorIs(t, err, errs.ErrForbidden)
	assert.ErrorIs(t, svc.ResetPassword(viewer, other.ID, "br4nd-new"), errs.ErrForbidden)
	assert.ErrorIs(t, svc.DeleteUser(viewer, other.ID), errs.ErrForbidden)
}
