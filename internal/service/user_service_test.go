package service

import (
	"testing"

	"github.com/assetlog/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserServiceRegisterValidation(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)

	tests := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"short name", RegisterInput{Name: "a b", Email: "a@b.co", Password: "secret123"}, ErrInvalidName},
		{"symbol in name", RegisterInput{Name: "John!", Email: "a@b.co", Password: "secret123"}, ErrInvalidName},
		{"bad email", RegisterInput{Name: "John Doe", Email: "john@", Password: "secret123"}, ErrInvalidEmail},
		{"short password", RegisterInput{Name: "John Doe", Email: "a@b.co", Password: "abc123"}, ErrInvalidPassword},
		{"password without digit", RegisterInput{Name: "John Doe", Email: "a@b.co", Password: "abcdefgh"}, ErrInvalidPassword},
		{"password with symbol", RegisterInput{Name: "John Doe", Email: "a@b.co", Password: "abc-12345"}, ErrInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUserServiceRegisterAndAuthenticate(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)

	user, err := svc.Register(RegisterInput{Name: "Ana Maria", Email: " Ana@Example.com ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.NotEqual(t, "secret123", user.Password)

	_, err = svc.Register(RegisterInput{Name: "Ana Clone", Email: "ana@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	found, err := svc.Authenticate("ANA@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = svc.Authenticate("ana@example.com", "wrong1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate("nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserServiceUpdate(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)
	user := seedUser(t, gdb, "first@example.com")
	seedUser(t, gdb, "second@example.com")

	_, err := svc.Update(user.ID, UserUpdate{})
	assert.ErrorIs(t, err, ErrNothingToUpdate)

	taken := "second@example.com"
	_, err = svc.Update(user.ID, UserUpdate{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailTaken)

	name, password := "New Name", "another99"
	updated, err := svc.Update(user.ID, UserUpdate{Name: &name, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)

	_, err = svc.Authenticate("first@example.com", "another99")
	assert.NoError(t, err)
}

func TestUserServiceDeleteCascades(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)
	user := seedUser(t, gdb, "owner@example.com")
	asset := seedAsset(t, gdb, user.ID, "Car", 3)

	_, err := NewMaintenanceService(gdb).Create(user.ID, asset.ID, patchOf(t, `{"service":"Oil","next_due_date":"2025-06-01"}`))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(user.ID))

	var assets, records int64
	require.NoError(t, gdb.Model(&db.Asset{}).Count(&assets).Error)
	require.NoError(t, gdb.Model(&db.MaintenanceRecord{}).Count(&records).Error)
	assert.Zero(t, assets)
	assert.Zero(t, records)

	_, err = svc.Get(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, svc.Delete(user.ID), ErrUserNotFound)
}
