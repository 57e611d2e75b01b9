package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 定义了用户模型
type User struct {
	gorm.Model
	Name     string  `gorm:"not null"`
	Email    string  `gorm:"uniqueIndex;not null"`
	Password string  `gorm:"not null"`
	Assets   []Asset `gorm:"constraint:OnDelete:CASCADE"`
}

// EnsureUser creates a bcrypt-hashed account when no user owns the email yet.
// Blank arguments are a no-op.
func EnsureUser(gdb *gorm.DB, name, email, password string) (*User, error) {
	trimmedEmail := strings.ToLower(strings.TrimSpace(email))
	trimmedPassword := strings.TrimSpace(password)
	if trimmedEmail == "" || trimmedPassword == "" {
		return nil, nil
	}

	if gdb == nil {
		return nil, errors.New("database not initialized")
	}

	var existing User
	if err := gdb.Where("email = ?", trimmedEmail).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}

		user := User{Name: strings.TrimSpace(name), Email: trimmedEmail, Password: string(hashed)}
		if err := gdb.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}

	return &existing, nil
}
