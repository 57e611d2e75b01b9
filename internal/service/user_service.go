package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/assetlog/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidName        = errors.New("invalid name: use letters, digits, spaces, '-' or '_' with at least 4 characters")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidPassword    = errors.New("invalid password: at least 8 letters and digits, with at least one of each")
	ErrNothingToUpdate    = errors.New("no field to update")
)

var (
	namePattern  = regexp.MustCompile(`^[\p{L}0-9\s\-_]+$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// UserService manages accounts.
type UserService struct {
	db *gorm.DB
}

// RegisterInput 注册所需字段
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UserUpdate carries the account fields to change; nil means untouched.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// Register validates and stores a new account with a bcrypt hash.
func (s *UserService) Register(input RegisterInput) (*db.User, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)

	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	taken, err := s.emailTaken(email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := db.User{Name: name, Email: email, Password: string(hashed)}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Authenticate returns the user owning email when password matches.
func (s *UserService) Authenticate(email, password string) (*db.User, error) {
	var user db.User
	if err := s.db.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// Get 根据 ID 获取用户
func (s *UserService) Get(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// Update changes name, email or password of an account.
func (s *UserService) Update(id uint, input UserUpdate) (*db.User, error) {
	updates := map[string]interface{}{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		updates["name"] = name
	}

	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		taken, err := s.emailTaken(email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
		updates["email"] = email
	}

	if input.Password != nil {
		if err := validatePassword(*input.Password); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updates["password"] = string(hashed)
	}

	if len(updates) == 0 {
		return nil, ErrNothingToUpdate
	}

	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.Get(id)
}

// Delete removes an account together with its assets and their records.
func (s *UserService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		assetIDs := tx.Model(&db.Asset{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("asset_id IN (?)", assetIDs).Delete(&db.MaintenanceRecord{}).Error; err != nil {
			return fmt.Errorf("delete user records: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&db.Asset{}).Error; err != nil {
			return fmt.Errorf("delete user assets: %w", err)
		}
		result := tx.Unscoped().Delete(&db.User{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

func (s *UserService) emailTaken(email string, exceptID uint) (bool, error) {
	var count int64
	query := s.db.Unscoped().Model(&db.User{}).Where("email = ?", email)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return count > 0, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateName(name string) error {
	compact := strings.Join(strings.Fields(name), "")
	if !namePattern.MatchString(name) || len([]rune(compact)) < 4 {
		return ErrInvalidName
	}
	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case r > unicode.MaxASCII:
			return ErrInvalidPassword
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			return ErrInvalidPassword
		}
	}
	if !hasLetter || !hasDigit {
		return ErrInvalidPassword
	}
	return nil
}
