// Package service implements the business logic behind the HTTP
// handlers: user registration and login, photo enrollment, and the
// recognition-service notifier.
package service

import (
	"errors"
	"path"
	"strings"

	"faceattend/database"
	"faceattend/database/model"
	"faceattend/logger"
	"faceattend/util/common"
	"faceattend/util/crypto"

	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrUnsafeImagePath    = errors.New("image path must be relative and free of traversal segments")
)

// dummyHash is a bcrypt hash of an unguessable value, compared against
// when the email is unknown so lookup misses and password mismatches
// take the same path.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserService manages registered users. Email is the unique key and is
// compared case-insensitively: addresses are lower-cased at this
// boundary before any lookup or write.
type UserService struct{}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isSafeRelativePath reports whether p can be stored as a canonical
// image path: empty, or relative with no traversal out of the asset
// directory.
func isSafeRelativePath(p string) bool {
	if p == "" {
		return true
	}
	if path.IsAbs(p) || strings.Contains(p, "\\") {
		return false
	}
	cleaned := path.Clean(p)
	return cleaned != ".." && !strings.HasPrefix(cleaned, "../")
}

// Register creates a new user with a hashed password. The raw role
// string is validated here; the plaintext password is never stored.
func (s *UserService) Register(id int64, name, email, password, rawRole, imagePath string) (*model.User, error) {
	role, err := model.ParseRole(rawRole)
	if err != nil {
		return nil, err
	}

	email = normalizeEmail(email)
	if email == "" {
		return nil, common.NewError("email can not be empty")
	}
	if password == "" {
		return nil, common.NewError("password can not be empty")
	}
	if !isSafeRelativePath(imagePath) {
		return nil, ErrUnsafeImagePath
	}

	db := database.GetDB()

	var count int64
	if err := db.Model(model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Id:           id,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		ImagePath:    imagePath,
	}
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return user, nil
}

// Login verifies a submitted email/password pair. Unknown email and
// wrong password are indistinguishable to the caller: both return
// ErrInvalidCredentials, and the password hash comparison runs either
// way.
func (s *UserService) Login(email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	db := database.GetDB()
	user := &model.User{}
	err := db.Model(model.User{}).
		Where("email = ?", email).
		First(user).
		Error
	if database.IsNotFound(err) {
		crypto.CheckPasswordHash(dummyHash, password)
		return nil, ErrInvalidCredentials
	} else if err != nil {
		logger.Warning("login lookup err:", err)
		return nil, ErrInvalidCredentials
	}

	if !crypto.CheckPasswordHash(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUserByEmail resolves a user by email.
func (s *UserService) GetUserByEmail(email string) (*model.User, error) {
	db := database.GetDB()
	user := &model.User{}
	err := db.Model(model.User{}).
		Where("email = ?", normalizeEmail(email)).
		First(user).
		Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListStudents returns all student users ordered by name,
// case-insensitively.
func (s *UserService) ListStudents() ([]model.User, error) {
	db := database.GetDB()
	var students []model.User
	err := db.Model(model.User{}).
		Where("role = ?", model.RoleStudent).
		Order("name COLLATE NOCASE asc").
		Find(&students).
		Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

// UpdateImagePath persists a new canonical photo path for the user.
func (s *UserService) UpdateImagePath(id int64, imagePath string) error {
	db := database.GetDB()
	return db.Model(model.User{}).
		Where("id = ?", id).
		Update("image_path", imagePath).
		Error
}

// InitDefaultUser seeds a faculty account when the users table is empty,
// so a fresh install has a working login.
func (s *UserService) InitDefaultUser(email, password string) error {
	db := database.GetDB()
	var count int64
	if err := db.Model(model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return err
	}
	user := &model.User{
		Id:           1,
		Name:         "Administrator",
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		Role:         model.RoleFaculty,
	}
	return db.Create(user).Error
}
