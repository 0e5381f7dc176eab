// Package model defines the gorm entities persisted by the faceattend
// backend.
package model

import (
	"errors"
	"strings"
)

// Role classifies a registered user. It has no transitions; the role
// assigned at registration is final.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleFaculty Role = "FACULTY"
)

var ErrInvalidRole = errors.New("invalid role")

// ParseRole maps a free-form role string onto a known Role,
// case-insensitively. Unknown values yield ErrInvalidRole.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleFaculty:
		return RoleFaculty, nil
	default:
		return "", ErrInvalidRole
	}
}

// User is one registered person. Email is the unique lookup key and is
// stored lower-cased. ImagePath is the canonical relative path of the
// enrolled photo; empty means no photo and is only meaningful for
// students.
type User struct {
	Id           int64  `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"not null"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
	Role         Role   `json:"role" gorm:"not null"`
	ImagePath    string `json:"imagePath,omitempty"`
}

// PublicImagePath returns the image path as exposed to API callers:
// populated for students, nil for everyone else.
func (u *User) PublicImagePath() *string {
	if u.Role != RoleStudent || u.ImagePath == "" {
		return nil
	}
	p := u.ImagePath
	return &p
}
