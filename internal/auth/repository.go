package auth

import (
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	Create(user *User) error
	FindByEmail(email string) (*User, error)
	FindByID(userID string) (User, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

// Create a new user
func (r *repository) Create(user *User) error {
	return r.db.Create(user).Error
}

// Find user by email (case-insensitive)
func (r *repository) FindByEmail(email string) (*User, error) {
	var u User
	err := r.db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	return &u, err
}

// Find user by ID
func (r *repository) FindByID(userID string) (User, error) {
	var user User
	err := r.db.Where("id = ?", userID).First(&user).Error
	return user, err
}
