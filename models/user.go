package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is an account that can sign in to the site and, when staff, to the admin console.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"size:150;uniqueIndex;not null"`
	Email        string    `gorm:"size:254"`
	PasswordHash string    `gorm:"size:255;not null"`
	IsStaff      bool      `gorm:"not null"`
	IsActive     bool      `gorm:"not null" default:"true"`
	DateJoined   time.Time `gorm:"autoCreateTime"`
}

func (u *User) TableName() string {
	return "users"
}

// SetPassword stores a bcrypt hash of password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Image is an uploaded picture held by a media store.
type Image struct {
	URL      string `gorm:"size:500"`
	PublicID string `gorm:"size:255"`
	Width    int
	Height   int
}

func (i Image) IsZero() bool {
	return i.URL == ""
}
