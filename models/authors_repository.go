package models

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type AuthorsRepository struct {
	db *gorm.DB
}

func NewAuthorsRepository(db *gorm.DB) *AuthorsRepository {
	return &AuthorsRepository{db: db}
}

func (r *AuthorsRepository) GetAuthor(ctx context.Context, id uint) (*Author, error) {
	var author Author
	if err := r.db.WithContext(ctx).First(&author, id).Error; err != nil {
		return nil, TranslateError(err)
	}
	return &author, nil
}

// TouchAuthor loads an author and records at as its last access. Concurrent
// touches are not serialised; the last write wins.
func (r *AuthorsRepository) TouchAuthor(ctx context.Context, id uint, at time.Time) (*Author, error) {
	author, err := r.GetAuthor(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(author).Update("last_accessed", at).Error; err != nil {
		return nil, err
	}
	author.LastAccessed = &at
	return author, nil
}

// EnsureForUser returns the author profile linked to user, creating it from the account
// on first use.
func (r *AuthorsRepository) EnsureForUser(ctx context.Context, user *User) (*Author, error) {
	author := Author{}
	err := r.db.WithContext(ctx).
		Where(Author{UserID: &user.ID}).
		Attrs(Author{Name: user.Username, Email: user.Email}).
		FirstOrCreate(&author).Error
	if err != nil {
		return nil, TranslateError(err)
	}
	return &author, nil
}
