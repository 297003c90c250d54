package models

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

type PublishersRepository struct {
	db *gorm.DB
}

func NewPublishersRepository(db *gorm.DB) *PublishersRepository {
	return &PublishersRepository{db: db}
}

func (r *PublishersRepository) ListPublishers(ctx context.Context) ([]Publisher, error) {
	var publishers []Publisher
	if err := r.db.WithContext(ctx).Order("name").Order("id").Find(&publishers).Error; err != nil {
		return nil, err
	}
	return publishers, nil
}

// ResolvePublisher finds the publisher a name fragment refers to. A case-insensitive exact
// name match wins; otherwise the fragment has to match exactly one publisher name.
// It returns ErrNotFound for no match and *AmbiguousMatchError for several.
func (r *PublishersRepository) ResolvePublisher(ctx context.Context, fragment string) (*Publisher, error) {
	var matches []Publisher
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", "%"+EscapeLike(strings.ToLower(fragment))+"%").
		Order("name").Order("id").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return pickPublisher(fragment, matches)
}

func pickPublisher(fragment string, matches []Publisher) (*Publisher, error) {
	switch len(matches) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return &matches[0], nil
	}
	for i := range matches {
		if strings.EqualFold(matches[i].Name, fragment) {
			return &matches[i], nil
		}
	}
	return nil, &AmbiguousMatchError{Fragment: fragment, Candidates: matches}
}

// ListBooks returns the books of a publisher ordered by title, with their authors.
func (r *PublishersRepository) ListBooks(ctx context.Context, publisherID uint) ([]Book, error) {
	var books []Book
	err := r.db.WithContext(ctx).
		Preload("Authors").
		Where("publisher_id = ?", publisherID).
		Order("title").Order("id").
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes the LIKE wildcards in s.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
