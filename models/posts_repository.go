package models

import (
	"context"

	"gorm.io/gorm"
)

type PostsRepository struct {
	db *gorm.DB
}

func NewPostsRepository(db *gorm.DB) *PostsRepository {
	return &PostsRepository{db: db}
}

// ListPosts returns all posts, most recently published first.
func (r *PostsRepository) ListPosts(ctx context.Context) ([]Post, error) {
	var posts []Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order(orderNullsLast(r.db, "published_date")).
		Order("id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostsRepository) GetPost(ctx context.Context, id uint) (*Post, error) {
	var post Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, TranslateError(err)
	}
	return &post, nil
}

// SavePost inserts a new post or rewrites an existing one.
func (r *PostsRepository) SavePost(ctx context.Context, post *Post) error {
	db := r.db.WithContext(ctx)
	if post.ID == 0 {
		return Insert(db, post)
	}
	return UpdateAll(db, post)
}

// orderNullsLast sorts column descending with NULLs at the end on both dialects.
func orderNullsLast(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "mysql" {
		return column + " IS NULL, " + column + " DESC"
	}
	return column + " DESC NULLS LAST"
}
