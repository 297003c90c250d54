package models

import (
	"fmt"
	"strings"
	"time"
)

// Author is a writer of posts and books. An author profile may belong to a site account.
type Author struct {
	ID           uint   `gorm:"primaryKey"`
	Salutation   string `gorm:"size:10"`
	Name         string `gorm:"size:200;not null"`
	Email        string `gorm:"size:254"`
	Headshot     Image  `gorm:"embedded;embeddedPrefix:headshot_"`
	LastAccessed *time.Time
	UserID       *uint  `gorm:"uniqueIndex"`
	User         *User  `gorm:"constraint:OnDelete:SET NULL;"`
	Posts        []Post `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
}

func (a *Author) TableName() string {
	return "authors"
}

func (a *Author) String() string {
	return strings.TrimSpace(a.Salutation + " " + a.Name)
}

func (a *Author) AdminURL() string {
	return fmt.Sprintf("/admin/author/%d/change/", a.ID)
}

func (a *Author) AdminLabel() string {
	return a.String()
}

// Publisher issues books.
type Publisher struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"size:30;not null"`
	Address       string `gorm:"size:50"`
	City          string `gorm:"size:60"`
	StateProvince string `gorm:"size:30"`
	Country       string `gorm:"size:50"`
	Website       string `gorm:"size:200"`
	Books         []Book `gorm:"foreignKey:PublisherID;constraint:OnDelete:CASCADE;"`
}

func (p *Publisher) TableName() string {
	return "publishers"
}

func (p *Publisher) String() string {
	return p.Name
}

func (p *Publisher) AdminURL() string {
	return fmt.Sprintf("/admin/publisher/%d/change/", p.ID)
}

func (p *Publisher) AdminLabel() string {
	return p.Name
}

// Book is published by one publisher and written by any number of authors.
type Book struct {
	ID              uint       `gorm:"primaryKey"`
	Title           string     `gorm:"size:100;not null"`
	Authors         []Author   `gorm:"many2many:book_authors;constraint:OnDelete:CASCADE;"`
	PublisherID     uint       `gorm:"not null;index"`
	Publisher       *Publisher `gorm:"foreignKey:PublisherID"`
	PublicationDate time.Time  `gorm:"type:date"`
}

func (b *Book) TableName() string {
	return "books"
}

func (b *Book) String() string {
	return b.Title
}

// Post is a blog entry. PublishedDate is stamped every time the post is saved through the site.
type Post struct {
	ID            uint       `gorm:"primaryKey"`
	AuthorID      uint       `gorm:"not null;index"`
	Author        *Author    `gorm:"foreignKey:AuthorID"`
	Title         string     `gorm:"size:200;not null"`
	Text          string     `gorm:"type:text;not null"`
	CreatedDate   time.Time  `gorm:"autoCreateTime"`
	PublishedDate *time.Time `gorm:"index"`
}

func (p *Post) TableName() string {
	return "posts"
}

func (p *Post) String() string {
	return p.Title
}

// Publish attributes the post to author and stamps the publication time.
func (p *Post) Publish(author *Author, at time.Time) {
	p.AuthorID = author.ID
	p.Author = author
	p.PublishedDate = &at
}
