package domain

import (
	"context"
	"fmt"
	"strings"
)

// DefaultBookCount is the number of copies a new book starts with.
const DefaultBookCount = 10

type Book struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:128;not null;default:'Unknown'" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Count       int       `gorm:"not null" json:"count"` // available copies, never touched by orders
	Authors     []*Author `gorm:"many2many:book_authors;constraint:OnDelete:CASCADE" json:"authors"`
}

func (Book) TableName() string { return "books" }

type BookPatch struct {
	Name        *string
	Description *string
	Count       *int
}

func (b *Book) Apply(p BookPatch) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Count != nil {
		b.Count = *p.Count
	}
}

// ToDict nests the full dictionary of every associated author.
func (b *Book) ToDict() Dict {
	authors := make([]Dict, 0, len(b.Authors))
	for _, a := range b.Authors {
		authors = append(authors, a.ToDict())
	}
	return Dict{
		"id":          b.ID,
		"name":        b.Name,
		"description": b.Description,
		"count":       b.Count,
		"authors":     authors,
	}
}

func (b *Book) String() string {
	names := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		names = append(names, a.Name+" "+a.Surname)
	}
	return fmt.Sprintf("%d: %s by %s", b.ID, b.Name, strings.Join(names, ", "))
}

type BookRepository interface {
	Create(ctx context.Context, name, description string, count int, authors ...*Author) (*Book, error)
	FindByID(ctx context.Context, id uint) (*Book, error)
	List(ctx context.Context) ([]Book, error)
	Update(ctx context.Context, b *Book, p BookPatch) error
	AddAuthors(ctx context.Context, b *Book, authors ...*Author) error
	RemoveAuthors(ctx context.Context, b *Book, authors ...*Author) error
	DeleteByID(ctx context.Context, id uint) (bool, error)
}
