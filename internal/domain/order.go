package domain

import (
	"context"
	"fmt"
	"time"
)

// Order is a loan of one book to one user. A nil EndAt means the book is
// still out; setting it marks the return.
type Order struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	BookID      uint       `gorm:"not null;index" json:"book"`
	Book        *Book      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID      uint       `gorm:"not null;index" json:"user"`
	User        *User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	EndAt       *time.Time `gorm:"index" json:"end_at"`
	PlatedEndAt time.Time  `gorm:"not null" json:"plated_end_at"` // planned return
}

func (Order) TableName() string { return "orders" }

func (o *Order) Returned() bool { return o.EndAt != nil }

// OrderPatch overwrites only non-nil, non-zero timestamps.
type OrderPatch struct {
	PlatedEndAt *time.Time
	EndAt       *time.Time
}

func (o *Order) Apply(p OrderPatch) {
	if p.PlatedEndAt != nil && !p.PlatedEndAt.IsZero() {
		o.PlatedEndAt = *p.PlatedEndAt
	}
	if p.EndAt != nil && !p.EndAt.IsZero() {
		t := *p.EndAt
		o.EndAt = &t
	}
}

func (o *Order) ToDict() Dict {
	return Dict{
		"id":            o.ID,
		"book":          o.BookID,
		"user":          o.UserID,
		"created_at":    optUnix(&o.CreatedAt),
		"end_at":        optUnix(o.EndAt),
		"plated_end_at": optUnix(&o.PlatedEndAt),
	}
}

func (o *Order) String() string {
	book := fmt.Sprintf("#%d", o.BookID)
	if o.Book != nil {
		book = o.Book.Name
	}
	reader := fmt.Sprintf("user #%d", o.UserID)
	if o.User != nil {
		reader = deref(o.User.FirstName) + " " + deref(o.User.LastName)
	}
	returned := "-"
	if o.EndAt != nil {
		returned = o.EndAt.Format(time.DateTime)
	}
	return fmt.Sprintf("Order %d: Book '%s' by %s - Created: %s, Plated Return: %s, Returned: %s",
		o.ID, book, reader,
		o.CreatedAt.Format(time.DateTime), o.PlatedEndAt.Format(time.DateTime), returned)
}

type OrderRepository interface {
	Create(ctx context.Context, user *User, book *Book, platedEndAt time.Time) (*Order, error)
	FindByID(ctx context.Context, id uint) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	ListNotReturned(ctx context.Context) ([]Order, error)
	Update(ctx context.Context, o *Order, p OrderPatch) error
	DeleteByID(ctx context.Context, id uint) (bool, error)
}
