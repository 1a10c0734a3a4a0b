package domain

import (
	"context"
	"fmt"
)

type Author struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	Name       string  `gorm:"size:20;not null;default:'Unknown'" json:"name"`
	Surname    string  `gorm:"size:20;not null;default:'Unknown'" json:"surname"`
	Patronymic *string `gorm:"size:20" json:"patronymic"`
}

func (Author) TableName() string { return "authors" }

type AuthorPatch struct {
	Name       *string
	Surname    *string
	Patronymic *string
}

func (a *Author) Apply(p AuthorPatch) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Surname != nil {
		a.Surname = *p.Surname
	}
	if p.Patronymic != nil {
		a.Patronymic = p.Patronymic
	}
}

func (a *Author) ToDict() Dict {
	return Dict{
		"id":         a.ID,
		"name":       a.Name,
		"surname":    a.Surname,
		"patronymic": optString(a.Patronymic),
	}
}

func (a *Author) String() string {
	return fmt.Sprintf("%d: %s %s %s", a.ID, a.Name, deref(a.Patronymic), a.Surname)
}

type AuthorRepository interface {
	Create(ctx context.Context, name, surname string, patronymic *string) (*Author, error)
	FindByID(ctx context.Context, id uint) (*Author, error)
	List(ctx context.Context) ([]Author, error)
	Update(ctx context.Context, a *Author, p AuthorPatch) error
	DeleteByID(ctx context.Context, id uint) (bool, error)
}
