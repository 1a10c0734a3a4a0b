package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-gorm-library/internal/domain"
)

type AuthorRepo struct{ db *gorm.DB }

var _ domain.AuthorRepository = (*AuthorRepo)(nil)

func NewAuthorRepo(db *gorm.DB) *AuthorRepo { return &AuthorRepo{db: db} }

// Create stores a new author. Empty name or surname fall back to "Unknown".
func (r *AuthorRepo) Create(ctx context.Context, name, surname string, patronymic *string) (*domain.Author, error) {
	a := &domain.Author{Name: name, Surname: surname, Patronymic: patronymic}
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AuthorRepo) FindByID(ctx context.Context, id uint) (*domain.Author, error) {
	var a domain.Author
	err := r.db.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AuthorRepo) List(ctx context.Context) ([]domain.Author, error) {
	var authors []domain.Author
	if err := r.db.WithContext(ctx).Order("id").Find(&authors).Error; err != nil {
		return nil, err
	}
	return authors, nil
}

func (r *AuthorRepo) Update(ctx context.Context, a *domain.Author, p domain.AuthorPatch) error {
	a.Apply(p)
	return r.db.WithContext(ctx).Save(a).Error
}

// DeleteByID drops the author from every book before removing the row.
func (r *AuthorRepo) DeleteByID(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+bookAuthorsTable+" WHERE author_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Author{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}
