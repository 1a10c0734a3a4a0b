package repo

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-gorm-library/internal/domain"
)

const bookAuthorsTable = "book_authors"

type BookRepo struct{ db *gorm.DB }

var _ domain.BookRepository = (*BookRepo)(nil)

func NewBookRepo(db *gorm.DB) *BookRepo { return &BookRepo{db: db} }

func withAuthors(db *gorm.DB) *gorm.DB {
	return db.Preload("Authors", func(db *gorm.DB) *gorm.DB { return db.Order("authors.id") })
}

// Create persists the book and then links the given authors, in one
// transaction. Pass domain.DefaultBookCount for the usual stock.
func (r *BookRepo) Create(ctx context.Context, name, description string, count int, authors ...*domain.Author) (*domain.Book, error) {
	b := &domain.Book{Name: name, Description: description, Count: count}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(b).Error; err != nil {
			return err
		}
		if len(authors) == 0 {
			return nil
		}
		if err := tx.Model(b).Association("Authors").Append(asValues(authors)...); err != nil {
			return err
		}
		return reloadAuthors(tx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BookRepo) FindByID(ctx context.Context, id uint) (*domain.Book, error) {
	var b domain.Book
	err := withAuthors(r.db.WithContext(ctx)).First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookRepo) List(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	if err := withAuthors(r.db.WithContext(ctx)).Order("id").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// Update overwrites name, description and count; the author set is left
// alone.
func (r *BookRepo) Update(ctx context.Context, b *domain.Book, p domain.BookPatch) error {
	b.Apply(p)
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(b).Error
}

// AddAuthors links authors to b without replacing the existing set.
func (r *BookRepo) AddAuthors(ctx context.Context, b *domain.Book, authors ...*domain.Author) error {
	if len(authors) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(b).Association("Authors").Append(asValues(authors)...); err != nil {
			return err
		}
		return reloadAuthors(tx, b)
	})
}

// RemoveAuthors unlinks authors from b; the author rows themselves stay.
func (r *BookRepo) RemoveAuthors(ctx context.Context, b *domain.Book, authors ...*domain.Author) error {
	if len(authors) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(b).Association("Authors").Delete(asValues(authors)...); err != nil {
			return err
		}
		return reloadAuthors(tx, b)
	})
}

// DeleteByID removes the book, its author links and every order for it.
func (r *BookRepo) DeleteByID(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&domain.Order{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM "+bookAuthorsTable+" WHERE book_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Book{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

func reloadAuthors(tx *gorm.DB, b *domain.Book) error {
	var authors []*domain.Author
	if err := tx.Model(b).Association("Authors").Find(&authors); err != nil {
		return err
	}
	sort.Slice(authors, func(i, j int) bool { return authors[i].ID < authors[j].ID })
	b.Authors = authors
	return nil
}

func asValues(authors []*domain.Author) []any {
	out := make([]any, 0, len(authors))
	for _, a := range authors {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}
