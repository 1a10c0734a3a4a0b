package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-gorm-library/internal/domain"
)

var ErrOrderParties = errors.New("order needs a persisted user and book")

type OrderRepo struct{ db *gorm.DB }

var _ domain.OrderRepository = (*OrderRepo)(nil)

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

func withParties(db *gorm.DB) *gorm.DB { return db.Preload("Book").Preload("User") }

// Create records a loan of book to user. created_at is set on insert; a zero
// platedEndAt defaults to now.
func (r *OrderRepo) Create(ctx context.Context, user *domain.User, book *domain.Book, platedEndAt time.Time) (*domain.Order, error) {
	if user == nil || book == nil || user.ID == 0 || book.ID == 0 {
		return nil, ErrOrderParties
	}
	if platedEndAt.IsZero() {
		platedEndAt = time.Now()
	}
	o := &domain.Order{
		BookID:      book.ID,
		Book:        book,
		UserID:      user.ID,
		User:        user,
		PlatedEndAt: platedEndAt,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error; err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepo) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	var o domain.Order
	err := withParties(r.db.WithContext(ctx)).First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := withParties(r.db.WithContext(ctx)).Order("id").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListNotReturned returns the outstanding loans: orders with no end_at.
func (r *OrderRepo) ListNotReturned(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := withParties(r.db.WithContext(ctx)).
		Where("end_at IS NULL").
		Order("id").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// Update overwrites the planned and actual return times that are set.
// Setting EndAt marks the book returned.
func (r *OrderRepo) Update(ctx context.Context, o *domain.Order, p domain.OrderPatch) error {
	o.Apply(p)
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(o).Error
}

func (r *OrderRepo) DeleteByID(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Order{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
