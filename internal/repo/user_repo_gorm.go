package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-gorm-library/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

var _ domain.UserRepository = (*UserRepo)(nil)

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

// Create hashes password before the row is written.
func (r *UserRepo) Create(ctx context.Context, email, password string, firstName, middleName, lastName *string) (*domain.User, error) {
	u := &domain.User{
		Email:      email,
		FirstName:  firstName,
		MiddleName: middleName,
		LastName:   lastName,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update applies p to u and persists every column; updated_at is refreshed
// even when p is empty.
func (r *UserRepo) Update(ctx context.Context, u *domain.User, p domain.UserPatch) error {
	if err := u.Apply(p); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(u).Error
}

// DeleteByID removes the user and their orders. It reports false when no
// user had that id.
func (r *UserRepo) DeleteByID(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&domain.Order{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}
