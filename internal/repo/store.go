package repo

import "gorm.io/gorm"

// Store groups the repositories that share one connection.
type Store struct {
	Users   *UserRepo
	Authors *AuthorRepo
	Books   *BookRepo
	Orders  *OrderRepo
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		Users:   NewUserRepo(db),
		Authors: NewAuthorRepo(db),
		Books:   NewBookRepo(db),
		Orders:  NewOrderRepo(db),
	}
}
