package domain

import (
	"context"
	"fmt"
	"time"

	"go-gorm-library/pkg/utils"
)

type Role int

const (
	RoleVisitor Role = 0
	RoleAdmin   Role = 1
)

var roleNames = map[Role]string{
	RoleVisitor: "visitor",
	RoleAdmin:   "admin",
}

// Name maps a role code to its label; codes outside the table are "Unknown".
func (r Role) Name() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return "Unknown"
}

type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FirstName  *string   `gorm:"size:20" json:"first_name"`
	MiddleName *string   `gorm:"size:20" json:"middle_name"`
	LastName   *string   `gorm:"size:20" json:"last_name"`
	Email      string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password   string    `gorm:"size:128;not null" json:"-"` // bcrypt hash
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Role       Role      `gorm:"not null;default:0" json:"role"`
	IsActive   bool      `gorm:"not null;default:false" json:"is_active"`
}

func (User) TableName() string { return "users" }

// SetPassword stores the bcrypt hash of raw; the plaintext is never kept.
func (u *User) SetPassword(raw string) error {
	h, err := utils.HashPassword(raw)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Password = h
	return nil
}

func (u *User) CheckPassword(raw string) bool {
	return utils.CheckPassword(raw, u.Password)
}

func (u *User) RoleName() string { return u.Role.Name() }

// UserPatch carries the fields an update overwrites; nil means keep.
type UserPatch struct {
	FirstName  *string
	MiddleName *string
	LastName   *string
	Password   *string
	Role       *Role
	IsActive   *bool
}

func (u *User) Apply(p UserPatch) error {
	if p.FirstName != nil {
		u.FirstName = p.FirstName
	}
	if p.MiddleName != nil {
		u.MiddleName = p.MiddleName
	}
	if p.LastName != nil {
		u.LastName = p.LastName
	}
	if p.Password != nil {
		if err := u.SetPassword(*p.Password); err != nil {
			return err
		}
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	return nil
}

func (u *User) ToDict() Dict {
	return Dict{
		"id":          u.ID,
		"first_name":  optString(u.FirstName),
		"middle_name": optString(u.MiddleName),
		"last_name":   optString(u.LastName),
		"email":       u.Email,
		"created_at":  u.CreatedAt.Unix(),
		"updated_at":  u.UpdatedAt.Unix(),
		"role":        int(u.Role),
		"is_active":   u.IsActive,
	}
}

func (u *User) String() string {
	return fmt.Sprintf("%d: %s %s %s - %s", u.ID, deref(u.FirstName), deref(u.MiddleName), deref(u.LastName), u.Email)
}

type UserRepository interface {
	Create(ctx context.Context, email, password string, firstName, middleName, lastName *string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User, p UserPatch) error
	DeleteByID(ctx context.Context, id uint) (bool, error)
}
