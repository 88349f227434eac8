package database

import (
	"context"
	"errors"
	"fmt"

	"cafelist/model"

	"gorm.io/gorm"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) ByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

func (s *UserStore) ByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &user, nil
}

// Create inserts the user. When promoteFirst is set and the table is empty
// the user is stored as admin. On postgres the users table is locked for the
// count so two concurrent first registrations cannot both become admin;
// sqlite runs on a single connection and is already serialized.
func (s *UserStore) Create(ctx context.Context, user *model.User, promoteFirst bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if promoteFirst {
			if tx.Dialector.Name() == "postgres" {
				if err := tx.Exec("LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE").Error; err != nil {
					return fmt.Errorf("lock users: %w", err)
				}
			}
			var n int64
			if err := tx.Model(&model.User{}).Count(&n).Error; err != nil {
				return fmt.Errorf("count users: %w", err)
			}
			if n == 0 {
				user.Role = model.Admin
			}
		}
		if user.Role == "" {
			user.Role = model.Member
		}
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
}
