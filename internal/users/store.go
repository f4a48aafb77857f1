package users

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"jobLobby/internal/database"
)

// Store persists user accounts.
type Store interface {
	Create(ctx context.Context, user *database.User) error
	FindByID(ctx context.Context, id uint) (*database.User, error)
	FindByEmail(ctx context.Context, email string) (*database.User, error)
	// Taken reports whether another account (id != excludeID) already uses username or email.
	Taken(ctx context.Context, username, email string, excludeID uint) (bool, error)
	Save(ctx context.Context, user *database.User) error
}

type gormStore struct {
	db *gorm.DB
}

// NewGormStore returns a Store backed by db.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Create(ctx context.Context, user *database.User) error {
	return database.TranslateError("create user", s.db.WithContext(ctx).Create(user).Error)
}

func (s *gormStore) FindByID(ctx context.Context, id uint) (*database.User, error) {
	var user database.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, database.TranslateError("find user", err)
	}
	return &user, nil
}

func (s *gormStore) FindByEmail(ctx context.Context, email string) (*database.User, error) {
	var user database.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, database.TranslateError("find user by email", err)
	}
	return &user, nil
}

func (s *gormStore) Taken(ctx context.Context, username, email string, excludeID uint) (bool, error) {
	var existing database.User
	query := s.db.WithContext(ctx).
		Select("id").
		Where("(username = ? OR email = ?)", username, email)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.First(&existing).Error
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		return false, database.TranslateError("check user uniqueness", err)
	}
}

func (s *gormStore) Save(ctx context.Context, user *database.User) error {
	return database.TranslateError("save user", s.db.WithContext(ctx).Save(user).Error)
}
