package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"salonpro-api/models"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return db.Create(user).Error
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err, "user", username)
	}
	return &user, nil
}

func (s *Store) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return db.Model(&models.User{}).Where("id = ?", id).Update("last_login", at).Error
}
