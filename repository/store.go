// Package repository is the data access layer: every read and write the
// services issue against the relational store goes through Store.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrDataUnavailable means the store cannot be reached.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrNotConfigured means no store was configured at all.
	ErrNotConfigured = fmt.Errorf("%w: database not configured", ErrDataUnavailable)
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
)

// Store wraps a gorm handle. A Store built from a transaction handle runs
// every method inside that transaction.
type Store struct {
	db *gorm.DB
}

// New returns a Store over db. db may be nil, in which case every method
// fails with ErrNotConfigured.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) conn(ctx context.Context) (*gorm.DB, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotConfigured
	}
	return s.db.WithContext(ctx), nil
}

// Ping checks that the store is configured and reachable.
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	return nil
}

// Transaction runs fn inside one database transaction. fn must use the
// Store it is given; any error it returns rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func notFound(err error, what string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %v", ErrNotFound, what, id)
	}
	return err
}

func mustAffect(res *gorm.DB, what string, id any) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s %v", ErrNotFound, what, id)
	}
	return nil
}
