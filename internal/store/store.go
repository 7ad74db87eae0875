package store

import (
	"context"

	"gorm.io/gorm"
)

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

// Ping verifies store reachability, used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.DB.WithContext(ctx).DB()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}
