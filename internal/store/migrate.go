package store

import "github.com/btggithub/DAM/internal/domain"

// AutoMigrate creates or updates the schema for every model the service owns.
func (s *Store) AutoMigrate() error {
	return s.DB.AutoMigrate(
		&domain.User{},
		&domain.Provider{},
		&domain.Domain{},
		&domain.Nameserver{},
		&domain.Website{},
		&domain.NotificationRecord{},
	)
}
