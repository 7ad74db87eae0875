package store

import (
	"context"
	"errors"
	"time"

	"github.com/btggithub/DAM/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DomainStore struct{ db *gorm.DB }

func (s *Store) Domains() *DomainStore { return &DomainStore{db: s.DB} }

// Create writes the domain row and its nameservers. Callers wrap it in
// Store.WithTx so the rows land together.
func (d *DomainStore) Create(ctx context.Context, dom *domain.Domain) error {
	if dom.ID == uuid.Nil {
		dom.ID = uuid.New()
	}
	for i := range dom.Nameservers {
		dom.Nameservers[i].DomainID = dom.ID
	}
	return d.db.WithContext(ctx).Create(dom).Error
}

func (d *DomainStore) List(ctx context.Context, ownerID domain.UserID, admin bool) ([]domain.Domain, error) {
	var out []domain.Domain
	q := ownerScope(d.db.WithContext(ctx), ownerID, admin)
	if err := q.Preload("Nameservers", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}).Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (d *DomainStore) Get(ctx context.Context, id domain.DomainID, ownerID domain.UserID, admin bool) (*domain.Domain, error) {
	var dom domain.Domain
	q := ownerScope(d.db.WithContext(ctx).Where("id = ?", id), ownerID, admin)
	err := q.Preload("Nameservers", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}).First(&dom).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &dom, nil
}

func (d *DomainStore) ListByProvider(ctx context.Context, providerID domain.ProviderID, ownerID domain.UserID, admin bool) ([]domain.Domain, error) {
	var out []domain.Domain
	q := ownerScope(d.db.WithContext(ctx).Where("provider_id = ?", providerID), ownerID, admin)
	if err := q.Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the domain row and rewrites its nameserver set.
func (d *DomainStore) Update(ctx context.Context, dom *domain.Domain) error {
	db := d.db.WithContext(ctx)
	if err := db.Omit("Nameservers").Save(dom).Error; err != nil {
		return err
	}
	if err := db.Where("domain_id = ?", dom.ID).Delete(&domain.Nameserver{}).Error; err != nil {
		return err
	}
	for i := range dom.Nameservers {
		dom.Nameservers[i].ID = 0
		dom.Nameservers[i].DomainID = dom.ID
	}
	if len(dom.Nameservers) == 0 {
		return nil
	}
	return db.Create(&dom.Nameservers).Error
}

func (d *DomainStore) Delete(ctx context.Context, id domain.DomainID, ownerID domain.UserID, admin bool) error {
	q := ownerScope(d.db.WithContext(ctx).Where("id = ?", id), ownerID, admin)
	res := q.Delete(&domain.Domain{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return d.db.WithContext(ctx).Where("domain_id = ?", id).Delete(&domain.Nameserver{}).Error
}

// ListExpiring returns every domain with an expiry date set, across all
// owners. Only the scheduler's privileged scan uses this.
func (d *DomainStore) ListExpiring(ctx context.Context) ([]domain.Domain, error) {
	var out []domain.Domain
	if err := d.db.WithContext(ctx).Where("expiry_date IS NOT NULL").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (d *DomainStore) ExpiryStats(ctx context.Context, ownerID domain.UserID, admin bool, now time.Time) (expiring30, expiring90, total int64, err error) {
	base := func() *gorm.DB {
		return ownerScope(d.db.WithContext(ctx).Model(&domain.Domain{}), ownerID, admin)
	}
	if err = base().Count(&total).Error; err != nil {
		return
	}
	if err = base().Where("expiry_date <= ?", now.AddDate(0, 0, 30)).Count(&expiring30).Error; err != nil {
		return
	}
	err = base().Where("expiry_date <= ?", now.AddDate(0, 0, 90)).Count(&expiring90).Error
	return
}
