package store

import (
	"context"
	"errors"

	"github.com/btggithub/DAM/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProviderStore struct{ db *gorm.DB }

func (s *Store) Providers() *ProviderStore { return &ProviderStore{db: s.DB} }

// ownerScope limits non-admin queries to rows the caller owns.
func ownerScope(q *gorm.DB, ownerID domain.UserID, admin bool) *gorm.DB {
	if admin {
		return q
	}
	return q.Where("user_id = ?", ownerID)
}

func (p *ProviderStore) Create(ctx context.Context, pr *domain.Provider) error {
	if pr.ID == uuid.Nil {
		pr.ID = uuid.New()
	}
	return p.db.WithContext(ctx).Create(pr).Error
}

func (p *ProviderStore) List(ctx context.Context, ownerID domain.UserID, admin bool) ([]domain.Provider, error) {
	var out []domain.Provider
	q := ownerScope(p.db.WithContext(ctx), ownerID, admin)
	if err := q.Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (p *ProviderStore) Get(ctx context.Context, id domain.ProviderID, ownerID domain.UserID, admin bool) (*domain.Provider, error) {
	var pr domain.Provider
	q := ownerScope(p.db.WithContext(ctx).Where("id = ?", id), ownerID, admin)
	if err := q.First(&pr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &pr, nil
}

func (p *ProviderStore) Update(ctx context.Context, pr *domain.Provider) error {
	return p.db.WithContext(ctx).Save(pr).Error
}

func (p *ProviderStore) Delete(ctx context.Context, id domain.ProviderID, ownerID domain.UserID, admin bool) error {
	q := ownerScope(p.db.WithContext(ctx).Where("id = ?", id), ownerID, admin)
	res := q.Delete(&domain.Provider{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListExpiring returns every provider with an account expiry set, across all
// owners. Only the scheduler's privileged scan uses this.
func (p *ProviderStore) ListExpiring(ctx context.Context) ([]domain.Provider, error) {
	var out []domain.Provider
	if err := p.db.WithContext(ctx).Where("account_expiry IS NOT NULL").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (p *ProviderStore) CountByType(ctx context.Context, ownerID domain.UserID, admin bool) (map[string]int64, error) {
	type row struct {
		Type  string
		Count int64
	}
	var rows []row
	q := ownerScope(p.db.WithContext(ctx).Model(&domain.Provider{}), ownerID, admin)
	if err := q.Select("type, count(*) as count").Group("type").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Type] = r.Count
	}
	return out, nil
}
