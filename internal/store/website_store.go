package store

import (
	"context"
	"errors"

	"github.com/btggithub/DAM/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WebsiteStore struct{ db *gorm.DB }

func (s *Store) Websites() *WebsiteStore { return &WebsiteStore{db: s.DB} }

func (w *WebsiteStore) Create(ctx context.Context, ws *domain.Website) error {
	if ws.ID == uuid.Nil {
		ws.ID = uuid.New()
	}
	return w.db.WithContext(ctx).Create(ws).Error
}

func (w *WebsiteStore) List(ctx context.Context, ownerID domain.UserID, admin bool) ([]domain.Website, error) {
	var out []domain.Website
	q := ownerScope(w.db.WithContext(ctx), ownerID, admin)
	if err := q.Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (w *WebsiteStore) Get(ctx context.Context, id domain.WebsiteID, ownerID domain.UserID, admin bool) (*domain.Website, error) {
	var ws domain.Website
	q := ownerScope(w.db.WithContext(ctx).Where("id = ?", id), ownerID, admin)
	if err := q.First(&ws).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &ws, nil
}

func (w *WebsiteStore) ListByProvider(ctx context.Context, providerID domain.ProviderID, ownerID domain.UserID, admin bool) ([]domain.Website, error) {
	var out []domain.Website
	q := ownerScope(w.db.WithContext(ctx).Where("hosting_provider_id = ?", providerID), ownerID, admin)
	if err := q.Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (w *WebsiteStore) Update(ctx context.Context, ws *domain.Website) error {
	return w.db.WithContext(ctx).Save(ws).Error
}

func (w *WebsiteStore) Delete(ctx context.Context, id domain.WebsiteID, ownerID domain.UserID, admin bool) error {
	q := ownerScope(w.db.WithContext(ctx).Where("id = ?", id), ownerID, admin)
	res := q.Delete(&domain.Website{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (w *WebsiteStore) ActivityStats(ctx context.Context, ownerID domain.UserID, admin bool) (total, active int64, err error) {
	base := func() *gorm.DB {
		return ownerScope(w.db.WithContext(ctx).Model(&domain.Website{}), ownerID, admin)
	}
	if err = base().Count(&total).Error; err != nil {
		return
	}
	err = base().Where("is_active = ?", true).Count(&active).Error
	return
}
