package http

import (
	"net/http"
	"sort"
	"time"

	"github.com/btggithub/DAM/internal/dto"
)

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	ownerID, admin := caller(r)
	ctx := r.Context()

	byType, err := h.store.Providers().CountByType(ctx, ownerID, admin)
	if err != nil {
		writeError(w, err)
		return
	}
	providers := make([]dto.ProviderTypeCount, 0, len(byType))
	for t, n := range byType {
		providers = append(providers, dto.ProviderTypeCount{Type: t, Count: n})
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i].Type < providers[j].Type })

	exp30, exp90, domTotal, err := h.store.Domains().ExpiryStats(ctx, ownerID, admin, time.Now().UTC())
	if err != nil {
		writeError(w, err)
		return
	}
	wsTotal, wsActive, err := h.store.Websites().ActivityStats(ctx, ownerID, admin)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatsResponse{
		Providers: providers,
		Domains: dto.DomainExpiryStats{
			Expiring30Days: exp30,
			Expiring90Days: exp90,
			Total:          domTotal,
		},
		Websites: dto.WebsiteStats{
			Total:    wsTotal,
			Active:   wsActive,
			Inactive: wsTotal - wsActive,
		},
	})
}
