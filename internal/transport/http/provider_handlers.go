package http

import (
	"net/http"

	"github.com/btggithub/DAM/internal/authz"
	"github.com/btggithub/DAM/internal/domain"
	"github.com/btggithub/DAM/internal/dto"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// pathID parses the named URL parameter as a UUID. A malformed id maps to 404
// rather than 400 so probing with garbage ids looks the same as a miss.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeMessage(w, http.StatusNotFound, "not found")
		return uuid.Nil, false
	}
	return id, true
}

func caller(r *http.Request) (domain.UserID, bool) {
	claims, _ := authz.ClaimsFrom(r.Context())
	return claims.UserID, claims.Role == domain.RoleAdmin
}

func (h *Handler) createProvider(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := caller(r)
	var req dto.ProviderRequest
	if !decodeValid(w, r, &req) {
		return
	}
	pr := &domain.Provider{
		ID:              uuid.New(),
		UserID:          ownerID,
		Name:            req.Name,
		Type:            req.Type,
		AccountUsername: req.AccountUsername,
		AccountPassword: req.AccountPassword,
		AccountExpiry:   req.AccountExpiry,
		Website:         req.Website,
		Notes:           req.Notes,
	}
	if err := h.store.Providers().Create(r.Context(), pr); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.CreatedResponse{ID: pr.ID.String(), Message: "Provider created successfully"})
}

func (h *Handler) listProviders(w http.ResponseWriter, r *http.Request) {
	ownerID, admin := caller(r)
	providers, err := h.store.Providers().List(r.Context(), ownerID, admin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, providers)
}

func (h *Handler) getProvider(w http.ResponseWriter, r *http.Request) {
	ownerID, admin := caller(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	pr, err := h.store.Providers().Get(r.Context(), id, ownerID, admin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pr)
}

func (h *Handler) updateProvider(w http.ResponseWriter, r *http.Request) {
	ownerID, admin := caller(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.ProviderRequest
	if !decodeValid(w, r, &req) {
		return
	}
	pr, err := h.store.Providers().Get(r.Context(), id, ownerID, admin)
	if err != nil {
		writeError(w, err)
		return
	}
	pr.Name = req.Name
	pr.Type = req.Type
	pr.AccountUsername = req.AccountUsername
	pr.AccountPassword = req.AccountPassword
	pr.AccountExpiry = req.AccountExpiry
	pr.Website = req.Website
	pr.Notes = req.Notes
	if err := h.store.Providers().Update(r.Context(), pr); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Provider updated successfully")
}

func (h *Handler) deleteProvider(w http.ResponseWriter, r *http.Request) {
	ownerID, admin := caller(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.Providers().Delete(r.Context(), id, ownerID, admin); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Provider deleted successfully")
}

func (h *Handler) listProviderDomains(w http.ResponseWriter, r *http.Request) {
	ownerID, admin := caller(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	domains, err := h.store.Domains().ListByProvider(r.Context(), id, ownerID, admin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domains)
}

func (h *Handler) listProviderWebsites(w http.ResponseWriter, r *http.Request) {
	ownerID, admin := caller(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	websites, err := h.store.Websites().ListByProvider(r.Context(), id, ownerID, admin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, websites)
}
