package http

import (
	"net/http"

	"github.com/btggithub/DAM/internal/domain"
	"github.com/btggithub/DAM/internal/dto"
	"github.com/btggithub/DAM/internal/store"

	"github.com/google/uuid"
)

// domainFromRequest builds the model, verifying the referenced provider is
// visible to the caller when one is given.
func (h *Handler) domainFromRequest(r *http.Request, req dto.DomainRequest, ownerID domain.UserID, admin bool) (*domain.Domain, error) {
	dom := &domain.Domain{
		UserID:           ownerID,
		Name:             req.Name,
		RegistrationDate: req.RegistrationDate,
		ExpiryDate:       req.ExpiryDate,
		AutoRenew:        req.AutoRenew,
	}
	if req.ProviderID != nil && *req.ProviderID != "" {
		pid, err := uuid.Parse(*req.ProviderID)
		if err != nil {
			return nil, domain.ErrNotFound
		}
		if _, err := h.store.Providers().Get(r.Context(), pid, ownerID, admin); err != nil {
			return nil, err
		}
		dom.ProviderID = &pid
	}
	for i, ns := range req.Nameservers {
		if ns == "" {
			continue
		}
		dom.Nameservers = append(dom.Nameservers, domain.Nameserver{Value: ns, Position: i + 1})
	}
	return dom, nil
}

func (h *Handler) createDomain(w http.ResponseWriter, r *http.Request) {
	ownerID, admin := caller(r)
	var req dto.DomainRequest
	if !decodeValid(w, r, &req) {
		return
	}
	dom, err := h.domainFromRequest(r, req, ownerID, admin)
	if err != nil {
		writeError(w, err)
		return
	}
	err = h.store.WithTx(r.Context(), func(tx *store.Store) error {
		return tx.Domains().Create(r.Context(), dom)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.CreatedResponse{ID: dom.ID.String(), Message: "Domain created successfully"})
}

func (h *Handler) listDomains(w http.ResponseWriter, r *http.Request) {
	ownerID, admin := caller(r)
	domains, err := h.store.Domains().List(r.Context(), ownerID, admin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domains)
}

func (h *Handler) getDomain(w http.ResponseWriter, r *http.Request) {
	ownerID, admin := caller(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	dom, err := h.store.Domains().Get(r.Context(), id, ownerID, admin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dom)
}

func (h *Handler) updateDomain(w http.ResponseWriter, r *http.Request) {
	ownerID, admin := caller(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.DomainRequest
	if !decodeValid(w, r, &req) {
		return
	}
	existing, err := h.store.Domains().Get(r.Context(), id, ownerID, admin)
	if err != nil {
		writeError(w, err)
		return
	}
	dom, err := h.domainFromRequest(r, req, existing.UserID, admin)
	if err != nil {
		writeError(w, err)
		return
	}
	dom.ID = existing.ID
	dom.CreatedAt = existing.CreatedAt
	err = h.store.WithTx(r.Context(), func(tx *store.Store) error {
		return tx.Domains().Update(r.Context(), dom)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Domain updated successfully")
}

func (h *Handler) deleteDomain(w http.ResponseWriter, r *http.Request) {
	ownerID, admin := caller(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	err := h.store.WithTx(r.Context(), func(tx *store.Store) error {
		return tx.Domains().Delete(r.Context(), id, ownerID, admin)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Domain deleted successfully")
}
