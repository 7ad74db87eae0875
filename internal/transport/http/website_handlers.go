package http

import (
	"net/http"

	"github.com/btggithub/DAM/internal/domain"
	"github.com/btggithub/DAM/internal/dto"

	"github.com/google/uuid"
)

func (h *Handler) websiteFromRequest(r *http.Request, req dto.WebsiteRequest, ownerID domain.UserID, admin bool) (*domain.Website, error) {
	hostingID, err := uuid.Parse(req.HostingProviderID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	if _, err := h.store.Providers().Get(r.Context(), hostingID, ownerID, admin); err != nil {
		return nil, err
	}
	ws := &domain.Website{
		UserID:            ownerID,
		Name:              req.Name,
		HostingProviderID: hostingID,
		HostingPackage:    req.HostingPackage,
		IPAddress:         req.IPAddress,
		IsActive:          req.IsActive,
	}
	if req.DomainID != nil && *req.DomainID != "" {
		did, err := uuid.Parse(*req.DomainID)
		if err != nil {
			return nil, domain.ErrNotFound
		}
		if _, err := h.store.Domains().Get(r.Context(), did, ownerID, admin); err != nil {
			return nil, err
		}
		ws.DomainID = &did
	}
	return ws, nil
}

func (h *Handler) createWebsite(w http.ResponseWriter, r *http.Request) {
	ownerID, admin := caller(r)
	var req dto.WebsiteRequest
	if !decodeValid(w, r, &req) {
		return
	}
	ws, err := h.websiteFromRequest(r, req, ownerID, admin)
	if err != nil {
		writeError(w, err)
		return
	}
	ws.ID = uuid.New()
	if err := h.store.Websites().Create(r.Context(), ws); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.CreatedResponse{ID: ws.ID.String(), Message: "Website created successfully"})
}

func (h *Handler) listWebsites(w http.ResponseWriter, r *http.Request) {
	ownerID, admin := caller(r)
	websites, err := h.store.Websites().List(r.Context(), ownerID, admin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, websites)
}

func (h *Handler) getWebsite(w http.ResponseWriter, r *http.Request) {
	ownerID, admin := caller(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ws, err := h.store.Websites().Get(r.Context(), id, ownerID, admin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

func (h *Handler) updateWebsite(w http.ResponseWriter, r *http.Request) {
	ownerID, admin := caller(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.WebsiteRequest
	if !decodeValid(w, r, &req) {
		return
	}
	existing, err := h.store.Websites().Get(r.Context(), id, ownerID, admin)
	if err != nil {
		writeError(w, err)
		return
	}
	ws, err := h.websiteFromRequest(r, req, existing.UserID, admin)
	if err != nil {
		writeError(w, err)
		return
	}
	ws.ID = existing.ID
	ws.CreatedAt = existing.CreatedAt
	if err := h.store.Websites().Update(r.Context(), ws); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Website updated successfully")
}

func (h *Handler) deleteWebsite(w http.ResponseWriter, r *http.Request) {
	ownerID, admin := caller(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.Websites().Delete(r.Context(), id, ownerID, admin); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Website deleted successfully")
}
