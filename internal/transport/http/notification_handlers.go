package http

import (
	"net/http"

	"github.com/btggithub/DAM/internal/authz"
)

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	claims, _ := authz.ClaimsFrom(r.Context())
	records, err := h.store.Notifications().ListForUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// checkDomains and checkProviders let an admin kick off a scan without
// waiting for the daily schedule. A scan already in flight yields 409.
func (h *Handler) checkDomains(w http.ResponseWriter, r *http.Request) {
	if err := h.sched.CheckDomains(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Domain expiry check completed")
}

func (h *Handler) checkProviders(w http.ResponseWriter, r *http.Request) {
	if err := h.sched.CheckProviders(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Provider expiry check completed")
}
