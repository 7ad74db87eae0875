package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/btggithub/DAM/internal/domain"
	"github.com/btggithub/DAM/internal/dto"
	"github.com/btggithub/DAM/internal/scheduler"
	"github.com/btggithub/DAM/internal/service"
	"github.com/btggithub/DAM/internal/service/impl"
	"github.com/btggithub/DAM/internal/store"
)

type Handler struct {
	auth   service.AuthService
	tokens service.TokenService
	store  *store.Store
	sched  *scheduler.Scheduler
}

func NewHandler(auth service.AuthService, tokens service.TokenService, st *store.Store, sched *scheduler.Scheduler) *Handler {
	return &Handler{auth: auth, tokens: tokens, store: st, sched: sched}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.MessageResponse{Message: msg})
}

// writeError translates domain errors into the HTTP taxonomy: 400 validation,
// 401 authentication, 403 authorization, 404, 409 conflict, 500 everything else.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, impl.ErrEmptyCredential),
		errors.Is(err, impl.ErrEmptyPassword),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrSelfRoleChange),
		errors.Is(err, domain.ErrResetTokenInvalid):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrTokenMalformed),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenSignature):
		writeMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "Access denied. Admin only.")
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrConflict):
		writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, scheduler.ErrCheckInProgress):
		writeMessage(w, http.StatusConflict, err.Error())
	default:
		slog.Error("internal error", "error", err)
		writeMessage(w, http.StatusInternalServerError, "server error")
	}
}

// decodeValid decodes the JSON body into dst and runs struct validation.
func decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validateStruct(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
