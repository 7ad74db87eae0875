package http

import (
	"net/http"

	"github.com/btggithub/DAM/internal/authz"
	"github.com/btggithub/DAM/internal/dto"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeValid(w, r, &req) {
		return
	}
	actor, _ := authz.ClaimsFrom(r.Context())
	res, err := h.auth.Register(r.Context(), req, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeValid(w, r, &req) {
		return
	}
	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims, _ := authz.ClaimsFrom(r.Context())
	user, err := h.auth.CurrentUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	claims, _ := authz.ClaimsFrom(r.Context())
	var req dto.UpdateProfileRequest
	if !decodeValid(w, r, &req) {
		return
	}
	user, err := h.auth.UpdateProfile(r.Context(), claims.UserID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	claims, _ := authz.ClaimsFrom(r.Context())
	var req dto.ChangePasswordRequest
	if !decodeValid(w, r, &req) {
		return
	}
	if err := h.auth.ChangePassword(r.Context(), claims.UserID, req); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Password updated successfully")
}

// forgotPassword answers identically whether or not the email matched an
// account.
func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if !decodeValid(w, r, &req) {
		return
	}
	if err := h.auth.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "If an account with that email exists, a password reset link has been sent.")
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	secret := chi.URLParam(r, "secret")
	var req dto.ResetPasswordRequest
	if !decodeValid(w, r, &req) {
		return
	}
	if err := h.auth.ResetPassword(r.Context(), secret, req.Password); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Password has been reset successfully")
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *Handler) updateUserRole(w http.ResponseWriter, r *http.Request) {
	claims, _ := authz.ClaimsFrom(r.Context())
	var req dto.UpdateRoleRequest
	if !decodeValid(w, r, &req) {
		return
	}
	if err := h.auth.UpdateUserRole(r.Context(), *claims, req); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "User role updated successfully")
}
