// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/ssreports/ssreports/internal/auth"
	"github.com/ssreports/ssreports/internal/database"
	"github.com/ssreports/ssreports/internal/logging"
	"github.com/ssreports/ssreports/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// createUserRequest is the body of POST /api/users.
type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=admin manager viewer"`
}

// CreateUser creates a dashboard account. Duplicate emails are a 400 with
// an explicit message.
// POST /api/users
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "email, name and a password of at least 8 characters are required", nil)
		return
	}
	if req.Role == "" {
		req.Role = models.RoleViewer
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	user, err := h.db.CreateUser(r.Context(), req.Email, hash, req.Name, req.Role)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			respondError(w, http.StatusBadRequest, "user with this email already exists", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to create user", err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("email", user.Email).Str("role", user.Role).Msg("User created")
	respondJSON(w, http.StatusCreated, map[string]interface{}{"user": user})
}

// Users lists all dashboard accounts without password hashes.
// GET /api/users
func (h *Handlers) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.db.ListUsers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load users", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// DeleteUser removes a dashboard account.
// DELETE /api/users/:id
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "user not found", nil)
		return
	}

	if err := h.db.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "user not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete user", err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("user_id", id).Msg("User deleted")
	respondJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
