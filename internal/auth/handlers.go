// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

// Package auth provides JWT-based authentication for the dashboard API.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/ssreports/ssreports/internal/database"
	"github.com/ssreports/ssreports/internal/logging"
	"github.com/ssreports/ssreports/internal/metrics"
	"github.com/ssreports/ssreports/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=admin manager viewer"`
}

// Handlers provides HTTP handlers for login and registration.
type Handlers struct {
	db         *database.DB
	jwtManager *JWTManager
}

// NewHandlers creates auth handlers backed by the users table.
func NewHandlers(db *database.DB, jwtManager *JWTManager) *Handlers {
	return &Handlers{db: db, jwtManager: jwtManager}
}

// Login authenticates a user by email and password and returns a signed
// token together with the user's profile.
// POST /api/auth/login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeAuthError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.db.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to look up user")
			writeAuthError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		// Same response for unknown email and wrong password.
		metrics.RecordLoginAttempt(false)
		writeAuthError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if !VerifyPassword(user.PasswordHash, req.Password) {
		metrics.RecordLoginAttempt(false)
		writeAuthError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	metrics.RecordLoginAttempt(true)

	if h.jwtManager == nil {
		writeAuthError(w, http.StatusServiceUnavailable, "token signing is not configured")
		return
	}

	token, err := h.jwtManager.GenerateToken(user.Email, user.Name, user.Role)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to generate token")
		writeAuthError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	logging.Ctx(r.Context()).Info().Str("email", user.Email).Msg("User logged in")

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	}); err != nil {
		logging.Error().Err(err).Msg("Failed to encode login response")
	}
}

// Register creates a new dashboard user. The route is admin-gated by the
// router; this handler only validates and stores.
// POST /api/auth/register
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeAuthError(w, http.StatusBadRequest, "email, name and a password of at least 8 characters are required")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleViewer
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		writeAuthError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.db.CreateUser(r.Context(), req.Email, hash, req.Name, req.Role)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			writeAuthError(w, http.StatusBadRequest, "user with this email already exists")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to create user")
		writeAuthError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	logging.Ctx(r.Context()).Info().Str("email", user.Email).Str("role", user.Role).Msg("User registered")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"user": user}); err != nil {
		logging.Error().Err(err).Msg("Failed to encode register response")
	}
}

// SeedAdmin creates the initial admin account when the users table is empty
// and admin credentials are configured. Called once at startup.
func SeedAdmin(ctx context.Context, db *database.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	count, err := db.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := db.CreateUser(ctx, email, hash, "Administrator", models.RoleAdmin); err != nil {
		return err
	}
	logging.Info().Str("email", email).Msg("Seeded initial admin user")
	return nil
}
