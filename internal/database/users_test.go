// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/ssreports/ssreports/internal/models"
)

func TestCreateUserAssignsID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user, err := db.CreateUser(ctx, "lindiwe@example.com", "$2a$12$hash", "Lindiwe K", models.RoleManager)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID < 1 {
		t.Errorf("Expected positive id, got %d", user.ID)
	}
	if user.Email != "lindiwe@example.com" || user.Role != models.RoleManager {
		t.Errorf("Unexpected user returned: %+v", user)
	}
	if user.CreatedAt == "" {
		t.Error("Expected created_at to be set")
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.CreateUser(ctx, "dup@example.com", "h1", "First", models.RoleViewer); err != nil {
		t.Fatalf("First CreateUser failed: %v", err)
	}

	_, err := db.CreateUser(ctx, "dup@example.com", "h2", "Second", models.RoleViewer)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("Expected ErrDuplicateEmail, got %v", err)
	}

	count, err := db.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 user after rejected duplicate, got %d", count)
	}
}

func TestDeleteUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user, err := db.CreateUser(ctx, "temp@example.com", "h", "Temp", models.RoleViewer)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if err := db.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if err := db.DeleteUser(ctx, user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListUsersOrderedByID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		if _, err := db.CreateUser(ctx, email, "h", "User", models.RoleViewer); err != nil {
			t.Fatalf("CreateUser(%s) failed: %v", email, err)
		}
	}

	users, err := db.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("Expected 3 users, got %d", len(users))
	}
	for i := 1; i < len(users); i++ {
		if users[i].ID <= users[i-1].ID {
			t.Errorf("Users not ordered by id: %d before %d", users[i-1].ID, users[i].ID)
		}
	}
	if users[0].PasswordHash != "" {
		t.Error("ListUsers must not expose password hashes")
	}
}

func TestGetUserByEmail(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.CreateUser(ctx, "login@example.com", "$2a$12$secret", "Login User", models.RoleAdmin); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	user, err := db.GetUserByEmail(ctx, "login@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if user.PasswordHash != "$2a$12$secret" {
		t.Errorf("Expected password hash for login, got %q", user.PasswordHash)
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("Expected admin role, got %q", user.Role)
	}

	if _, err := db.GetUserByEmail(ctx, "missing@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown email, got %v", err)
	}
}
