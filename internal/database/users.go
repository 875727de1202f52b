// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ssreports/ssreports/internal/models"
)

// CreateUser inserts a dashboard account inside a transaction, rejecting
// duplicate emails with ErrDuplicateEmail. The duplicate check and insert
// share the transaction so concurrent creates cannot both succeed.
func (db *DB) CreateUser(ctx context.Context, email, passwordHash, name, role string) (*models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing int64
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE email = ?", email).Scan(&existing); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing > 0 {
		return nil, ErrDuplicateEmail
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)
	row := tx.QueryRowContext(ctx, `INSERT INTO users (email, password_hash, name, role, created_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`, email, passwordHash, name, role, createdAt)

	var id int64
	if err := row.Scan(&id); err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit user create: %w", err)
	}

	return &models.User{
		ID:        id,
		Email:     email,
		Name:      name,
		Role:      role,
		CreatedAt: createdAt,
	}, nil
}

// DeleteUser removes a dashboard account. Returns ErrNotFound when the id
// does not exist.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	result, err := db.conn.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUsers returns all dashboard accounts ordered by id.
func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return queryAndScan(ctx, db.conn,
		`SELECT id, email, name, role, created_at FROM users ORDER BY id`, nil,
		func(rows *sql.Rows) (models.User, error) {
			var u models.User
			err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt)
			return u, err
		})
}

// GetUserByEmail returns a user including the password hash, for login.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, role, created_at FROM users WHERE email = ?`, email)

	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

// CountUsers returns the number of dashboard accounts.
func (db *DB) CountUsers(ctx context.Context) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return queryCount(ctx, db.conn, "SELECT COUNT(*) FROM users", nil)
}
