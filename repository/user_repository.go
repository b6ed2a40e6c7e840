package repository

import (
	"context"
	"fmt"

	"arena-backend/database"
	"arena-backend/models"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository bound to a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// Create creates a new user identity
func (r *UserRepository) Create(ctx context.Context, username, email, firstName, lastName string) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, email, first_name, last_name, created_at, updated_at
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, username, email, firstName, lastName).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if cerr := constraintError(err); cerr != nil {
			return nil, fmt.Errorf("failed to create user %q: %w", username, cerr)
		}
		return nil, fmt.Errorf("failed to create user %q: %w", username, err)
	}

	return &user, nil
}

// GetByID retrieves a user by id, nil when not found
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByUsername retrieves a user by username, nil when not found
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, "username = $1", username)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT id, username, email, first_name, last_name, created_at, updated_at
		FROM users
		WHERE ` + where

	var user models.User
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// DeleteGenerated removes users whose usernames match the generated
// test-data pattern (lowercase letters followed by three digits)
func (r *UserRepository) DeleteGenerated(ctx context.Context) (int64, error) {
	query := `DELETE FROM users WHERE username ~ '^[a-z]+[0-9]{3}$'`

	result, err := r.q.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete generated users: %w", err)
	}

	return result.RowsAffected(), nil
}

// CountAll returns the total number of users
func (r *UserRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
