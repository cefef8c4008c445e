package user

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goodtricount/tricount/internal/database"
)

// Repository handles user data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new user repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user into the database
func (r *Repository) Create(ctx context.Context, u *User) (*User, error) {
	query := `
		INSERT INTO users (username, password_hash, email, name)
		VALUES ($1, $2, $3, $4)
		RETURNING username, password_hash, email, name, created_at
	`

	created := &User{}
	err := r.db.QueryRowContext(ctx, query, u.Username, u.PasswordHash, u.Email, u.Name).Scan(
		&created.Username,
		&created.PasswordHash,
		&created.Email,
		&created.Name,
		&created.CreatedAt,
	)
	if err != nil {
		// The pre-checks in the service race with concurrent registrations;
		// the constraints are the source of truth.
		if database.IsUniqueViolation(err, "users_pkey") {
			return nil, ErrUsernameTaken
		}
		if database.IsUniqueViolation(err, "users_email_key") {
			return nil, ErrEmailAlreadyInUse
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// GetByUsername retrieves a user by their username
func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT username, password_hash, email, name, created_at
		FROM users
		WHERE username = $1
	`

	u := &User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&u.Username,
		&u.PasswordHash,
		&u.Email,
		&u.Name,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// GetByEmail retrieves a user by their email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT username, password_hash, email, name, created_at
		FROM users
		WHERE email = $1
	`

	u := &User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&u.Username,
		&u.PasswordHash,
		&u.Email,
		&u.Name,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return u, nil
}

// List retrieves all users with pagination
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM users`
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := `
		SELECT username, password_hash, email, name, created_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u := &User{}
		if err := rows.Scan(
			&u.Username,
			&u.PasswordHash,
			&u.Email,
			&u.Name,
			&u.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	return users, total, nil
}

// UpdateName modifies an existing user's display name
func (r *Repository) UpdateName(ctx context.Context, username, name string) (*User, error) {
	query := `
		UPDATE users
		SET name = $2
		WHERE username = $1
		RETURNING username, password_hash, email, name, created_at
	`

	u := &User{}
	err := r.db.QueryRowContext(ctx, query, username, name).Scan(
		&u.Username,
		&u.PasswordHash,
		&u.Email,
		&u.Name,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

// Delete removes a user from the database. Memberships cascade; expenses and
// payments do not, so a user with ledger history cannot be deleted.
func (r *Repository) Delete(ctx context.Context, username string) error {
	query := `DELETE FROM users WHERE username = $1`

	result, err := r.db.ExecContext(ctx, query, username)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrUserHasLedgerEntries
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
