package group

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goodtricount/tricount/internal/database"
)

// Repository handles group data persistence. Membership is always written as
// a full replacement inside a single transaction so readers never observe a
// half-applied change.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new group repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new group together with its full membership set
func (r *Repository) Create(ctx context.Context, g *Group) (*Group, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO groups (id, name)
		VALUES ($1, $2)
		RETURNING id, name, created_at
	`

	created := New(g.ID, g.Name)
	if err := tx.QueryRowContext(ctx, query, g.ID, g.Name).Scan(
		&created.ID,
		&created.Name,
		&created.CreatedAt,
	); err != nil {
		if database.IsUniqueViolation(err, "groups_pkey") {
			return nil, ErrGroupIDTaken
		}
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	if err := writeMembership(ctx, tx, g); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	created.Participants = append(created.Participants, g.Participants...)
	created.Admins = append(created.Admins, g.Admins...)
	return created, nil
}

// GetByID retrieves a group with its participants and admins from one
// consistent snapshot
func (r *Repository) GetByID(ctx context.Context, id string) (*Group, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	g, err := getByIDTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return g, nil
}

func getByIDTx(ctx context.Context, tx *sql.Tx, id string) (*Group, error) {
	query := `
		SELECT id, name, created_at
		FROM groups
		WHERE id = $1
	`

	g := New("", "")
	err := tx.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Name, &g.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	g.Participants, err = readMembers(ctx, tx, `SELECT username FROM group_participants WHERE group_id = $1 ORDER BY username`, id)
	if err != nil {
		return nil, err
	}
	g.Admins, err = readMembers(ctx, tx, `SELECT username FROM group_admins WHERE group_id = $1 ORDER BY username`, id)
	if err != nil {
		return nil, err
	}

	return g, nil
}

func readMembers(ctx context.Context, tx *sql.Tx, query, groupID string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	members := []string{}
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, username)
	}
	return members, rows.Err()
}

// ListByUsername retrieves all groups the user participates in
func (r *Repository) ListByUsername(ctx context.Context, username string, limit, offset int) ([]*Group, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM groups g
		JOIN group_participants gp ON g.id = gp.group_id
		WHERE gp.username = $1
	`
	if err := r.db.QueryRowContext(ctx, countQuery, username).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count groups: %w", err)
	}

	query := `
		SELECT g.id, g.name, g.created_at
		FROM groups g
		JOIN group_participants gp ON g.id = gp.group_id
		WHERE gp.username = $1
		ORDER BY g.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, username, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		g := New("", "")
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}

	return groups, total, nil
}

// Update replaces the group's name and its full membership set as one unit
func (r *Repository) Update(ctx context.Context, g *Group) (*Group, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE groups
		SET name = $2
		WHERE id = $1
		RETURNING id, name, created_at
	`

	updated := New("", "")
	if err := tx.QueryRowContext(ctx, query, g.ID, g.Name).Scan(
		&updated.ID,
		&updated.Name,
		&updated.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update group: %w", err)
	}

	// Admin rows carry a composite FK to participant rows, so admins go first
	// on delete and last on insert.
	if _, err := tx.ExecContext(ctx, `DELETE FROM group_admins WHERE group_id = $1`, g.ID); err != nil {
		return nil, fmt.Errorf("failed to clear admins: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM group_participants WHERE group_id = $1`, g.ID); err != nil {
		return nil, fmt.Errorf("failed to clear participants: %w", err)
	}
	if err := writeMembership(ctx, tx, g); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	updated.Participants = append(updated.Participants, g.Participants...)
	updated.Admins = append(updated.Admins, g.Admins...)
	return updated, nil
}

func writeMembership(ctx context.Context, tx *sql.Tx, g *Group) error {
	for _, username := range g.Participants {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO group_participants (group_id, username) VALUES ($1, $2)`,
			g.ID, username,
		); err != nil {
			if database.IsForeignKeyViolation(err) {
				return ErrUnknownUser
			}
			return fmt.Errorf("failed to add participant: %w", err)
		}
	}
	for _, username := range g.Admins {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO group_admins (group_id, username) VALUES ($1, $2)`,
			g.ID, username,
		); err != nil {
			if database.IsForeignKeyViolation(err) {
				return ErrUnknownUser
			}
			return fmt.Errorf("failed to add admin: %w", err)
		}
	}
	return nil
}

// Delete removes a group. The schema cascades to its expenses, payments and
// membership rows.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrGroupNotFound
	}

	return nil
}
