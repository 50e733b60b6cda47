package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wmbogo12/profiles-rest-api/internal/model"
)

var (
	ErrProfileNotFound = errors.New("user profile not found")
	ErrDuplicateEmail  = errors.New("email already exists")
)

const profileColumns = `id, email, name, password, created_at, updated_at`

// ProfileRepository handles user profile persistence operations.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a new profile and sets the generated ID and timestamps.
func (r *ProfileRepository) Create(ctx context.Context, p *model.UserProfile) error {
	ts := now()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO user_profiles (email, name, password, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		p.Email, p.Name, p.PasswordHash, ts, ts,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	p.ID = id
	p.CreatedAt = ts
	p.UpdatedAt = ts
	return nil
}

// GetByID retrieves a profile by its ID.
func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*model.UserProfile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM user_profiles WHERE id = ?`, id)
	return scanProfile(row)
}

// Exists reports whether a profile with the given ID is stored.
func (r *ProfileRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM user_profiles WHERE id = ?)`, id).Scan(&exists)
	return exists, err
}

// GetByEmail retrieves a profile by its email address.
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM user_profiles WHERE email = ?`, email)
	return scanProfile(row)
}

// List returns all profiles ordered by ID. A non-empty search matches
// name or email case-insensitively.
func (r *ProfileRepository) List(ctx context.Context, search string) ([]model.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles`
	var args []any
	if search != "" {
		query += ` WHERE LOWER(name) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!'`
		pattern := likePattern(search)
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []model.UserProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}

	return profiles, rows.Err()
}

// Update writes email, name and password hash back and bumps updated_at.
func (r *ProfileRepository) Update(ctx context.Context, p *model.UserProfile) error {
	ts := now()
	result, err := r.db.ExecContext(ctx,
		`UPDATE user_profiles SET email = ?, name = ?, password = ?, updated_at = ? WHERE id = ?`,
		p.Email, p.Name, p.PasswordHash, ts, p.ID,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrProfileNotFound
	}

	p.UpdatedAt = ts
	return nil
}

// Delete removes a profile; its feed items go with it.
func (r *ProfileRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM user_profiles WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (*model.UserProfile, error) {
	p := &model.UserProfile{}
	err := s.Scan(&p.ID, &p.Email, &p.Name, &p.PasswordHash, dbTime{&p.CreatedAt}, dbTime{&p.UpdatedAt})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}
