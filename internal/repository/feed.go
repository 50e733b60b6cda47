package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wmbogo12/profiles-rest-api/internal/model"
)

var ErrFeedItemNotFound = errors.New("feed item not found")

const feedColumns = `id, user_profile_id, status_text, created_on`

// FeedRepository handles profile feed item persistence operations.
type FeedRepository struct {
	db *sql.DB
}

// NewFeedRepository creates a new FeedRepository.
func NewFeedRepository(db *sql.DB) *FeedRepository {
	return &FeedRepository{db: db}
}

// Create inserts a feed item, assigning its ID and created_on.
func (r *FeedRepository) Create(ctx context.Context, item *model.ProfileFeedItem) error {
	ts := now()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO profile_feed_items (user_profile_id, status_text, created_on) VALUES (?, ?, ?)`,
		item.UserProfileID, item.StatusText, ts,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	item.ID = id
	item.CreatedOn = ts
	return nil
}

// GetByID retrieves a feed item by its ID.
func (r *FeedRepository) GetByID(ctx context.Context, id int64) (*model.ProfileFeedItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+feedColumns+` FROM profile_feed_items WHERE id = ?`, id)
	item := &model.ProfileFeedItem{}
	err := row.Scan(&item.ID, &item.UserProfileID, &item.StatusText, dbTime{&item.CreatedOn})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFeedItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// List returns every feed item ordered by ID.
func (r *FeedRepository) List(ctx context.Context) ([]model.ProfileFeedItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+feedColumns+` FROM profile_feed_items ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.ProfileFeedItem
	for rows.Next() {
		var item model.ProfileFeedItem
		if err := rows.Scan(&item.ID, &item.UserProfileID, &item.StatusText, dbTime{&item.CreatedOn}); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// Update rewrites the status text. Owner and created_on never change.
func (r *FeedRepository) Update(ctx context.Context, item *model.ProfileFeedItem) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE profile_feed_items SET status_text = ? WHERE id = ?`,
		item.StatusText, item.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrFeedItemNotFound
	}
	return nil
}

// Delete removes a feed item.
func (r *FeedRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM profile_feed_items WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrFeedItemNotFound
	}
	return nil
}
