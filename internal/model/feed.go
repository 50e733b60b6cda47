package model

import "time"

// ProfileFeedItem is a status update owned by a user profile.
type ProfileFeedItem struct {
	ID            int64
	UserProfileID int64
	StatusText    string
	CreatedOn     time.Time
}

// FeedItemInput is the writable side of a feed item. UserProfileID is set by
// the server from the authenticated caller and is never decoded from JSON.
type FeedItemInput struct {
	StatusText    *string `json:"status_text"`
	UserProfileID int64   `json:"-"`
}

// FeedItemResponse is the served representation of a feed item.
type FeedItemResponse struct {
	ID          int64     `json:"id"`
	UserProfile int64     `json:"user_profile"`
	StatusText  string    `json:"status_text"`
	CreatedOn   time.Time `json:"created_on"`
}
