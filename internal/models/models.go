package models

import "time"

// User represents an account within the MediaTube catalog.
type User struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	Password     string // bcrypt hash, never plaintext
	Bio          string
	Avatar       string
	CoverImage   string
	RefreshToken string // empty when the user has no active session
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Video represents a published video and its asset references. Duration is
// measured by the asset pipeline, never taken from caller input.
type Video struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	VideoURL    string
	Thumbnail   string
	Duration    time.Duration
	CreatedAt   time.Time
}

// Playlist represents a named, ordered collection of video references.
// Membership rows live in a separate table so the same video may appear
// more than once.
type Playlist struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DefaultPlaylistDescription is stored when the caller omits a description.
const DefaultPlaylistDescription = "a playlist"

// Subscription is a directed edge recording that one user follows another.
type Subscription struct {
	ID           string
	SubscriberID string
	ChannelID    string
	CreatedAt    time.Time
}

// TokenPair groups the signed bearer credentials issued to authenticated users.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}
