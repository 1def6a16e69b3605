package catalog

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/mediatube/backend/internal/models"
	"github.com/mediatube/backend/internal/repositories"
)

// UserStore captures the user lookups the catalog needs.
type UserStore interface {
	FindByID(ctx context.Context, id string) (models.User, error)
	RecordWatch(ctx context.Context, userID, videoID string) error
	WatchHistory(ctx context.Context, userID string) ([]string, error)
}

// VideoStore captures persistence for video records.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Video, error)
}

// PlaylistStore captures persistence for playlists and their membership.
type PlaylistStore interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	Update(ctx context.Context, playlist models.Playlist) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Playlist, error)
	AppendVideo(ctx context.Context, playlistID, videoID string) error
	RemoveVideo(ctx context.Context, playlistID, videoID string) (int64, error)
	Videos(ctx context.Context, playlistID string) ([]string, error)
}

// SubscriptionStore captures persistence for the subscription edge set.
type SubscriptionStore interface {
	Create(ctx context.Context, sub models.Subscription) error
	Delete(ctx context.Context, subscriberID, channelID string) error
	CountForChannel(ctx context.Context, channelID string) (int, error)
	CountForSubscriber(ctx context.Context, subscriberID string) (int, error)
}

// AssetStorage persists uploaded asset content and returns a public location.
type AssetStorage interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// DurationProbe measures the playable duration of a stored asset.
type DurationProbe interface {
	Duration(ctx context.Context, location string) (time.Duration, error)
}

// Service composes the entity stores into the catalog's read views and
// owner-guarded mutations. Each call is an independent unit of work; the
// service holds no mutable state of its own.
type Service struct {
	Users         UserStore
	Videos        VideoStore
	Playlists     PlaylistStore
	Subscriptions SubscriptionStore
	Assets        AssetStorage
	Probe         DurationProbe
	NowFunc       func() time.Time
}

func (s *Service) now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc().UTC()
	}
	return time.Now().UTC()
}

// missing reports whether the error is the store's not-found condition.
// Lookups signal absence explicitly; an empty list never reaches here.
func missing(err error) bool {
	return errors.Is(err, repositories.ErrNotFound)
}
