package handlers

import (
	"context"

	"github.com/mediatube/backend/internal/auth"
	"github.com/mediatube/backend/internal/catalog"
	"github.com/mediatube/backend/internal/models"
)

// CredentialService captures the account and token lifecycle operations
// required by the auth handlers.
type CredentialService interface {
	Register(ctx context.Context, in auth.RegisterInput) (models.User, error)
	Login(ctx context.Context, email, password string) (models.User, models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
	Revoke(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID, current, next string) error
}

// PlaylistService captures the playlist operations required by the playlist handlers.
type PlaylistService interface {
	CreatePlaylist(ctx context.Context, actorID, name, description string) (models.Playlist, error)
	UpdatePlaylist(ctx context.Context, actorID, playlistID, name, description string) (models.Playlist, error)
	DeletePlaylist(ctx context.Context, actorID, playlistID string) (models.Playlist, error)
	AddVideoToPlaylist(ctx context.Context, actorID, playlistID, videoID string) (models.Playlist, error)
	RemoveVideoFromPlaylist(ctx context.Context, actorID, playlistID, videoID string) (models.Playlist, error)
	PlaylistView(ctx context.Context, playlistID string) (models.PlaylistView, error)
	ListUserPlaylists(ctx context.Context, userID string) ([]models.Playlist, error)
}

// VideoService captures the video operations required by the video handlers.
type VideoService interface {
	PublishVideo(ctx context.Context, actorID string, in catalog.PublishVideoInput) (models.Video, error)
	DeleteVideo(ctx context.Context, actorID, videoID string) (models.Video, error)
	VideoView(ctx context.Context, videoID string) (models.VideoView, error)
	RecordWatch(ctx context.Context, actorID, videoID string) error
	ListUserVideos(ctx context.Context, userID string) ([]models.Video, error)
	WatchHistory(ctx context.Context, actorID string) ([]models.Video, error)
}

// SubscriptionService captures the subscription edge operations.
type SubscriptionService interface {
	Subscribe(ctx context.Context, actorID, channelID string) error
	Unsubscribe(ctx context.Context, actorID, channelID string) error
}
