package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mediatube/backend/internal/models"
)

// CreatePlaylist creates a playlist owned by the actor. No ownership check is
// needed; the actor becomes the owner.
func (s *Service) CreatePlaylist(ctx context.Context, actorID, name, description string) (models.Playlist, error) {
	if actorID == "" {
		return models.Playlist{}, fmt.Errorf("%w: actor id", ErrValidation)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Playlist{}, fmt.Errorf("%w: playlist name", ErrValidation)
	}
	if strings.TrimSpace(description) == "" {
		description = models.DefaultPlaylistDescription
	}

	now := s.now()
	playlist := models.Playlist{
		ID:          uuid.NewString(),
		OwnerID:     actorID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.Playlists.Create(ctx, playlist); err != nil {
		if missing(err) {
			return models.Playlist{}, fmt.Errorf("create playlist owner: %w", ErrNotFound)
		}
		return models.Playlist{}, fmt.Errorf("create playlist: %w", ErrWrite)
	}

	return playlist, nil
}

// UpdatePlaylist applies a partial name/description change after the
// ownership check. Empty fields keep their current value.
func (s *Service) UpdatePlaylist(ctx context.Context, actorID, playlistID, name, description string) (models.Playlist, error) {
	playlist, err := s.loadOwnedPlaylist(ctx, actorID, playlistID)
	if err != nil {
		return models.Playlist{}, err
	}

	if name = strings.TrimSpace(name); name != "" {
		playlist.Name = name
	}
	if description = strings.TrimSpace(description); description != "" {
		playlist.Description = description
	}
	playlist.UpdatedAt = s.now()

	if err := s.Playlists.Update(ctx, playlist); err != nil {
		if missing(err) {
			return models.Playlist{}, fmt.Errorf("update playlist: %w", ErrNotFound)
		}
		return models.Playlist{}, fmt.Errorf("update playlist: %w", ErrWrite)
	}

	return playlist, nil
}

// DeletePlaylist removes the playlist after the ownership check and returns
// the deleted record.
func (s *Service) DeletePlaylist(ctx context.Context, actorID, playlistID string) (models.Playlist, error) {
	playlist, err := s.loadOwnedPlaylist(ctx, actorID, playlistID)
	if err != nil {
		return models.Playlist{}, err
	}

	if err := s.Playlists.Delete(ctx, playlistID); err != nil {
		if missing(err) {
			return models.Playlist{}, fmt.Errorf("delete playlist: %w", ErrNotFound)
		}
		return models.Playlist{}, fmt.Errorf("delete playlist: %w", ErrWrite)
	}

	return playlist, nil
}

// AddVideoToPlaylist appends a video reference after verifying both the
// video's existence and the actor's ownership of the playlist. The append is
// a single store-level statement, so concurrent appends both land.
func (s *Service) AddVideoToPlaylist(ctx context.Context, actorID, playlistID, videoID string) (models.Playlist, error) {
	if videoID == "" {
		return models.Playlist{}, fmt.Errorf("%w: video id", ErrValidation)
	}

	if _, err := s.Videos.FindByID(ctx, videoID); err != nil {
		if missing(err) {
			return models.Playlist{}, fmt.Errorf("video %s: %w", videoID, ErrNotFound)
		}
		return models.Playlist{}, fmt.Errorf("load video: %w", err)
	}

	playlist, err := s.loadOwnedPlaylist(ctx, actorID, playlistID)
	if err != nil {
		return models.Playlist{}, err
	}

	if err := s.Playlists.AppendVideo(ctx, playlistID, videoID); err != nil {
		if missing(err) {
			return models.Playlist{}, fmt.Errorf("append video: %w", ErrNotFound)
		}
		return models.Playlist{}, fmt.Errorf("append video: %w", ErrWrite)
	}

	return playlist, nil
}

// RemoveVideoFromPlaylist removes every reference to the video from the
// playlist (a set difference when duplicates exist). Removing an absent
// video reports ErrNotMember and leaves the playlist untouched.
func (s *Service) RemoveVideoFromPlaylist(ctx context.Context, actorID, playlistID, videoID string) (models.Playlist, error) {
	if videoID == "" {
		return models.Playlist{}, fmt.Errorf("%w: video id", ErrValidation)
	}

	playlist, err := s.loadOwnedPlaylist(ctx, actorID, playlistID)
	if err != nil {
		return models.Playlist{}, err
	}

	removed, err := s.Playlists.RemoveVideo(ctx, playlistID, videoID)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("remove video: %w", ErrWrite)
	}
	if removed == 0 {
		return models.Playlist{}, fmt.Errorf("video %s: %w", videoID, ErrNotMember)
	}

	return playlist, nil
}

// loadOwnedPlaylist loads the playlist and applies the ownership guard,
// keeping the missing/denied distinction: absent playlists are ErrNotFound,
// existing playlists owned by someone else are ErrDenied.
func (s *Service) loadOwnedPlaylist(ctx context.Context, actorID, playlistID string) (models.Playlist, error) {
	if playlistID == "" {
		return models.Playlist{}, fmt.Errorf("%w: playlist id", ErrValidation)
	}

	playlist, err := s.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		if missing(err) {
			return models.Playlist{}, fmt.Errorf("playlist %s: %w", playlistID, ErrNotFound)
		}
		return models.Playlist{}, fmt.Errorf("load playlist: %w", err)
	}

	if !Owns(actorID, playlist.OwnerID) {
		return models.Playlist{}, fmt.Errorf("playlist %s: %w", playlistID, ErrDenied)
	}

	return playlist, nil
}
