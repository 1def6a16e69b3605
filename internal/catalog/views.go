package catalog

import (
	"context"
	"fmt"

	"github.com/mediatube/backend/internal/models"
)

// PlaylistView assembles the denormalized playlist projection: the playlist
// record, the owner's summary, and each member video's display fields. The
// joins are sequential single-collection lookups over one snapshot read; a
// reference whose target vanished mid-read is skipped, never an error.
func (s *Service) PlaylistView(ctx context.Context, playlistID string) (models.PlaylistView, error) {
	if playlistID == "" {
		return models.PlaylistView{}, fmt.Errorf("%w: playlist id", ErrValidation)
	}

	playlist, err := s.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		if missing(err) {
			return models.PlaylistView{}, fmt.Errorf("playlist %s: %w", playlistID, ErrNotFound)
		}
		return models.PlaylistView{}, fmt.Errorf("load playlist: %w", err)
	}

	view := models.PlaylistView{
		Playlist: playlist,
		Videos:   []models.PlaylistVideo{},
	}

	// Left-join semantics: an owner that does not resolve leaves a
	// zero-value summary rather than failing the view.
	if owner, err := s.Users.FindByID(ctx, playlist.OwnerID); err == nil {
		view.Owner = models.OwnerSummary{Username: owner.Username, FullName: owner.FullName}
	} else if !missing(err) {
		return models.PlaylistView{}, fmt.Errorf("load playlist owner: %w", err)
	}

	videoIDs, err := s.Playlists.Videos(ctx, playlistID)
	if err != nil {
		return models.PlaylistView{}, fmt.Errorf("load playlist videos: %w", err)
	}

	for _, videoID := range videoIDs {
		video, err := s.Videos.FindByID(ctx, videoID)
		if err != nil {
			if missing(err) {
				continue // deleted since the membership read
			}
			return models.PlaylistView{}, fmt.Errorf("load playlist video %s: %w", videoID, err)
		}
		view.Videos = append(view.Videos, models.PlaylistVideo{
			ID:          video.ID,
			Title:       video.Title,
			Thumbnail:   video.Thumbnail,
			Description: video.Description,
		})
	}

	return view, nil
}

// VideoView assembles the denormalized video projection. The subscriber and
// subscribed counters are computed from the subscription edge set at read
// time rather than materialized on the user record, so they are current as
// of this read.
func (s *Service) VideoView(ctx context.Context, videoID string) (models.VideoView, error) {
	if videoID == "" {
		return models.VideoView{}, fmt.Errorf("%w: video id", ErrValidation)
	}

	video, err := s.Videos.FindByID(ctx, videoID)
	if err != nil {
		if missing(err) {
			return models.VideoView{}, fmt.Errorf("video %s: %w", videoID, ErrNotFound)
		}
		return models.VideoView{}, fmt.Errorf("load video: %w", err)
	}

	view := models.VideoView{Video: video}

	owner, err := s.Users.FindByID(ctx, video.OwnerID)
	if err != nil {
		if missing(err) {
			return view, nil
		}
		return models.VideoView{}, fmt.Errorf("load video owner: %w", err)
	}

	subscribers, err := s.Subscriptions.CountForChannel(ctx, owner.ID)
	if err != nil {
		return models.VideoView{}, fmt.Errorf("count subscribers: %w", err)
	}
	subscribed, err := s.Subscriptions.CountForSubscriber(ctx, owner.ID)
	if err != nil {
		return models.VideoView{}, fmt.Errorf("count subscribed channels: %w", err)
	}

	view.Owner = models.ChannelSummary{
		Username:    owner.Username,
		FullName:    owner.FullName,
		Bio:         owner.Bio,
		Subscribers: subscribers,
		Subscribed:  subscribed,
	}

	return view, nil
}

// ListUserVideos returns the videos published by the provided user, newest
// first. A user with no videos gets an empty slice.
func (s *Service) ListUserVideos(ctx context.Context, userID string) ([]models.Video, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id", ErrValidation)
	}

	videos, err := s.Videos.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	if videos == nil {
		videos = []models.Video{}
	}

	return videos, nil
}

// WatchHistory returns the actor's watched videos in watch order, expanding
// each reference. References to deleted videos are skipped, matching the
// other composed views.
func (s *Service) WatchHistory(ctx context.Context, actorID string) ([]models.Video, error) {
	if actorID == "" {
		return nil, fmt.Errorf("%w: actor id", ErrValidation)
	}

	videoIDs, err := s.Users.WatchHistory(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("load watch history: %w", err)
	}

	videos := []models.Video{}
	for _, videoID := range videoIDs {
		video, err := s.Videos.FindByID(ctx, videoID)
		if err != nil {
			if missing(err) {
				continue
			}
			return nil, fmt.Errorf("load watched video %s: %w", videoID, err)
		}
		videos = append(videos, video)
	}

	return videos, nil
}

// ListUserPlaylists returns the user's playlists without expanding owner or
// video references. A user with no playlists gets an empty slice.
func (s *Service) ListUserPlaylists(ctx context.Context, userID string) ([]models.Playlist, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id", ErrValidation)
	}

	playlists, err := s.Playlists.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	if playlists == nil {
		playlists = []models.Playlist{}
	}

	return playlists, nil
}
