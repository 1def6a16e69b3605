package catalog

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/mediatube/backend/internal/models"
)

// AssetUpload pairs an asset's original filename with its content stream.
type AssetUpload struct {
	Name    string
	Content io.Reader
}

// PublishVideoInput carries the fields accepted when publishing a video.
type PublishVideoInput struct {
	Title       string
	Description string
	Video       AssetUpload
	Thumbnail   AssetUpload
}

// PublishVideo uploads both assets, measures the video's duration through
// the probe, and creates the record. Duration is never taken from the
// caller; it always comes out of the asset pipeline.
func (s *Service) PublishVideo(ctx context.Context, actorID string, in PublishVideoInput) (models.Video, error) {
	if actorID == "" {
		return models.Video{}, fmt.Errorf("%w: actor id", ErrValidation)
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" {
		return models.Video{}, fmt.Errorf("%w: title and description", ErrValidation)
	}
	if in.Video.Content == nil || in.Thumbnail.Content == nil {
		return models.Video{}, fmt.Errorf("%w: video and thumbnail assets", ErrValidation)
	}

	videoID := uuid.NewString()

	videoURL, err := s.Assets.Save(ctx, assetKey(videoID, "video", in.Video.Name), in.Video.Content)
	if err != nil {
		return models.Video{}, fmt.Errorf("upload video asset: %w", ErrUpload)
	}

	thumbURL, err := s.Assets.Save(ctx, assetKey(videoID, "thumbnail", in.Thumbnail.Name), in.Thumbnail.Content)
	if err != nil {
		return models.Video{}, fmt.Errorf("upload thumbnail asset: %w", ErrUpload)
	}

	duration, err := s.Probe.Duration(ctx, videoURL)
	if err != nil {
		return models.Video{}, fmt.Errorf("probe uploaded asset: %w", ErrUpload)
	}

	video := models.Video{
		ID:          videoID,
		OwnerID:     actorID,
		Title:       in.Title,
		Description: in.Description,
		VideoURL:    videoURL,
		Thumbnail:   thumbURL,
		Duration:    duration,
		CreatedAt:   s.now(),
	}

	if err := s.Videos.Create(ctx, video); err != nil {
		if missing(err) {
			return models.Video{}, fmt.Errorf("create video owner: %w", ErrNotFound)
		}
		return models.Video{}, fmt.Errorf("create video: %w", ErrWrite)
	}

	return video, nil
}

// DeleteVideo removes a video after the ownership check. There is no cascade
// into playlists beyond what the store enforces; views tolerate any
// reference left behind.
func (s *Service) DeleteVideo(ctx context.Context, actorID, videoID string) (models.Video, error) {
	if videoID == "" {
		return models.Video{}, fmt.Errorf("%w: video id", ErrValidation)
	}

	video, err := s.Videos.FindByID(ctx, videoID)
	if err != nil {
		if missing(err) {
			return models.Video{}, fmt.Errorf("video %s: %w", videoID, ErrNotFound)
		}
		return models.Video{}, fmt.Errorf("load video: %w", err)
	}

	if !Owns(actorID, video.OwnerID) {
		return models.Video{}, fmt.Errorf("video %s: %w", videoID, ErrDenied)
	}

	if err := s.Videos.Delete(ctx, videoID); err != nil {
		if missing(err) {
			return models.Video{}, fmt.Errorf("delete video: %w", ErrNotFound)
		}
		return models.Video{}, fmt.Errorf("delete video: %w", ErrWrite)
	}

	return video, nil
}

// RecordWatch appends the video to the actor's watch history. Best-effort
// from the caller's perspective; failures surface but carry no taxonomy.
func (s *Service) RecordWatch(ctx context.Context, actorID, videoID string) error {
	if actorID == "" || videoID == "" {
		return fmt.Errorf("%w: actor and video ids", ErrValidation)
	}
	if err := s.Users.RecordWatch(ctx, actorID, videoID); err != nil {
		if missing(err) {
			return fmt.Errorf("record watch: %w", ErrNotFound)
		}
		return fmt.Errorf("record watch: %w", ErrWrite)
	}
	return nil
}

func assetKey(videoID, kind, name string) string {
	ext := path.Ext(name)
	return fmt.Sprintf("%s/%s%s", videoID, kind, ext)
}
