package handlers

import (
	"net/http"

	"github.com/mediatube/backend/internal/catalog"
	"github.com/mediatube/backend/internal/logging"
	"github.com/mediatube/backend/internal/middleware"
	"github.com/mediatube/backend/internal/models"
)

// maxUploadBytes bounds the multipart form parse for video publishes.
const maxUploadBytes = 512 << 20

// VideoHandler provides endpoints for publishing and fetching videos.
type VideoHandler struct {
	Videos VideoService
}

type videoResponse struct {
	ID          string  `json:"id"`
	Owner       string  `json:"owner"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	VideoURL    string  `json:"videoFile"`
	Thumbnail   string  `json:"thumbnail"`
	Duration    float64 `json:"duration"`
}

func newVideoResponse(v models.Video) videoResponse {
	return videoResponse{
		ID:          v.ID,
		Owner:       v.OwnerID,
		Title:       v.Title,
		Description: v.Description,
		VideoURL:    v.VideoURL,
		Thumbnail:   v.Thumbnail,
		Duration:    v.Duration.Seconds(),
	}
}

// Publish handles POST /api/v1/videos as a multipart form carrying the title,
// description, and the video and thumbnail files.
func (h VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	actorID := middleware.ActorID(ctx)
	if actorID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		logger.Warn("invalid multipart payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid multipart body"})
		return
	}

	videoFile, videoHeader, err := r.FormFile("video")
	if err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "video file is required"})
		return
	}
	defer videoFile.Close()

	thumbFile, thumbHeader, err := r.FormFile("thumbnail")
	if err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "thumbnail file is required"})
		return
	}
	defer thumbFile.Close()

	video, err := h.Videos.PublishVideo(ctx, actorID, catalog.PublishVideoInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Video:       catalog.AssetUpload{Name: videoHeader.Filename, Content: videoFile},
		Thumbnail:   catalog.AssetUpload{Name: thumbHeader.Filename, Content: thumbFile},
	})
	if err != nil {
		logger.Warn("publish failed", "userId", actorID, "error", err)
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, newVideoResponse(video))
}

// Get handles GET /api/v1/videos/{videoID}, returning the denormalized view
// and recording a watch-history entry for authenticated viewers.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := h.Videos.VideoView(ctx, r.PathValue("videoID"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if actorID := middleware.ActorID(ctx); actorID != "" {
		if err := h.Videos.RecordWatch(ctx, actorID, view.Video.ID); err != nil {
			logging.FromContext(ctx).Warn("record watch failed", "userId", actorID, "error", err)
		}
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"video": newVideoResponse(view.Video),
		"owner": map[string]any{
			"username":    view.Owner.Username,
			"fullName":    view.Owner.FullName,
			"bio":         view.Owner.Bio,
			"subscribers": view.Owner.Subscribers,
			"subscribed":  view.Owner.Subscribed,
		},
	})
}

// ListForUser handles GET /api/v1/users/{userID}/videos.
func (h VideoHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videos, err := h.Videos.ListUserVideos(ctx, r.PathValue("userID"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	out := make([]videoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, newVideoResponse(v))
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"videos": out})
}

// History handles GET /api/v1/users/me/history, returning the actor's
// watched videos in watch order.
func (h VideoHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID := middleware.ActorID(ctx)
	if actorID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	videos, err := h.Videos.WatchHistory(ctx, actorID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	out := make([]videoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, newVideoResponse(v))
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"videos": out})
}

// Delete handles DELETE /api/v1/videos/{videoID}.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID := middleware.ActorID(ctx)
	if actorID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	video, err := h.Videos.DeleteVideo(ctx, actorID, r.PathValue("videoID"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, newVideoResponse(video))
}
