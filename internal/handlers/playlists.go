package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mediatube/backend/internal/logging"
	"github.com/mediatube/backend/internal/middleware"
	"github.com/mediatube/backend/internal/models"
)

// PlaylistHandler provides playlist read and mutation endpoints.
type PlaylistHandler struct {
	Playlists PlaylistService
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type playlistResponse struct {
	ID          string `json:"id"`
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func newPlaylistResponse(p models.Playlist) playlistResponse {
	return playlistResponse{
		ID:          p.ID,
		Owner:       p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
	}
}

// Create handles POST /api/v1/playlists.
func (h PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID := middleware.ActorID(ctx)
	if actorID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.FromContext(ctx).Warn("invalid playlist payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	playlist, err := h.Playlists.CreatePlaylist(ctx, actorID, req.Name, req.Description)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, newPlaylistResponse(playlist))
}

// Get handles GET /api/v1/playlists/{playlistID}, returning the denormalized view.
func (h PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := h.Playlists.PlaylistView(ctx, r.PathValue("playlistID"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	videos := make([]map[string]string, 0, len(view.Videos))
	for _, v := range view.Videos {
		videos = append(videos, map[string]string{
			"id":          v.ID,
			"title":       v.Title,
			"thumbnail":   v.Thumbnail,
			"description": v.Description,
		})
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"playlist": newPlaylistResponse(view.Playlist),
		"owner": map[string]string{
			"username": view.Owner.Username,
			"fullName": view.Owner.FullName,
		},
		"videos": videos,
	})
}

// Update handles PATCH /api/v1/playlists/{playlistID}.
func (h PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID := middleware.ActorID(ctx)
	if actorID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.FromContext(ctx).Warn("invalid playlist payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	playlist, err := h.Playlists.UpdatePlaylist(ctx, actorID, r.PathValue("playlistID"), req.Name, req.Description)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, newPlaylistResponse(playlist))
}

// Delete handles DELETE /api/v1/playlists/{playlistID}.
func (h PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID := middleware.ActorID(ctx)
	if actorID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	playlist, err := h.Playlists.DeletePlaylist(ctx, actorID, r.PathValue("playlistID"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, newPlaylistResponse(playlist))
}

// AddVideo handles POST /api/v1/playlists/{playlistID}/videos/{videoID}.
func (h PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID := middleware.ActorID(ctx)
	if actorID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	playlist, err := h.Playlists.AddVideoToPlaylist(ctx, actorID, r.PathValue("playlistID"), r.PathValue("videoID"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, newPlaylistResponse(playlist))
}

// RemoveVideo handles DELETE /api/v1/playlists/{playlistID}/videos/{videoID}.
func (h PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID := middleware.ActorID(ctx)
	if actorID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	playlist, err := h.Playlists.RemoveVideoFromPlaylist(ctx, actorID, r.PathValue("playlistID"), r.PathValue("videoID"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, newPlaylistResponse(playlist))
}

// ListForUser handles GET /api/v1/users/{userID}/playlists.
func (h PlaylistHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlists, err := h.Playlists.ListUserPlaylists(ctx, r.PathValue("userID"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	out := make([]playlistResponse, 0, len(playlists))
	for _, p := range playlists {
		out = append(out, newPlaylistResponse(p))
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"playlists": out})
}
