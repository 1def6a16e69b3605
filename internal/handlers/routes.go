package handlers

import (
	"net/http"

	"github.com/mediatube/backend/internal/middleware"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Credentials   CredentialService
	Playlists     PlaylistService
	Videos        VideoService
	Subscriptions SubscriptionService
	TokenParser   middleware.AccessTokenParser
	AuthLimiter   RateLimiter
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	authH := AuthHandler{Credentials: deps.Credentials, Limiter: deps.AuthLimiter}
	playlists := PlaylistHandler{Playlists: deps.Playlists}
	videos := VideoHandler{Videos: deps.Videos}
	subs := SubscriptionHandler{Subscriptions: deps.Subscriptions}

	required := middleware.Authenticate(deps.TokenParser, true)
	optional := middleware.Authenticate(deps.TokenParser, false)

	mux.HandleFunc("GET /healthz", health.Handle)

	mux.HandleFunc("POST /api/v1/auth/register", authH.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authH.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", authH.Refresh)
	mux.Handle("POST /api/v1/auth/logout", required(http.HandlerFunc(authH.Logout)))
	mux.Handle("POST /api/v1/auth/password", required(http.HandlerFunc(authH.ChangePassword)))

	mux.Handle("POST /api/v1/playlists", required(http.HandlerFunc(playlists.Create)))
	mux.HandleFunc("GET /api/v1/playlists/{playlistID}", playlists.Get)
	mux.Handle("PATCH /api/v1/playlists/{playlistID}", required(http.HandlerFunc(playlists.Update)))
	mux.Handle("DELETE /api/v1/playlists/{playlistID}", required(http.HandlerFunc(playlists.Delete)))
	mux.Handle("POST /api/v1/playlists/{playlistID}/videos/{videoID}", required(http.HandlerFunc(playlists.AddVideo)))
	mux.Handle("DELETE /api/v1/playlists/{playlistID}/videos/{videoID}", required(http.HandlerFunc(playlists.RemoveVideo)))
	mux.HandleFunc("GET /api/v1/users/{userID}/playlists", playlists.ListForUser)

	mux.Handle("POST /api/v1/videos", required(http.HandlerFunc(videos.Publish)))
	mux.Handle("GET /api/v1/videos/{videoID}", optional(http.HandlerFunc(videos.Get)))
	mux.Handle("DELETE /api/v1/videos/{videoID}", required(http.HandlerFunc(videos.Delete)))
	mux.HandleFunc("GET /api/v1/users/{userID}/videos", videos.ListForUser)
	mux.Handle("GET /api/v1/users/me/history", required(http.HandlerFunc(videos.History)))

	mux.Handle("POST /api/v1/channels/{channelID}/subscription", required(http.HandlerFunc(subs.Subscribe)))
	mux.Handle("DELETE /api/v1/channels/{channelID}/subscription", required(http.HandlerFunc(subs.Unsubscribe)))
}
