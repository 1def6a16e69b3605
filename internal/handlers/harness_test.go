package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mediatube/backend/internal/auth"
	"github.com/mediatube/backend/internal/catalog"
	"github.com/mediatube/backend/internal/models"
	"github.com/mediatube/backend/internal/repositories"
)

// memUserStore backs both the credential manager and the catalog service in
// handler tests.
type memUserStore struct {
	users   map[string]models.User
	watches map[string][]string
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]models.User), watches: make(map[string][]string)}
}

func (s *memUserStore) Create(_ context.Context, user models.User) error {
	for _, existing := range s.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return repositories.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *memUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *memUserStore) UpdateRefreshToken(_ context.Context, userID, token string) error {
	user, ok := s.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	user.RefreshToken = token
	s.users[userID] = user
	return nil
}

func (s *memUserStore) UpdatePassword(_ context.Context, userID, hash string) error {
	user, ok := s.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Password = hash
	s.users[userID] = user
	return nil
}

func (s *memUserStore) RecordWatch(_ context.Context, userID, videoID string) error {
	if _, ok := s.users[userID]; !ok {
		return repositories.ErrNotFound
	}
	s.watches[userID] = append(s.watches[userID], videoID)
	return nil
}

func (s *memUserStore) WatchHistory(_ context.Context, userID string) ([]string, error) {
	return append([]string{}, s.watches[userID]...), nil
}

type memVideoStore struct {
	videos map[string]models.Video
}

func newMemVideoStore() *memVideoStore {
	return &memVideoStore{videos: make(map[string]models.Video)}
}

func (s *memVideoStore) Create(_ context.Context, video models.Video) error {
	s.videos[video.ID] = video
	return nil
}

func (s *memVideoStore) FindByID(_ context.Context, id string) (models.Video, error) {
	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	return video, nil
}

func (s *memVideoStore) Delete(_ context.Context, id string) error {
	if _, ok := s.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.videos, id)
	return nil
}

func (s *memVideoStore) ListByOwner(_ context.Context, ownerID string) ([]models.Video, error) {
	var videos []models.Video
	for _, video := range s.videos {
		if video.OwnerID == ownerID {
			videos = append(videos, video)
		}
	}
	return videos, nil
}

type memPlaylistStore struct {
	playlists map[string]models.Playlist
	members   map[string][]string
}

func newMemPlaylistStore() *memPlaylistStore {
	return &memPlaylistStore{playlists: make(map[string]models.Playlist), members: make(map[string][]string)}
}

func (s *memPlaylistStore) Create(_ context.Context, playlist models.Playlist) error {
	s.playlists[playlist.ID] = playlist
	return nil
}

func (s *memPlaylistStore) FindByID(_ context.Context, id string) (models.Playlist, error) {
	playlist, ok := s.playlists[id]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	return playlist, nil
}

func (s *memPlaylistStore) Update(_ context.Context, playlist models.Playlist) error {
	if _, ok := s.playlists[playlist.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.playlists[playlist.ID] = playlist
	return nil
}

func (s *memPlaylistStore) Delete(_ context.Context, id string) error {
	if _, ok := s.playlists[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.playlists, id)
	delete(s.members, id)
	return nil
}

func (s *memPlaylistStore) ListByOwner(_ context.Context, ownerID string) ([]models.Playlist, error) {
	var playlists []models.Playlist
	for _, playlist := range s.playlists {
		if playlist.OwnerID == ownerID {
			playlists = append(playlists, playlist)
		}
	}
	return playlists, nil
}

func (s *memPlaylistStore) AppendVideo(_ context.Context, playlistID, videoID string) error {
	if _, ok := s.playlists[playlistID]; !ok {
		return repositories.ErrNotFound
	}
	s.members[playlistID] = append(s.members[playlistID], videoID)
	return nil
}

func (s *memPlaylistStore) RemoveVideo(_ context.Context, playlistID, videoID string) (int64, error) {
	var kept []string
	var removed int64
	for _, id := range s.members[playlistID] {
		if id == videoID {
			removed++
			continue
		}
		kept = append(kept, id)
	}
	s.members[playlistID] = kept
	return removed, nil
}

func (s *memPlaylistStore) Videos(_ context.Context, playlistID string) ([]string, error) {
	return append([]string{}, s.members[playlistID]...), nil
}

type memSubscriptionStore struct {
	edges map[string]models.Subscription
}

func newMemSubscriptionStore() *memSubscriptionStore {
	return &memSubscriptionStore{edges: make(map[string]models.Subscription)}
}

func (s *memSubscriptionStore) Create(_ context.Context, sub models.Subscription) error {
	key := sub.SubscriberID + "->" + sub.ChannelID
	if _, ok := s.edges[key]; ok {
		return repositories.ErrConflict
	}
	s.edges[key] = sub
	return nil
}

func (s *memSubscriptionStore) Delete(_ context.Context, subscriberID, channelID string) error {
	key := subscriberID + "->" + channelID
	if _, ok := s.edges[key]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.edges, key)
	return nil
}

func (s *memSubscriptionStore) CountForChannel(_ context.Context, channelID string) (int, error) {
	count := 0
	for _, sub := range s.edges {
		if sub.ChannelID == channelID {
			count++
		}
	}
	return count, nil
}

func (s *memSubscriptionStore) CountForSubscriber(_ context.Context, subscriberID string) (int, error) {
	count := 0
	for _, sub := range s.edges {
		if sub.SubscriberID == subscriberID {
			count++
		}
	}
	return count, nil
}

type stubAssets struct{}

func (stubAssets) Save(_ context.Context, name string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	return "https://assets.test/" + name, nil
}

type stubProbe struct{ duration time.Duration }

func (p stubProbe) Duration(context.Context, string) (time.Duration, error) {
	return p.duration, nil
}

// testServer wires the full route table over in-memory stores.
type testServer struct {
	t       *testing.T
	mux     *http.ServeMux
	users   *memUserStore
	manager *auth.Manager
	service *catalog.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	users := newMemUserStore()
	manager := auth.NewManager(users, auth.Keys{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    240 * time.Hour,
	})
	service := &catalog.Service{
		Users:         users,
		Videos:        newMemVideoStore(),
		Playlists:     newMemPlaylistStore(),
		Subscriptions: newMemSubscriptionStore(),
		Assets:        stubAssets{},
		Probe:         stubProbe{duration: time.Minute},
	}

	mux := http.NewServeMux()
	RegisterRoutes(mux, Dependencies{
		Credentials:   manager,
		Playlists:     service,
		Videos:        service,
		Subscriptions: service,
		TokenParser:   manager,
	})

	return &testServer{t: t, mux: mux, users: users, manager: manager, service: service}
}

func (ts *testServer) do(method, target, token string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			ts.t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	req.RemoteAddr = "203.0.113.7:52100"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.mux.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) decode(rec *httptest.ResponseRecorder, out any) {
	ts.t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		ts.t.Fatalf("decode response body %q: %v", rec.Body.String(), err)
	}
}

// signUp registers and logs in a user, returning the user id and an access token.
func (ts *testServer) signUp(username string) (string, string) {
	ts.t.Helper()

	email := username + "@example.com"
	rec := ts.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"fullName": strings.ToUpper(username[:1]) + username[1:],
		"password": "correct-horse",
		"avatar":   "https://assets.test/" + username + ".png",
	})
	if rec.Code != http.StatusCreated {
		ts.t.Fatalf("register %s: status %d body %s", username, rec.Code, rec.Body.String())
	}

	rec = ts.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "correct-horse",
	})
	if rec.Code != http.StatusOK {
		ts.t.Fatalf("login %s: status %d body %s", username, rec.Code, rec.Body.String())
	}

	var resp struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Tokens struct {
			AccessToken  string `json:"accessToken"`
			RefreshToken string `json:"refreshToken"`
		} `json:"tokens"`
	}
	ts.decode(rec, &resp)
	return resp.User.ID, resp.Tokens.AccessToken
}

func newMultipartRequest(t *testing.T, target, token string, body *bytes.Buffer, contentType string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.RemoteAddr = "203.0.113.7:52100"
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func recordRequest(ts *testServer, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.mux.ServeHTTP(rec, req)
	return rec
}

func multipartVideo(t *testing.T, title, description string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("title", title); err != nil {
		t.Fatalf("write title field: %v", err)
	}
	if err := mw.WriteField("description", description); err != nil {
		t.Fatalf("write description field: %v", err)
	}
	videoPart, err := mw.CreateFormFile("video", "clip.mp4")
	if err != nil {
		t.Fatalf("create video part: %v", err)
	}
	fmt.Fprint(videoPart, "video-bytes")
	thumbPart, err := mw.CreateFormFile("thumbnail", "cover.png")
	if err != nil {
		t.Fatalf("create thumbnail part: %v", err)
	}
	fmt.Fprint(thumbPart, "thumb-bytes")
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}
