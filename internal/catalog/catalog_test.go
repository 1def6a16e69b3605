package catalog

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mediatube/backend/internal/models"
	"github.com/mediatube/backend/internal/repositories"
)

type memUserStore struct {
	users   map[string]models.User
	watches map[string][]string
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]models.User), watches: make(map[string][]string)}
}

func (s *memUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
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

func edgeKey(subscriberID, channelID string) string {
	return subscriberID + "->" + channelID
}

func (s *memSubscriptionStore) Create(_ context.Context, sub models.Subscription) error {
	key := edgeKey(sub.SubscriberID, sub.ChannelID)
	if _, ok := s.edges[key]; ok {
		return repositories.ErrConflict
	}
	s.edges[key] = sub
	return nil
}

func (s *memSubscriptionStore) Delete(_ context.Context, subscriberID, channelID string) error {
	key := edgeKey(subscriberID, channelID)
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

type stubAssets struct {
	err   error
	saved []string
}

func (s *stubAssets) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	_, _ = io.Copy(io.Discard, r)
	s.saved = append(s.saved, name)
	return fmt.Sprintf("https://assets.test/%s", name), nil
}

type stubProbe struct {
	duration time.Duration
	err      error
}

func (p stubProbe) Duration(context.Context, string) (time.Duration, error) {
	return p.duration, p.err
}

type testEnv struct {
	users         *memUserStore
	videos        *memVideoStore
	playlists     *memPlaylistStore
	subscriptions *memSubscriptionStore
	assets        *stubAssets
	service       *Service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:         newMemUserStore(),
		videos:        newMemVideoStore(),
		playlists:     newMemPlaylistStore(),
		subscriptions: newMemSubscriptionStore(),
		assets:        &stubAssets{},
	}
	env.service = &Service{
		Users:         env.users,
		Videos:        env.videos,
		Playlists:     env.playlists,
		Subscriptions: env.subscriptions,
		Assets:        env.assets,
		Probe:         stubProbe{duration: 90 * time.Second},
	}
	return env
}

func (e *testEnv) addUser(id, username, fullName string) {
	e.users.users[id] = models.User{ID: id, Username: username, FullName: fullName, Email: username + "@example.com"}
}

func (e *testEnv) addVideo(id, ownerID, title string) {
	e.videos.videos[id] = models.Video{
		ID:          id,
		OwnerID:     ownerID,
		Title:       title,
		Description: title + " description",
		Thumbnail:   "https://assets.test/" + id + "/thumbnail.png",
	}
}
