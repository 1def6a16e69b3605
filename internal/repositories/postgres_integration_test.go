package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/cockroachdb/cockroach-go/v2/testserver"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mediatube/backend/internal/models"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	server, err := testserver.NewTestServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "start cockroach test server: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, server.PGURL().String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to cockroach test server: %v\n", err)
		server.Stop()
		os.Exit(1)
	}

	if err := applyMigrations(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "apply migrations: %v\n", err)
		pool.Close()
		server.Stop()
		os.Exit(1)
	}

	testPool = pool

	code := m.Run()

	pool.Close()
	server.Stop()

	os.Exit(code)
}

func TestPostgresUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	repo := NewPostgresUserRepository(testPool)
	user := createTestUser(t, repo, "alice")

	dup := user
	dup.ID = uuid.NewString()
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate username/email, got %v", err)
	}

	fetched, err := repo.FindByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if fetched.ID != user.ID || fetched.Username != user.Username || fetched.Password != user.Password {
		t.Fatalf("unexpected user fetched: %+v", fetched)
	}
	if fetched.RefreshToken != "" {
		t.Fatalf("expected empty refresh token on a fresh account, got %q", fetched.RefreshToken)
	}

	byUsername, err := repo.FindByUsername(ctx, user.Username)
	if err != nil {
		t.Fatalf("find by username: %v", err)
	}
	if byUsername.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, byUsername.ID)
	}

	if _, err := repo.FindByID(ctx, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestPostgresUserRepository_RefreshTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	repo := NewPostgresUserRepository(testPool)
	user := createTestUser(t, repo, "alice")

	if err := repo.UpdateRefreshToken(ctx, user.ID, "refresh-token-1"); err != nil {
		t.Fatalf("store refresh token: %v", err)
	}
	fetched, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if fetched.RefreshToken != "refresh-token-1" {
		t.Fatalf("expected stored refresh token, got %q", fetched.RefreshToken)
	}

	// Clearing writes NULL; reads surface it as the empty string.
	if err := repo.UpdateRefreshToken(ctx, user.ID, ""); err != nil {
		t.Fatalf("clear refresh token: %v", err)
	}
	fetched, err = repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find user after clear: %v", err)
	}
	if fetched.RefreshToken != "" {
		t.Fatalf("expected cleared refresh token, got %q", fetched.RefreshToken)
	}

	if err := repo.UpdateRefreshToken(ctx, uuid.NewString(), "token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestPostgresUserRepository_WatchHistory(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	userRepo := NewPostgresUserRepository(testPool)
	videoRepo := NewPostgresVideoRepository(testPool)
	user := createTestUser(t, userRepo, "alice")
	first := createTestVideo(t, videoRepo, user.ID, "First")
	second := createTestVideo(t, videoRepo, user.ID, "Second")

	for _, videoID := range []string{first.ID, second.ID, first.ID} {
		if err := userRepo.RecordWatch(ctx, user.ID, videoID); err != nil {
			t.Fatalf("record watch %s: %v", videoID, err)
		}
	}

	history, err := userRepo.WatchHistory(ctx, user.ID)
	if err != nil {
		t.Fatalf("watch history: %v", err)
	}
	if len(history) != 3 || history[0] != first.ID || history[1] != second.ID || history[2] != first.ID {
		t.Fatalf("unexpected watch history order: %v", history)
	}

	if err := userRepo.RecordWatch(ctx, user.ID, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown video, got %v", err)
	}
}

func TestPostgresVideoRepository_CreateFindDelete(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	userRepo := NewPostgresUserRepository(testPool)
	videoRepo := NewPostgresVideoRepository(testPool)
	owner := createTestUser(t, userRepo, "alice")

	video := models.Video{
		ID:          uuid.NewString(),
		OwnerID:     owner.ID,
		Title:       "Clip",
		Description: "a short clip",
		VideoURL:    "https://assets.test/clip.mp4",
		Thumbnail:   "https://assets.test/clip.png",
		Duration:    95 * time.Second,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := videoRepo.Create(ctx, video); err != nil {
		t.Fatalf("create video: %v", err)
	}

	orphan := video
	orphan.ID = uuid.NewString()
	orphan.OwnerID = uuid.NewString()
	if err := videoRepo.Create(ctx, orphan); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown owner, got %v", err)
	}

	fetched, err := videoRepo.FindByID(ctx, video.ID)
	if err != nil {
		t.Fatalf("find video: %v", err)
	}
	if fetched.Duration != video.Duration {
		t.Fatalf("expected duration %s, got %s", video.Duration, fetched.Duration)
	}
	if fetched.Title != video.Title || fetched.OwnerID != owner.ID {
		t.Fatalf("unexpected video fetched: %+v", fetched)
	}

	owned, err := videoRepo.ListByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(owned) != 1 || owned[0].ID != video.ID {
		t.Fatalf("unexpected owner listing: %+v", owned)
	}

	if err := videoRepo.Delete(ctx, video.ID); err != nil {
		t.Fatalf("delete video: %v", err)
	}
	if err := videoRepo.Delete(ctx, video.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestPostgresPlaylistRepository_Membership(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	userRepo := NewPostgresUserRepository(testPool)
	videoRepo := NewPostgresVideoRepository(testPool)
	playlistRepo := NewPostgresPlaylistRepository(testPool)

	owner := createTestUser(t, userRepo, "alice")
	first := createTestVideo(t, videoRepo, owner.ID, "First")
	second := createTestVideo(t, videoRepo, owner.ID, "Second")

	playlist := models.Playlist{
		ID:          uuid.NewString(),
		OwnerID:     owner.ID,
		Name:        "Mix",
		Description: "songs",
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := playlistRepo.Create(ctx, playlist); err != nil {
		t.Fatalf("create playlist: %v", err)
	}

	// Duplicate references each claim the next position.
	for _, videoID := range []string{first.ID, second.ID, first.ID} {
		if err := playlistRepo.AppendVideo(ctx, playlist.ID, videoID); err != nil {
			t.Fatalf("append video %s: %v", videoID, err)
		}
	}

	members, err := playlistRepo.Videos(ctx, playlist.ID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 3 || members[0] != first.ID || members[1] != second.ID || members[2] != first.ID {
		t.Fatalf("unexpected member order: %v", members)
	}

	// Removal is a set difference over every matching reference.
	removed, err := playlistRepo.RemoveVideo(ctx, playlist.ID, first.ID)
	if err != nil {
		t.Fatalf("remove video: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 rows removed, got %d", removed)
	}

	removed, err = playlistRepo.RemoveVideo(ctx, playlist.ID, first.ID)
	if err != nil {
		t.Fatalf("remove absent video: %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected 0 rows removed for absent video, got %d", removed)
	}

	if err := playlistRepo.AppendVideo(ctx, playlist.ID, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound appending unknown video, got %v", err)
	}

	// Deleting a member video cascades into the membership rows.
	if err := videoRepo.Delete(ctx, second.ID); err != nil {
		t.Fatalf("delete member video: %v", err)
	}
	members, err = playlistRepo.Videos(ctx, playlist.ID)
	if err != nil {
		t.Fatalf("list members after video delete: %v", err)
	}
	if len(members) != 0 {
		t.Fatalf("expected empty membership after cascade, got %v", members)
	}
}

func TestPostgresPlaylistRepository_UpdateAndList(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	userRepo := NewPostgresUserRepository(testPool)
	playlistRepo := NewPostgresPlaylistRepository(testPool)
	owner := createTestUser(t, userRepo, "alice")

	base := time.Now().UTC().Add(-time.Hour)
	for i, name := range []string{"Older", "Newer"} {
		playlist := models.Playlist{
			ID:          uuid.NewString(),
			OwnerID:     owner.ID,
			Name:        name,
			Description: "songs",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
			UpdatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := playlistRepo.Create(ctx, playlist); err != nil {
			t.Fatalf("create playlist %s: %v", name, err)
		}
	}

	playlists, err := playlistRepo.ListByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(playlists) != 2 || playlists[0].Name != "Newer" || playlists[1].Name != "Older" {
		t.Fatalf("expected newest-first listing, got %+v", playlists)
	}

	updated := playlists[0]
	updated.Name = "Renamed"
	updated.UpdatedAt = time.Now().UTC()
	if err := playlistRepo.Update(ctx, updated); err != nil {
		t.Fatalf("update playlist: %v", err)
	}
	fetched, err := playlistRepo.FindByID(ctx, updated.ID)
	if err != nil {
		t.Fatalf("find playlist: %v", err)
	}
	if fetched.Name != "Renamed" {
		t.Fatalf("expected renamed playlist, got %q", fetched.Name)
	}
	if fetched.OwnerID != owner.ID {
		t.Fatalf("update must not touch the owner, got %q", fetched.OwnerID)
	}

	missing := updated
	missing.ID = uuid.NewString()
	if err := playlistRepo.Update(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating missing playlist, got %v", err)
	}
}

func TestPostgresSubscriptionRepository_Counts(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	userRepo := NewPostgresUserRepository(testPool)
	subRepo := NewPostgresSubscriptionRepository(testPool)

	channel := createTestUser(t, userRepo, "channel")
	fans := []models.User{
		createTestUser(t, userRepo, "fan1"),
		createTestUser(t, userRepo, "fan2"),
		createTestUser(t, userRepo, "fan3"),
	}

	for _, fan := range fans {
		sub := models.Subscription{
			ID:           uuid.NewString(),
			SubscriberID: fan.ID,
			ChannelID:    channel.ID,
			CreatedAt:    time.Now().UTC(),
		}
		if err := subRepo.Create(ctx, sub); err != nil {
			t.Fatalf("create subscription for %s: %v", fan.Username, err)
		}
	}

	dup := models.Subscription{
		ID:           uuid.NewString(),
		SubscriberID: fans[0].ID,
		ChannelID:    channel.ID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := subRepo.Create(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate edge, got %v", err)
	}

	subscribers, err := subRepo.CountForChannel(ctx, channel.ID)
	if err != nil {
		t.Fatalf("count subscribers: %v", err)
	}
	if subscribers != 3 {
		t.Fatalf("expected 3 subscribers, got %d", subscribers)
	}

	subscribed, err := subRepo.CountForSubscriber(ctx, fans[0].ID)
	if err != nil {
		t.Fatalf("count subscribed: %v", err)
	}
	if subscribed != 1 {
		t.Fatalf("expected 1 subscribed channel, got %d", subscribed)
	}

	if err := subRepo.Delete(ctx, fans[0].ID, channel.ID); err != nil {
		t.Fatalf("delete subscription: %v", err)
	}
	if err := subRepo.Delete(ctx, fans[0].ID, channel.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}

	subscribers, err = subRepo.CountForChannel(ctx, channel.ID)
	if err != nil {
		t.Fatalf("count subscribers after delete: %v", err)
	}
	if subscribers != 2 {
		t.Fatalf("expected 2 subscribers after delete, got %d", subscribers)
	}
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsDir := filepath.Join("..", "..", "migrations")
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		contents, err := os.ReadFile(filepath.Join(migrationsDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}

		if _, err := pool.Exec(ctx, string(contents)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func resetDatabase(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	conn, err := testPool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire connection: %v", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "TRUNCATE TABLE watch_history, playlist_videos, subscriptions, playlists, videos, users CASCADE"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func createTestUser(t *testing.T, repo *PostgresUserRepository, username string) models.User {
	t.Helper()
	user := models.User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     username + "@example.com",
		FullName:  "Test " + username,
		Password:  "password-hash",
		Avatar:    "https://assets.test/" + username + ".png",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

func createTestVideo(t *testing.T, repo *PostgresVideoRepository, ownerID, title string) models.Video {
	t.Helper()
	video := models.Video{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       title,
		Description: title + " description",
		VideoURL:    "https://assets.test/" + uuid.NewString() + ".mp4",
		Thumbnail:   "https://assets.test/" + uuid.NewString() + ".png",
		Duration:    time.Minute,
		CreatedAt:   time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), video); err != nil {
		t.Fatalf("create test video: %v", err)
	}
	return video
}
