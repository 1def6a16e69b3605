package models

// OwnerSummary is the owner projection embedded in playlist views.
type OwnerSummary struct {
	Username string
	FullName string
}

// PlaylistVideo is the per-video projection embedded in playlist views.
type PlaylistVideo struct {
	ID          string
	Title       string
	Thumbnail   string
	Description string
}

// PlaylistView is the denormalized read model for a single playlist.
// Videos is never nil; references that no longer resolve are omitted.
type PlaylistView struct {
	Playlist Playlist
	Owner    OwnerSummary
	Videos   []PlaylistVideo
}

// ChannelSummary is the owner projection embedded in video views. The
// counters are computed from the subscription edge set at read time.
type ChannelSummary struct {
	Username    string
	FullName    string
	Bio         string
	Subscribers int
	Subscribed  int
}

// VideoView is the denormalized read model for a single video.
type VideoView struct {
	Video Video
	Owner ChannelSummary
}
