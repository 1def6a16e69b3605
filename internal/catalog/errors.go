package catalog

import "errors"

var (
	// ErrValidation indicates malformed or missing input; the caller must fix the request.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound indicates a referenced entity does not exist.
	ErrNotFound = errors.New("entity not found")
	// ErrDenied indicates the entity exists but the actor does not own it.
	// Kept distinct from ErrNotFound so existence and ownership failures
	// stay distinguishable at the boundary.
	ErrDenied = errors.New("actor does not own entity")
	// ErrNotMember indicates the video is not referenced by the playlist.
	ErrNotMember = errors.New("video not in playlist")
	// ErrUpload indicates the external asset store failed; safe to retry.
	ErrUpload = errors.New("asset upload failed")
	// ErrWrite indicates persistence failed after validation passed. Safe to
	// retry for pure field updates; append/remove retries must re-check
	// membership first.
	ErrWrite = errors.New("write failed")
)
