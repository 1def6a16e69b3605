package handlers

import (
	"net/http"

	"github.com/mediatube/backend/internal/middleware"
)

// SubscriptionHandler provides endpoints for following and unfollowing channels.
type SubscriptionHandler struct {
	Subscriptions SubscriptionService
}

// Subscribe handles POST /api/v1/channels/{channelID}/subscription.
func (h SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID := middleware.ActorID(ctx)
	if actorID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if err := h.Subscriptions.Subscribe(ctx, actorID, r.PathValue("channelID")); err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"message": "subscribed"})
}

// Unsubscribe handles DELETE /api/v1/channels/{channelID}/subscription.
func (h SubscriptionHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID := middleware.ActorID(ctx)
	if actorID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if err := h.Subscriptions.Unsubscribe(ctx, actorID, r.PathValue("channelID")); err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"message": "unsubscribed"})
}
