package ws

import (
	"context"
	"encoding/json"
	"errors"

	"creatorhub/internal/listing"
)

var errBroadcastDropped = errors.New("ws broadcast dropped")

var _ listing.Notifier = (*Hub)(nil)

// Notify forwards a posting event to connected clients as JSON.
func (h *Hub) Notify(_ context.Context, evt listing.Event) error {
	if h == nil {
		return nil
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if !h.Broadcast(b) {
		return errBroadcastDropped
	}
	return nil
}
