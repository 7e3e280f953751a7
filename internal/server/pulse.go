package server

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/SamhitaKotian/reading-graph/internal/book"
)

// pulseInterval is the cadence of the recency glow. The page mirrors each
// tick with a short brightness swell on recently-read nodes.
const pulseInterval = 2 * time.Second

type pulseEvent struct {
	Type    string   `json:"type"`
	NodeIDs []string `json:"nodeIds"`
}

// runPulse ticks the recency pulse over the hub until the context is
// cancelled. Node IDs are recomputed every tick so books imported or
// enriched mid-session join the pulse without a restart.
func runPulse(ctx context.Context, hub *Hub, lib *Library, now func() time.Time, log *zap.Logger) {
	ticker := time.NewTicker(pulseInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("recency pulse stopped")
			return
		case <-ticker.C:
			ids := recentNodeIDs(lib.Books(), now())
			if len(ids) == 0 {
				continue
			}
			data, err := json.Marshal(pulseEvent{Type: "pulse", NodeIDs: ids})
			if err != nil {
				log.Error("encoding pulse event", zap.Error(err))
				continue
			}
			hub.Broadcast(data)
		}
	}
}

func recentNodeIDs(books []book.Record, now time.Time) []string {
	var ids []string
	for _, b := range books {
		if book.IsRecent(b.DateRead, now) {
			ids = append(ids, b.ID)
		}
	}
	return ids
}
