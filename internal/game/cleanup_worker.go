package game

import (
	"context"
	"log"
	"time"

	"github.com/caravanonline/backend/internal/config"
)

// StartCleanupWorker starts a background worker that sweeps abandoned rooms
// out of the registry on a fixed interval. A failed sweep is logged and the
// next tick runs normally.
func StartCleanupWorker(ctx context.Context, rm *RoomManager, cfg *config.Config) {
	interval := time.Duration(cfg.CleanupIntervalMinutes) * time.Minute
	threshold := time.Duration(cfg.AbandonedAfterMinutes) * time.Minute

	log.Printf("[CLEANUP] Cleanup worker started (interval=%v threshold=%v)", interval, threshold)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[CLEANUP] Cleanup worker stopping")
				return
			case <-ticker.C:
				sweepAbandonedRooms(rm, threshold)
			}
		}
	}()
}

func sweepAbandonedRooms(rm *RoomManager, threshold time.Duration) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[CLEANUP] Sweep failed: %v", rec)
		}
	}()

	abandoned := rm.AbandonedRooms(threshold)
	if len(abandoned) == 0 {
		return
	}

	log.Printf("[CLEANUP] Found %d abandoned room(s) to clean up", len(abandoned))
	for _, room := range abandoned {
		log.Printf("[CLEANUP] Removing abandoned room: code=%s created=%s last_activity=%s players=%s/%s",
			room.Code,
			room.CreatedAt.UTC().Format(time.RFC3339),
			room.LastActivityAt().UTC().Format(time.RFC3339),
			room.HostName(), room.guestName())
		rm.RemoveRoom(room.Code)
	}
	log.Printf("[CLEANUP] Cleaned up %d abandoned room(s)", len(abandoned))
}
