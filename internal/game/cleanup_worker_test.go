package game

import (
	"testing"
	"time"
)

func TestSweepAbandonedRooms(t *testing.T) {
	rm := testManager()
	stale := rm.CreateRoom(conn1, "Alice")
	fresh := rm.CreateRoom("conn-3", "Carol")
	stale.LastActivity = time.Now().Add(-time.Hour)

	sweepAbandonedRooms(rm, 30*time.Minute)

	if _, ok := rm.GetRoom(stale.Code); ok {
		t.Error("stale room survived the sweep")
	}
	if _, ok := rm.GetRoom(fresh.Code); !ok {
		t.Error("fresh room was swept")
	}
}

func TestSweepNoAbandonedRooms(t *testing.T) {
	rm := testManager()
	rm.CreateRoom(conn1, "Alice")

	sweepAbandonedRooms(rm, 30*time.Minute)
	if rm.ActiveRoomCount() != 1 {
		t.Errorf("active rooms = %d, want 1", rm.ActiveRoomCount())
	}
}
