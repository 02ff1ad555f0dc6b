package core

import (
	"fmt"
	"testing"
	"time"
)

func TestBoundedLog(t *testing.T) {
	store := NewRoomStore(50)

	for i := 0; i < 75; i++ {
		store.Append("general", Message{
			SenderID:   "s1",
			SenderName: "alice",
			Body:       fmt.Sprintf("msg-%d", i),
		})
	}

	snap := store.Snapshot("general")
	if len(snap) != 50 {
		t.Fatalf("snapshot length = %d, want 50", len(snap))
	}

	// The earliest 25 are evicted; the survivors keep original relative order.
	if snap[0].Body != "msg-25" {
		t.Fatalf("oldest surviving message = %q, want msg-25", snap[0].Body)
	}
	if snap[49].Body != "msg-74" {
		t.Fatalf("newest message = %q, want msg-74", snap[49].Body)
	}
	for i := 1; i < len(snap); i++ {
		if snap[i].ID != snap[i-1].ID+1 {
			t.Fatalf("IDs not monotonic at %d: %d then %d", i, snap[i-1].ID, snap[i].ID)
		}
	}
}

func TestAppendAssignsMonotonicTimestamps(t *testing.T) {
	store := NewRoomStore(10)

	var prev time.Time
	for i := 0; i < 10; i++ {
		m := store.Append("general", Message{Body: "x"})
		if !m.CreatedAt.After(prev) {
			t.Fatalf("timestamp %v not after %v", m.CreatedAt, prev)
		}
		prev = m.CreatedAt
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	store := NewRoomStore(10)
	store.Append("general", Message{Body: "original"})

	snap := store.Snapshot("general")
	snap[0].Body = "mutated"

	if got := store.Snapshot("general")[0].Body; got != "original" {
		t.Fatalf("log mutated through snapshot: %q", got)
	}
}

func TestMembershipIdempotent(t *testing.T) {
	store := NewRoomStore(10)
	c := NewClient("s1", "alice", 0)

	if !store.AddMember("general", c) {
		t.Fatal("first add should report true")
	}
	if store.AddMember("general", c) {
		t.Fatal("second add should be a no-op")
	}
	if store.MemberCount("general") != 1 {
		t.Fatalf("member count = %d, want 1", store.MemberCount("general"))
	}

	if !store.RemoveMember("general", c) {
		t.Fatal("first remove should report true")
	}
	if store.RemoveMember("general", c) {
		t.Fatal("second remove should be a no-op")
	}
	if store.RemoveMember("ghost", c) {
		t.Fatal("removing from unknown room should be a no-op")
	}
}

func TestEnsureIsLazyAndSticky(t *testing.T) {
	store := NewRoomStore(10)

	if !store.Ensure("general") {
		t.Fatal("first ensure should create the room")
	}
	if store.Ensure("general") {
		t.Fatal("second ensure should find the existing room")
	}

	// An empty room retains its log.
	store.Append("general", Message{Body: "kept"})
	c := NewClient("s1", "alice", 0)
	store.AddMember("general", c)
	store.RemoveMember("general", c)
	if len(store.Snapshot("general")) != 1 {
		t.Fatal("zero-member room should retain its log")
	}
}

func TestSeedLogResumesIDs(t *testing.T) {
	store := NewRoomStore(50)
	store.SeedLog("general", []Message{
		{ID: 7, Body: "old-1"},
		{ID: 8, Body: "old-2"},
	})

	m := store.Append("general", Message{Body: "new"})
	if m.ID != 9 {
		t.Fatalf("ID after seed = %d, want 9", m.ID)
	}
	snap := store.Snapshot("general")
	if len(snap) != 3 || snap[0].Body != "old-1" || snap[2].Body != "new" {
		t.Fatalf("unexpected snapshot after seed: %+v", snap)
	}
}
