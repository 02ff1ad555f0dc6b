package core

import (
	"errors"
	"testing"
)

func TestSessionLifecycle(t *testing.T) {
	m := NewSessionManager()
	m.Register("s1", "alice")

	sess, ok := m.Get("s1")
	if !ok || sess.Name != "alice" || sess.Room != "" {
		t.Fatalf("unexpected session: %+v ok=%v", sess, ok)
	}

	prev, err := m.SetRoom("s1", "tech")
	if err != nil || prev != "" {
		t.Fatalf("SetRoom: prev=%q err=%v", prev, err)
	}

	prev, err = m.SetRoom("s1", "random")
	if err != nil || prev != "tech" {
		t.Fatalf("SetRoom switch: prev=%q err=%v", prev, err)
	}

	last, ok := m.Unregister("s1")
	if !ok || last != "random" {
		t.Fatalf("Unregister: last=%q ok=%v", last, ok)
	}

	// Second unregister is idempotent.
	if _, ok := m.Unregister("s1"); ok {
		t.Fatal("second unregister should report ok=false")
	}
}

func TestSetRoomUnknownSession(t *testing.T) {
	m := NewSessionManager()
	if _, err := m.SetRoom("ghost", "general"); !errors.Is(err, ErrUnknownSession) {
		t.Fatalf("expected ErrUnknownSession, got %v", err)
	}
	if err := m.Rename("ghost", "bob"); !errors.Is(err, ErrUnknownSession) {
		t.Fatalf("expected ErrUnknownSession, got %v", err)
	}
}

func TestRenameDoesNotTouchRoom(t *testing.T) {
	m := NewSessionManager()
	m.Register("s1", "alice")
	if _, err := m.SetRoom("s1", "general"); err != nil {
		t.Fatal(err)
	}

	if err := m.Rename("s1", "alicia"); err != nil {
		t.Fatal(err)
	}
	sess, _ := m.Get("s1")
	if sess.Name != "alicia" || sess.Room != "general" {
		t.Fatalf("unexpected session after rename: %+v", sess)
	}
}

func TestRegisterDefaultsNameAndIsIdempotent(t *testing.T) {
	m := NewSessionManager()
	m.Register("s1", "")
	if sess, _ := m.Get("s1"); sess.Name != "s1" {
		t.Fatalf("empty name should default to ID, got %q", sess.Name)
	}

	if _, err := m.SetRoom("s1", "general"); err != nil {
		t.Fatal(err)
	}
	m.Register("s1", "intruder")
	if sess, _ := m.Get("s1"); sess.Room != "general" || sess.Name != "s1" {
		t.Fatalf("re-register must not reset the record: %+v", sess)
	}
}
