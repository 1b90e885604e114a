package registry

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cellwin/internal/platform"
)

func TestDuplicateIDRejected(t *testing.T) {
	r := New[string]()
	if err := r.Register(1, 100, "ok"); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(1, 101, "again"); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if v, _ := r.Find(1); v != "ok" {
		t.Fatalf("expected original value kept, got %q", v)
	}
}

func TestFindAfterRemoveFails(t *testing.T) {
	r := New[string]()
	if err := r.Register(7, 70, "seven"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Remove(7); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Find(7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, _, err := r.FindByHandle(70); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected handle mapping removed, got %v", err)
	}
	if _, err := r.Remove(7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected second remove to fail, got %v", err)
	}
}

func TestBuddyAliasResolvesToSameID(t *testing.T) {
	r := New[int]()
	if err := r.Register(3, 30, 42); err != nil {
		t.Fatal(err)
	}
	if err := r.Alias(3, 31); err != nil {
		t.Fatal(err)
	}
	id, v, err := r.FindByHandle(31)
	if err != nil || id != 3 || v != 42 {
		t.Fatalf("expected buddy to resolve to id 3, got %d %d %v", id, v, err)
	}
	if diff := cmp.Diff([]platform.Handle{30, 31}, r.Handles(3)); diff != "" {
		t.Fatalf("unexpected handles (-want +got):\n%s", diff)
	}
	if err := r.Register(4, 31, 0); !errors.Is(err, ErrHandleInUse) {
		t.Fatalf("expected ErrHandleInUse, got %v", err)
	}
	if _, err := r.Remove(3); err != nil {
		t.Fatal(err)
	}
	if _, _, err := r.FindByHandle(31); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected buddy handle released with its id")
	}
}

func TestIDsSortedAndZeroHandle(t *testing.T) {
	r := New[bool]()
	for _, id := range []int{5, 1, 3} {
		if err := r.Register(id, 0, true); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff([]int{1, 3, 5}, r.IDs()); diff != "" {
		t.Fatalf("unexpected ids (-want +got):\n%s", diff)
	}
	if _, _, err := r.FindByHandle(0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("zero handle must never resolve")
	}
}
