package msgq

import (
	"image"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"cellwin/internal/platform"
)

func repaint(win int, r image.Rectangle) platform.Notification {
	a, b := platform.PackRect(r)
	return platform.Notification{Window: win, Kind: platform.KindRepaint, A: a, B: b}
}

func TestRepaintCoalescesToBoundingRect(t *testing.T) {
	q := New(8, 2)
	q.Enqueue(repaint(1, image.Rect(0, 0, 10, 10)))
	q.Enqueue(repaint(1, image.Rect(20, 5, 30, 40)))

	if q.Len() != 1 {
		t.Fatalf("expected 1 queued notification, got %d", q.Len())
	}
	n, _ := q.Dequeue()
	got := platform.UnpackRect(n.A, n.B)
	if want := image.Rect(0, 0, 30, 40); got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRepaintOfOtherWindowNotMerged(t *testing.T) {
	q := New(8, 2)
	q.Enqueue(repaint(1, image.Rect(0, 0, 10, 10)))
	q.Enqueue(repaint(2, image.Rect(0, 0, 10, 10)))
	if q.Len() != 2 {
		t.Fatalf("expected 2 queued notifications, got %d", q.Len())
	}
}

func TestResizeReplacesPending(t *testing.T) {
	q := New(8, 2)
	q.Enqueue(platform.Notification{Window: 1, Kind: platform.KindResize, A: 100, B: 50})
	q.Enqueue(platform.Notification{Window: 1, Kind: platform.KindChar, A: 'x'})
	q.Enqueue(platform.Notification{Window: 1, Kind: platform.KindResize, A: 640, B: 480})

	var got []platform.Notification
	for q.Len() > 0 {
		n, _ := q.Dequeue()
		got = append(got, n)
	}
	want := []platform.Notification{
		{Window: 1, Kind: platform.KindResize, A: 640, B: 480},
		{Window: 1, Kind: platform.KindChar, A: 'x'},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected queue contents (-want +got):\n%s", diff)
	}
}

func TestFullQueueDropsOldest(t *testing.T) {
	q := New(3, 1)
	for i := 1; i <= 5; i++ {
		q.Enqueue(platform.Notification{Window: 1, Kind: platform.KindChar, A: int64(i)})
	}
	if q.Dropped() != 2 {
		t.Fatalf("expected 2 dropped, got %d", q.Dropped())
	}
	for _, want := range []int64{3, 4, 5} {
		n, _ := q.Dequeue()
		if n.A != want {
			t.Fatalf("expected %d, got %d", want, n.A)
		}
	}
}

func TestControlLaneDrainedFirst(t *testing.T) {
	q := New(8, 2)
	q.Enqueue(platform.Notification{Window: 1, Kind: platform.KindChar, A: 'a'})
	q.EnqueueControl(platform.Notification{Kind: platform.KindTerminate})
	n, _ := q.Dequeue()
	if n.Kind != platform.KindTerminate {
		t.Fatalf("expected control notification first, got %v", n.Kind)
	}
	n, _ = q.Dequeue()
	if n.Kind != platform.KindChar {
		t.Fatalf("expected char second, got %v", n.Kind)
	}
}

func TestDequeueBlocksUntilEnqueue(t *testing.T) {
	q := New(4, 1)
	got := make(chan platform.Notification, 1)
	go func() {
		n, _ := q.Dequeue()
		got <- n
	}()
	select {
	case <-got:
		t.Fatalf("dequeue returned before anything was queued")
	case <-time.After(20 * time.Millisecond):
	}
	q.Enqueue(platform.Notification{Window: 3, Kind: platform.KindFocus})
	select {
	case n := <-got:
		if n.Window != 3 || n.Kind != platform.KindFocus {
			t.Fatalf("unexpected notification %+v", n)
		}
	case <-time.After(time.Second):
		t.Fatalf("dequeue did not wake up")
	}
}

func TestCloseWakesConsumers(t *testing.T) {
	q := New(4, 1)
	done := make(chan bool, 1)
	go func() {
		_, ok := q.Dequeue()
		done <- ok
	}()
	time.Sleep(10 * time.Millisecond)
	q.Close()
	select {
	case ok := <-done:
		if ok {
			t.Fatalf("expected closed queue to report false")
		}
	case <-time.After(time.Second):
		t.Fatalf("close did not wake consumer")
	}
}
