package live

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/trentd187/hockey-gamesheet/internal/clock"
	"github.com/trentd187/hockey-gamesheet/internal/gamesheet"
	"github.com/trentd187/hockey-gamesheet/internal/models"
)

type idleTicker struct{ ch chan time.Time }

func (t idleTicker) C() <-chan time.Time { return t.ch }
func (t idleTicker) Stop()               {}

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		if !ok {
			t.Fatal("client channel closed")
		}
		return data
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a message")
	}
	return nil
}

func waitForClients(t *testing.T, h *Hub, gameID string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount(gameID) != n {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", h.ClientCount(gameID), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBroadcastOnlyReachesSameGame(t *testing.T) {
	h := startHub(t)
	a, b := NewClient("g1"), NewClient("g2")
	h.Register(a)
	h.Register(b)

	h.Broadcast("g1", []byte("hello"))
	if got := string(receive(t, a)); got != "hello" {
		t.Fatalf("a got %q, want hello", got)
	}
	select {
	case data := <-b.Send:
		t.Fatalf("b got %q, want nothing", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	h := startHub(t)
	c := NewClient("g1")
	h.Register(c)
	h.Unregister(c)
	select {
	case _, ok := <-c.Send:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("send channel not closed")
	}
	if h.ClientCount("g1") != 0 {
		t.Fatal("client still registered")
	}
	h.Unregister(c)
}

func TestSlowClientIsDropped(t *testing.T) {
	h := startHub(t)
	c := NewClient("g1")
	h.Register(c)
	for i := 0; i <= sendBufferSize; i++ {
		h.Broadcast("g1", []byte("x"))
	}
	waitForClients(t, h, "g1", 0)
}

func TestShutdownClosesClients(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	c := NewClient("g1")
	h.Register(c)
	cancel()
	<-stopped

	if _, ok := <-c.Send; ok {
		t.Fatal("expected closed channel after shutdown")
	}
	late := NewClient("g1")
	h.Register(late)
	if _, ok := <-late.Send; ok {
		t.Fatal("registering after shutdown should close the client")
	}
	h.Broadcast("g1", []byte("ignored"))
}

func TestWatchPublishesSessionChanges(t *testing.T) {
	h := startHub(t)
	s := gamesheet.New(models.Game{ID: "g1"}, gamesheet.WithClockOptions(clock.WithTicker(func(time.Duration) clock.Ticker {
		return idleTicker{ch: make(chan time.Time)}
	})))
	t.Cleanup(s.Close)
	h.Watch(s)

	c := NewClient("g1")
	h.Register(c)
	waitForClients(t, h, "g1", 1)

	if err := s.StartGame(); err != nil {
		t.Fatal(err)
	}
	var ev Event
	if err := json.Unmarshal(receive(t, c), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != gamesheet.ChangeState || ev.Sheet == nil || ev.Sheet.State != models.GameStatusActive {
		t.Fatalf("event = %+v, want state change with active sheet", ev)
	}

	if err := s.AdjustClock(61); err != nil {
		t.Fatal(err)
	}
	ev = Event{}
	if err := json.Unmarshal(receive(t, c), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != gamesheet.ChangeClock || ev.Clock == nil || ev.Clock.Display != "01:01" || ev.Sheet != nil {
		t.Fatalf("event = %+v, want clock-only update at 01:01", ev)
	}
}
