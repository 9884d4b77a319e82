package bus

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"orbi/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestBus_PublishAndSubscribe(t *testing.T) {
	b := New(10, testLogger())
	defer b.Close()

	b.Publish(domain.InboundMessage{Channel: "cli", Content: "hello"})

	select {
	case msg := <-b.Subscribe():
		if msg.Content != "hello" {
			t.Errorf("expected hello, got %q", msg.Content)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestBus_OutboundDispatch(t *testing.T) {
	b := New(10, testLogger())
	defer b.Close()

	got := make(chan domain.OutboundMessage, 1)
	b.OnOutbound("web", func(msg domain.OutboundMessage) {
		got <- msg
	})

	b.SendOutbound(domain.OutboundMessage{Channel: "web", ChatID: "s1", Content: "reply"})

	select {
	case msg := <-got:
		if msg.ChatID != "s1" || msg.Content != "reply" {
			t.Errorf("unexpected message: %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for outbound")
	}
}

func TestBus_OutboundWithoutHandler(t *testing.T) {
	b := New(10, testLogger())
	defer b.Close()

	// Must not panic.
	b.SendOutbound(domain.OutboundMessage{Channel: "telegram", Content: "x"})
}

func TestBus_PublishAfterClose(t *testing.T) {
	b := New(10, testLogger())
	b.Close()

	// Must not panic on a closed bus.
	b.Publish(domain.InboundMessage{Channel: "cli", Content: "late"})
}

func TestBus_CloseIsIdempotent(t *testing.T) {
	b := New(10, testLogger())
	b.Close()
	b.Close()
}
