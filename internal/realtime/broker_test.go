package realtime

import (
	"testing"
	"time"
)

func makeEvent(groupID, messageID string) Event {
	return Event{
		Type:      EventMessageCreated,
		GroupID:   groupID,
		MessageID: messageID,
		Timestamp: time.Now(),
	}
}

func TestSubscribeReceivesPublished(t *testing.T) {
	b := NewBroker(8)
	sub := b.Subscribe("group1")
	defer sub.Cancel()

	b.Publish(makeEvent("group1", "m1"))
	b.Publish(makeEvent("group1", "m2"))

	for _, want := range []string{"m1", "m2"} {
		select {
		case ev := <-sub.C:
			if ev.MessageID != want {
				t.Errorf("expected message %s, got %s", want, ev.MessageID)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestEventsScopedToGroup(t *testing.T) {
	b := NewBroker(8)
	sub := b.Subscribe("group1")
	defer sub.Cancel()

	b.Publish(makeEvent("group2", "other"))

	select {
	case ev := <-sub.C:
		t.Fatalf("received event %s for another group", ev.MessageID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelClosesChannelAndDetaches(t *testing.T) {
	b := NewBroker(8)
	sub := b.Subscribe("group1")

	sub.Cancel()
	sub.Cancel() // idempotent

	if _, ok := <-sub.C; ok {
		t.Error("expected closed channel after cancel")
	}
	if n := b.SubscriberCount("group1"); n != 0 {
		t.Errorf("expected 0 subscribers, got %d", n)
	}

	// Publishing after cancel must not panic.
	b.Publish(makeEvent("group1", "m1"))
}

func TestSlowSubscriberDropsNotBlocks(t *testing.T) {
	b := NewBroker(2)
	sub := b.Subscribe("group1")
	defer sub.Cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.Publish(makeEvent("group1", "m"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber buffer")
	}

	// The buffer holds the first two events; the rest were dropped.
	received := 0
	for {
		select {
		case <-sub.C:
			received++
		default:
			if received != 2 {
				t.Errorf("expected 2 buffered events, got %d", received)
			}
			return
		}
	}
}

func TestMultipleSubscribersAllReceive(t *testing.T) {
	b := NewBroker(8)
	sub1 := b.Subscribe("group1")
	defer sub1.Cancel()
	sub2 := b.Subscribe("group1")
	defer sub2.Cancel()

	b.Publish(makeEvent("group1", "m1"))

	for i, sub := range []*Subscription{sub1, sub2} {
		select {
		case ev := <-sub.C:
			if ev.MessageID != "m1" {
				t.Errorf("subscriber %d: expected m1, got %s", i, ev.MessageID)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d timed out", i)
		}
	}
}
