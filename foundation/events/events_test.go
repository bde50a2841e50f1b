package events_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/events"
)

func Test_Events(t *testing.T) {
	evts := events.New()

	ch := evts.Acquire("trace-1")
	if evts.Subscribers() != 1 {
		t.Fatalf("Should have one subscriber, got %d.", evts.Subscribers())
	}

	evts.Send("ledger: MineBlock: block[2]")
	if msg := <-ch; msg != "ledger: MineBlock: block[2]" {
		t.Fatalf("Should receive the message, got %q.", msg)
	}

	// A full buffer must not block the sender.
	for range 500 {
		evts.Send("flood")
	}

	if err := evts.Release("trace-1"); err != nil {
		t.Fatalf("Should be able to release the subscriber: %v", err)
	}
	if err := evts.Release("trace-1"); err == nil {
		t.Fatalf("Should not release an unknown subscriber.")
	}

	evts.Acquire("trace-2")
	evts.Shutdown()
	if evts.Subscribers() != 0 {
		t.Fatalf("Should have no subscribers after shutdown.")
	}
}
