package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/ledger"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/worker"
)

func Test_SignalResolve(t *testing.T) {
	remote, err := ledger.New(ledger.Config{})
	if err != nil {
		t.Fatalf("Should be able to construct the remote ledger: %v", err)
	}
	if _, err := remote.Mine("remote"); err != nil {
		t.Fatalf("Should be able to mine: %v", err)
	}

	local, err := ledger.New(ledger.Config{})
	if err != nil {
		t.Fatalf("Should be able to construct the local ledger: %v", err)
	}
	if err := local.RegisterPeer("remote:9080"); err != nil {
		t.Fatalf("Should be able to register the peer: %v", err)
	}

	fetched := make(chan struct{}, 10)
	fetcher := ledger.FetcherFunc(func(ctx context.Context, pr peer.Peer) (ledger.Chain, error) {
		defer func() { fetched <- struct{}{} }()
		return remote.Snapshot(), nil
	})

	ev := func(v string, args ...any) {
		t.Logf(v, args...)
	}

	w := worker.Run(local, fetcher, time.Hour, ev)
	w.SignalResolve()

	select {
	case <-fetched:
	case <-time.After(5 * time.Second):
		t.Fatal("Should resolve when signaled.")
	}

	w.Shutdown()

	if local.Length() != 2 {
		t.Fatalf("Should adopt the longer chain, got length %d.", local.Length())
	}
}
