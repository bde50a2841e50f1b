package network_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/ledger"
	"github.com/ardanlabs/ledger/foundation/blockchain/network"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_FetchChain(t *testing.T) {
	l, err := ledger.New(ledger.Config{})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a ledger: %v", failed, err)
	}
	l.RecordTransaction(ledger.Transaction{Sender: "a", Recipient: "b", Amount: 3})
	if _, err := l.Mine("node"); err != nil {
		t.Fatalf("\t%s\tShould be able to mine: %v", failed, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chain", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(l.Snapshot())
	})
	mux.HandleFunc("/bad/v1/chain", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chain":[],"length":0}`))
	})
	mux.HandleFunc("/down/v1/chain", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusInternalServerError)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")

	t.Log("Given the need to retrieve the chain of a peer.")
	{
		client := network.NewClient()

		chain, err := client.FetchChain(context.Background(), peer.New(host))
		if err != nil {
			t.Fatalf("\t%s\tShould be able to fetch the chain: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to fetch the chain.", success)

		if chain.Length != 2 || len(chain.Blocks) != 2 {
			t.Fatalf("\t%s\tShould get back two blocks, got %d.", failed, chain.Length)
		}
		t.Logf("\t%s\tShould get back two blocks.", success)

		if err := ledger.ValidateChain(chain.Blocks); err != nil {
			t.Fatalf("\t%s\tShould get back a chain that still validates: %v", failed, err)
		}
		t.Logf("\t%s\tShould get back a chain that still validates.", success)

		local := l.Snapshot()
		for i := range local.Blocks {
			exp, _ := local.Blocks[i].Hash()
			got, _ := chain.Blocks[i].Hash()
			if exp != got {
				t.Fatalf("\t%s\tShould hash block %d the same after transport.", failed, i+1)
			}
		}
		t.Logf("\t%s\tShould hash every block the same after transport.", success)

		bad := network.NewClient(network.WithBaseURL("http://%s/bad/v1"))
		if _, err := bad.FetchChain(context.Background(), peer.New(host)); err == nil {
			t.Fatalf("\t%s\tShould reject an empty chain.", failed)
		}
		t.Logf("\t%s\tShould reject an empty chain.", success)

		down := network.NewClient(network.WithBaseURL("http://%s/down/v1"))
		if _, err := down.FetchChain(context.Background(), peer.New(host)); err == nil {
			t.Fatalf("\t%s\tShould fail on an error status.", failed)
		}
		t.Logf("\t%s\tShould fail on an error status.", success)
	}

	t.Log("Given the need to resolve conflicts over the network.")
	{
		local, err := ledger.New(ledger.Config{})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a ledger: %v", failed, err)
		}
		local.RegisterPeer(srv.URL)
		local.RegisterPeer("127.0.0.1:1")

		replaced, err := local.ResolveConflicts(context.Background(), network.NewClient())
		if err != nil || !replaced {
			t.Fatalf("\t%s\tShould adopt the longer chain: %v", failed, err)
		}
		t.Logf("\t%s\tShould adopt the longer chain.", success)
	}
}
