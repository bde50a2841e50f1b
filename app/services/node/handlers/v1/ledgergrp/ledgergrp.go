// Package ledgergrp maintains the group of handlers for ledger access.
package ledgergrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/ledger"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/validate"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log     *zap.SugaredLogger
	Ledger  *ledger.Ledger
	Fetcher ledger.Fetcher
	NodeID  string
	WS      websocket.Upgrader
	Evts    *events.Events
}

// Chain returns the full chain held by this node.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.Ledger.Snapshot(), http.StatusOK)
}

// Mine finds the proof for the next block, rewards this node and appends
// the block with every pending transaction.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.Ledger.Mine(h.NodeID)
	if err != nil {
		return fmt.Errorf("mining block: %w", err)
	}

	resp := mined{
		Message:      "New Block Forged",
		Index:        block.Index,
		Transactions: block.Transactions,
		Proof:        block.Proof,
		PreviousHash: block.PreviousHash,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// NewTransaction adds a new transaction to the pending pool.
func (h Handlers) NewTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var nt newTx
	if err := web.Decode(r, &nt); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(nt); err != nil {
		return err
	}

	tx := ledger.Transaction{
		Sender:    nt.Sender,
		Recipient: nt.Recipient,
		Amount:    nt.Amount,
	}

	h.Log.Infow("add tran", "traceid", v.TraceID, "sender", tx.Sender, "recipient", tx.Recipient, "amount", tx.Amount)
	idx := h.Ledger.RecordTransaction(tx)

	resp := txRecorded{
		Message:      fmt.Sprintf("Transaction will be added to Block %d", h.Ledger.Length()+1),
		PendingIndex: idx,
		Transaction:  tx,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Pending returns the set of transactions not yet mined.
func (h Handlers) Pending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.Ledger.RetrievePending(), http.StatusOK)
}

// RegisterNodes records the hosts of the specified node addresses as known
// peers. Every address is checked before any of them is recorded.
func (h Handlers) RegisterNodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var nn newNodes
	if err := web.Decode(r, &nn); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(nn); err != nil {
		return err
	}

	for _, address := range nn.Nodes {
		if _, err := peer.Parse(address); err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
	}

	for _, address := range nn.Nodes {
		if err := h.Ledger.RegisterPeer(address); err != nil {
			return fmt.Errorf("registering %q: %w", address, err)
		}
	}

	peers := h.Ledger.RetrieveKnownPeers()
	hosts := make([]string, len(peers))
	for i, pr := range peers {
		hosts[i] = pr.Host
	}

	resp := nodesRegistered{
		Message:    "New nodes have been added",
		TotalNodes: hosts,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Resolve applies the longest valid chain rule against every known peer.
func (h Handlers) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	replaced, err := h.Ledger.ResolveConflicts(ctx, h.Fetcher)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return errs.NewTrusted(err, http.StatusServiceUnavailable)
		}
		return fmt.Errorf("resolving conflicts: %w", err)
	}

	msg := "Our chain is authoritative"
	if replaced {
		msg = "Our chain was replaced"
	}

	chain := h.Ledger.Snapshot()
	resp := resolved{
		Message:  msg,
		Replaced: replaced,
		Chain:    chain.Blocks,
		Length:   chain.Length,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events handles a web socket to provide ledger events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}
