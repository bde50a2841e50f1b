package ledger

import (
	"context"

	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// Fetcher interface represents the behavior required to be implemented by any
// package providing support for retrieving the chain held by a peer.
type Fetcher interface {
	FetchChain(ctx context.Context, pr peer.Peer) (Chain, error)
}

// FetcherFunc is an adapter to allow the use of an ordinary function as
// a Fetcher.
type FetcherFunc func(ctx context.Context, pr peer.Peer) (Chain, error)

// FetchChain implements the Fetcher interface.
func (f FetcherFunc) FetchChain(ctx context.Context, pr peer.Peer) (Chain, error) {
	return f(ctx, pr)
}

// =============================================================================

// ResolveConflicts applies the longest valid chain rule. The chain of every
// known peer is retrieved and the longest one that is strictly longer than
// the local chain and passes validation replaces the local chain. Peers that
// can't be reached or return a malformed chain are skipped. Pending
// transactions are not touched. It reports whether the chain was replaced.
//
// The peers are queried without holding the ledger lock. The winner is only
// applied if it is still longer than the local chain at that point, so the
// local chain never gets shorter.
func (l *Ledger) ResolveConflicts(ctx context.Context, fetcher Fetcher) (bool, error) {
	l.evHandler("ledger: ResolveConflicts: started")
	defer l.evHandler("ledger: ResolveConflicts: completed")

	var winner []Block
	bestLength := l.Length()

	for _, pr := range l.RetrieveKnownPeers() {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		chain, err := fetcher.FetchChain(ctx, pr)
		if err != nil {
			l.evHandler("ledger: ResolveConflicts: peer[%s]: fetch: ERROR: %s", pr, err)
			continue
		}

		if chain.Length != len(chain.Blocks) {
			l.evHandler("ledger: ResolveConflicts: peer[%s]: WARNING: reported length[%d] holds blocks[%d]", pr, chain.Length, len(chain.Blocks))
			continue
		}

		if chain.Length <= bestLength {
			l.evHandler("ledger: ResolveConflicts: peer[%s]: length[%d] not longer than [%d]", pr, chain.Length, bestLength)
			continue
		}

		if err := ValidateChain(chain.Blocks); err != nil {
			l.evHandler("ledger: ResolveConflicts: peer[%s]: invalid chain: ERROR: %s", pr, err)
			continue
		}

		l.evHandler("ledger: ResolveConflicts: peer[%s]: new best length[%d]", pr, chain.Length)
		bestLength = chain.Length
		winner = chain.Blocks
	}

	if winner == nil {
		return false, nil
	}

	return l.replaceChain(winner), nil
}

// replaceChain swaps in the specified blocks if they are still longer than
// the local chain.
func (l *Ledger) replaceChain(blocks []Block) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(blocks) <= len(l.blocks) {
		l.evHandler("ledger: replaceChain: local chain grew to [%d], keeping it", len(l.blocks))
		return false
	}

	l.blocks = cloneBlocks(blocks)
	l.evHandler("ledger: replaceChain: chain replaced: length[%d]", len(l.blocks))

	return true
}
