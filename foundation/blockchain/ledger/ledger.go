// Package ledger is the core API for the blockchain and implements all the
// business rules and processing: recording transactions, mining blocks,
// validating chains and resolving conflicts with peers.
package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// RewardSender is the sender recorded on the transaction that rewards the
// node for mining a block.
const RewardSender = "0"

// DefaultMiningReward is the amount credited for mining a block when the
// configuration doesn't specify one.
const DefaultMiningReward = 1

// ErrEmptyChain is returned if the chain is found to be empty. A ledger
// always holds at least the genesis block, so this signals a bug.
var ErrEmptyChain = errors.New("chain has no blocks")

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start the ledger.
type Config struct {
	Host         string
	MiningReward uint64
	KnownPeers   *peer.PeerSet
	EvHandler    EventHandler
}

// Ledger owns the chain of blocks, the pool of pending transactions and the
// set of known peers. Every mutation runs with exclusive access. Readers
// share access and are always handed copies.
type Ledger struct {
	host         string
	miningReward uint64
	evHandler    EventHandler

	mu      sync.RWMutex
	blocks  []Block
	pending []Transaction

	knownPeers *peer.PeerSet
}

// New constructs a ledger holding only the genesis block.
func New(cfg Config) (*Ledger, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	reward := cfg.MiningReward
	if reward == 0 {
		reward = DefaultMiningReward
	}

	l := Ledger{
		host:         cfg.Host,
		miningReward: reward,
		evHandler:    ev,
		pending:      []Transaction{},
		knownPeers:   knownPeers,
	}

	if _, err := l.MineBlock(GenesisProof, GenesisHash); err != nil {
		return nil, fmt.Errorf("creating genesis block: %w", err)
	}

	return &l, nil
}

// =============================================================================

// RecordTransaction adds the transaction to the pending pool and returns its
// position in the pool. The transaction will be part of the next mined block.
func (l *Ledger) RecordTransaction(tx Transaction) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pending = append(l.pending, tx)
	l.evHandler("ledger: RecordTransaction: tx[%s] pending[%d]", tx, len(l.pending))

	return len(l.pending) - 1
}

// MineBlock appends a new block holding every pending transaction and clears
// the pending pool. If previousHash is empty, the hash of the current latest
// block is used. The new block is returned, carrying its index and the exact
// transactions it absorbed.
func (l *Ledger) MineBlock(proof uint64, previousHash string) (Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.mineBlock(proof, previousHash)
}

// Mine performs the full mining workflow against the latest block. The proof
// is found, a reward transaction for the beneficiary is added to the pending
// pool and the block is appended. No other ledger access is possible while
// the proof is being searched for.
func (l *Ledger) Mine(beneficiary string) (Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.evHandler("ledger: Mine: started")
	defer l.evHandler("ledger: Mine: completed")

	if len(l.blocks) == 0 {
		return Block{}, ErrEmptyChain
	}
	latest := l.blocks[len(l.blocks)-1]

	l.evHandler("ledger: Mine: MINING: perform POW: previous-proof[%d]", latest.Proof)
	proof := FindProof(latest.Proof)
	l.evHandler("ledger: Mine: MINING: SOLVED: proof[%d]", proof)

	if beneficiary != "" {
		l.pending = append(l.pending, Transaction{
			Sender:    RewardSender,
			Recipient: beneficiary,
			Amount:    l.miningReward,
		})
	}

	return l.mineBlock(proof, "")
}

// mineBlock does the work of constructing and appending the block. The
// caller must hold the write lock.
func (l *Ledger) mineBlock(proof uint64, previousHash string) (Block, error) {
	if previousHash == "" && len(l.blocks) > 0 {
		hash, err := l.blocks[len(l.blocks)-1].Hash()
		if err != nil {
			return Block{}, err
		}
		previousHash = hash
	}

	block := newBlock(uint64(len(l.blocks))+1, l.pending, proof, previousHash)

	l.blocks = append(l.blocks, block)
	l.pending = []Transaction{}

	l.evHandler("ledger: MineBlock: block[%d] proof[%d] prev[%s] trans[%d]", block.Index, block.Proof, block.PreviousHash, len(block.Transactions))

	return block.clone(), nil
}

// =============================================================================

// RegisterPeer records the host of the specified address as a known peer.
// An address without a host is rejected with an error wrapping
// peer.ErrInvalidAddress and nothing is recorded.
func (l *Ledger) RegisterPeer(address string) error {
	p, err := peer.Parse(address)
	if err != nil {
		l.evHandler("ledger: RegisterPeer: address[%s]: ERROR: %s", address, err)
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.knownPeers.Add(p) {
		l.evHandler("ledger: RegisterPeer: adding peer-node %s", p)
	}

	return nil
}

// RemoveKnownPeer removes the specified peer from the known peer list.
func (l *Ledger) RemoveKnownPeer(p peer.Peer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.knownPeers.Remove(p)
}

// =============================================================================

// Snapshot returns a copy of the chain and its length.
func (l *Ledger) Snapshot() Chain {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return Chain{
		Blocks: cloneBlocks(l.blocks),
		Length: len(l.blocks),
	}
}

// Length returns the number of blocks in the chain.
func (l *Ledger) Length() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.blocks)
}

// LatestBlock returns a copy of the latest block in the chain.
func (l *Ledger) LatestBlock() Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.blocks[len(l.blocks)-1].clone()
}

// RetrievePending returns a copy of the pending transactions in the order
// they were recorded.
func (l *Ledger) RetrievePending() []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return append([]Transaction{}, l.pending...)
}

// RetrieveHost returns the host this node is known by.
func (l *Ledger) RetrieveHost() string {
	return l.host
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (l *Ledger) RetrieveKnownPeers() []peer.Peer {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.knownPeers.Copy(l.host)
}
