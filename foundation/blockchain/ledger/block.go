package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ardanlabs/ledger/foundation/digest"
)

// GenesisHash is the previous hash recorded in the first block of every chain.
const GenesisHash = "1"

// GenesisProof is the proof recorded in the first block of every chain.
const GenesisProof = 100

// =============================================================================

// Transaction represents a transfer of value between two parties. No identity
// or balance checks are performed on a transaction.
type Transaction struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

// String implements the fmt.Stringer interface for logging.
func (tx Transaction) String() string {
	return fmt.Sprintf("%s->%s:%d", tx.Sender, tx.Recipient, tx.Amount)
}

// =============================================================================

// Block represents a group of transactions batched together and linked to
// the block before it by that block's hash.
type Block struct {
	Index        uint64        `json:"index"`
	Timestamp    time.Time     `json:"timestamp"`
	Transactions []Transaction `json:"transactions"`
	Proof        uint64        `json:"proof"`
	PreviousHash string        `json:"previous_hash"`
}

// newBlock constructs the block that will live at the specified index.
func newBlock(index uint64, trans []Transaction, proof uint64, previousHash string) Block {
	return Block{
		Index:        index,
		Timestamp:    time.Now().UTC(),
		Transactions: trans,
		Proof:        proof,
		PreviousHash: previousHash,
	}
}

// Hash returns the canonical fingerprint of the block. The block is encoded
// as JSON with its fields in declaration order and the encoding is streamed
// through the digest engine. Any change to the field set changes every hash.
func (b Block) Hash() (string, error) {
	data, err := b.canonical()
	if err != nil {
		return "", fmt.Errorf("encoding block %d: %w", b.Index, err)
	}

	hash, err := digest.Sum(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("hashing block %d: %w", b.Index, err)
	}

	return hash, nil
}

// canonical produces the stable encoding used for hashing. A block with no
// transactions always encodes an empty list so a block decoded from a peer
// hashes the same as the one that was sent.
func (b Block) canonical() ([]byte, error) {
	trans := b.Transactions
	if trans == nil {
		trans = []Transaction{}
	}

	cb := Block{
		Index:        b.Index,
		Timestamp:    b.Timestamp.UTC(),
		Transactions: trans,
		Proof:        b.Proof,
		PreviousHash: b.PreviousHash,
	}

	return json.Marshal(cb)
}

// clone returns a copy of the block that shares no memory with the original.
func (b Block) clone() Block {
	b.Transactions = append([]Transaction{}, b.Transactions...)
	return b
}

// =============================================================================

// Chain is the canonical view of the ledger surfaced to callers and the
// payload exchanged with peers during conflict resolution.
type Chain struct {
	Blocks []Block `json:"chain" validate:"required,min=1"`
	Length int     `json:"length" validate:"gte=1"`
}

// cloneBlocks returns a deep copy of the specified blocks.
func cloneBlocks(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		out[i] = b.clone()
	}
	return out
}
