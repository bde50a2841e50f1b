package ledger

import (
	"errors"
	"fmt"
)

// Set of errors identifying why a chain failed validation.
var (
	ErrBrokenLink   = errors.New("previous hash does not match parent block")
	ErrInvalidProof = errors.New("proof is not valid against parent block")
)

// ValidateChain walks the blocks from the second block onward and checks
// that each block references the hash of its parent and carries a proof
// that is valid against the parent's proof. The first failing link is
// returned. An empty chain or a chain of one block is valid.
func ValidateChain(blocks []Block) error {
	for i := 1; i < len(blocks); i++ {
		parent := blocks[i-1]
		block := blocks[i]

		parentHash, err := parent.Hash()
		if err != nil {
			return fmt.Errorf("block %d: %w", block.Index, err)
		}

		if block.PreviousHash != parentHash {
			return fmt.Errorf("block %d: %w: got %s, exp %s", block.Index, ErrBrokenLink, block.PreviousHash, parentHash)
		}

		if !IsValidProof(parent.Proof, block.Proof) {
			return fmt.Errorf("block %d: %w: parent proof %d, proof %d", block.Index, ErrInvalidProof, parent.Proof, block.Proof)
		}
	}

	return nil
}

// IsValidChain reports whether the blocks pass ValidateChain.
func IsValidChain(blocks []Block) bool {
	return ValidateChain(blocks) == nil
}
