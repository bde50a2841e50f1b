package ledger

import (
	"strconv"
	"strings"

	"github.com/ardanlabs/ledger/foundation/digest"
)

// Difficulty is the number of trailing zeros the digest of a proof guess
// must carry to be accepted.
const Difficulty = 4

var solution = strings.Repeat("0", Difficulty)

// FindProof performs the work of mining. Starting at zero, every value is
// tried in order until one is accepted against the previous proof, so the
// value returned is the smallest valid proof. There is no upper bound on the
// number of attempts.
func FindProof(previousProof uint64) uint64 {
	var proof uint64
	for !IsValidProof(previousProof, proof) {
		proof++
	}

	return proof
}

// IsValidProof reports whether the digest of the previous proof and the
// proof, written as decimals with no separator, ends in the required zeros.
func IsValidProof(previousProof uint64, proof uint64) bool {
	guess := make([]byte, 0, 40)
	guess = strconv.AppendUint(guess, previousProof, 10)
	guess = strconv.AppendUint(guess, proof, 10)

	return strings.HasSuffix(digest.SumBytes(guess), solution)
}
