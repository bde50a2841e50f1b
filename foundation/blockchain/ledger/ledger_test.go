package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/ledger"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Genesis(t *testing.T) {
	t.Log("Given the need to start a ledger with a genesis block.")
	{
		l := newLedger(t)

		chain := l.Snapshot()
		if chain.Length != 1 || len(chain.Blocks) != 1 {
			t.Fatalf("\t%s\tShould have exactly one block, got %d.", failed, chain.Length)
		}
		t.Logf("\t%s\tShould have exactly one block.", success)

		gen := chain.Blocks[0]
		if gen.Index != 1 || gen.Proof != ledger.GenesisProof || gen.PreviousHash != ledger.GenesisHash || len(gen.Transactions) != 0 {
			t.Fatalf("\t%s\tShould have the genesis values: %+v", failed, gen)
		}
		t.Logf("\t%s\tShould have the genesis values.", success)
	}
}

func Test_MineBlockScenario(t *testing.T) {
	t.Log("Given the need to mine a block with an explicit previous hash.")
	{
		l := newLedger(t)

		txs := []ledger.Transaction{
			{Sender: "sender A", Recipient: "recipient B", Amount: 50},
			{Sender: "sender C", Recipient: "recipient D", Amount: 150},
		}
		for i, tx := range txs {
			if idx := l.RecordTransaction(tx); idx != i {
				t.Fatalf("\t%s\tShould get pending index %d, got %d.", failed, i, idx)
			}
		}
		t.Logf("\t%s\tShould get back the pending index for each transaction.", success)

		genHash, err := l.LatestBlock().Hash()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to hash the genesis block: %v", failed, err)
		}

		block, err := l.MineBlock(200, genHash)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine a block.", success)

		chain := l.Snapshot()
		if chain.Length != 2 {
			t.Fatalf("\t%s\tShould have a chain of length 2, got %d.", failed, chain.Length)
		}
		t.Logf("\t%s\tShould have a chain of length 2.", success)

		if block.Index != 2 || chain.Blocks[1].PreviousHash != genHash {
			t.Fatalf("\t%s\tShould link block 2 to the genesis hash.", failed)
		}
		t.Logf("\t%s\tShould link block 2 to the genesis hash.", success)

		got := chain.Blocks[1].Transactions
		if len(got) != len(txs) {
			t.Fatalf("\t%s\tShould hold %d transactions, got %d.", failed, len(txs), len(got))
		}
		for i := range txs {
			if got[i] != txs[i] || block.Transactions[i] != txs[i] {
				t.Fatalf("\t%s\tShould hold the transactions in submission order.", failed)
			}
		}
		t.Logf("\t%s\tShould hold the transactions in submission order.", success)

		if len(l.RetrievePending()) != 0 {
			t.Fatalf("\t%s\tShould have an empty pending pool.", failed)
		}
		t.Logf("\t%s\tShould have an empty pending pool.", success)
	}
}

func Test_MineBlockOmittedHash(t *testing.T) {
	t.Log("Given the need to mine a block without a previous hash.")
	{
		l := newLedger(t)

		exp, err := l.LatestBlock().Hash()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to hash the latest block: %v", failed, err)
		}

		block, err := l.MineBlock(ledger.FindProof(ledger.GenesisProof), "")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %v", failed, err)
		}

		if block.PreviousHash != exp {
			t.Logf("\t%s\tgot: %s", failed, block.PreviousHash)
			t.Logf("\t%s\texp: %s", failed, exp)
			t.Fatalf("\t%s\tShould use the hash of the latest block.", failed)
		}
		t.Logf("\t%s\tShould use the hash of the latest block.", success)

		if !ledger.IsValidChain(l.Snapshot().Blocks) {
			t.Fatalf("\t%s\tShould produce a valid chain.", failed)
		}
		t.Logf("\t%s\tShould produce a valid chain.", success)
	}
}

func Test_Mine(t *testing.T) {
	t.Log("Given the need to mine blocks that reward the miner.")
	{
		l := newLedger(t)

		pending := ledger.Transaction{Sender: "bill", Recipient: "ed", Amount: 0}
		l.RecordTransaction(pending)

		block, err := l.Mine("node-1")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine.", success)

		exp := []ledger.Transaction{
			pending,
			{Sender: ledger.RewardSender, Recipient: "node-1", Amount: ledger.DefaultMiningReward},
		}
		if len(block.Transactions) != len(exp) {
			t.Fatalf("\t%s\tShould absorb %d transactions, got %d.", failed, len(exp), len(block.Transactions))
		}
		for i := range exp {
			if block.Transactions[i] != exp[i] {
				t.Fatalf("\t%s\tShould absorb exactly the pending transactions and the reward.", failed)
			}
		}
		t.Logf("\t%s\tShould absorb exactly the pending transactions and the reward.", success)

		if _, err := l.Mine(""); err != nil {
			t.Fatalf("\t%s\tShould be able to mine without a reward: %v", failed, err)
		}

		chain := l.Snapshot()
		if chain.Length != 3 {
			t.Fatalf("\t%s\tShould have three blocks, got %d.", failed, chain.Length)
		}
		if len(chain.Blocks[2].Transactions) != 0 {
			t.Fatalf("\t%s\tShould mine an empty block without a beneficiary.", failed)
		}
		t.Logf("\t%s\tShould mine an empty block without a beneficiary.", success)

		if err := ledger.ValidateChain(chain.Blocks); err != nil {
			t.Fatalf("\t%s\tShould produce a valid chain: %v", failed, err)
		}
		t.Logf("\t%s\tShould produce a valid chain.", success)
	}
}

func Test_Tamper(t *testing.T) {
	t.Log("Given the need to detect a modified chain.")
	{
		blocks := mineChain(t, 3).Blocks

		if err := ledger.ValidateChain(blocks); err != nil {
			t.Fatalf("\t%s\tShould start with a valid chain: %v", failed, err)
		}
		t.Logf("\t%s\tShould start with a valid chain.", success)

		f := func(t *testing.T) {
			tampered := cloneChain(blocks)
			tampered[2].PreviousHash = "0000"

			if err := ledger.ValidateChain(tampered); !errors.Is(err, ledger.ErrBrokenLink) {
				t.Fatalf("\t%s\tShould detect a broken link: %v", failed, err)
			}
			t.Logf("\t%s\tShould detect a broken link.", success)
		}
		t.Run("previous-hash", f)

		f = func(t *testing.T) {
			tampered := cloneChain(blocks)
			proof := tampered[2].Proof + 1
			for ledger.IsValidProof(tampered[1].Proof, proof) {
				proof++
			}
			tampered[2].Proof = proof

			if err := ledger.ValidateChain(tampered); !errors.Is(err, ledger.ErrInvalidProof) {
				t.Fatalf("\t%s\tShould detect an invalid proof: %v", failed, err)
			}
			t.Logf("\t%s\tShould detect an invalid proof.", success)
		}
		t.Run("proof", f)

		f = func(t *testing.T) {
			tampered := cloneChain(blocks)
			tampered[1].Transactions = append(tampered[1].Transactions, ledger.Transaction{Sender: "x", Recipient: "y", Amount: 1})

			if ledger.IsValidChain(tampered) {
				t.Fatalf("\t%s\tShould detect a modified parent block.", failed)
			}
			t.Logf("\t%s\tShould detect a modified parent block.", success)
		}
		t.Run("parent", f)

		f = func(t *testing.T) {
			if !ledger.IsValidChain(nil) || !ledger.IsValidChain(blocks[:1]) {
				t.Fatalf("\t%s\tShould treat short chains as valid.", failed)
			}
			t.Logf("\t%s\tShould treat short chains as valid.", success)
		}
		t.Run("short", f)
	}
}

func Test_RegisterPeer(t *testing.T) {
	t.Log("Given the need to register peers.")
	{
		l, err := ledger.New(ledger.Config{Host: "0.0.0.0:9080"})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a ledger: %v", failed, err)
		}

		for _, addr := range []string{"http://192.168.0.5:5000", "192.168.0.5:5000", "0.0.0.0:9080", "localhost:9180"} {
			if err := l.RegisterPeer(addr); err != nil {
				t.Fatalf("\t%s\tShould be able to register %s: %v", failed, addr, err)
			}
		}

		if err := l.RegisterPeer("http://"); !errors.Is(err, peer.ErrInvalidAddress) {
			t.Fatalf("\t%s\tShould reject a malformed address: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a malformed address.", success)

		peers := l.RetrieveKnownPeers()
		if len(peers) != 2 {
			t.Fatalf("\t%s\tShould have two distinct peers excluding this node, got %v.", failed, peers)
		}
		t.Logf("\t%s\tShould have two distinct peers excluding this node.", success)
	}
}

func Test_ConcurrentRecord(t *testing.T) {
	t.Log("Given the need to record transactions concurrently.")
	{
		l := newLedger(t)

		const g = 50
		var wg sync.WaitGroup
		wg.Add(g)
		for i := range g {
			go func() {
				defer wg.Done()
				l.RecordTransaction(ledger.Transaction{Sender: "a", Recipient: "b", Amount: uint64(i)})
				l.Snapshot()
			}()
		}
		wg.Wait()

		block, err := l.MineBlock(1, "")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine: %v", failed, err)
		}

		if len(block.Transactions) != g {
			t.Fatalf("\t%s\tShould absorb %d transactions, got %d.", failed, g, len(block.Transactions))
		}
		t.Logf("\t%s\tShould absorb every recorded transaction.", success)
	}
}

// =============================================================================

func newLedger(t *testing.T) *ledger.Ledger {
	l, err := ledger.New(ledger.Config{})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a ledger: %v", failed, err)
	}
	return l
}

// mineChain builds a valid chain with the specified number of blocks.
func mineChain(t *testing.T, length int) ledger.Chain {
	l := newLedger(t)
	for l.Length() < length {
		l.RecordTransaction(ledger.Transaction{Sender: "a", Recipient: "b", Amount: uint64(l.Length())})
		if _, err := l.Mine("miner"); err != nil {
			t.Fatalf("\t%s\tShould be able to mine: %v", failed, err)
		}
	}
	return l.Snapshot()
}

func cloneChain(blocks []ledger.Block) []ledger.Block {
	out := make([]ledger.Block, len(blocks))
	for i, b := range blocks {
		b.Transactions = append([]ledger.Transaction{}, b.Transactions...)
		out[i] = b
	}
	return out
}

// peerChains returns a fetcher serving the specified chains by host.
func peerChains(chains map[string]ledger.Chain) ledger.Fetcher {
	f := func(ctx context.Context, pr peer.Peer) (ledger.Chain, error) {
		chain, exists := chains[pr.Host]
		if !exists {
			return ledger.Chain{}, errors.New("connection refused")
		}
		return chain, nil
	}
	return ledger.FetcherFunc(f)
}
