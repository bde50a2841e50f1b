package ledgergrp

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/ledger"
)

type newTx struct {
	Sender    string `json:"sender" validate:"required"`
	Recipient string `json:"recipient" validate:"required"`
	Amount    uint64 `json:"amount"`
}

type txRecorded struct {
	Message      string             `json:"message"`
	PendingIndex int                `json:"pending_index"`
	Transaction  ledger.Transaction `json:"transaction"`
}

type mined struct {
	Message      string               `json:"message"`
	Index        uint64               `json:"index"`
	Transactions []ledger.Transaction `json:"transactions"`
	Proof        uint64               `json:"proof"`
	PreviousHash string               `json:"previous_hash"`
}

type newNodes struct {
	Nodes []string `json:"nodes" validate:"required,min=1,dive,required"`
}

type nodesRegistered struct {
	Message    string   `json:"message"`
	TotalNodes []string `json:"total_nodes"`
}

type resolved struct {
	Message  string         `json:"message"`
	Replaced bool           `json:"replaced"`
	Chain    []ledger.Block `json:"chain"`
	Length   int            `json:"length"`
}
