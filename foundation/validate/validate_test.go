package validate_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/validate"
)

type newTx struct {
	Sender    string `json:"sender" validate:"required"`
	Recipient string `json:"recipient" validate:"required"`
	Amount    uint64 `json:"amount"`
}

func Test_Check(t *testing.T) {
	if err := validate.Check(newTx{Sender: "bill", Recipient: "ed"}); err != nil {
		t.Fatalf("Should accept a valid value: %v", err)
	}

	err := validate.Check(newTx{Sender: "bill"})
	if !validate.IsFieldErrors(err) {
		t.Fatalf("Should get back field errors: %v", err)
	}

	fields := validate.GetFieldErrors(err).Fields()
	if _, exists := fields["recipient"]; !exists || len(fields) != 1 {
		t.Fatalf("Should report the json name of the missing field: %v", fields)
	}
}
