// Package transaction provides the transaction handle that index
// operations carry. The storage core passes it through without consulting
// it; isolation and lifecycle live with the caller.
package transaction

import (
	"fmt"

	"github.com/google/uuid"
)

// TransactionID uniquely identifies a transaction.
type TransactionID struct {
	id uuid.UUID
}

// NewTransactionID returns a fresh, unique id.
func NewTransactionID() *TransactionID {
	return &TransactionID{id: uuid.New()}
}

func (tid *TransactionID) String() string {
	return fmt.Sprintf("TID-%s", tid.id)
}

// Equals reports whether two ids refer to the same transaction.
func (tid *TransactionID) Equals(other *TransactionID) bool {
	if tid == nil || other == nil {
		return tid == other
	}
	return tid.id == other.id
}

// Transaction is the handle threaded through index operations.
type Transaction struct {
	id *TransactionID
}

// New starts a new transaction handle.
func New() *Transaction {
	return &Transaction{id: NewTransactionID()}
}

// ID returns the transaction's id.
func (t *Transaction) ID() *TransactionID {
	return t.id
}

func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction(%s)", t.id)
}
