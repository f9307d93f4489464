package transaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewTransactionID()
		assert.False(t, seen[id.String()])
		seen[id.String()] = true
	}
}

func TestTransactionIDEquals(t *testing.T) {
	a := NewTransactionID()
	b := NewTransactionID()

	assert.True(t, a.Equals(a))
	assert.False(t, a.Equals(b))
	assert.False(t, a.Equals(nil))

	var nilID *TransactionID
	assert.True(t, nilID.Equals(nil))
}

func TestTransactionCarriesItsID(t *testing.T) {
	txn := New()

	assert.NotNil(t, txn.ID())
	assert.Contains(t, txn.String(), txn.ID().String())
}
