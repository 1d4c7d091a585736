package commerce_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/storefront-golang/internal/commerce"
)

func TestLedger_Reserve(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, 5, 100)
	var ledger commerce.Ledger

	err := f.store.InTx(context.Background(), func(tx commerce.Tx) error {
		got, err := ledger.Reserve(tx, p.ID, 5)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Quantity)

		_, err = ledger.Reserve(tx, p.ID, 1)
		assert.ErrorIs(t, err, commerce.ErrInsufficientStock)

		_, err = ledger.Reserve(tx, p.ID, 0)
		assert.ErrorIs(t, err, commerce.ErrValidation)
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, f.stock(t, p.ID))
}
