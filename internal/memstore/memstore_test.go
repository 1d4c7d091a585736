package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/storefront-golang/internal/commerce"
	"github.com/01moynul/storefront-golang/internal/models"
)

func TestInTx_RollbackLeavesStateUntouched(t *testing.T) {
	s := New()
	p := s.AddProduct(models.Product{Title: "Mug", Quantity: 4, UnitPrice: 100})
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.InTx(ctx, func(tx commerce.Tx) error {
		require.NoError(t, tx.SetProductQuantity(p.ID, 1))
		_, err := tx.SaveCartLine(models.CartLine{UserID: 7, ProductID: p.ID, Quantity: 3, LineTotal: 300})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)
	lines, err := s.CartLines(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestInTx_Commit(t *testing.T) {
	s := New()
	p := s.AddProduct(models.Product{Title: "Mug", Quantity: 4, UnitPrice: 100})
	ctx := context.Background()

	err := s.InTx(ctx, func(tx commerce.Tx) error {
		if err := tx.SetProductQuantity(p.ID, 2); err != nil {
			return err
		}
		_, err := tx.SaveCartLine(models.CartLine{UserID: 7, ProductID: p.ID, Quantity: 2, LineTotal: 200})
		return err
	})
	require.NoError(t, err)

	got, _ := s.Product(ctx, p.ID)
	assert.Equal(t, 2, got.Quantity)
	lines, _ := s.CartLines(ctx, 7)
	require.Len(t, lines, 1)
	assert.NotZero(t, lines[0].ID)
}

func TestInTx_CanceledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.InTx(ctx, func(commerce.Tx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestTx_RejectsNegativeStockAndDuplicateLines(t *testing.T) {
	s := New()
	p := s.AddProduct(models.Product{Title: "Mug", Quantity: 1})

	err := s.InTx(context.Background(), func(tx commerce.Tx) error {
		assert.Error(t, tx.SetProductQuantity(p.ID, -1))

		_, err := tx.SaveCartLine(models.CartLine{UserID: 1, ProductID: p.ID, Quantity: 1})
		require.NoError(t, err)
		_, err = tx.SaveCartLine(models.CartLine{UserID: 1, ProductID: p.ID, Quantity: 1})
		assert.ErrorIs(t, err, commerce.ErrAlreadyExists)

		_, err = tx.LockProduct(999)
		assert.ErrorIs(t, err, commerce.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestCreateOrder_DuplicateSession(t *testing.T) {
	s := New()
	ctx := context.Background()

	create := func(id string) error {
		return s.InTx(ctx, func(tx commerce.Tx) error {
			return tx.CreateOrder(models.Order{ID: id, UserID: 1, PaymentSessionID: "sess-1"}, nil)
		})
	}
	require.NoError(t, create("a"))
	assert.ErrorIs(t, create("b"), commerce.ErrDuplicatePayment)

	_, _, err := s.Order(ctx, 2, "a")
	assert.ErrorIs(t, err, commerce.ErrNotFound, "orders are scoped to their owner")
}

func TestOutbox_PendingAndMarkSent(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.InTx(ctx, func(tx commerce.Tx) error {
		for _, key := range []string{"o1", "o2", "o3"} {
			if err := tx.AppendOutbox(commerce.OutboxEvent{EventID: "e-" + key, Topic: "order.created", Key: key, Payload: []byte(`{}`)}); err != nil {
				return err
			}
		}
		return nil
	}))

	pending, err := s.PendingOutbox(ctx, 2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "o1", pending[0].Key)

	require.NoError(t, s.MarkOutboxSent(ctx, []int64{pending[0].ID, pending[1].ID}))
	rest, err := s.PendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "o3", rest[0].Key)
}

func TestCatalog_FavoritesRatingsAndFlags(t *testing.T) {
	s := New()
	ctx := context.Background()
	p := s.AddProduct(models.Product{Title: "Linen Shirt"})

	f1, err := s.AddFavorite(ctx, 5, p.ID)
	require.NoError(t, err)
	f2, err := s.AddFavorite(ctx, 5, p.ID)
	require.NoError(t, err)
	assert.Equal(t, f1.ID, f2.ID)

	_, err = s.UpsertRating(ctx, models.Rating{UserID: 5, ProductID: p.ID, Star: 2})
	require.NoError(t, err)
	_, err = s.UpsertRating(ctx, models.Rating{UserID: 5, ProductID: p.ID, Star: 4})
	require.NoError(t, err)
	_, err = s.UpsertRating(ctx, models.Rating{UserID: 6, ProductID: p.ID, Star: 5})
	require.NoError(t, err)

	sum, err := s.RatingSummary(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RatingSummary{Average: 4.5, Count: 2}, sum)

	flags, err := s.ViewerFlags(ctx, 5, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ViewerFlags{Favorite: true, UserRating: 4}, flags)

	favs, err := s.Favorites(ctx, 5)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "Linen Shirt", favs[0].ProductTitle)
}

func TestProducts_Paging(t *testing.T) {
	s := New()
	ctx := context.Background()
	cat := s.AddCategory("Summer Shoes", nil)
	assert.Equal(t, "summer-shoes", cat.Slug)
	for i := 0; i < 5; i++ {
		s.AddProduct(models.Product{CategoryID: cat.ID, Title: "Shirt"})
	}
	s.AddProduct(models.Product{Title: "Other"})

	page, total, err := s.Products(ctx, cat.ID, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, page, 1)

	page, total, err = s.Products(ctx, 0, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	assert.Len(t, page, 6)
}
