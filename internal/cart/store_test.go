package cart

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GroceryStore/internal/catalog"
)

var (
	bananas = catalog.Product{ID: "p-bananas", Name: "Bananas", Price: catalog.MustPrice("0.99"), Category: "Fruit", Discount: 10}
	bread   = catalog.Product{ID: "p-bread", Name: "Bread", Price: catalog.MustPrice("2.49"), Category: "Bakery"}
)

func TestCart_AddMergesByProductID(t *testing.T) {
	c := &Cart{}

	_, err := c.Add(bananas, 2)
	require.NoError(t, err)
	_, err = c.Add(bread, 1)
	require.NoError(t, err)
	got, err := c.Add(bananas, 3)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, Entry{Product: bananas, Quantity: 5}, got[0])
	assert.Equal(t, Entry{Product: bread, Quantity: 1}, got[1])
}

func TestCart_AddRejectsBadInput(t *testing.T) {
	c := &Cart{}

	_, err := c.Add(bananas, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = c.Add(bananas, -2)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = c.Add(catalog.Product{Name: "no id"}, 1)
	assert.ErrorIs(t, err, ErrInvalidProduct)

	assert.Empty(t, c.List())
}

func TestCart_AddRejectsQuantityOverflow(t *testing.T) {
	c := &Cart{}

	_, err := c.Add(bananas, math.MaxInt)
	require.NoError(t, err)

	_, err = c.Add(bananas, 1)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	got := c.List()
	require.Len(t, got, 1)
	assert.Equal(t, math.MaxInt, got[0].Quantity, "rejected merge leaves the entry untouched")
}

func TestCart_Remove(t *testing.T) {
	c := &Cart{}
	_, _ = c.Add(bananas, 2)
	_, _ = c.Add(bread, 1)

	got := c.Remove("unknown")
	assert.Len(t, got, 2, "unknown id is a no-op")

	got = c.Remove(bananas.ID)
	require.Len(t, got, 1)
	assert.Equal(t, bread.ID, got[0].Product.ID)

	got = c.Remove(bread.ID)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCart_Checkout(t *testing.T) {
	c := &Cart{}
	_, _ = c.Add(bananas, 2)
	_, _ = c.Add(bread, 4)

	res := c.Checkout()
	assert.True(t, res.Success)
	assert.Equal(t, "Checkout complete (fake)", res.Message)
	assert.Empty(t, c.List())

	res = c.Checkout()
	assert.True(t, res.Success, "checkout of an empty cart still succeeds")
}

func TestCart_ListReturnsCopy(t *testing.T) {
	c := &Cart{}
	_, _ = c.Add(bananas, 1)

	got := c.List()
	got[0].Quantity = 99

	assert.Equal(t, 1, c.List()[0].Quantity)
}

func TestCart_ConcurrentAdds(t *testing.T) {
	c := &Cart{}

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Add(bananas, 1)
			_, _ = c.Add(bread, 2)
		}()
	}
	wg.Wait()

	got := c.List()
	require.Len(t, got, 2)
	for _, e := range got {
		switch e.Product.ID {
		case bananas.ID:
			assert.Equal(t, 50, e.Quantity)
		case bread.ID:
			assert.Equal(t, 100, e.Quantity)
		}
	}
}

func TestStore_CartsByID(t *testing.T) {
	s := NewStore()

	assert.Same(t, s.Cart(""), s.Cart(DefaultCartID))
	assert.Same(t, s.Cart("  "), s.Cart(DefaultCartID))
	assert.NotSame(t, s.Cart("alice"), s.Cart("bob"))

	_, _ = s.Cart("alice").Add(bananas, 1)
	_, _ = s.Cart("bob").Add(bananas, 1)
	_, _ = s.Cart("bob").Add(bread, 1)

	assert.Len(t, s.Cart("alice").List(), 1)
	assert.Empty(t, s.Cart("").List())
	assert.Equal(t, 3, s.Entries())
}
