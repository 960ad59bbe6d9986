package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//
// -----------------------------------------------------------------------------
// Add
// -----------------------------------------------------------------------------

// TestAdd_NewProduct verifies a first add appends a row with quantity 1.
func TestAdd_NewProduct(t *testing.T) {
	t.Parallel()

	items := Add(nil, Item{ID: 7, Name: "Cocoa starter kit", Price: "1,800 FCFA"})
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].ID)
	assert.Equal(t, 1, items[0].Quantity)
}

// TestAdd_ExistingProduct verifies adding the same product twice keeps one
// row and increments its quantity.
func TestAdd_ExistingProduct(t *testing.T) {
	t.Parallel()

	items := Add(nil, Item{ID: 7, Name: "Cocoa starter kit"})
	items = Add(items, Item{ID: 7, Name: "Cocoa starter kit"})

	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, TotalItems(items))
}

// TestAdd_DoesNotMutateInput verifies Add returns a fresh slice.
func TestAdd_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	original := []Item{{ID: 1, Quantity: 1}}
	_ = Add(original, Item{ID: 1})
	assert.Equal(t, 1, original[0].Quantity)
}

//
// -----------------------------------------------------------------------------
// Remove / SetQuantity
// -----------------------------------------------------------------------------

// TestRemove_Present verifies Remove filters the product out.
func TestRemove_Present(t *testing.T) {
	t.Parallel()

	items := []Item{{ID: 1, Quantity: 2}, {ID: 2, Quantity: 1}}
	items = Remove(items, 1)

	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].ID)
}

// TestRemove_Absent verifies removing an absent id is a no-op.
func TestRemove_Absent(t *testing.T) {
	t.Parallel()

	items := []Item{{ID: 1, Quantity: 2}}
	assert.Equal(t, items, Remove(items, 99))
}

// TestSetQuantity_Direct verifies a positive quantity is set with no upper
// bound.
func TestSetQuantity_Direct(t *testing.T) {
	t.Parallel()

	items := []Item{{ID: 1, Quantity: 1}}
	items = SetQuantity(items, 1, 500)
	assert.Equal(t, 500, items[0].Quantity)
}

// TestSetQuantity_FloorEqualsRemove verifies quantity <= 0 behaves exactly
// like Remove, for ids present and absent.
func TestSetQuantity_FloorEqualsRemove(t *testing.T) {
	t.Parallel()

	items := []Item{{ID: 1, Quantity: 2}, {ID: 2, Quantity: 1}}

	for _, id := range []int{1, 2, 99} {
		for _, q := range []int{0, -1, -500} {
			assert.Equal(t, Remove(items, id), SetQuantity(items, id, q), "id=%d q=%d", id, q)
		}
	}
}

// TestSetQuantity_NeverRetainsZero verifies no row survives at quantity 0.
func TestSetQuantity_NeverRetainsZero(t *testing.T) {
	t.Parallel()

	items := []Item{{ID: 1, Quantity: 3}}
	items = SetQuantity(items, 1, 0)
	assert.Empty(t, items)
}

//
// -----------------------------------------------------------------------------
// Totals and price parsing
// -----------------------------------------------------------------------------

// TestParsePrice verifies the digits-only extraction contract for localized
// price strings.
func TestParsePrice(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"1,800 FCFA":  1800,
		"500 FCFA":    500,
		"2.500 FCFA":  2500,
		"12 000 FCFA": 12000,
		"FCFA":        0,
		"":            0,
	}
	for input, want := range cases {
		assert.Equal(t, want, ParsePrice(input), "input=%q", input)
	}
}

// TestTotalPrice verifies the total is the sum of quantity times the parsed
// price magnitude.
func TestTotalPrice(t *testing.T) {
	t.Parallel()

	items := []Item{
		{ID: 1, Price: "1,800 FCFA", Quantity: 2},
		{ID: 2, Price: "500 FCFA", Quantity: 3},
	}
	assert.Equal(t, 2*1800+3*500, TotalPrice(items))
	assert.Equal(t, 5, TotalItems(items))
}
