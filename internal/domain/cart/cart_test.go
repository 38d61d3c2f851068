package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecofinds/marketplace-api/internal/domain/catalog"
)

// --- Helpers ---

func cartProduct(id int64, price string) catalog.Product {
	return catalog.Product{
		ID:        id,
		Name:      "Item",
		Price:     decimal.RequireFromString(price),
		Category:  "Fashion",
		Condition: "Good",
	}
}

func reduceAll(ops ...Op) State {
	state := State{}
	for _, op := range ops {
		state = Reduce(state, op)
	}
	return state
}

// --- Reducer ---

func TestReduce_AddNewProduct(t *testing.T) {
	state := Reduce(State{}, Op{Type: OpAdd, Product: cartProduct(1, "10.00")})

	require.Len(t, state.Items, 1)
	assert.Equal(t, int64(1), state.Items[0].Product.ID)
	assert.Equal(t, 1, state.Items[0].Quantity)
	assert.Equal(t, 1, state.TotalItems)
}

func TestReduce_AddDuplicateIncrementsQuantity(t *testing.T) {
	p := cartProduct(1, "10.00")
	state := reduceAll(
		Op{Type: OpAdd, Product: p},
		Op{Type: OpAdd, Product: p},
	)

	// One line per product ID, never two.
	require.Len(t, state.Items, 1)
	assert.Equal(t, 2, state.Items[0].Quantity)
	assert.Equal(t, 2, state.TotalItems)
}

func TestReduce_AddPreservesInsertionOrder(t *testing.T) {
	state := reduceAll(
		Op{Type: OpAdd, Product: cartProduct(3, "1.00")},
		Op{Type: OpAdd, Product: cartProduct(1, "2.00")},
		Op{Type: OpAdd, Product: cartProduct(2, "3.00")},
		Op{Type: OpAdd, Product: cartProduct(1, "2.00")},
	)

	require.Len(t, state.Items, 3)
	assert.Equal(t, int64(3), state.Items[0].Product.ID)
	assert.Equal(t, int64(1), state.Items[1].Product.ID)
	assert.Equal(t, int64(2), state.Items[2].Product.ID)
	assert.Equal(t, 4, state.TotalItems)
}

func TestReduce_RemoveAbsentIsNoop(t *testing.T) {
	state := reduceAll(
		Op{Type: OpAdd, Product: cartProduct(1, "10.00")},
	)

	after := Reduce(state, Op{Type: OpRemove, ProductID: 42})
	assert.Equal(t, state, after)
}

func TestReduce_RemoveDeletesWholeLine(t *testing.T) {
	p := cartProduct(1, "10.00")
	state := reduceAll(
		Op{Type: OpAdd, Product: p},
		Op{Type: OpAdd, Product: p},
		Op{Type: OpAdd, Product: cartProduct(2, "5.00")},
		Op{Type: OpRemove, ProductID: 1},
	)

	require.Len(t, state.Items, 1)
	assert.Equal(t, int64(2), state.Items[0].Product.ID)
	assert.Equal(t, 1, state.TotalItems)
}

func TestReduce_UpdateQuantity(t *testing.T) {
	state := reduceAll(
		Op{Type: OpAdd, Product: cartProduct(1, "10.00")},
		Op{Type: OpUpdateQuantity, ProductID: 1, Quantity: 5},
	)

	require.Len(t, state.Items, 1)
	assert.Equal(t, 5, state.Items[0].Quantity)
	assert.Equal(t, 5, state.TotalItems)
}

func TestReduce_UpdateQuantityZeroRemoves(t *testing.T) {
	for _, qty := range []int{0, -3} {
		state := reduceAll(
			Op{Type: OpAdd, Product: cartProduct(1, "10.00")},
			Op{Type: OpUpdateQuantity, ProductID: 1, Quantity: qty},
		)
		assert.Empty(t, state.Items)
		assert.Zero(t, state.TotalItems)
	}
}

func TestReduce_ClearFromAnyState(t *testing.T) {
	state := reduceAll(
		Op{Type: OpAdd, Product: cartProduct(1, "10.00")},
		Op{Type: OpAdd, Product: cartProduct(2, "20.00")},
		Op{Type: OpClear},
	)

	assert.Equal(t, State{}, state)
}

func TestReduce_UnknownOpIsNoop(t *testing.T) {
	state := reduceAll(Op{Type: OpAdd, Product: cartProduct(1, "10.00")})

	after := Reduce(state, Op{Type: OpType("BOGUS")})
	assert.Equal(t, state, after)
}

func TestReduce_DoesNotMutatePriorState(t *testing.T) {
	p1 := cartProduct(1, "10.00")
	first := Reduce(State{}, Op{Type: OpAdd, Product: p1})

	_ = Reduce(first, Op{Type: OpAdd, Product: p1})
	_ = Reduce(first, Op{Type: OpRemove, ProductID: 1})

	require.Len(t, first.Items, 1)
	assert.Equal(t, 1, first.Items[0].Quantity)
	assert.Equal(t, 1, first.TotalItems)
}

func TestReduce_SpecScenario(t *testing.T) {
	// ADD(1), ADD(1), ADD(2), REMOVE(1) leaves only product 2.
	state := reduceAll(
		Op{Type: OpAdd, Product: cartProduct(1, "10.00")},
		Op{Type: OpAdd, Product: cartProduct(1, "10.00")},
		Op{Type: OpAdd, Product: cartProduct(2, "5.00")},
		Op{Type: OpRemove, ProductID: 1},
	)

	require.Len(t, state.Items, 1)
	assert.Equal(t, int64(2), state.Items[0].Product.ID)
	assert.Equal(t, 1, state.TotalItems)
}

// --- Derived totals ---

func TestTotalPrice(t *testing.T) {
	state := reduceAll(
		Op{Type: OpAdd, Product: cartProduct(1, "10.50")},
		Op{Type: OpAdd, Product: cartProduct(1, "10.50")},
		Op{Type: OpAdd, Product: cartProduct(2, "4.25")},
	)

	assert.True(t, decimal.RequireFromString("25.25").Equal(TotalPrice(state)))
}

func TestTotalPrice_EmptyCart(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(TotalPrice(State{})))
}
