package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ecofinds/marketplace-api/internal/domain/catalog"
)

// Item is one product line in a cart. Identity is the product ID; a cart
// never holds two lines for the same product.
type Item struct {
	Product  catalog.Product
	Quantity int
}

// State is a cart snapshot. TotalItems is the sum of line quantities.
type State struct {
	Items      []Item
	TotalItems int
}

// OpType enumerates the cart operations.
type OpType string

const (
	OpAdd            OpType = "ADD"
	OpRemove         OpType = "REMOVE"
	OpUpdateQuantity OpType = "UPDATE_QUANTITY"
	OpClear          OpType = "CLEAR"
)

// Op is a single cart operation. Product is set for ADD; ProductID for
// REMOVE and UPDATE_QUANTITY; Quantity for UPDATE_QUANTITY.
type Op struct {
	Type      OpType
	Product   catalog.Product
	ProductID int64
	Quantity  int
}

// Reduce applies op to state and returns the next state. It is a pure
// function: the input state is never mutated, no operation can fail, and the
// same operation sequence from the same initial state always produces the
// same result. Invalid inputs (removing an absent product, unknown op types)
// are absorbed as no-ops.
func Reduce(state State, op Op) State {
	switch op.Type {
	case OpAdd:
		return add(state, op.Product)
	case OpRemove:
		return remove(state, op.ProductID)
	case OpUpdateQuantity:
		if op.Quantity <= 0 {
			return remove(state, op.ProductID)
		}
		return setQuantity(state, op.ProductID, op.Quantity)
	case OpClear:
		return State{}
	default:
		return state
	}
}

// add appends a new line with quantity 1, or increments the existing line
// for the same product.
func add(state State, p catalog.Product) State {
	items := make([]Item, len(state.Items))
	copy(items, state.Items)

	found := false
	for i := range items {
		if items[i].Product.ID == p.ID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, Item{Product: p, Quantity: 1})
	}
	return State{Items: items, TotalItems: totalQuantity(items)}
}

func remove(state State, productID int64) State {
	items := make([]Item, 0, len(state.Items))
	for _, item := range state.Items {
		if item.Product.ID != productID {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return State{}
	}
	return State{Items: items, TotalItems: totalQuantity(items)}
}

func setQuantity(state State, productID int64, quantity int) State {
	items := make([]Item, len(state.Items))
	copy(items, state.Items)

	for i := range items {
		if items[i].Product.ID == productID {
			items[i].Quantity = quantity
			break
		}
	}
	return State{Items: items, TotalItems: totalQuantity(items)}
}

func totalQuantity(items []Item) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns the sum of price times quantity across all lines.
func TotalPrice(state State) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range state.Items {
		line := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		sum = sum.Add(line)
	}
	return sum
}

// Repository persists cart snapshots keyed by owner. A missing cart reads as
// the empty state, never as an error.
type Repository interface {
	Get(ctx context.Context, ownerID string) (State, error)
	Save(ctx context.Context, ownerID string, state State) error
}
