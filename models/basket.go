package models

const (
	BasketMinQty = 1
	BasketMaxQty = 10
)

// Basket is the per-session item-name to quantity mapping. It is never
// persisted; the session layer carries it between requests and checkout
// discards it.
type Basket map[string]int

// Set puts an item into the basket, clamping the quantity to the allowed
// range.
func (b Basket) Set(name string, qty int) {
	if qty < BasketMinQty {
		qty = BasketMinQty
	}
	if qty > BasketMaxQty {
		qty = BasketMaxQty
	}
	b[name] = qty
}

// Increment bumps an item's quantity. Returns false when the item is absent
// or already at the maximum, leaving the basket unchanged.
func (b Basket) Increment(name string) bool {
	qty, ok := b[name]
	if !ok || qty >= BasketMaxQty {
		return false
	}
	b[name] = qty + 1
	return true
}

// Decrement lowers an item's quantity. Returns false when the item is absent
// or already at the minimum; it never removes the item.
func (b Basket) Decrement(name string) bool {
	qty, ok := b[name]
	if !ok || qty <= BasketMinQty {
		return false
	}
	b[name] = qty - 1
	return true
}

func (b Basket) Remove(name string) {
	delete(b, name)
}

func (b Basket) IsEmpty() bool {
	return len(b) == 0
}
