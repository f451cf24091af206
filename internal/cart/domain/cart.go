package domain

// Quantity bounds for a single cart line. Mutations clamp into this range.
const (
	MinQuantity = 1
	MaxQuantity = 99
)

// Product is the part of a catalog entry the cart keeps. Price is in the
// smallest currency unit, already converted for display.
type Product struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// CartItem is one line of the cart. ID is the identity key.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal is price times quantity.
func (i CartItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// Cart is the ordered list of lines, in order of first add.
// Values are treated as immutable; transitions return a new slice.
type Cart []CartItem

// TotalItems is the sum of quantities.
func (c Cart) TotalItems() int {
	total := 0
	for _, it := range c {
		total += it.Quantity
	}
	return total
}

// TotalPrice is the sum of line subtotals.
func (c Cart) TotalPrice() int64 {
	var total int64
	for _, it := range c {
		total += it.Subtotal()
	}
	return total
}

// Find returns the line for id.
func (c Cart) Find(id int) (CartItem, bool) {
	if i := c.index(id); i >= 0 {
		return c[i], true
	}
	return CartItem{}, false
}

// Clone returns a copy that shares nothing with c. A nil cart clones to an
// empty, non-nil one so it always serializes as a JSON array.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

func (c Cart) index(id int) int {
	for i, it := range c {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// ClampQuantity forces q into [MinQuantity, MaxQuantity].
func ClampQuantity(q int) int {
	return max(MinQuantity, min(q, MaxQuantity))
}

// Normalize restores the cart invariants on data that did not come through
// Apply, such as a hand-edited snapshot: the first line wins for a repeated
// id and every quantity is clamped.
func Normalize(c Cart) Cart {
	out := make(Cart, 0, len(c))
	seen := make(map[int]struct{}, len(c))
	for _, it := range c {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		it.Quantity = ClampQuantity(it.Quantity)
		out = append(out, it)
	}
	return out
}
