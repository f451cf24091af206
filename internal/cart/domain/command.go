package domain

// Command is a cart mutation. The set of commands is closed: AddToCart,
// UpdateQuantity, RemoveFromCart and ClearCart.
type Command interface {
	Kind() string
	isCommand()
}

// AddToCart adds one unit of Product, appending a new line on first add.
type AddToCart struct {
	Product Product
}

// UpdateQuantity sets the quantity of line ID, clamped to the allowed range.
// It cannot remove a line; use RemoveFromCart for that.
type UpdateQuantity struct {
	ID       int
	Quantity int
}

// RemoveFromCart deletes line ID.
type RemoveFromCart struct {
	ID int
}

// ClearCart empties the cart.
type ClearCart struct{}

func (AddToCart) Kind() string      { return "add" }
func (UpdateQuantity) Kind() string { return "update_quantity" }
func (RemoveFromCart) Kind() string { return "remove" }
func (ClearCart) Kind() string      { return "clear" }

func (AddToCart) isCommand()      {}
func (UpdateQuantity) isCommand() {}
func (RemoveFromCart) isCommand() {}
func (ClearCart) isCommand()      {}

// Apply is the cart transition function. It never modifies c; the returned
// cart may share c's backing array only when nothing changed.
func Apply(c Cart, cmd Command) Cart {
	switch cmd := cmd.(type) {
	case AddToCart:
		if i := c.index(cmd.Product.ID); i >= 0 {
			next := c.Clone()
			next[i].Quantity = ClampQuantity(next[i].Quantity + 1)
			return next
		}
		next := make(Cart, len(c), len(c)+1)
		copy(next, c)
		return append(next, CartItem{Product: cmd.Product, Quantity: MinQuantity})

	case UpdateQuantity:
		i := c.index(cmd.ID)
		if i < 0 {
			return c
		}
		next := c.Clone()
		next[i].Quantity = ClampQuantity(cmd.Quantity)
		return next

	case RemoveFromCart:
		next := make(Cart, 0, len(c))
		for _, it := range c {
			if it.ID != cmd.ID {
				next = append(next, it)
			}
		}
		return next

	case ClearCart:
		return Cart{}

	default:
		return c
	}
}
