// Package cart is the client-side shopping cart. A Cart is an explicit
// container passed to whoever needs it; where it is kept between runs is
// decided by the injected Persistence.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

const maxQuantity = 999

var (
	ErrInvalidQuantity = errors.New("cart: quantity must be between 1 and 999")
	ErrInvalidProduct  = errors.New("cart: product id must be positive")
	ErrNotInCart       = errors.New("cart: product not in cart")
)

// Item is a product line kept in the cart. Prices are display hints only;
// the server reprices every line at checkout.
type Item struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// Line is the checkout form of an item.
type Line struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// Persistence loads and saves cart contents.
type Persistence interface {
	Load(ctx context.Context) ([]Item, error)
	Save(ctx context.Context, items []Item) error
}

// Cart holds items in insertion order. It is safe for concurrent use.
type Cart struct {
	mu    sync.Mutex
	items []Item
	store Persistence
}

// Load builds a Cart from the contents of store.
func Load(ctx context.Context, store Persistence) (*Cart, error) {
	items, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	c := &Cart{store: store}
	for _, it := range items {
		if it.ProductID <= 0 || it.Quantity <= 0 {
			continue
		}
		c.merge(it)
	}
	return c, nil
}

// Add puts item into the cart, merging with an existing line of the same
// product.
func (c *Cart) Add(ctx context.Context, item Item) error {
	if item.ProductID <= 0 {
		return ErrInvalidProduct
	}
	if item.Quantity <= 0 || item.Quantity > maxQuantity {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.index(item.ProductID); i >= 0 && c.items[i].Quantity+item.Quantity > maxQuantity {
		return ErrInvalidQuantity
	}
	prev := c.snapshot()
	c.merge(item)
	return c.save(ctx, prev)
}

// SetQuantity changes the quantity of a line. Zero removes it.
func (c *Cart) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity < 0 || quantity > maxQuantity {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(productID)
	if i < 0 {
		return ErrNotInCart
	}
	prev := c.snapshot()
	if quantity == 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	} else {
		c.items[i].Quantity = quantity
	}
	return c.save(ctx, prev)
}

// Remove drops the line of productID.
func (c *Cart) Remove(ctx context.Context, productID int64) error {
	return c.SetQuantity(ctx, productID, 0)
}

// Clear empties the cart, typically after a successful checkout.
func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.snapshot()
	c.items = nil
	return c.save(ctx, prev)
}

// Items returns a copy of the cart contents.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Count returns the total number of units.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Subtotal sums display prices.
func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// Lines returns the cart in the shape expected by POST /api/orders.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := make([]Line, 0, len(c.items))
	for _, it := range c.items {
		lines = append(lines, Line{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return lines
}

func (c *Cart) index(productID int64) int {
	for i, it := range c.items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) merge(item Item) {
	if i := c.index(item.ProductID); i >= 0 {
		c.items[i].Quantity += item.Quantity
		if item.Name != "" {
			c.items[i].Name = item.Name
			c.items[i].UnitPrice = item.UnitPrice
		}
		return
	}
	c.items = append(c.items, item)
}

func (c *Cart) snapshot() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// save persists the current contents and restores prev when that fails, so
// memory never runs ahead of the store.
func (c *Cart) save(ctx context.Context, prev []Item) error {
	if err := c.store.Save(ctx, c.snapshot()); err != nil {
		c.items = prev
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
