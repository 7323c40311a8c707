package domain

import "time"

// Cart is a user's shopping cart. Totals are always derived from Items and
// never stored, so they cannot drift from the line items.
type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is a single cart line. Name, price, and image are a snapshot
// captured when the product was added; they are not re-fetched from the
// catalog afterwards.
type CartItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	ImageURL  string `json:"image_url,omitempty"`
	ImageAlt  string `json:"image_alt,omitempty"`
	Quantity  int    `json:"quantity"`
}

// NewCart creates an empty cart for the given user.
func NewCart(userID string) *Cart {
	return &Cart{
		UserID:    userID,
		Items:     []CartItem{},
		UpdatedAt: time.Now().UTC(),
	}
}

// TotalItems returns the number of distinct line items in the cart. This is
// the line count, not the summed quantity, which is the storefront's display
// rule for the cart badge.
func (c *Cart) TotalItems() int {
	return len(c.Items)
}

// TotalPrice returns the cart subtotal in cents: sum of price * quantity
// across all line items.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// FindItem returns the index of the line item with the given product ID, or
// -1 when the product is not in the cart.
func (c *Cart) FindItem(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem merges a product into the cart. If the product is already present
// its quantity is incremented by one; otherwise the item is appended with
// quantity one. Duplicate adds are defined merge behavior, not an error.
func (c *Cart) AddItem(item CartItem) {
	if i := c.FindItem(item.ProductID); i >= 0 {
		c.Items[i].Quantity++
	} else {
		item.Quantity = 1
		c.Items = append(c.Items, item)
	}
	c.UpdatedAt = time.Now().UTC()
}

// RemoveItem removes the line item with the given product ID. Removing an
// absent product is a no-op, which makes removal idempotent.
func (c *Cart) RemoveItem(productID string) {
	if i := c.FindItem(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		c.UpdatedAt = time.Now().UTC()
	}
}

// SetQuantity sets the exact quantity of a line item. A quantity of zero or
// less removes the item. Setting a quantity on an absent product is a no-op.
func (c *Cart) SetQuantity(productID string, quantity int) {
	i := c.FindItem(productID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	} else {
		c.Items[i].Quantity = quantity
	}
	c.UpdatedAt = time.Now().UTC()
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.UpdatedAt = time.Now().UTC()
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
