package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCart_AddItem_NewProduct(t *testing.T) {
	cart := NewCart("user-1")

	cart.AddItem(CartItem{ProductID: "prod-1", Name: "Monstera Deliciosa", Price: 2500})

	assert.Equal(t, 1, cart.TotalItems())
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, int64(2500), cart.TotalPrice())
}

func TestCart_AddItem_DuplicateMerges(t *testing.T) {
	cart := NewCart("user-1")

	cart.AddItem(CartItem{ProductID: "prod-1", Name: "Monstera Deliciosa", Price: 2500})
	cart.AddItem(CartItem{ProductID: "prod-1", Name: "Monstera Deliciosa", Price: 2500})
	cart.AddItem(CartItem{ProductID: "prod-1", Name: "Monstera Deliciosa", Price: 2500})

	assert.Equal(t, 1, cart.TotalItems(), "duplicate adds must merge into one line")
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, int64(7500), cart.TotalPrice())
}

func TestCart_Totals_DistinctLinesNotQuantity(t *testing.T) {
	// Two units of a 1000-cent plant plus one 500-cent plant: the item count
	// is the line count, the subtotal sums price times quantity.
	cart := NewCart("user-1")
	cart.AddItem(CartItem{ProductID: "prod-1", Name: "Snake Plant", Price: 1000})
	cart.AddItem(CartItem{ProductID: "prod-1", Name: "Snake Plant", Price: 1000})
	cart.AddItem(CartItem{ProductID: "prod-2", Name: "Pothos", Price: 500})

	assert.Equal(t, 2, cart.TotalItems())
	assert.Equal(t, int64(2500), cart.TotalPrice())
}

func TestCart_RemoveItem(t *testing.T) {
	cart := NewCart("user-1")
	cart.AddItem(CartItem{ProductID: "prod-1", Price: 1000})
	cart.AddItem(CartItem{ProductID: "prod-2", Price: 500})

	cart.RemoveItem("prod-1")

	assert.Equal(t, 1, cart.TotalItems())
	assert.Equal(t, -1, cart.FindItem("prod-1"))
}

func TestCart_RemoveItem_AbsentIsNoop(t *testing.T) {
	cart := NewCart("user-1")
	cart.AddItem(CartItem{ProductID: "prod-1", Price: 1000})

	cart.RemoveItem("prod-missing")
	cart.RemoveItem("prod-missing")

	assert.Equal(t, 1, cart.TotalItems())
	assert.Equal(t, int64(1000), cart.TotalPrice())
}

func TestCart_SetQuantity(t *testing.T) {
	cart := NewCart("user-1")
	cart.AddItem(CartItem{ProductID: "prod-1", Price: 1000})

	cart.SetQuantity("prod-1", 5)

	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, int64(5000), cart.TotalPrice())
}

func TestCart_SetQuantity_ZeroRemoves(t *testing.T) {
	cart := NewCart("user-1")
	cart.AddItem(CartItem{ProductID: "prod-1", Price: 1000})

	cart.SetQuantity("prod-1", 0)

	assert.True(t, cart.IsEmpty())
}

func TestCart_SetQuantity_NegativeRemoves(t *testing.T) {
	cart := NewCart("user-1")
	cart.AddItem(CartItem{ProductID: "prod-1", Price: 1000})

	cart.SetQuantity("prod-1", -3)

	assert.True(t, cart.IsEmpty())
	assert.Equal(t, int64(0), cart.TotalPrice())
}

func TestCart_SetQuantity_AbsentIsNoop(t *testing.T) {
	cart := NewCart("user-1")
	cart.AddItem(CartItem{ProductID: "prod-1", Price: 1000})

	cart.SetQuantity("prod-missing", 4)

	assert.Equal(t, 1, cart.TotalItems())
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestCart_Clear(t *testing.T) {
	cart := NewCart("user-1")
	cart.AddItem(CartItem{ProductID: "prod-1", Price: 1000})
	cart.AddItem(CartItem{ProductID: "prod-2", Price: 500})

	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 0, cart.TotalItems())
	assert.Equal(t, int64(0), cart.TotalPrice())
}
