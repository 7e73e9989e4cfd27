package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasketSetClampsQuantity(t *testing.T) {
	b := Basket{}

	b.Set("Borscht", 50)
	assert.Equal(t, BasketMaxQty, b["Borscht"])

	b.Set("Borscht", -3)
	assert.Equal(t, BasketMinQty, b["Borscht"])

	b.Set("Borscht", 4)
	assert.Equal(t, 4, b["Borscht"])
}

func TestBasketIncrementStopsAtMax(t *testing.T) {
	b := Basket{"Borscht": BasketMaxQty}

	assert.False(t, b.Increment("Borscht"))
	assert.Equal(t, BasketMaxQty, b["Borscht"])

	b["Borscht"] = 9
	assert.True(t, b.Increment("Borscht"))
	assert.Equal(t, BasketMaxQty, b["Borscht"])

	assert.False(t, b.Increment("not in basket"))
}

func TestBasketDecrementStopsAtMin(t *testing.T) {
	b := Basket{"Borscht": BasketMinQty}

	assert.False(t, b.Decrement("Borscht"))
	assert.Equal(t, BasketMinQty, b["Borscht"])

	b["Borscht"] = 2
	assert.True(t, b.Decrement("Borscht"))
	assert.Equal(t, BasketMinQty, b["Borscht"])

	assert.False(t, b.Decrement("not in basket"))
}

func TestBasketRemoveAndEmpty(t *testing.T) {
	b := Basket{"Borscht": 2}
	assert.False(t, b.IsEmpty())

	b.Remove("Borscht")
	assert.True(t, b.IsEmpty())
}

func TestOrderStatusRank(t *testing.T) {
	assert.Equal(t, 0, OrderStatusRank(OrderStatusNew))
	assert.Equal(t, 3, OrderStatusRank(OrderStatusDelivered))
	assert.Equal(t, -1, OrderStatusRank("lost"))
}
