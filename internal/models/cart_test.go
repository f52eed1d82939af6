package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddMergesLines(t *testing.T) {
	var cart Cart
	cart.Add("Doner Beef 30 см", 2090, 2)
	cart.Add("Фри", 890, 1)
	cart.Add("Doner Beef 30 см", 2090, 3)

	require.Len(t, cart.Lines, 2)
	assert.Equal(t, "Doner Beef 30 см", cart.Lines[0].ItemName)
	assert.Equal(t, 5, cart.Lines[0].Quantity)
	assert.Equal(t, "Фри", cart.Lines[1].ItemName)
	assert.Equal(t, int64(5*2090+890), cart.Total())
}

func TestCart_AddClampsQuantity(t *testing.T) {
	var cart Cart
	cart.Add("HOT-DOG", 890, 0)
	cart.Add("HOT-DOG", 890, -4)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
}

func TestCart_CloneIsIndependent(t *testing.T) {
	var cart Cart
	cart.Add("HOT-DOG", 890, 1)

	clone := cart.Clone()
	cart.Add("HOT-DOG", 890, 1)
	cart.Clear()

	require.Len(t, clone.Lines, 1)
	assert.Equal(t, 1, clone.Lines[0].Quantity)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, int64(0), cart.Total())
}

func TestCart_ReadsOnReturnedValue(t *testing.T) {
	snapshot := func() Cart {
		var cart Cart
		cart.Add("Фри", 890, 2)
		return cart
	}

	assert.Equal(t, int64(1780), snapshot().Total())
	assert.False(t, snapshot().IsEmpty())
	assert.True(t, Cart{}.IsEmpty())
}

func TestStageAndPaymentHelpers(t *testing.T) {
	assert.False(t, StageBrowsing.IsCheckout())
	assert.False(t, StageDone.IsCheckout())
	assert.True(t, StageAwaitingAddress.IsCheckout())
	assert.True(t, StageAwaitingPaymentConfirmation.IsCheckout())

	assert.True(t, PaymentKaspi.IsAsync())
	assert.True(t, PaymentOtherBank.IsAsync())
	assert.False(t, PaymentCash.IsAsync())
	assert.False(t, PaymentUnset.IsAsync())
}
