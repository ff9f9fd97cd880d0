package service_test

import (
	"testing"

	"github.com/sangkips/stockpilot-api/internal/application/service"
	"github.com/sangkips/stockpilot-api/internal/domain/enum"
	"github.com/sangkips/stockpilot-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddIncrementsUpToStock(t *testing.T) {
	cart := service.NewCart()
	p := product("p1", "Rice", "10.50", 2)

	require.NoError(t, cart.Add(&p))
	require.NoError(t, cart.Add(&p))
	assert.ErrorIs(t, cart.Add(&p), service.ErrStockLimit)

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, dec("21").Equal(cart.Subtotal()))
}

func TestCart_AddOutOfStock(t *testing.T) {
	cart := service.NewCart()
	p := product("p1", "Rice", "10", 0)

	assert.ErrorIs(t, cart.Add(&p), service.ErrOutOfStock)
	assert.True(t, cart.IsEmpty())
}

func TestCart_UnitPriceIsSnapshotted(t *testing.T) {
	cart := service.NewCart()
	p := product("p1", "Rice", "10", 5)
	require.NoError(t, cart.Add(&p))

	p.Price = dec("99")
	require.NoError(t, cart.Add(&p))

	assert.True(t, dec("20").Equal(cart.Subtotal()))
}

func TestCart_SetQuantity(t *testing.T) {
	cart := service.NewCart()
	p := product("p1", "Rice", "10", 3)
	require.NoError(t, cart.Add(&p))

	require.NoError(t, cart.SetQuantity("p1", 3))
	assert.ErrorIs(t, cart.SetQuantity("p1", 4), service.ErrStockLimit)
	assert.Equal(t, 3, cart.Lines()[0].Quantity)

	assert.ErrorIs(t, cart.SetQuantity("nope", 1), apperror.ErrNotFound)

	require.NoError(t, cart.SetQuantity("p1", 0))
	assert.True(t, cart.IsEmpty())
}

func TestCart_Validate(t *testing.T) {
	cart := service.NewCart()
	err := cart.Validate(enum.PaymentMethodCash, "")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	p := product("p1", "Rice", "10", 3)
	require.NoError(t, cart.Add(&p))

	assert.ErrorIs(t, cart.Validate(enum.PaymentMethod("barter"), ""), apperror.ErrValidation)
	assert.ErrorIs(t, cart.Validate(enum.PaymentMethodCreditTerm, ""), apperror.ErrMissingClientForCredit)
	assert.Equal(t, service.CartBuilding, cart.State())

	require.NoError(t, cart.Validate(enum.PaymentMethodCreditTerm, "c1"))
	assert.Equal(t, service.CartValidated, cart.State())
}

func TestCart_ChangeAfterValidateReturnsToBuilding(t *testing.T) {
	cart := service.NewCart()
	p := product("p1", "Rice", "10", 3)
	require.NoError(t, cart.Add(&p))
	require.NoError(t, cart.Validate(enum.PaymentMethodPix, ""))

	require.NoError(t, cart.Add(&p))
	assert.Equal(t, service.CartBuilding, cart.State())

	require.NoError(t, cart.Validate(enum.PaymentMethodPix, ""))
	cart.Remove("p1")
	assert.Equal(t, service.CartBuilding, cart.State())
}
