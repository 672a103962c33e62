package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whats-my-order/internal/domain/orders"
)

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession("521234")

	assert.Equal(t, "521234", s.CustomerID)
	assert.Equal(t, StateInit, s.State)
	assert.NotNil(t, s.Cart)
	assert.Empty(t, s.Cart)
	assert.Nil(t, s.Customer)
	assert.Empty(t, s.OrderID)
}

func TestUpsertLineLastWriteWins(t *testing.T) {
	s := NewSession("c1")

	s.UpsertLine(CartLine{ProductCode: "A12", DisplayName: "Arroz", UnitPrice: 1500, Quantity: 2})
	s.UpsertLine(CartLine{ProductCode: "A12", DisplayName: "Arroz", UnitPrice: 1500, Quantity: 5})

	require.Len(t, s.Cart, 1)
	assert.Equal(t, 5, s.Cart["A12"].Quantity, "re-entering a code replaces the quantity, it does not accumulate")
}

func TestCartTotal(t *testing.T) {
	s := NewSession("c1")
	s.UpsertLine(CartLine{ProductCode: "A12", UnitPrice: 1500, Quantity: 2})
	s.UpsertLine(CartLine{ProductCode: "B05", UnitPrice: 1800, Quantity: 1})

	assert.Equal(t, orders.Money(4800), s.CartTotal())
}

func TestCartTotalEmpty(t *testing.T) {
	assert.Equal(t, orders.Money(0), NewSession("c1").CartTotal())
}

func TestCloneIsDeep(t *testing.T) {
	s := NewSession("c1")
	s.UpsertLine(CartLine{ProductCode: "A12", UnitPrice: 1500, Quantity: 2})
	s.Customer = &Customer{Name: "Ana", Address: "Calle 1", Phone: "300", PaymentMethod: "efectivo"}

	c := s.Clone()
	c.State = StateConfirmingOrder
	c.UpsertLine(CartLine{ProductCode: "B05", UnitPrice: 1800, Quantity: 1})
	c.Cart["A12"] = CartLine{ProductCode: "A12", UnitPrice: 1500, Quantity: 9}
	c.Customer.Name = "Otro"

	assert.Equal(t, StateInit, s.State)
	assert.Len(t, s.Cart, 1)
	assert.Equal(t, 2, s.Cart["A12"].Quantity)
	assert.Equal(t, "Ana", s.Customer.Name)
}

func TestClearCart(t *testing.T) {
	s := NewSession("c1")
	s.UpsertLine(CartLine{ProductCode: "A12", UnitPrice: 1500, Quantity: 2})

	s.ClearCart()

	assert.Empty(t, s.Cart)
	s.UpsertLine(CartLine{ProductCode: "B05", UnitPrice: 1800, Quantity: 1})
	assert.Len(t, s.Cart, 1)
}

func TestSortedLinesOrderedByCode(t *testing.T) {
	s := NewSession("c1")
	s.UpsertLine(CartLine{ProductCode: "D21", Quantity: 1})
	s.UpsertLine(CartLine{ProductCode: "A12", Quantity: 1})
	s.UpsertLine(CartLine{ProductCode: "B05", Quantity: 1})

	lines := s.SortedLines()
	require.Len(t, lines, 3)
	assert.Equal(t, "A12", lines[0].ProductCode)
	assert.Equal(t, "B05", lines[1].ProductCode)
	assert.Equal(t, "D21", lines[2].ProductCode)
}

func TestLineSubtotal(t *testing.T) {
	line := CartLine{ProductCode: "A12", UnitPrice: 1500, Quantity: 3}
	assert.Equal(t, orders.Money(4500), line.Subtotal())
}

func TestStateValid(t *testing.T) {
	for _, s := range All {
		assert.True(t, s.Valid(), "state %q must be valid", s)
	}
	assert.False(t, State("").Valid())
	assert.False(t, State("ordering").Valid())
}
