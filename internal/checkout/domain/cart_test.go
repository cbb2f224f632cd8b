package domain

import (
	"testing"

	catalog "github.com/miboks/miboks-server/internal/catalog/domain"
	"github.com/stretchr/testify/assert"
)

const taxRate = 0.15

func TestCart_AddItem(t *testing.T) {
	cart := NewCart()
	soap := catalog.Product{ID: "p1", Name: "Soap", Price: 100, Quantity: 10}

	cart.AddItem(soap)
	cart.AddItem(soap)

	assert.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, 100.0, cart.Lines[0].Price)

	cart.AddItem(catalog.Product{ID: "p2", Name: "Oil", Price: 250})
	assert.Len(t, cart.Lines, 2)
	assert.Equal(t, 1, cart.Lines[1].Quantity)
}

func TestCart_UpdateQuantity(t *testing.T) {
	cart := NewCart()
	cart.AddItem(catalog.Product{ID: "p1", Price: 100})

	cart.UpdateQuantity("p1", 5)
	assert.Equal(t, 5, cart.Lines[0].Quantity)

	// Zero and negative are no-ops.
	cart.UpdateQuantity("p1", 0)
	assert.Equal(t, 5, cart.Lines[0].Quantity)
	cart.UpdateQuantity("p1", -1)
	assert.Equal(t, 5, cart.Lines[0].Quantity)

	// Unknown product is a no-op too.
	cart.UpdateQuantity("ghost", 3)
	assert.Len(t, cart.Lines, 1)
}

func TestCart_RemoveItem(t *testing.T) {
	cart := NewCart()
	cart.AddItem(catalog.Product{ID: "p1", Price: 100})
	cart.AddItem(catalog.Product{ID: "p2", Price: 50})

	cart.RemoveItem("p1")
	assert.Len(t, cart.Lines, 1)
	assert.Equal(t, "p2", cart.Lines[0].ProductID)

	cart.RemoveItem("p1") // already gone, no error
	assert.Len(t, cart.Lines, 1)
}

func TestCart_Totals(t *testing.T) {
	cart := NewCart()
	cart.AddItem(catalog.Product{ID: "p1", Price: 100})
	cart.UpdateQuantity("p1", 2)

	totals := cart.Totals(taxRate)
	assert.Equal(t, 200.0, totals.Subtotal)
	assert.Equal(t, 30.0, totals.Tax)
	assert.Equal(t, 230.0, totals.Total)
}

func TestCart_TotalsFollowMutations(t *testing.T) {
	cart := NewCart()
	cart.AddItem(catalog.Product{ID: "p1", Price: 100})
	cart.AddItem(catalog.Product{ID: "p2", Price: 40})
	cart.UpdateQuantity("p1", 3)
	cart.UpdateQuantity("p2", 2)
	cart.RemoveItem("p2")
	cart.AddItem(catalog.Product{ID: "p3", Price: 10})

	totals := cart.Totals(taxRate)
	assert.Equal(t, 3*100.0+1*10.0, totals.Subtotal)
	assert.Equal(t, totals.Subtotal*taxRate, totals.Tax)
	assert.Equal(t, totals.Subtotal+totals.Tax, totals.Total)
}

func TestCart_Clear(t *testing.T) {
	cart := NewCart()
	cart.AddItem(catalog.Product{ID: "p1", Price: 100})

	cart.Clear()

	assert.True(t, cart.IsEmpty())
	totals := cart.Totals(taxRate)
	assert.Zero(t, totals.Subtotal)
	assert.Zero(t, totals.Tax)
	assert.Zero(t, totals.Total)
}

func TestInstallmentAmount(t *testing.T) {
	for n := 2; n <= 6; n++ {
		assert.Equal(t, 230.0/float64(n), InstallmentAmount(230.0, n))
	}
	// Non-installment path: count 1 returns the total unchanged.
	assert.Equal(t, 230.0, InstallmentAmount(230.0, 1))
	// Counts below 1 are treated as 1.
	assert.Equal(t, 230.0, InstallmentAmount(230.0, 0))
}
