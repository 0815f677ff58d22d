package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankportal/models"
)

func seeded() *Cache {
	c := NewCache()
	c.Replace([]models.Customer{
		{ID: "SSN1", FirstName: "Asha", Balance: decimal.NewFromInt(100)},
		{ID: "SSN2", FirstName: "Ravi", Balance: decimal.NewFromInt(200)},
	})
	return c
}

func TestPatchReplacesMatchingEntry(t *testing.T) {
	c := seeded()
	c.Patch(models.Customer{ID: "SSN2", FirstName: "Ravi", Balance: decimal.NewFromInt(350)})

	all := c.All()
	require.Len(t, all, 2)
	assert.True(t, all[1].Balance.Equal(decimal.NewFromInt(350)))
	assert.True(t, all[0].Balance.Equal(decimal.NewFromInt(100)))
}

func TestPatchMissLeavesCacheUntouched(t *testing.T) {
	c := seeded()
	before := c.All()

	c.Patch(models.Customer{ID: "SSN99", FirstName: "Ghost"})

	after := c.All()
	assert.Equal(t, before, after)
	assert.Equal(t, 2, c.Len())
}

func TestReplaceIsWholesale(t *testing.T) {
	c := seeded()
	c.Replace([]models.Customer{{ID: "SSN9"}})
	all := c.All()
	require.Len(t, all, 1)
	assert.Equal(t, "SSN9", all[0].ID)
}

func TestAllReturnsSnapshot(t *testing.T) {
	c := seeded()
	snapshot := c.All()
	snapshot[0].FirstName = "mutated"
	assert.Equal(t, "Asha", c.All()[0].FirstName)
}

func TestPage(t *testing.T) {
	list := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2}, Page(list, 1, 2))
	assert.Equal(t, []int{3, 4}, Page(list, 2, 2))
	assert.Equal(t, []int{5}, Page(list, 3, 2))
	assert.Empty(t, Page(list, 4, 2))
	// Degenerate inputs clamp instead of panicking.
	assert.Equal(t, []int{1}, Page(list, 0, 1))
	assert.Empty(t, Page([]int{}, 1, 8))
}
