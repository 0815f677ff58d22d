// Package store holds the most recently fetched customer list so dashboards
// see updated balances after a mutating operation without re-fetching.
package store

import (
	"sync"

	"bankportal/models"
)

// Cache is the in-memory customer list. A fresh list fetch replaces it
// wholesale; mutating operations patch single entries in place.
type Cache struct {
	mutex     sync.RWMutex
	customers []models.Customer
}

func NewCache() *Cache {
	return &Cache{}
}

// Replace swaps in a freshly fetched list.
func (c *Cache) Replace(customers []models.Customer) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.customers = make([]models.Customer, len(customers))
	copy(c.customers, customers)
}

// Patch replaces the entry whose id matches. A miss leaves the list
// unchanged; there is no insert-on-miss.
func (c *Cache) Patch(updated models.Customer) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for i, existing := range c.customers {
		if existing.ID == updated.ID {
			c.customers[i] = updated
			return
		}
	}
}

// All returns a snapshot copy of the current list.
func (c *Cache) All() []models.Customer {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	snapshot := make([]models.Customer, len(c.customers))
	copy(snapshot, c.customers)
	return snapshot
}

// Len returns the number of cached customers.
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.customers)
}

// Page slices a one-based page out of a list. Out-of-range pages come back
// empty rather than panicking.
func Page[T any](list []T, page, pageSize int) []T {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	start := (page - 1) * pageSize
	if start >= len(list) {
		return []T{}
	}
	end := start + pageSize
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}
