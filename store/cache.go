// store/cache.go
package store

import (
	"karate-entry-system/models"
)

// SessionCache is a read-through cache over one school's roster and the
// active entry book, scoped to a single request/submission pass. It cuts the
// repeated store round-trips of the entry screen without sharing state
// between sessions: construct one per request, drop it when done.
//
// Contract: any write through the owning service must call Invalidate so the
// next read hits the store again.
type SessionCache struct {
	loadRoster func() ([]models.Athlete, error)
	loadBook   func() (*models.EntryBook, error)

	roster       []models.Athlete
	rosterLoaded bool
	book         *models.EntryBook
}

// NewSessionCache wraps the two loaders.
func NewSessionCache(loadRoster func() ([]models.Athlete, error), loadBook func() (*models.EntryBook, error)) *SessionCache {
	return &SessionCache{loadRoster: loadRoster, loadBook: loadBook}
}

// Roster returns the cached roster, loading it on first use.
func (c *SessionCache) Roster() ([]models.Athlete, error) {
	if c.rosterLoaded {
		return c.roster, nil
	}
	roster, err := c.loadRoster()
	if err != nil {
		return nil, err
	}
	c.roster = roster
	c.rosterLoaded = true
	return roster, nil
}

// Book returns the cached entry book, loading it on first use.
func (c *SessionCache) Book() (*models.EntryBook, error) {
	if c.book != nil {
		return c.book, nil
	}
	book, err := c.loadBook()
	if err != nil {
		return nil, err
	}
	c.book = book
	return book, nil
}

// Invalidate drops both cached values.
func (c *SessionCache) Invalidate() {
	c.roster = nil
	c.rosterLoaded = false
	c.book = nil
}
