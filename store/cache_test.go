// store/cache_test.go
package store

import (
	"testing"

	"karate-entry-system/models"
)

func TestSessionCacheReadThrough(t *testing.T) {
	rosterLoads, bookLoads := 0, 0
	cache := NewSessionCache(
		func() ([]models.Athlete, error) {
			rosterLoads++
			return []models.Athlete{{Name: "山田"}}, nil
		},
		func() (*models.EntryBook, error) {
			bookLoads++
			return models.NewEntryBook(), nil
		},
	)

	for i := 0; i < 3; i++ {
		if _, err := cache.Roster(); err != nil {
			t.Fatal(err)
		}
		if _, err := cache.Book(); err != nil {
			t.Fatal(err)
		}
	}
	if rosterLoads != 1 || bookLoads != 1 {
		t.Errorf("loads = roster %d, book %d; want one each", rosterLoads, bookLoads)
	}
}

func TestSessionCacheInvalidate(t *testing.T) {
	loads := 0
	cache := NewSessionCache(
		func() ([]models.Athlete, error) {
			loads++
			return nil, nil
		},
		func() (*models.EntryBook, error) {
			return models.NewEntryBook(), nil
		},
	)

	if _, err := cache.Roster(); err != nil {
		t.Fatal(err)
	}
	cache.Invalidate()
	if _, err := cache.Roster(); err != nil {
		t.Fatal(err)
	}
	if loads != 2 {
		t.Errorf("loads = %d, want a reload after Invalidate", loads)
	}
}

func TestSessionCacheCachesEmptyRoster(t *testing.T) {
	loads := 0
	cache := NewSessionCache(
		func() ([]models.Athlete, error) {
			loads++
			return []models.Athlete{}, nil
		},
		func() (*models.EntryBook, error) {
			return models.NewEntryBook(), nil
		},
	)
	for i := 0; i < 2; i++ {
		if _, err := cache.Roster(); err != nil {
			t.Fatal(err)
		}
	}
	if loads != 1 {
		t.Errorf("loads = %d; an empty roster is still a cached result", loads)
	}
}
