// store/entry_store.go
package store

import (
	"karate-entry-system/models"
)

const settingsTable = "settings"

func entriesTable(tournamentKey string) string {
	return "entries:" + tournamentKey
}

// SettingsStore reads and writes the configuration blob.
type SettingsStore struct {
	Blobs *BlobStore
}

func NewSettingsStore(blobs *BlobStore) *SettingsStore {
	return &SettingsStore{Blobs: blobs}
}

// Load returns the stored settings with the limit defaults merged in, or the
// full defaults when nothing was stored yet.
func (s *SettingsStore) Load() (models.SystemSettings, error) {
	settings := models.DefaultSettings()
	found, err := s.Blobs.GetJSON(settingsTable, &settings)
	if err != nil {
		return settings, err
	}
	if !found {
		return models.DefaultSettings(), nil
	}
	if settings.Tournaments == nil {
		settings.Tournaments = models.DefaultSettings().Tournaments
	}
	settings.Limits = models.MergeLimits(settings.Limits)
	return settings, nil
}

// Save overwrites the settings blob.
func (s *SettingsStore) Save(settings models.SystemSettings) error {
	return s.Blobs.PutJSON(settingsTable, settings)
}

// EntryStore reads and writes one entry book per tournament.
type EntryStore struct {
	Blobs *BlobStore
}

func NewEntryStore(blobs *BlobStore) *EntryStore {
	return &EntryStore{Blobs: blobs}
}

// Load returns the tournament's entry book, empty when none exists.
func (s *EntryStore) Load(tournamentKey string) (*models.EntryBook, error) {
	book := models.NewEntryBook()
	if _, err := s.Blobs.GetJSON(entriesTable(tournamentKey), book); err != nil {
		return nil, err
	}
	if book.Records == nil {
		book.Records = map[string]models.EntryRecord{}
	}
	if book.Modes == nil {
		book.Modes = map[string]models.KumiteModes{}
	}
	return book, nil
}

// Save overwrites the tournament's entry book. There is no partial write:
// either the whole book lands or the old blob stays.
func (s *EntryStore) Save(tournamentKey string, book *models.EntryBook) error {
	return s.Blobs.PutJSON(entriesTable(tournamentKey), book)
}

// Reset drops a tournament's entry book (year rollover).
func (s *EntryStore) Reset(tournamentKey string) error {
	return s.Blobs.DeleteTable(entriesTable(tournamentKey))
}
