// services/entry_service.go
package services

import (
	"errors"
	"fmt"
	"log"

	"karate-entry-system/models"
	"karate-entry-system/store"
	"karate-entry-system/utils"
	"karate-entry-system/workers"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// EntryService runs the school-facing entry workflow: render the entry
// screen state, take a submission through reconcile → validate → save, and
// hand back the filled submission form.
type EntryService struct {
	DB       *gorm.DB
	Settings *store.SettingsStore
	Entries  *store.EntryStore
	Reports  *ReportService
	Archive  *workers.ArchiveWorker
}

func NewEntryService(db *gorm.DB, settings *store.SettingsStore, entries *store.EntryStore, reports *ReportService, archive *workers.ArchiveWorker) *EntryService {
	return &EntryService{DB: db, Settings: settings, Entries: entries, Reports: reports, Archive: archive}
}

// newSessionCache builds the per-request read-through cache over one
// school's eligible roster and the active entry book.
func (s *EntryService) newSessionCache(schoolID string, cfg models.TournamentConfig) *store.SessionCache {
	return store.NewSessionCache(
		func() ([]models.Athlete, error) {
			var roster []models.Athlete
			err := s.DB.Where("school_id = ? AND active = ? AND archived = ?", schoolID, true, false).
				Order("sex ASC, grade DESC, name ASC").
				Find(&roster).Error
			if err != nil {
				return nil, fmt.Errorf("failed to load roster: %w", err)
			}
			eligible := roster[:0]
			for _, a := range roster {
				if cfg.GradeEligible(a.Grade) {
					eligible = append(eligible, a)
				}
			}
			return eligible, nil
		},
		func() (*models.EntryBook, error) {
			return s.Entries.Load(cfg.Key)
		},
	)
}

type entryScreenAthlete struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Sex         string             `json:"sex"`
	Grade       int                `json:"grade"`
	DateOfBirth string             `json:"date_of_birth"`
	JKFNo       string             `json:"jkf_no"`
	Entry       models.EntryRecord `json:"entry"`
}

// GetEntryScreen handles GET /entries. It returns everything the entry form
// needs in one round-trip: the active tournament, the caps, the school's
// format choice and each eligible athlete's current record.
func (s *EntryService) GetEntryScreen(c *fiber.Ctx) error {
	schoolID := c.Locals("school_id").(string)

	settings, err := s.Settings.Load()
	if err != nil {
		return storeError(c, err)
	}
	cfg := settings.ActiveConfig()

	cache := s.newSessionCache(schoolID, cfg)
	roster, err := cache.Roster()
	if err != nil {
		return storeError(c, err)
	}
	book, err := cache.Book()
	if err != nil {
		return storeError(c, err)
	}

	athletes := make([]entryScreenAthlete, 0, len(roster))
	for _, a := range roster {
		athletes = append(athletes, entryScreenAthlete{
			ID:          a.ID,
			Name:        a.Name,
			Sex:         models.DecodeSex(a.Sex),
			Grade:       a.Grade,
			DateOfBirth: a.DateOfBirth,
			JKFNo:       a.ExternalID,
			Entry:       book.RecordFor(a.EntryKey()),
		})
	}

	return c.JSON(fiber.Map{
		"year":       settings.Year,
		"tournament": cfg,
		"limits":     settings.Limits,
		"modes":      book.Modes[schoolID],
		"athletes":   athletes,
	})
}

type submitEntriesRequest struct {
	// Entries is keyed by athlete name; the server scopes keys to the
	// submitting school.
	Entries map[string]RawEntryInput `json:"entries"`
	Modes   models.KumiteModes       `json:"modes"`
}

// SubmitEntries handles POST /entries. The whole batch is atomic at the
// school level: any field error or headcount violation rejects the save and
// leaves the stored book untouched. On success the response body is the
// filled submission form workbook.
//
// There is deliberately no lock or version check around the read-modify-
// write: two sessions for the same school race and the later save wins,
// matching how the office has always operated.
func (s *EntryService) SubmitEntries(c *fiber.Ctx) error {
	schoolID := c.Locals("school_id").(string)

	var req submitEntriesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	settings, err := s.Settings.Load()
	if err != nil {
		return storeError(c, err)
	}
	cfg := settings.ActiveConfig()

	cache := s.newSessionCache(schoolID, cfg)
	roster, err := cache.Roster()
	if err != nil {
		return storeError(c, err)
	}
	book, err := cache.Book()
	if err != nil {
		return storeError(c, err)
	}

	// Scope form keys to this school's eligible roster; names the roster
	// doesn't know are dropped rather than written under a forged key.
	inputs := make(map[string]RawEntryInput, len(req.Entries))
	sexByKey := make(map[string]string, len(roster))
	for _, a := range roster {
		sexByKey[a.EntryKey()] = a.Sex
		if in, ok := req.Entries[a.Name]; ok {
			inputs[a.EntryKey()] = in
		}
	}

	merged, fieldErrs := Reconcile(inputs, book.Records, cfg, sexByKey)

	modes := models.KumiteModes{
		Male:   models.DecodeKumiteMode(string(req.Modes.Male)),
		Female: models.DecodeKumiteMode(string(req.Modes.Female)),
	}

	violations := Validate(roster, merged, settings.Limits, cfg.Type, modes)
	if len(fieldErrs) > 0 || len(violations) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"field_errors": fieldErrs,
			"violations":   violations,
		})
	}

	book.Records = merged
	book.Modes[schoolID] = modes
	if err := s.Entries.Save(cfg.Key, book); err != nil {
		return storeError(c, err)
	}
	cache.Invalidate()
	log.Printf("[ENTRY] %s saved %d entries for %s", schoolID, len(inputs), cfg.Key)

	return s.respondWithForm(c, settings, cfg, schoolID, roster, book)
}

// DownloadForm handles GET /entries/form: regenerate the submission form
// from the stored state without saving anything.
func (s *EntryService) DownloadForm(c *fiber.Ctx) error {
	schoolID := c.Locals("school_id").(string)

	settings, err := s.Settings.Load()
	if err != nil {
		return storeError(c, err)
	}
	cfg := settings.ActiveConfig()

	cache := s.newSessionCache(schoolID, cfg)
	roster, err := cache.Roster()
	if err != nil {
		return storeError(c, err)
	}
	book, err := cache.Book()
	if err != nil {
		return storeError(c, err)
	}
	return s.respondWithForm(c, settings, cfg, schoolID, roster, book)
}

func (s *EntryService) respondWithForm(c *fiber.Ctx, settings models.SystemSettings, cfg models.TournamentConfig, schoolID string, roster []models.Athlete, book *models.EntryBook) error {
	var school models.SchoolAccount
	if err := s.DB.Preload("Advisors", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&school, "id = ?", schoolID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "school not found"})
	}

	form, err := s.Reports.BuildSchoolForm(settings, cfg, school, roster, book)
	if err != nil {
		if errors.Is(err, ErrTemplateMissing) {
			return c.Status(500).JSON(fiber.Map{
				"error": fmt.Sprintf("テンプレート %s が見つかりません", cfg.TemplateRef),
			})
		}
		log.Printf("[ENTRY] form generation failed for %s: %v", schoolID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to generate entry form"})
	}

	if s.Archive != nil {
		s.Archive.Enqueue(workers.Artifact{
			Key:         fmt.Sprintf("forms/%s/%s/%s", settings.Year, cfg.Key, utils.ExportFileName(school.Name, ".xlsx")),
			ContentType: xlsxContentType,
			Data:        form,
		})
	}

	name := utils.ExportFileName("entry-form-"+school.Name, ".xlsx")
	return s.Reports.sendFile(c, name, xlsxContentType, form)
}
