// services/admin_service.go
package services

import (
	"log"
	"strings"

	"karate-entry-system/models"
	"karate-entry-system/store"
	"karate-entry-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminService is the federation office console: settings and caps,
// tournament catalogue, school directory maintenance and the year rollover.
type AdminService struct {
	DB       *gorm.DB
	Settings *store.SettingsStore
	Entries  *store.EntryStore
	Reports  *ReportService
}

func NewAdminService(db *gorm.DB, settings *store.SettingsStore, entries *store.EntryStore, reports *ReportService) *AdminService {
	return &AdminService{DB: db, Settings: settings, Entries: entries, Reports: reports}
}

// GetSettings handles GET /admin/settings.
func (s *AdminService) GetSettings(c *fiber.Ctx) error {
	settings, err := s.Settings.Load()
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(settings)
}

type settingsRequest struct {
	Year   string                  `json:"year"`
	Limits *models.HeadcountLimits `json:"limits"`
}

// UpdateSettings handles PUT /admin/settings: the competition year and the
// headcount caps. Zero-valued caps fall back to the defaults on load, so a
// partial limits payload never bricks validation.
func (s *AdminService) UpdateSettings(c *fiber.Ctx) error {
	var req settingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	settings, err := s.Settings.Load()
	if err != nil {
		return storeError(c, err)
	}
	if req.Year != "" {
		settings.Year = utils.NormalizeDigits(req.Year)
	}
	if req.Limits != nil {
		settings.Limits = models.MergeLimits(*req.Limits)
	}
	if err := s.Settings.Save(settings); err != nil {
		return storeError(c, err)
	}
	log.Printf("[ADMIN] settings updated (year=%s)", settings.Year)
	return c.JSON(settings)
}

// UpsertTournament handles PUT /admin/tournaments/:key.
func (s *AdminService) UpsertTournament(c *fiber.Ctx) error {
	key := c.Params("key")

	var cfg models.TournamentConfig
	if err := c.BodyParser(&cfg); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	cfg.Key = key
	cfg.Type = models.DecodeTournamentType(cfg.Type)
	if strings.TrimSpace(cfg.Name) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "大会名を入力してください"})
	}

	settings, err := s.Settings.Load()
	if err != nil {
		return storeError(c, err)
	}
	settings.Tournaments[key] = cfg
	if err := s.Settings.Save(settings); err != nil {
		return storeError(c, err)
	}
	log.Printf("[ADMIN] tournament %s upserted (type=%s)", key, cfg.Type)
	return c.JSON(cfg)
}

// ActivateTournament handles POST /admin/tournaments/:key/activate. Exactly
// one tournament is open for entry at a time; activation is the switch.
func (s *AdminService) ActivateTournament(c *fiber.Ctx) error {
	key := c.Params("key")

	settings, err := s.Settings.Load()
	if err != nil {
		return storeError(c, err)
	}
	if _, ok := settings.Tournaments[key]; !ok {
		return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
	}
	settings.ActiveTournament = key
	if err := s.Settings.Save(settings); err != nil {
		return storeError(c, err)
	}
	log.Printf("[ADMIN] active tournament switched to %s", key)
	return c.JSON(fiber.Map{"active_tournament": key})
}

// ListSchools handles GET /admin/schools.
func (s *AdminService) ListSchools(c *fiber.Ctx) error {
	var schools []models.SchoolAccount
	err := s.DB.Where("is_admin = ?", false).
		Preload("Advisors", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Order("school_no ASC, name ASC").
		Find(&schools).Error
	if err != nil {
		log.Printf("[ADMIN] school list failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to load schools"})
	}
	return c.JSON(schools)
}

// AssignSchoolNumber handles PUT /admin/schools/:id/number. The number
// orders every report; unassigned schools sit at 999.
func (s *AdminService) AssignSchoolNumber(c *fiber.Ctx) error {
	var req struct {
		SchoolNo int `json:"school_no"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	var school models.SchoolAccount
	if err := s.DB.First(&school, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "school not found"})
	}
	school.SchoolNo = req.SchoolNo
	if err := s.DB.Save(&school).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update school"})
	}
	return c.JSON(school)
}

// RenameSchool handles PUT /admin/schools/:id/name. Entry records are keyed
// by school ID, not name, so the rename needs no entry-book rewrite.
func (s *AdminService) RenameSchool(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "学校名を入力してください"})
	}

	var school models.SchoolAccount
	if err := s.DB.First(&school, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "school not found"})
	}
	var dup models.SchoolAccount
	if err := s.DB.First(&dup, "name = ? AND id <> ?", req.Name, school.ID).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "その学校名は使用されています"})
	}

	old := school.Name
	school.Name = req.Name
	if err := s.DB.Save(&school).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to rename school"})
	}
	log.Printf("[ADMIN] school %s renamed %s -> %s", school.ID, old, school.Name)
	return c.JSON(school)
}

// DeleteSchool handles DELETE /admin/schools/:id and cascades: advisors,
// athletes, the school's records and format choice in every entry book.
func (s *AdminService) DeleteSchool(c *fiber.Ctx) error {
	var school models.SchoolAccount
	if err := s.DB.First(&school, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "school not found"})
	}

	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("school_id = ?", school.ID).Delete(&models.Advisor{}).Error; err != nil {
			return err
		}
		if err := tx.Where("school_id = ?", school.ID).Delete(&models.Athlete{}).Error; err != nil {
			return err
		}
		return tx.Delete(&school).Error
	}); err != nil {
		log.Printf("[ADMIN] school delete failed for %s: %v", school.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete school"})
	}

	if err := s.scrubEntryBooks(school.ID); err != nil {
		log.Printf("[ADMIN] entry scrub failed for %s: %v", school.ID, err)
	}
	log.Printf("[ADMIN] deleted school %s (%s)", school.Name, school.ID)
	return c.JSON(fiber.Map{"deleted": school.ID})
}

// scrubEntryBooks removes one school's records from every tournament book.
func (s *AdminService) scrubEntryBooks(schoolID string) error {
	settings, err := s.Settings.Load()
	if err != nil {
		return err
	}
	prefix := schoolID + "_"
	for key := range settings.Tournaments {
		book, err := s.Entries.Load(key)
		if err != nil {
			return err
		}
		changed := false
		for rk := range book.Records {
			if strings.HasPrefix(rk, prefix) {
				delete(book.Records, rk)
				changed = true
			}
		}
		if _, ok := book.Modes[schoolID]; ok {
			delete(book.Modes, schoolID)
			changed = true
		}
		if !changed {
			continue
		}
		if err := s.Entries.Save(key, book); err != nil {
			return err
		}
	}
	return nil
}

// YearRollover handles POST /admin/rollover: third-years are archived,
// everyone else moves up a grade, every entry book is cleared and the year
// advances. Athlete rows are never deleted; the archive keeps the history.
func (s *AdminService) YearRollover(c *fiber.Ctx) error {
	var req struct {
		Year string `json:"year"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	settings, err := s.Settings.Load()
	if err != nil {
		return storeError(c, err)
	}

	var promoted, archived int64
	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Athlete{}).
			Where("archived = ?", false).
			Update("grade", gorm.Expr("grade + 1"))
		if res.Error != nil {
			return res.Error
		}
		promoted = res.RowsAffected

		res = tx.Model(&models.Athlete{}).
			Where("archived = ? AND grade > ?", false, 3).
			Updates(map[string]interface{}{"archived": true, "active": false})
		if res.Error != nil {
			return res.Error
		}
		archived = res.RowsAffected
		promoted -= archived
		return nil
	}); err != nil {
		log.Printf("[ADMIN] rollover failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to roll over roster"})
	}

	for key := range settings.Tournaments {
		if err := s.Entries.Reset(key); err != nil {
			return storeError(c, err)
		}
	}

	if req.Year != "" {
		settings.Year = utils.NormalizeDigits(req.Year)
	}
	if err := s.Settings.Save(settings); err != nil {
		return storeError(c, err)
	}

	log.Printf("[ADMIN] year rollover complete: %d promoted, %d archived, year=%s", promoted, archived, settings.Year)
	return c.JSON(fiber.Map{
		"promoted": promoted,
		"archived": archived,
		"year":     settings.Year,
	})
}

// CheckDuplicateSeeds handles GET /admin/reports/seed-check: the same
// conflict scan the detail download runs, surfaced on its own so the office
// can chase schools before export day.
func (s *AdminService) CheckDuplicateSeeds(c *fiber.Ctx) error {
	data, err := s.Reports.loadReportData()
	if err != nil {
		return storeError(c, err)
	}
	conflicts := DetectDuplicateSeeds(data.roster, data.book)
	return c.JSON(fiber.Map{"conflicts": conflicts})
}
