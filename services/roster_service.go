// services/roster_service.go
package services

import (
	"log"
	"strings"

	"karate-entry-system/models"
	"karate-entry-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RosterService manages a school's athlete list. Every operation is scoped
// to the school in the session token; athlete IDs from other schools 404.
type RosterService struct {
	DB *gorm.DB
}

func NewRosterService(db *gorm.DB) *RosterService {
	return &RosterService{DB: db}
}

// ListAthletes handles GET /roster. Archived athletes (graduated via year
// rollover) are excluded unless ?archived=true.
func (s *RosterService) ListAthletes(c *fiber.Ctx) error {
	schoolID := c.Locals("school_id").(string)

	q := s.DB.Where("school_id = ?", schoolID)
	if c.Query("archived") != "true" {
		q = q.Where("archived = ?", false)
	}

	var roster []models.Athlete
	if err := q.Order("sex ASC, grade DESC, name ASC").Find(&roster).Error; err != nil {
		log.Printf("[ROSTER] list failed for %s: %v", schoolID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to load roster"})
	}
	return c.JSON(roster)
}

type athleteRequest struct {
	Name        string `json:"name"`
	Sex         string `json:"sex"`
	Grade       int    `json:"grade"`
	DateOfBirth string `json:"date_of_birth"`
	JKFNo       string `json:"jkf_no"`
	Active      *bool  `json:"active"`
}

// CreateAthlete handles POST /roster.
func (s *RosterService) CreateAthlete(c *fiber.Ctx) error {
	schoolID := c.Locals("school_id").(string)

	var req athleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "氏名を入力してください"})
	}
	if req.Grade < 1 || req.Grade > 3 {
		return c.Status(400).JSON(fiber.Map{"error": "学年は1〜3で入力してください"})
	}

	var dup models.Athlete
	if err := s.DB.First(&dup, "school_id = ? AND name = ? AND archived = ?", schoolID, req.Name, false).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "同名の選手が既に登録されています"})
	}

	athlete := models.Athlete{
		ID:          uuid.New().String(),
		SchoolID:    schoolID,
		Name:        req.Name,
		Sex:         models.DecodeSex(req.Sex),
		Grade:       req.Grade,
		DateOfBirth: strings.TrimSpace(req.DateOfBirth),
		ExternalID:  utils.NormalizeDigits(req.JKFNo),
		Active:      true,
	}
	if req.Active != nil {
		athlete.Active = *req.Active
	}
	if err := s.DB.Create(&athlete).Error; err != nil {
		log.Printf("[ROSTER] create failed for %s: %v", schoolID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create athlete"})
	}
	return c.Status(201).JSON(athlete)
}

// UpdateAthlete handles PUT /roster/:id. The whole row is replaced with the
// submitted fields, same overwrite semantics as the entry form.
func (s *RosterService) UpdateAthlete(c *fiber.Ctx) error {
	schoolID := c.Locals("school_id").(string)

	var athlete models.Athlete
	if err := s.DB.First(&athlete, "id = ? AND school_id = ?", c.Params("id"), schoolID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "athlete not found"})
	}

	var req athleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "氏名を入力してください"})
	}
	if req.Grade < 1 || req.Grade > 3 {
		return c.Status(400).JSON(fiber.Map{"error": "学年は1〜3で入力してください"})
	}

	athlete.Name = req.Name
	athlete.Sex = models.DecodeSex(req.Sex)
	athlete.Grade = req.Grade
	athlete.DateOfBirth = strings.TrimSpace(req.DateOfBirth)
	athlete.ExternalID = utils.NormalizeDigits(req.JKFNo)
	if req.Active != nil {
		athlete.Active = *req.Active
	}
	if err := s.DB.Save(&athlete).Error; err != nil {
		log.Printf("[ROSTER] update failed for %s: %v", athlete.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to update athlete"})
	}
	return c.JSON(athlete)
}

// SetActive handles PATCH /roster/:id/active. Inactive athletes stay on the
// roster but drop off the entry screen.
func (s *RosterService) SetActive(c *fiber.Ctx) error {
	schoolID := c.Locals("school_id").(string)

	var req struct {
		Active bool `json:"active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	var athlete models.Athlete
	if err := s.DB.First(&athlete, "id = ? AND school_id = ?", c.Params("id"), schoolID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "athlete not found"})
	}
	athlete.Active = req.Active
	if err := s.DB.Save(&athlete).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update athlete"})
	}
	return c.JSON(athlete)
}

// DeleteAthlete handles DELETE /roster/:id. A hard delete: the row goes,
// and any stale entry record keyed to the old name simply stops matching
// the roster and drops out of every report.
func (s *RosterService) DeleteAthlete(c *fiber.Ctx) error {
	schoolID := c.Locals("school_id").(string)

	var athlete models.Athlete
	if err := s.DB.First(&athlete, "id = ? AND school_id = ?", c.Params("id"), schoolID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "athlete not found"})
	}
	if err := s.DB.Delete(&athlete).Error; err != nil {
		log.Printf("[ROSTER] delete failed for %s: %v", athlete.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete athlete"})
	}
	log.Printf("[ROSTER] %s deleted athlete %s (%s)", schoolID, athlete.Name, athlete.ID)
	return c.JSON(fiber.Map{"deleted": athlete.ID})
}
