// services/school_service.go
package services

import (
	"log"
	"strings"

	"karate-entry-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SchoolService covers the school profile and the advisor list. Advisors
// are ordered by SortOrder; the first one is the head advisor printed on
// the submission form.
type SchoolService struct {
	DB *gorm.DB
}

func NewSchoolService(db *gorm.DB) *SchoolService {
	return &SchoolService{DB: db}
}

func (s *SchoolService) loadSchool(schoolID string) (models.SchoolAccount, error) {
	var school models.SchoolAccount
	err := s.DB.Preload("Advisors", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&school, "id = ?", schoolID).Error
	return school, err
}

// GetProfile handles GET /school.
func (s *SchoolService) GetProfile(c *fiber.Ctx) error {
	schoolID := c.Locals("school_id").(string)
	school, err := s.loadSchool(schoolID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "school not found"})
	}
	return c.JSON(school)
}

type profileRequest struct {
	ShortName string `json:"short_name"`
	Principal string `json:"principal"`
	Password  string `json:"password"`
}

// UpdateProfile handles PUT /school. The school name itself can only be
// changed by the office, it is the join key for entry records.
func (s *SchoolService) UpdateProfile(c *fiber.Ctx) error {
	schoolID := c.Locals("school_id").(string)

	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	var school models.SchoolAccount
	if err := s.DB.First(&school, "id = ?", schoolID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "school not found"})
	}
	school.ShortName = strings.TrimSpace(req.ShortName)
	school.Principal = strings.TrimSpace(req.Principal)
	if req.Password != "" {
		school.Password = req.Password
	}
	if err := s.DB.Save(&school).Error; err != nil {
		log.Printf("[SCHOOL] profile update failed for %s: %v", schoolID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to update profile"})
	}
	return c.JSON(school)
}

type advisorRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
	Day1 bool   `json:"day1"`
	Day2 bool   `json:"day2"`
}

// AddAdvisor handles POST /school/advisors. New advisors go to the end of
// the list.
func (s *SchoolService) AddAdvisor(c *fiber.Ctx) error {
	schoolID := c.Locals("school_id").(string)

	var req advisorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "氏名を入力してください"})
	}

	var count int64
	s.DB.Model(&models.Advisor{}).Where("school_id = ?", schoolID).Count(&count)
	if count >= 4 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "顧問は4名までです"})
	}

	advisor := models.Advisor{
		ID:        uuid.New().String(),
		SchoolID:  schoolID,
		Name:      req.Name,
		Role:      models.DecodeAdvisorRole(req.Role),
		Day1:      req.Day1,
		Day2:      req.Day2,
		SortOrder: int(count),
	}
	if err := s.DB.Create(&advisor).Error; err != nil {
		log.Printf("[SCHOOL] advisor create failed for %s: %v", schoolID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to add advisor"})
	}
	return c.Status(201).JSON(advisor)
}

// UpdateAdvisor handles PUT /school/advisors/:id.
func (s *SchoolService) UpdateAdvisor(c *fiber.Ctx) error {
	schoolID := c.Locals("school_id").(string)

	var advisor models.Advisor
	if err := s.DB.First(&advisor, "id = ? AND school_id = ?", c.Params("id"), schoolID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "advisor not found"})
	}

	var req advisorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "氏名を入力してください"})
	}

	advisor.Name = req.Name
	advisor.Role = models.DecodeAdvisorRole(req.Role)
	advisor.Day1 = req.Day1
	advisor.Day2 = req.Day2
	if err := s.DB.Save(&advisor).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update advisor"})
	}
	return c.JSON(advisor)
}

// RemoveAdvisor handles DELETE /school/advisors/:id and closes the gap in
// the sort order.
func (s *SchoolService) RemoveAdvisor(c *fiber.Ctx) error {
	schoolID := c.Locals("school_id").(string)

	var advisor models.Advisor
	if err := s.DB.First(&advisor, "id = ? AND school_id = ?", c.Params("id"), schoolID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "advisor not found"})
	}
	if err := s.DB.Delete(&advisor).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to remove advisor"})
	}
	if err := s.resequenceAdvisors(schoolID); err != nil {
		log.Printf("[SCHOOL] advisor resequence failed for %s: %v", schoolID, err)
	}
	return c.JSON(fiber.Map{"deleted": advisor.ID})
}

type reorderRequest struct {
	// IDs in the desired order; the first becomes the head advisor.
	IDs []string `json:"ids"`
}

// ReorderAdvisors handles PUT /school/advisors/order.
func (s *SchoolService) ReorderAdvisors(c *fiber.Ctx) error {
	schoolID := c.Locals("school_id").(string)

	var req reorderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	for i, id := range req.IDs {
		res := s.DB.Model(&models.Advisor{}).
			Where("id = ? AND school_id = ?", id, schoolID).
			Update("sort_order", i)
		if res.Error != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to reorder advisors"})
		}
	}
	if err := s.resequenceAdvisors(schoolID); err != nil {
		log.Printf("[SCHOOL] advisor resequence failed for %s: %v", schoolID, err)
	}

	school, err := s.loadSchool(schoolID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "school not found"})
	}
	return c.JSON(school.Advisors)
}

// resequenceAdvisors rewrites SortOrder as 0..n-1 in the current order so
// gaps from deletes or partial reorders never accumulate.
func (s *SchoolService) resequenceAdvisors(schoolID string) error {
	var advisors []models.Advisor
	if err := s.DB.Where("school_id = ?", schoolID).Order("sort_order ASC").Find(&advisors).Error; err != nil {
		return err
	}
	for i := range advisors {
		if advisors[i].SortOrder == i {
			continue
		}
		if err := s.DB.Model(&advisors[i]).Update("sort_order", i).Error; err != nil {
			return err
		}
	}
	return nil
}
