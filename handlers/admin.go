// handlers/admin.go
package handlers

import (
	"karate-entry-system/middleware"
	"karate-entry-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes wires the federation office console behind the admin gate.
func SetupAdminRoutes(app *fiber.App, admin *services.AdminService, reports *services.ReportService) {
	g := app.Group("/admin", middleware.SchoolContext(), middleware.AdminOnly())

	g.Get("/settings", admin.GetSettings)
	g.Put("/settings", admin.UpdateSettings)
	g.Put("/tournaments/:key", admin.UpsertTournament)
	g.Post("/tournaments/:key/activate", admin.ActivateTournament)

	g.Get("/schools", admin.ListSchools)
	g.Put("/schools/:id/number", admin.AssignSchoolNumber)
	g.Put("/schools/:id/name", admin.RenameSchool)
	g.Delete("/schools/:id", admin.DeleteSchool)

	g.Post("/rollover", admin.YearRollover)

	g.Get("/reports/seed-check", admin.CheckDuplicateSeeds)
	g.Get("/reports/entry-details", reports.DownloadEntryDetails)
	g.Get("/reports/school-summary", reports.DownloadSchoolSummary)
	g.Get("/reports/advisors", reports.DownloadAdvisorList)
	g.Get("/reports/raw", reports.DownloadRawCSV)
}
