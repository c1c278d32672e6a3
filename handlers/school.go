// handlers/school.go
package handlers

import (
	"karate-entry-system/middleware"
	"karate-entry-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupSchoolRoutes wires the public auth endpoints and every school-facing
// route: profile, advisors, roster and the entry workflow.
func SetupSchoolRoutes(
	app *fiber.App,
	auth *services.AuthService,
	school *services.SchoolService,
	roster *services.RosterService,
	entry *services.EntryService,
) {
	app.Post("/auth/register", auth.Register)
	app.Post("/auth/login", auth.Login)
	app.Post("/auth/admin", auth.AdminLogin)

	secured := app.Group("/", middleware.SchoolContext())

	secured.Get("/school", school.GetProfile)
	secured.Put("/school", school.UpdateProfile)
	secured.Post("/school/advisors", school.AddAdvisor)
	secured.Put("/school/advisors/order", school.ReorderAdvisors)
	secured.Put("/school/advisors/:id", school.UpdateAdvisor)
	secured.Delete("/school/advisors/:id", school.RemoveAdvisor)

	secured.Get("/roster", roster.ListAthletes)
	secured.Post("/roster", roster.CreateAthlete)
	secured.Put("/roster/:id", roster.UpdateAthlete)
	secured.Patch("/roster/:id/active", roster.SetActive)
	secured.Delete("/roster/:id", roster.DeleteAthlete)

	secured.Get("/entries", entry.GetEntryScreen)
	secured.Post("/entries", entry.SubmitEntries)
	secured.Get("/entries/form", entry.DownloadForm)
}
