package fees

import (
	"github.com/Niranjan-3901/RITDC-Server/app/config"
	"github.com/Niranjan-3901/RITDC-Server/app/routes/auth"
	"github.com/gofiber/fiber/v2"
)

// SetupFeesRoutes registers the fee ledger endpoints. Static paths are
// registered before the parameterised ones so /fees/import never matches
// /fees/:id.
func SetupFeesRoutes(app *fiber.App, ledger FeeLedger, students StudentDirectory, cfg config.Config) {
	feesGroup := app.Group("/fees")
	feesGroup.Use(auth.Middleware(cfg.JWTSecret))

	feesGroup.Get("/stats", func(c *fiber.Ctx) error {
		return GetFeeStatsAPI(c, ledger)
	})

	feesGroup.Post("/import", func(c *fiber.Ctx) error {
		return ImportFeesAPI(c, ledger, students, cfg)
	})

	feesGroup.Post("/import/file", func(c *fiber.Ctx) error {
		return ImportFeesFromFileAPI(c, ledger, students, cfg)
	})

	feesGroup.Get("/filter/:status", func(c *fiber.Ctx) error {
		return GetFeesByStatusAPI(c, ledger)
	})

	feesGroup.Get("/student/:studentId", func(c *fiber.Ctx) error {
		return GetStudentFeeRecordsAPI(c, ledger)
	})

	feesGroup.Get("/report/class/:classId/:academicYear", func(c *fiber.Ctx) error {
		return GetClassFeeReportAPI(c, ledger, students)
	})

	feesGroup.Get("/", func(c *fiber.Ctx) error {
		return GetFeesAPI(c, ledger)
	})

	feesGroup.Post("/", func(c *fiber.Ctx) error {
		return CreateFeeAPI(c, ledger, students)
	})

	feesGroup.Get("/:id", func(c *fiber.Ctx) error {
		return GetFeeByIDAPI(c, ledger)
	})

	feesGroup.Put("/:id", func(c *fiber.Ctx) error {
		return UpdateFeeAPI(c, ledger)
	})

	feesGroup.Delete("/:id", func(c *fiber.Ctx) error {
		return DeleteFeeAPI(c, ledger)
	})

	feesGroup.Post("/:id/payments", func(c *fiber.Ctx) error {
		return AddPaymentAPI(c, ledger)
	})

	feesGroup.Post("/:id/notes", func(c *fiber.Ctx) error {
		return AddNoteAPI(c, ledger)
	})
}
