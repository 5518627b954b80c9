package fees

import (
	"github.com/Niranjan-3901/RITDC-Server/app/models"
	"github.com/gofiber/fiber/v2"
)

// ClassFeeReport aggregates the fee records of one class for one academic
// year. It is recomputed on every call; nothing is cached.
type ClassFeeReport struct {
	TotalStudents        int                      `json:"totalStudents"`
	TotalDue             float64                  `json:"totalDue"`
	TotalCollected       float64                  `json:"totalCollected"`
	PendingAmount        float64                  `json:"pendingAmount"`
	CollectionPercentage float64                  `json:"collectionPercentage"`
	StatusCounts         map[models.FeeStatus]int `json:"statusCounts"`
	FeeRecords           []*models.FeeRecord      `json:"feeRecords"`
}

// ComputeClassFeeReport derives the report figures from an already-fetched
// record set. Every record lands in exactly one status bucket. A class with
// nothing due reports a collection percentage of zero, not NaN.
func ComputeClassFeeReport(records []*models.FeeRecord, totalStudents int) *ClassFeeReport {
	report := &ClassFeeReport{
		TotalStudents: totalStudents,
		StatusCounts:  make(map[models.FeeStatus]int, len(models.FeeStatuses)),
		FeeRecords:    records,
	}
	for _, status := range models.FeeStatuses {
		report.StatusCounts[status] = 0
	}

	for _, rec := range records {
		report.TotalDue += rec.FeeAmount
		report.TotalCollected += rec.TotalPaid()
		report.StatusCounts[rec.Status]++
	}

	report.PendingAmount = report.TotalDue - report.TotalCollected
	if report.TotalDue > 0 {
		report.CollectionPercentage = report.TotalCollected / report.TotalDue * 100
	}
	return report
}

// GetClassFeeReportAPI resolves the students of a class and aggregates their
// fee records for the requested academic year.
func GetClassFeeReportAPI(c *fiber.Ctx, ledger FeeLedger, students StudentDirectory) error {
	classID, err := requireUUIDParam(c, "classId")
	if err != nil {
		return err
	}
	academicYear := c.Params("academicYear")
	if academicYear == "" {
		return fail(c, fiber.StatusBadRequest, "Invalid academicYear parameter")
	}

	classStudents, err := students.GetByClass(c.Context(), classID)
	if err != nil {
		return renderStoreError(c, err, "Class not found")
	}

	studentIDs := make([]string, len(classStudents))
	for i, st := range classStudents {
		studentIDs[i] = st.ID
	}

	records, err := ledger.ListByStudentsAndYear(c.Context(), studentIDs, academicYear)
	if err != nil {
		return renderStoreError(c, err, "Fee record not found")
	}

	report := ComputeClassFeeReport(records, len(classStudents))
	return c.JSON(fiber.Map{
		"success": true,
		"data":    report,
		"message": "Fee Report fetched Successfully.",
	})
}
