package fees

import (
	"time"

	"github.com/Niranjan-3901/RITDC-Server/app/database"
	"github.com/Niranjan-3901/RITDC-Server/app/models"
	"github.com/gofiber/fiber/v2"
)

// GetFeesAPI returns one page of fee records, optionally filtered by status.
func GetFeesAPI(c *fiber.Ctx, ledger FeeLedger) error {
	page, limit, err := parsePagination(c)
	if err != nil {
		return err
	}

	filter := database.FeeListFilter{}
	if status := c.Query("status"); status != "" {
		filter.Status = models.FeeStatus(status)
		if !filter.Status.Valid() {
			return fail(c, fiber.StatusBadRequest, "Invalid status filter")
		}
	}

	records, total, err := ledger.List(c.Context(), filter, page, limit)
	if err != nil {
		return renderStoreError(c, err, "Fee record not found")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       records,
		"pagination": paginationMap(total, page, limit),
		"message":    "Fee records successfully fetched.",
	})
}

// GetFeeByIDAPI returns a single fee record populated with student fields.
func GetFeeByIDAPI(c *fiber.Ctx, ledger FeeLedger) error {
	id, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	record, err := ledger.GetByID(c.Context(), id)
	if err != nil {
		return renderStoreError(c, err, "Fee record not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    record,
		"message": "Fee record successfully fetched.",
	})
}

// GetStudentFeeRecordsAPI returns every fee record for one student.
func GetStudentFeeRecordsAPI(c *fiber.Ctx, ledger FeeLedger) error {
	studentID, err := requireUUIDParam(c, "studentId")
	if err != nil {
		return err
	}

	records, err := ledger.GetByStudent(c.Context(), studentID)
	if err != nil {
		return renderStoreError(c, err, "Fee record not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    records,
		"message": "Fee records successfully fetched.",
	})
}

// CreateFeeRequest is the body for POST /fees.
type CreateFeeRequest struct {
	StudentID    string      `json:"student_id" validate:"required,uuid"`
	SerialNumber string      `json:"serial_number" validate:"required"`
	FeeAmount    float64     `json:"fee_amount" validate:"gte=0"`
	AcademicYear string      `json:"academic_year" validate:"required"`
	Term         models.Term `json:"term" validate:"required"`
}

// CreateFeeAPI creates a new fee record in status unpaid. The payment
// schedule is computed once from the student's admission date and never
// recomputed.
func CreateFeeAPI(c *fiber.Ctx, ledger FeeLedger, students StudentDirectory) error {
	var req CreateFeeRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	if !req.Term.Valid() {
		return fail(c, fiber.StatusBadRequest, "Invalid term")
	}

	student, err := students.GetByID(c.Context(), req.StudentID)
	if err != nil {
		return renderStoreError(c, err, "Student not found")
	}

	nextPaymentDate, dueDate := models.ComputeSchedule(student.AdmissionDate, time.Now())
	record := &models.FeeRecord{
		StudentID:       student.ID,
		SerialNumber:    req.SerialNumber,
		FeeAmount:       req.FeeAmount,
		Status:          models.FeeUnpaid,
		AdmissionDate:   student.AdmissionDate,
		NextPaymentDate: nextPaymentDate,
		DueDate:         dueDate,
		AcademicYear:    req.AcademicYear,
		Term:            req.Term,
	}

	if err := ledger.Create(c.Context(), record); err != nil {
		return renderStoreError(c, err, "Student not found")
	}

	created, err := ledger.GetByID(c.Context(), record.ID)
	if err != nil {
		return renderStoreError(c, err, "Fee record not found")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    created,
		"message": "Fee record created successfully.",
	})
}

// UpdateFeeRequest is the body for PUT /fees/:id. Absent fields stay
// untouched; a supplied status is applied verbatim as an administrative
// override.
type UpdateFeeRequest struct {
	SerialNumber    *string           `json:"serial_number"`
	FeeAmount       *float64          `json:"fee_amount"`
	Status          *models.FeeStatus `json:"status"`
	AdmissionDate   *string           `json:"admission_date"`
	NextPaymentDate *string           `json:"next_payment_date"`
	DueDate         *string           `json:"due_date"`
	AcademicYear    *string           `json:"academic_year"`
	Term            *models.Term      `json:"term"`
}

// UpdateFeeAPI applies an administrative partial update.
func UpdateFeeAPI(c *fiber.Ctx, ledger FeeLedger) error {
	id, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdateFeeRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	record, err := ledger.Update(c.Context(), id, database.FeeRecordUpdate{
		SerialNumber:    req.SerialNumber,
		FeeAmount:       req.FeeAmount,
		Status:          req.Status,
		AdmissionDate:   req.AdmissionDate,
		NextPaymentDate: req.NextPaymentDate,
		DueDate:         req.DueDate,
		AcademicYear:    req.AcademicYear,
		Term:            req.Term,
	})
	if err != nil {
		return renderStoreError(c, err, "Fee record not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    record,
		"message": "Fee record updated successfully.",
	})
}

// DeleteFeeAPI deletes a fee record unconditionally.
func DeleteFeeAPI(c *fiber.Ctx, ledger FeeLedger) error {
	id, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := ledger.Delete(c.Context(), id); err != nil {
		return renderStoreError(c, err, "Fee record not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Fee record deleted successfully.",
	})
}

// AddPaymentAPI appends a payment to the record's ledger. The persisted
// status is recomputed from the full payment history.
func AddPaymentAPI(c *fiber.Ctx, ledger FeeLedger) error {
	id, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var payment models.Payment
	if err := c.BodyParser(&payment); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.StructPartial(&payment, "Date", "Amount", "Method"); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	record, err := ledger.AddPayment(c.Context(), id, payment)
	if err != nil {
		return renderStoreError(c, err, "Fee record not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    record,
		"message": "Payment Added Successfully.",
	})
}

// AddNoteAPI appends a note to the record's audit trail.
func AddNoteAPI(c *fiber.Ctx, ledger FeeLedger) error {
	id, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var note models.FeeNote
	if err := c.BodyParser(&note); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.StructPartial(&note, "Date", "Text"); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	record, err := ledger.AddNote(c.Context(), id, note)
	if err != nil {
		return renderStoreError(c, err, "Fee record not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    record,
		"message": "Note Added Successfully.",
	})
}

// GetFeesByStatusAPI returns one page of records in the given status.
func GetFeesByStatusAPI(c *fiber.Ctx, ledger FeeLedger) error {
	status := models.FeeStatus(c.Params("status"))
	if !status.Valid() {
		return fail(c, fiber.StatusBadRequest, "Invalid status filter")
	}

	page, limit, err := parsePagination(c)
	if err != nil {
		return err
	}

	records, total, err := ledger.List(c.Context(), database.FeeListFilter{Status: status}, page, limit)
	if err != nil {
		return renderStoreError(c, err, "Fee record not found")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       records,
		"pagination": paginationMap(total, page, limit),
		"message":    "Fee records successfully fetched.",
	})
}

// GetFeeStatsAPI returns ledger-wide totals and status counts.
func GetFeeStatsAPI(c *fiber.Ctx, ledger FeeLedger) error {
	stats, err := ledger.Stats(c.Context())
	if err != nil {
		return renderStoreError(c, err, "Fee record not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
		"message": "Fee statistics successfully fetched.",
	})
}
