package fees

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Niranjan-3901/RITDC-Server/app/config"
	"github.com/Niranjan-3901/RITDC-Server/app/database"
	"github.com/Niranjan-3901/RITDC-Server/app/models"
)

// ExternalFeeRow is one row of an external fee feed. Field names follow the
// feed's own convention rather than the API's.
type ExternalFeeRow struct {
	AdmissionNumber string `json:"admissionNumber"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	DateOfBirth     string `json:"dateOfBirth"`
	Class           string `json:"class"`
	Section         string `json:"section"`
	AdmissionDate   string `json:"admissionDate"`
	ContactNumber   string `json:"contactNumber"`
	Email           string `json:"email"`
	Address         string `json:"address"`
	ParentName      string `json:"parentName"`
	ParentContact   string `json:"parentContact"`

	SerialNumber    string           `json:"serialNumber"`
	FeeAmount       float64          `json:"feeAmount"`
	Status          string           `json:"status"`
	NextPaymentDate string           `json:"nextPaymentDate"`
	DueDate         string           `json:"dueDate"`
	Payments        []models.Payment `json:"payments"`
	Notes           []models.FeeNote `json:"notes"`
	AcademicYear    string           `json:"academicYear"`
	Term            string           `json:"term"`
}

// ImportRowError identifies one failed row of a batch.
type ImportRowError struct {
	Index           int    `json:"index"`
	AdmissionNumber string `json:"admissionNumber,omitempty"`
	Error           string `json:"error"`
}

// ImportResult is the outcome of a whole batch. Errors are always complete;
// the response layer paginates only the successes.
type ImportResult struct {
	SuccessCount int
	ErrorCount   int
	Errors       []ImportRowError
	Imported     []*models.FeeRecord
}

// RunImport reconciles a batch of external fee rows. Rows are processed
// sequentially in input order and each row fails independently: a bad row is
// recorded and the batch moves on.
func RunImport(ctx context.Context, students StudentDirectory, ledger FeeLedger, cfg config.Config, rows []ExternalFeeRow) ImportResult {
	result := ImportResult{
		Errors:   []ImportRowError{},
		Imported: []*models.FeeRecord{},
	}
	batchStamp := time.Now().UnixMilli()

	for i, row := range rows {
		record, err := importRow(ctx, students, ledger, cfg, row, i, batchStamp)
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{
				Index:           i,
				AdmissionNumber: row.AdmissionNumber,
				Error:           err.Error(),
			})
			continue
		}
		result.Imported = append(result.Imported, record)
	}

	result.SuccessCount = len(result.Imported)
	result.ErrorCount = len(result.Errors)
	return result
}

func importRow(ctx context.Context, students StudentDirectory, ledger FeeLedger, cfg config.Config, row ExternalFeeRow, index int, batchStamp int64) (*models.FeeRecord, error) {
	if row.AdmissionNumber == "" {
		return nil, fmt.Errorf("missing admissionNumber")
	}
	if row.FeeAmount < 0 {
		return nil, fmt.Errorf("feeAmount must not be negative")
	}

	status := models.FeeUnpaid
	if row.Status != "" {
		status = models.FeeStatus(row.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("invalid status %q", row.Status)
		}
	}

	term := models.TermAnnual
	if row.Term != "" {
		term = models.Term(row.Term)
		if !term.Valid() {
			return nil, fmt.Errorf("invalid term %q", row.Term)
		}
	}

	// Validate ledger entries before any write so a bad sub-entry fails the
	// row without leaving a half-imported record behind.
	for _, p := range row.Payments {
		if p.Date == "" || p.Method == "" || p.Amount <= 0 {
			return nil, fmt.Errorf("invalid payment entry (date, positive amount and method required)")
		}
	}
	for _, n := range row.Notes {
		if n.Date == "" || n.Text == "" {
			return nil, fmt.Errorf("invalid note entry (date and text required)")
		}
	}

	student, err := students.ResolveOrCreate(ctx, row.AdmissionNumber, placeholderDefaults(row, cfg))
	if err != nil {
		return nil, fmt.Errorf("resolve student: %w", err)
	}

	serialNumber := row.SerialNumber
	if serialNumber == "" {
		serialNumber = fmt.Sprintf("SN%d-%d", batchStamp, index)
	}

	admissionDate := row.AdmissionDate
	if admissionDate == "" {
		admissionDate = student.AdmissionDate
	}
	nextPaymentDate, dueDate := row.NextPaymentDate, row.DueDate
	if nextPaymentDate == "" || dueDate == "" {
		computedNext, computedDue := models.ComputeSchedule(admissionDate, time.Now())
		if nextPaymentDate == "" {
			nextPaymentDate = computedNext
		}
		if dueDate == "" {
			dueDate = computedDue
		}
	}

	academicYear := row.AcademicYear
	if academicYear == "" {
		academicYear = strconv.Itoa(time.Now().Year())
	}

	record := &models.FeeRecord{
		StudentID:       student.ID,
		SerialNumber:    serialNumber,
		FeeAmount:       row.FeeAmount,
		Status:          status,
		AdmissionDate:   admissionDate,
		NextPaymentDate: nextPaymentDate,
		DueDate:         dueDate,
		AcademicYear:    academicYear,
		Term:            term,
	}
	if err := ledger.Create(ctx, record); err != nil {
		return nil, err
	}

	final := record
	for _, p := range row.Payments {
		final, err = ledger.AddPayment(ctx, record.ID, p)
		if err != nil {
			return nil, fmt.Errorf("append payment: %w", err)
		}
	}
	for _, n := range row.Notes {
		final, err = ledger.AddNote(ctx, record.ID, n)
		if err != nil {
			return nil, fmt.Errorf("append note: %w", err)
		}
	}

	// Appending payments re-derives the status, so an explicit status from
	// the feed is reasserted afterwards as an administrative override.
	if row.Status != "" && len(row.Payments) > 0 && final.Status != status {
		final, err = ledger.Update(ctx, record.ID, feeStatusUpdate(status))
		if err != nil {
			return nil, fmt.Errorf("reassert status: %w", err)
		}
	}

	final.Student = student
	return final, nil
}

// placeholderDefaults fills every required student field the row leaves
// blank, so reconciliation can always create a minimally valid student.
func placeholderDefaults(row ExternalFeeRow, cfg config.Config) models.StudentDefaults {
	today := time.Now().Format(models.DateOnly)
	return models.StudentDefaults{
		FirstName:     orDefault(row.FirstName, "N/A"),
		LastName:      orDefault(row.LastName, "N/A"),
		DateOfBirth:   orDefault(row.DateOfBirth, today),
		ClassID:       orDefault(row.Class, cfg.FallbackClassID),
		SectionID:     orDefault(row.Section, cfg.FallbackSectionID),
		AdmissionDate: orDefault(row.AdmissionDate, today),
		ContactNumber: orDefault(row.ContactNumber, "N/A"),
		Email:         orDefault(row.Email, "N/A"),
		Address:       orDefault(row.Address, "N/A"),
		ParentName:    orDefault(row.ParentName, "N/A"),
		ParentContact: orDefault(row.ParentContact, "N/A"),
		Notes:         "N/A",
	}
}

func feeStatusUpdate(status models.FeeStatus) database.FeeRecordUpdate {
	return database.FeeRecordUpdate{Status: &status}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
