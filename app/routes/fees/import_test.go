package fees

import (
	"context"
	"testing"

	"github.com/Niranjan-3901/RITDC-Server/app/config"
	"github.com/Niranjan-3901/RITDC-Server/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importConfig() config.Config {
	return config.Config{
		FallbackClassID:   "class-fallback",
		FallbackSectionID: "section-fallback",
	}
}

func TestRunImportCreatesStudentsAndRecords(t *testing.T) {
	ledger := newMockLedger()
	directory := newMockDirectory()

	rows := []ExternalFeeRow{
		{
			AdmissionNumber: "ADM001",
			FirstName:       "Asha",
			LastName:        "Verma",
			SerialNumber:    "SN-1001",
			FeeAmount:       1000,
			AcademicYear:    "2026",
			Term:            "Term 1",
			DueDate:         "2099-01-01",
		},
		{
			AdmissionNumber: "ADM002",
			SerialNumber:    "SN-1002",
			FeeAmount:       1500,
			AcademicYear:    "2026",
		},
	}

	result := RunImport(context.Background(), directory, ledger, importConfig(), rows)

	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 0, result.ErrorCount)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Imported, 2)
	assert.Equal(t, 2, directory.created)

	first := result.Imported[0]
	assert.Equal(t, "SN-1001", first.SerialNumber)
	assert.Equal(t, models.FeeUnpaid, first.Status)
	assert.Equal(t, models.Term("Term 1"), first.Term)
	require.NotNil(t, first.Student)
	assert.Equal(t, "ADM001", first.Student.AdmissionNumber)
	assert.Equal(t, "Asha", first.Student.FirstName)

	// Blank fields fall back to placeholders and computed values.
	second := result.Imported[1]
	assert.Equal(t, models.TermAnnual, second.Term)
	assert.NotEmpty(t, second.NextPaymentDate)
	assert.NotEmpty(t, second.DueDate)
	require.NotNil(t, second.Student)
	assert.Equal(t, "N/A", second.Student.FirstName)
	assert.Equal(t, "class-fallback", second.Student.ClassID)
}

func TestRunImportRowFailureIsIsolated(t *testing.T) {
	ledger := newMockLedger()
	directory := newMockDirectory()

	rows := []ExternalFeeRow{
		{AdmissionNumber: "ADM001", SerialNumber: "SN-1", FeeAmount: 100},
		{AdmissionNumber: "", SerialNumber: "SN-2", FeeAmount: 100},
		{AdmissionNumber: "ADM003", SerialNumber: "SN-3", FeeAmount: -5},
		{AdmissionNumber: "ADM004", SerialNumber: "SN-4", FeeAmount: 100, Status: "settled"},
		{AdmissionNumber: "ADM005", SerialNumber: "SN-5", FeeAmount: 100},
	}

	result := RunImport(context.Background(), directory, ledger, importConfig(), rows)

	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 3, result.ErrorCount)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Equal(t, 2, result.Errors[1].Index)
	assert.Equal(t, "ADM003", result.Errors[1].AdmissionNumber)
	assert.Equal(t, 3, result.Errors[2].Index)
	assert.Contains(t, result.Errors[2].Error, "invalid status")

	// Failed rows create no students beyond the resolve step.
	assert.Len(t, ledger.records, 2)
}

func TestRunImportDuplicateSerialConflicts(t *testing.T) {
	ledger := newMockLedger()
	directory := newMockDirectory()

	rows := []ExternalFeeRow{
		{AdmissionNumber: "ADM001", SerialNumber: "SN-DUP", FeeAmount: 100},
	}

	first := RunImport(context.Background(), directory, ledger, importConfig(), rows)
	assert.Equal(t, 1, first.SuccessCount)

	// Re-running the same batch resolves the same student but conflicts on
	// the serial number.
	second := RunImport(context.Background(), directory, ledger, importConfig(), rows)
	assert.Equal(t, 0, second.SuccessCount)
	assert.Equal(t, 1, second.ErrorCount)
	assert.Equal(t, 1, directory.created)
}

func TestRunImportRepeatedAdmissionNumberSharesStudent(t *testing.T) {
	ledger := newMockLedger()
	directory := newMockDirectory()

	rows := []ExternalFeeRow{
		{AdmissionNumber: "ADM001", SerialNumber: "SN-A", FeeAmount: 100, AcademicYear: "2025"},
		{AdmissionNumber: "ADM001", SerialNumber: "SN-B", FeeAmount: 200, AcademicYear: "2026"},
	}

	result := RunImport(context.Background(), directory, ledger, importConfig(), rows)

	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, directory.created)
	require.Len(t, result.Imported, 2)
	assert.Equal(t, result.Imported[0].StudentID, result.Imported[1].StudentID)
}

func TestRunImportGeneratesSerialFallback(t *testing.T) {
	ledger := newMockLedger()
	directory := newMockDirectory()

	rows := []ExternalFeeRow{
		{AdmissionNumber: "ADM001", FeeAmount: 100},
		{AdmissionNumber: "ADM002", FeeAmount: 100},
	}

	result := RunImport(context.Background(), directory, ledger, importConfig(), rows)

	require.Equal(t, 2, result.SuccessCount)
	assert.Regexp(t, `^SN\d+-0$`, result.Imported[0].SerialNumber)
	assert.Regexp(t, `^SN\d+-1$`, result.Imported[1].SerialNumber)
	assert.NotEqual(t, result.Imported[0].SerialNumber, result.Imported[1].SerialNumber)
}

func TestRunImportAppendsPaymentsAndNotes(t *testing.T) {
	ledger := newMockLedger()
	directory := newMockDirectory()

	rows := []ExternalFeeRow{
		{
			AdmissionNumber: "ADM001",
			SerialNumber:    "SN-PAY",
			FeeAmount:       1000,
			DueDate:         "2099-01-01",
			Payments: []models.Payment{
				{Date: "2026-02-01", Amount: 400, Method: "cash"},
			},
			Notes: []models.FeeNote{
				{Date: "2026-02-01", Text: "first installment"},
			},
		},
	}

	result := RunImport(context.Background(), directory, ledger, importConfig(), rows)

	require.Equal(t, 1, result.SuccessCount)
	rec := result.Imported[0]
	require.Len(t, rec.Payments, 1)
	require.Len(t, rec.Notes, 1)
	assert.Equal(t, models.FeePartial, rec.Status)
	assert.Equal(t, 400.0, rec.TotalPaid())
}

func TestRunImportReassertsExplicitStatus(t *testing.T) {
	ledger := newMockLedger()
	directory := newMockDirectory()

	// The feed says paid even though the ledger only covers part of the
	// amount; the explicit status wins as an administrative override.
	rows := []ExternalFeeRow{
		{
			AdmissionNumber: "ADM001",
			SerialNumber:    "SN-OVR",
			FeeAmount:       1000,
			Status:          "paid",
			DueDate:         "2099-01-01",
			Payments: []models.Payment{
				{Date: "2026-02-01", Amount: 100, Method: "cash"},
			},
		},
	}

	result := RunImport(context.Background(), directory, ledger, importConfig(), rows)

	require.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, models.FeePaid, result.Imported[0].Status)
}

func TestRunImportInvalidSubEntryFailsRowBeforeWrite(t *testing.T) {
	ledger := newMockLedger()
	directory := newMockDirectory()

	rows := []ExternalFeeRow{
		{
			AdmissionNumber: "ADM001",
			SerialNumber:    "SN-BAD",
			FeeAmount:       1000,
			Payments:        []models.Payment{{Date: "2026-02-01", Amount: 0, Method: "cash"}},
		},
	}

	result := RunImport(context.Background(), directory, ledger, importConfig(), rows)

	assert.Equal(t, 0, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Len(t, ledger.records, 0)
	assert.Equal(t, 0, directory.created)
}

func TestRunImportResolveFailureRecordsRowError(t *testing.T) {
	ledger := newMockLedger()
	directory := newMockDirectory()
	directory.failResolve = true

	rows := []ExternalFeeRow{
		{AdmissionNumber: "ADM001", SerialNumber: "SN-1", FeeAmount: 100},
	}

	result := RunImport(context.Background(), directory, ledger, importConfig(), rows)

	assert.Equal(t, 0, result.SuccessCount)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error, "resolve student")
}

func TestRunImportEmptyBatch(t *testing.T) {
	result := RunImport(context.Background(), newMockDirectory(), newMockLedger(), importConfig(), nil)
	assert.Equal(t, 0, result.SuccessCount)
	assert.Equal(t, 0, result.ErrorCount)
	assert.NotNil(t, result.Errors)
	assert.NotNil(t, result.Imported)
}
