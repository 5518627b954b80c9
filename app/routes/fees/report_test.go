package fees

import (
	"testing"

	"github.com/Niranjan-3901/RITDC-Server/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeClassFeeReport(t *testing.T) {
	records := []*models.FeeRecord{
		{
			FeeAmount: 1000,
			Status:    models.FeePartial,
			Payments:  []models.Payment{{Amount: 400}},
		},
		{
			FeeAmount: 1000,
			Status:    models.FeeOverdue,
			Payments:  []models.Payment{},
		},
	}

	report := ComputeClassFeeReport(records, 2)

	assert.Equal(t, 2, report.TotalStudents)
	assert.Equal(t, 2000.0, report.TotalDue)
	assert.Equal(t, 400.0, report.TotalCollected)
	assert.Equal(t, 1600.0, report.PendingAmount)
	assert.Equal(t, 20.0, report.CollectionPercentage)
	assert.Equal(t, 0, report.StatusCounts[models.FeePaid])
	assert.Equal(t, 1, report.StatusCounts[models.FeePartial])
	assert.Equal(t, 0, report.StatusCounts[models.FeeUnpaid])
	assert.Equal(t, 1, report.StatusCounts[models.FeeOverdue])
	assert.Len(t, report.FeeRecords, 2)
}

func TestComputeClassFeeReportEmpty(t *testing.T) {
	report := ComputeClassFeeReport(nil, 0)

	assert.Equal(t, 0, report.TotalStudents)
	assert.Equal(t, 0.0, report.TotalDue)
	assert.Equal(t, 0.0, report.TotalCollected)
	assert.Equal(t, 0.0, report.PendingAmount)
	assert.Equal(t, 0.0, report.CollectionPercentage)

	// Every bucket is present even with no records.
	require.Len(t, report.StatusCounts, 4)
	for _, status := range models.FeeStatuses {
		assert.Equal(t, 0, report.StatusCounts[status])
	}
}

func TestComputeClassFeeReportZeroDueGuard(t *testing.T) {
	records := []*models.FeeRecord{
		{FeeAmount: 0, Status: models.FeePaid},
	}

	report := ComputeClassFeeReport(records, 1)
	assert.Equal(t, 0.0, report.CollectionPercentage)
}

func TestComputeClassFeeReportFullyCollected(t *testing.T) {
	records := []*models.FeeRecord{
		{
			FeeAmount: 500,
			Status:    models.FeePaid,
			Payments:  []models.Payment{{Amount: 500}},
		},
	}

	report := ComputeClassFeeReport(records, 1)
	assert.Equal(t, 100.0, report.CollectionPercentage)
	assert.Equal(t, 0.0, report.PendingAmount)
}
