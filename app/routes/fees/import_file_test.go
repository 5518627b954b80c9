package fees

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSVRows(t *testing.T) {
	csvData := "admissionNumber,firstName,lastName,feeAmount,status,term,academicYear\n" +
		"ADM001,Asha,Verma,1000,unpaid,Term 1,2026\n" +
		"ADM002,Ravi,Kumar,1500.50,,," + "\n"

	rows, err := parseCSVRows(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "ADM001", rows[0].AdmissionNumber)
	assert.Equal(t, "Asha", rows[0].FirstName)
	assert.Equal(t, 1000.0, rows[0].FeeAmount)
	assert.Equal(t, "unpaid", rows[0].Status)
	assert.Equal(t, "Term 1", rows[0].Term)

	assert.Equal(t, 1500.50, rows[1].FeeAmount)
	assert.Empty(t, rows[1].Status)
}

func TestParseCSVRowsBadAmountFailsParse(t *testing.T) {
	csvData := "admissionNumber,feeAmount\nADM001,not-a-number\n"

	_, err := parseCSVRows(strings.NewReader(csvData))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid feeAmount")
}

func TestParseCSVRowsRaggedRecords(t *testing.T) {
	// Short rows leave trailing columns empty instead of failing.
	csvData := "admissionNumber,firstName,feeAmount\nADM001\n"

	rows, err := parseCSVRows(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ADM001", rows[0].AdmissionNumber)
	assert.Empty(t, rows[0].FirstName)
	assert.Equal(t, 0.0, rows[0].FeeAmount)
}

func TestParseFeeRowsFilePicksParserByExtension(t *testing.T) {
	// A CSV payload under an .xlsx name must fail as xlsx, not silently parse.
	_, err := parseFeeRowsFile("fees.xlsx", strings.NewReader("admissionNumber\nADM001\n"))
	require.Error(t, err)

	rows, err := parseFeeRowsFile("fees.csv", strings.NewReader("admissionNumber\nADM001\n"))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
