package fees

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Niranjan-3901/RITDC-Server/app/config"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// importPageSize fixes the success page returned by an import response.
// Errors are never truncated.
const importPageSize = 10

// ImportFeesAPI bulk-imports a JSON array of external fee rows. Partial
// failure is a first-class result: the response always succeeds and carries
// the per-row error list.
func ImportFeesAPI(c *fiber.Ctx, ledger FeeLedger, students StudentDirectory, cfg config.Config) error {
	var rows []ExternalFeeRow
	if err := c.BodyParser(&rows); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid data format, expected an array")
	}

	result := RunImport(c.Context(), students, ledger, cfg, rows)
	return renderImportResult(c, result)
}

// ImportFeesFromFileAPI bulk-imports rows from an uploaded XLSX or CSV file
// and feeds them through the same pipeline as the JSON endpoint.
func ImportFeesFromFileAPI(c *fiber.Ctx, ledger FeeLedger, students StudentDirectory, cfg config.Config) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Missing file upload")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Cannot open uploaded file")
	}
	defer f.Close()

	rows, err := parseFeeRowsFile(fileHeader.Filename, f)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	result := RunImport(c.Context(), students, ledger, cfg, rows)
	return renderImportResult(c, result)
}

func renderImportResult(c *fiber.Ctx, result ImportResult) error {
	page := result.Imported
	if len(page) > importPageSize {
		page = page[:importPageSize]
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("%d fee records imported successfully", result.SuccessCount),
		"data": fiber.Map{
			"successCount": result.SuccessCount,
			"errorCount":   result.ErrorCount,
			"errors":       result.Errors,
			"feeRecords":   page,
		},
		"pagination": paginationMap(result.SuccessCount, 1, importPageSize),
	})
}

// parseFeeRowsFile reads a header-labelled spreadsheet into external fee
// rows. XLSX files are read from their first sheet; anything else is treated
// as CSV.
func parseFeeRowsFile(filename string, r io.Reader) ([]ExternalFeeRow, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return parseXLSXRows(r)
	}
	return parseCSVRows(r)
}

func parseXLSXRows(r io.Reader) ([]ExternalFeeRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read xlsx file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}

	iter, err := f.Rows(sheets[0])
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var header []string
	var rows []ExternalFeeRow
	for iter.Next() {
		cells, err := iter.Columns()
		if err != nil {
			return nil, err
		}
		if header == nil {
			header = cells
			continue
		}
		row, err := rowFromCells(header, cells)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, row)
	}
	return rows, iter.Error()
}

func parseCSVRows(r io.Reader) ([]ExternalFeeRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read csv header: %w", err)
	}

	var rows []ExternalFeeRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row, err := rowFromCells(header, record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// rowFromCells maps one header-labelled record onto an external fee row.
// Flat files cannot carry payment or note ledgers; those import empty.
func rowFromCells(header, cells []string) (ExternalFeeRow, error) {
	values := make(map[string]string, len(header))
	for i, key := range header {
		if i < len(cells) {
			values[strings.TrimSpace(key)] = strings.TrimSpace(cells[i])
		}
	}

	row := ExternalFeeRow{
		AdmissionNumber: values["admissionNumber"],
		FirstName:       values["firstName"],
		LastName:        values["lastName"],
		DateOfBirth:     values["dateOfBirth"],
		Class:           values["class"],
		Section:         values["section"],
		AdmissionDate:   values["admissionDate"],
		ContactNumber:   values["contactNumber"],
		Email:           values["email"],
		Address:         values["address"],
		ParentName:      values["parentName"],
		ParentContact:   values["parentContact"],
		SerialNumber:    values["serialNumber"],
		Status:          values["status"],
		NextPaymentDate: values["nextPaymentDate"],
		DueDate:         values["dueDate"],
		AcademicYear:    values["academicYear"],
		Term:            values["term"],
	}

	if raw := values["feeAmount"]; raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ExternalFeeRow{}, fmt.Errorf("invalid feeAmount %q", raw)
		}
		row.FeeAmount = amount
	}
	return row, nil
}
