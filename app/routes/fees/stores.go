package fees

import (
	"context"
	"errors"

	"github.com/Niranjan-3901/RITDC-Server/app/database"
	"github.com/Niranjan-3901/RITDC-Server/app/models"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// FeeLedger is the slice of the fee store the handlers and the import
// pipeline depend on.
type FeeLedger interface {
	Create(ctx context.Context, rec *models.FeeRecord) error
	GetByID(ctx context.Context, id string) (*models.FeeRecord, error)
	List(ctx context.Context, filter database.FeeListFilter, page, limit int) ([]*models.FeeRecord, int, error)
	GetByStudent(ctx context.Context, studentID string) ([]*models.FeeRecord, error)
	ListByStudentsAndYear(ctx context.Context, studentIDs []string, academicYear string) ([]*models.FeeRecord, error)
	AddPayment(ctx context.Context, recordID string, payment models.Payment) (*models.FeeRecord, error)
	AddNote(ctx context.Context, recordID string, note models.FeeNote) (*models.FeeRecord, error)
	Update(ctx context.Context, recordID string, upd database.FeeRecordUpdate) (*models.FeeRecord, error)
	Delete(ctx context.Context, recordID string) error
	Stats(ctx context.Context) (*database.FeeStats, error)
}

// StudentDirectory is the external student collaborator: lookup by id or
// natural key, plus placeholder creation during reconciliation.
type StudentDirectory interface {
	GetByID(ctx context.Context, id string) (*models.Student, error)
	GetByAdmissionNumber(ctx context.Context, admissionNumber string) (*models.Student, error)
	ResolveOrCreate(ctx context.Context, admissionNumber string, defaults models.StudentDefaults) (*models.Student, error)
	GetByClass(ctx context.Context, classID string) ([]*models.Student, error)
}

var validate = validator.New()

// requireUUIDParam rejects malformed path identifiers before any store access.
func requireUUIDParam(c *fiber.Ctx, name string) (string, error) {
	value := c.Params(name)
	if _, err := uuid.Parse(value); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "Invalid "+name+" parameter")
	}
	return value, nil
}

// parsePagination reads the page/limit query params, defaulting to the first
// page of twenty.
func parsePagination(c *fiber.Ctx) (page, limit int, err error) {
	page = c.QueryInt("page", 1)
	limit = c.QueryInt("limit", 20)
	if page < 1 || limit < 1 {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "Invalid pagination parameters")
	}
	return page, limit, nil
}

// paginationMap builds the list envelope's pagination block.
func paginationMap(total, page, limit int) fiber.Map {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return fiber.Map{
		"total": total,
		"page":  page,
		"limit": limit,
		"pages": pages,
	}
}

// renderStoreError maps store errors onto the HTTP error taxonomy:
// validation 400, not found 404, conflict 409, anything else 500.
func renderStoreError(c *fiber.Ctx, err error, notFoundMsg string) error {
	var vErr *database.ValidationError
	switch {
	case errors.As(err, &vErr):
		return fail(c, fiber.StatusBadRequest, vErr.Error())
	case errors.Is(err, database.ErrNotFound):
		return fail(c, fiber.StatusNotFound, notFoundMsg)
	case errors.Is(err, database.ErrConflict):
		return fail(c, fiber.StatusConflict, "Duplicate serial number")
	default:
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
