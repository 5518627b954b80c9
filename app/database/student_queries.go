package database

import (
	"context"
	"database/sql"

	"github.com/Niranjan-3901/RITDC-Server/app/models"
)

// StudentStore is the directory the fee core resolves students through. The
// core only ever reads students and creates reconciliation placeholders.
type StudentStore struct {
	db *sql.DB
}

func NewStudentStore(db *sql.DB) *StudentStore {
	return &StudentStore{db: db}
}

const studentColumns = `id, admission_number, first_name, last_name, date_of_birth,
	class_id, section_id, admission_date, contact_number, email, address,
	parent_name, parent_contact, status, notes, created_at, updated_at`

func scanStudent(row interface {
	Scan(dest ...interface{}) error
}) (*models.Student, error) {
	st := &models.Student{}
	var classID, sectionID sql.NullString
	err := row.Scan(
		&st.ID, &st.AdmissionNumber, &st.FirstName, &st.LastName, &st.DateOfBirth,
		&classID, &sectionID, &st.AdmissionDate, &st.ContactNumber, &st.Email, &st.Address,
		&st.ParentName, &st.ParentContact, &st.Status, &st.Notes, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		return nil, translateDBError(err)
	}
	st.ClassID = classID.String
	st.SectionID = sectionID.String
	return st, nil
}

// GetByID returns one student or ErrNotFound.
func (s *StudentStore) GetByID(ctx context.Context, id string) (*models.Student, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, id)
	return scanStudent(row)
}

// GetByAdmissionNumber looks a student up by natural key.
func (s *StudentStore) GetByAdmissionNumber(ctx context.Context, admissionNumber string) (*models.Student, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE admission_number = $1`, admissionNumber)
	return scanStudent(row)
}

// ResolveOrCreate returns the student with the given admission number,
// creating a placeholder from the supplied defaults when none exists. The
// check-then-act is a single upsert keyed on the natural key, so two racing
// callers converge on one row.
func (s *StudentStore) ResolveOrCreate(ctx context.Context, admissionNumber string, defaults models.StudentDefaults) (*models.Student, error) {
	if admissionNumber == "" {
		return nil, &ValidationError{Field: "admission_number", Message: "is required"}
	}

	query := `INSERT INTO students
		(admission_number, first_name, last_name, date_of_birth, class_id, section_id,
		 admission_date, contact_number, email, address, parent_name, parent_contact, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 'Active', $13)
		ON CONFLICT (admission_number) DO UPDATE SET admission_number = EXCLUDED.admission_number
		RETURNING ` + studentColumns

	row := s.db.QueryRowContext(ctx, query,
		admissionNumber,
		defaults.FirstName, defaults.LastName, defaults.DateOfBirth,
		nullableUUID(defaults.ClassID), nullableUUID(defaults.SectionID),
		defaults.AdmissionDate, defaults.ContactNumber, defaults.Email, defaults.Address,
		defaults.ParentName, defaults.ParentContact, defaults.Notes,
	)
	return scanStudent(row)
}

// GetByClass returns every active student in a class, for the fee report.
func (s *StudentStore) GetByClass(ctx context.Context, classID string) ([]*models.Student, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+studentColumns+` FROM students
		 WHERE class_id = $1 AND status = 'Active'
		 ORDER BY first_name, last_name`, classID)
	if err != nil {
		return nil, translateDBError(err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

// nullableUUID maps an empty id to NULL so uuid columns never see an empty string.
func nullableUUID(id string) interface{} {
	if id == "" {
		return nil
	}
	return id
}
