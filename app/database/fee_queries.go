package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Niranjan-3901/RITDC-Server/app/models"
	"github.com/lib/pq"
)

// FeeStore owns the fee_records table and its payment/note ledgers. It is
// constructed once with the shared pool and passed to every consumer; nothing
// reaches the fee tables except through it.
type FeeStore struct {
	db *sql.DB
}

func NewFeeStore(db *sql.DB) *FeeStore {
	return &FeeStore{db: db}
}

// FeeListFilter narrows a fee record listing.
type FeeListFilter struct {
	Status    models.FeeStatus
	StudentID string
}

// FeeRecordUpdate is an administrative partial update. Nil fields are left
// untouched. Setting Status here bypasses status derivation on purpose.
type FeeRecordUpdate struct {
	SerialNumber    *string
	FeeAmount       *float64
	Status          *models.FeeStatus
	AdmissionDate   *string
	NextPaymentDate *string
	DueDate         *string
	AcademicYear    *string
	Term            *models.Term
}

// FeeStats summarises the whole ledger by status.
type FeeStats struct {
	TotalRecords   int                      `json:"total_records"`
	TotalDue       float64                  `json:"total_due"`
	TotalCollected float64                  `json:"total_collected"`
	StatusCounts   map[models.FeeStatus]int `json:"status_counts"`
}

const feeRecordColumns = `f.id, f.student_id, f.serial_number, f.fee_amount, f.status,
	f.admission_date, f.next_payment_date, f.due_date, f.academic_year, f.term,
	f.created_at, f.updated_at`

// Create persists a new fee record with status unpaid. The serial number must
// be unique; a collision surfaces as ErrConflict.
func (s *FeeStore) Create(ctx context.Context, rec *models.FeeRecord) error {
	if rec.StudentID == "" {
		return &ValidationError{Field: "student_id", Message: "is required"}
	}
	if rec.SerialNumber == "" {
		return &ValidationError{Field: "serial_number", Message: "is required"}
	}
	if rec.FeeAmount < 0 {
		return &ValidationError{Field: "fee_amount", Message: "must not be negative"}
	}
	if rec.AcademicYear == "" {
		return &ValidationError{Field: "academic_year", Message: "is required"}
	}
	if !rec.Term.Valid() {
		return &ValidationError{Field: "term", Message: "is not a valid term"}
	}
	if rec.Status == "" {
		rec.Status = models.FeeUnpaid
	}
	if !rec.Status.Valid() {
		return &ValidationError{Field: "status", Message: "is not a valid status"}
	}

	query := `INSERT INTO fee_records
		(student_id, serial_number, fee_amount, status, admission_date, next_payment_date, due_date, academic_year, term)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err := s.db.QueryRowContext(ctx, query,
		rec.StudentID, rec.SerialNumber, rec.FeeAmount, rec.Status,
		rec.AdmissionDate, rec.NextPaymentDate, rec.DueDate, rec.AcademicYear, rec.Term,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return translateDBError(err)
	}

	if rec.Payments == nil {
		rec.Payments = []models.Payment{}
	}
	if rec.Notes == nil {
		rec.Notes = []models.FeeNote{}
	}
	return nil
}

// GetByID returns one record with its full ledgers and the owning student.
func (s *FeeStore) GetByID(ctx context.Context, id string) (*models.FeeRecord, error) {
	query := `SELECT ` + feeRecordColumns + `,
		st.id, st.admission_number, st.first_name, st.last_name, st.class_id, st.section_id,
		st.contact_number, st.email, st.parent_name, st.parent_contact
		FROM fee_records f
		JOIN students st ON f.student_id = st.id
		WHERE f.id = $1`

	rec := &models.FeeRecord{}
	st := &models.Student{}
	var classID, sectionID sql.NullString
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.StudentID, &rec.SerialNumber, &rec.FeeAmount, &rec.Status,
		&rec.AdmissionDate, &rec.NextPaymentDate, &rec.DueDate, &rec.AcademicYear, &rec.Term,
		&rec.CreatedAt, &rec.UpdatedAt,
		&st.ID, &st.AdmissionNumber, &st.FirstName, &st.LastName, &classID, &sectionID,
		&st.ContactNumber, &st.Email, &st.ParentName, &st.ParentContact,
	)
	if err != nil {
		return nil, translateDBError(err)
	}
	st.ClassID = classID.String
	st.SectionID = sectionID.String
	rec.Student = st

	if err := s.attachLedgers(ctx, []*models.FeeRecord{rec}); err != nil {
		return nil, err
	}
	freshenStatus(rec, time.Now())
	return rec, nil
}

// List returns one offset-based page of records plus the unpaginated total.
// Records come back in insertion order; page drift under concurrent inserts
// is accepted behavior.
func (s *FeeStore) List(ctx context.Context, filter FeeListFilter, page, limit int) ([]*models.FeeRecord, int, error) {
	baseWhere := "1=1"
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("f.status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}
	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("f.student_id = $%d", argIndex))
		args = append(args, filter.StudentID)
		argIndex++
	}

	where := baseWhere
	if len(conditions) > 0 {
		where += " AND " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM fee_records f WHERE " + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, translateDBError(err)
	}

	query := `SELECT ` + feeRecordColumns + `,
		st.id, st.admission_number, st.first_name, st.last_name, st.class_id, st.section_id
		FROM fee_records f
		JOIN students st ON f.student_id = st.id
		WHERE ` + where +
		fmt.Sprintf(" ORDER BY f.created_at, f.id LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, translateDBError(err)
	}
	defer rows.Close()

	records, err := scanFeeRecordRows(rows)
	if err != nil {
		return nil, 0, err
	}

	if err := s.attachLedgers(ctx, records); err != nil {
		return nil, 0, err
	}
	now := time.Now()
	for _, rec := range records {
		freshenStatus(rec, now)
	}
	return records, total, nil
}

// GetByStudent returns every fee record belonging to one student.
func (s *FeeStore) GetByStudent(ctx context.Context, studentID string) ([]*models.FeeRecord, error) {
	records, _, err := s.List(ctx, FeeListFilter{StudentID: studentID}, 1, 1000)
	return records, err
}

// ListByStudentsAndYear fetches the records the class report aggregates over.
func (s *FeeStore) ListByStudentsAndYear(ctx context.Context, studentIDs []string, academicYear string) ([]*models.FeeRecord, error) {
	if len(studentIDs) == 0 {
		return []*models.FeeRecord{}, nil
	}

	query := `SELECT ` + feeRecordColumns + `,
		st.id, st.admission_number, st.first_name, st.last_name, st.class_id, st.section_id
		FROM fee_records f
		JOIN students st ON f.student_id = st.id
		WHERE f.student_id = ANY($1) AND f.academic_year = $2
		ORDER BY f.created_at, f.id`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(studentIDs), academicYear)
	if err != nil {
		return nil, translateDBError(err)
	}
	defer rows.Close()

	records, err := scanFeeRecordRows(rows)
	if err != nil {
		return nil, err
	}
	if err := s.attachLedgers(ctx, records); err != nil {
		return nil, err
	}
	now := time.Now()
	for _, rec := range records {
		freshenStatus(rec, now)
	}
	return records, nil
}

// AddPayment appends one payment to the ledger and recomputes the persisted
// status from the full payment history inside the same transaction.
func (s *FeeStore) AddPayment(ctx context.Context, recordID string, payment models.Payment) (*models.FeeRecord, error) {
	if payment.Date == "" {
		return nil, &ValidationError{Field: "date", Message: "is required"}
	}
	if payment.Amount <= 0 {
		return nil, &ValidationError{Field: "amount", Message: "must be positive"}
	}
	if payment.Method == "" {
		return nil, &ValidationError{Field: "method", Message: "is required"}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, translateDBError(err)
	}
	defer tx.Rollback()

	var feeAmount float64
	var dueDate string
	err = tx.QueryRowContext(ctx,
		`SELECT fee_amount, due_date FROM fee_records WHERE id = $1 FOR UPDATE`, recordID,
	).Scan(&feeAmount, &dueDate)
	if err != nil {
		return nil, translateDBError(err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO fee_payments (fee_record_id, date, amount, method, reference)
		 VALUES ($1, $2, $3, $4, $5)`,
		recordID, payment.Date, payment.Amount, payment.Method, payment.Reference,
	)
	if err != nil {
		return nil, translateDBError(err)
	}

	payments, err := queryPayments(ctx, tx, recordID)
	if err != nil {
		return nil, err
	}

	status := models.DeriveStatus(payments, feeAmount, dueDate, time.Now())
	_, err = tx.ExecContext(ctx,
		`UPDATE fee_records SET status = $1, updated_at = now() WHERE id = $2`,
		status, recordID,
	)
	if err != nil {
		return nil, translateDBError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, translateDBError(err)
	}

	return s.GetByID(ctx, recordID)
}

// AddNote appends one note. Notes never affect status.
func (s *FeeStore) AddNote(ctx context.Context, recordID string, note models.FeeNote) (*models.FeeRecord, error) {
	if note.Date == "" {
		return nil, &ValidationError{Field: "date", Message: "is required"}
	}
	if note.Text == "" {
		return nil, &ValidationError{Field: "text", Message: "is required"}
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO fee_notes (fee_record_id, date, text)
		 SELECT $1, $2, $3 WHERE EXISTS (SELECT 1 FROM fee_records WHERE id = $1)`,
		recordID, note.Date, note.Text,
	)
	if err != nil {
		return nil, translateDBError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, translateDBError(err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return s.GetByID(ctx, recordID)
}

// Update applies an administrative partial update. Status set here is taken
// as-is; derivation is not re-run.
func (s *FeeStore) Update(ctx context.Context, recordID string, upd FeeRecordUpdate) (*models.FeeRecord, error) {
	var sets []string
	var args []interface{}
	argIndex := 1

	set := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if upd.SerialNumber != nil {
		if *upd.SerialNumber == "" {
			return nil, &ValidationError{Field: "serial_number", Message: "must not be empty"}
		}
		set("serial_number", *upd.SerialNumber)
	}
	if upd.FeeAmount != nil {
		if *upd.FeeAmount < 0 {
			return nil, &ValidationError{Field: "fee_amount", Message: "must not be negative"}
		}
		set("fee_amount", *upd.FeeAmount)
	}
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return nil, &ValidationError{Field: "status", Message: "is not a valid status"}
		}
		set("status", *upd.Status)
	}
	if upd.AdmissionDate != nil {
		set("admission_date", *upd.AdmissionDate)
	}
	if upd.NextPaymentDate != nil {
		set("next_payment_date", *upd.NextPaymentDate)
	}
	if upd.DueDate != nil {
		set("due_date", *upd.DueDate)
	}
	if upd.AcademicYear != nil {
		set("academic_year", *upd.AcademicYear)
	}
	if upd.Term != nil {
		if !upd.Term.Valid() {
			return nil, &ValidationError{Field: "term", Message: "is not a valid term"}
		}
		set("term", *upd.Term)
	}

	if len(sets) == 0 {
		return s.GetByID(ctx, recordID)
	}

	query := fmt.Sprintf("UPDATE fee_records SET %s, updated_at = now() WHERE id = $%d",
		strings.Join(sets, ", "), argIndex)
	args = append(args, recordID)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, translateDBError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, translateDBError(err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return s.GetByID(ctx, recordID)
}

// Delete removes a record and, by cascade, its ledgers.
func (s *FeeStore) Delete(ctx context.Context, recordID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM fee_records WHERE id = $1`, recordID)
	if err != nil {
		return translateDBError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return translateDBError(err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats aggregates the whole ledger by status.
func (s *FeeStore) Stats(ctx context.Context) (*FeeStats, error) {
	stats := &FeeStats{StatusCounts: make(map[models.FeeStatus]int)}

	query := `
		SELECT
			COUNT(*) AS total_records,
			COALESCE(SUM(f.fee_amount), 0) AS total_due,
			COALESCE((SELECT SUM(p.amount) FROM fee_payments p), 0) AS total_collected
		FROM fee_records f
	`
	err := s.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalRecords, &stats.TotalDue, &stats.TotalCollected,
	)
	if err != nil {
		return nil, translateDBError(err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM fee_records GROUP BY status`)
	if err != nil {
		return nil, translateDBError(err)
	}
	defer rows.Close()

	for _, status := range models.FeeStatuses {
		stats.StatusCounts[status] = 0
	}
	for rows.Next() {
		var status models.FeeStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, translateDBError(err)
		}
		stats.StatusCounts[status] = count
	}
	return stats, rows.Err()
}

// freshenStatus applies the time-based overdue progression at read time. The
// stored status stays authoritative for everything else so administrative
// overrides survive reads.
func freshenStatus(rec *models.FeeRecord, today time.Time) {
	if rec.Status == models.FeePaid {
		return
	}
	if due, err := time.Parse(models.DateOnly, rec.DueDate); err == nil {
		if today.Truncate(24 * time.Hour).After(due) {
			rec.Status = models.FeeOverdue
		}
	}
}

func scanFeeRecordRows(rows *sql.Rows) ([]*models.FeeRecord, error) {
	var records []*models.FeeRecord
	for rows.Next() {
		rec := &models.FeeRecord{}
		st := &models.Student{}
		var classID, sectionID sql.NullString
		err := rows.Scan(
			&rec.ID, &rec.StudentID, &rec.SerialNumber, &rec.FeeAmount, &rec.Status,
			&rec.AdmissionDate, &rec.NextPaymentDate, &rec.DueDate, &rec.AcademicYear, &rec.Term,
			&rec.CreatedAt, &rec.UpdatedAt,
			&st.ID, &st.AdmissionNumber, &st.FirstName, &st.LastName, &classID, &sectionID,
		)
		if err != nil {
			return nil, translateDBError(err)
		}
		st.ClassID = classID.String
		st.SectionID = sectionID.String
		rec.Student = st
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, translateDBError(err)
	}
	if records == nil {
		records = []*models.FeeRecord{}
	}
	return records, nil
}

// attachLedgers loads payments and notes for a page of records in two
// queries, preserving insertion order.
func (s *FeeStore) attachLedgers(ctx context.Context, records []*models.FeeRecord) error {
	if len(records) == 0 {
		return nil
	}

	ids := make([]string, len(records))
	byID := make(map[string]*models.FeeRecord, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
		byID[rec.ID] = rec
		rec.Payments = []models.Payment{}
		rec.Notes = []models.FeeNote{}
	}

	payRows, err := s.db.QueryContext(ctx,
		`SELECT id, fee_record_id, date, amount, method, reference, created_at
		 FROM fee_payments WHERE fee_record_id = ANY($1) ORDER BY seq`,
		pq.Array(ids),
	)
	if err != nil {
		return translateDBError(err)
	}
	defer payRows.Close()

	for payRows.Next() {
		var p models.Payment
		if err := payRows.Scan(&p.ID, &p.FeeRecordID, &p.Date, &p.Amount, &p.Method, &p.Reference, &p.CreatedAt); err != nil {
			return translateDBError(err)
		}
		if rec, ok := byID[p.FeeRecordID]; ok {
			rec.Payments = append(rec.Payments, p)
		}
	}
	if err := payRows.Err(); err != nil {
		return translateDBError(err)
	}

	noteRows, err := s.db.QueryContext(ctx,
		`SELECT id, fee_record_id, date, text, created_at
		 FROM fee_notes WHERE fee_record_id = ANY($1) ORDER BY seq`,
		pq.Array(ids),
	)
	if err != nil {
		return translateDBError(err)
	}
	defer noteRows.Close()

	for noteRows.Next() {
		var n models.FeeNote
		if err := noteRows.Scan(&n.ID, &n.FeeRecordID, &n.Date, &n.Text, &n.CreatedAt); err != nil {
			return translateDBError(err)
		}
		if rec, ok := byID[n.FeeRecordID]; ok {
			rec.Notes = append(rec.Notes, n)
		}
	}
	return noteRows.Err()
}

func queryPayments(ctx context.Context, tx *sql.Tx, recordID string) ([]models.Payment, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, fee_record_id, date, amount, method, reference, created_at
		 FROM fee_payments WHERE fee_record_id = $1 ORDER BY seq`,
		recordID,
	)
	if err != nil {
		return nil, translateDBError(err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.FeeRecordID, &p.Date, &p.Amount, &p.Method, &p.Reference, &p.CreatedAt); err != nil {
			return nil, translateDBError(err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
