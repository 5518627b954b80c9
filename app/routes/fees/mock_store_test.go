package fees

import (
	"context"
	"fmt"
	"time"

	"github.com/Niranjan-3901/RITDC-Server/app/database"
	"github.com/Niranjan-3901/RITDC-Server/app/models"
	"github.com/google/uuid"
)

// mockLedger is an in-memory FeeLedger for handler and pipeline tests.
type mockLedger struct {
	records map[string]*models.FeeRecord
	order   []string
	serials map[string]bool

	failCreate bool
}

func newMockLedger() *mockLedger {
	return &mockLedger{
		records: make(map[string]*models.FeeRecord),
		serials: make(map[string]bool),
	}
}

func (m *mockLedger) Create(ctx context.Context, rec *models.FeeRecord) error {
	if rec.StudentID == "" {
		return &database.ValidationError{Field: "student_id", Message: "student_id is required"}
	}
	if rec.SerialNumber == "" {
		return &database.ValidationError{Field: "serial_number", Message: "serial_number is required"}
	}
	if rec.FeeAmount < 0 {
		return &database.ValidationError{Field: "fee_amount", Message: "fee_amount must not be negative"}
	}
	if m.failCreate {
		return fmt.Errorf("storage unavailable")
	}
	if m.serials[rec.SerialNumber] {
		return database.ErrConflict
	}

	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	if rec.Payments == nil {
		rec.Payments = []models.Payment{}
	}
	if rec.Notes == nil {
		rec.Notes = []models.FeeNote{}
	}

	stored := *rec
	m.records[rec.ID] = &stored
	m.order = append(m.order, rec.ID)
	m.serials[rec.SerialNumber] = true
	return nil
}

func (m *mockLedger) GetByID(ctx context.Context, id string) (*models.FeeRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (m *mockLedger) List(ctx context.Context, filter database.FeeListFilter, page, limit int) ([]*models.FeeRecord, int, error) {
	var matched []*models.FeeRecord
	for _, id := range m.order {
		rec := m.records[id]
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if filter.StudentID != "" && rec.StudentID != filter.StudentID {
			continue
		}
		out := *rec
		matched = append(matched, &out)
	}

	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *mockLedger) GetByStudent(ctx context.Context, studentID string) ([]*models.FeeRecord, error) {
	records, _, err := m.List(ctx, database.FeeListFilter{StudentID: studentID}, 1, 1000)
	return records, err
}

func (m *mockLedger) ListByStudentsAndYear(ctx context.Context, studentIDs []string, academicYear string) ([]*models.FeeRecord, error) {
	wanted := make(map[string]bool, len(studentIDs))
	for _, id := range studentIDs {
		wanted[id] = true
	}
	var matched []*models.FeeRecord
	for _, id := range m.order {
		rec := m.records[id]
		if wanted[rec.StudentID] && rec.AcademicYear == academicYear {
			out := *rec
			matched = append(matched, &out)
		}
	}
	return matched, nil
}

func (m *mockLedger) AddPayment(ctx context.Context, recordID string, payment models.Payment) (*models.FeeRecord, error) {
	rec, ok := m.records[recordID]
	if !ok {
		return nil, database.ErrNotFound
	}
	if payment.Amount <= 0 {
		return nil, &database.ValidationError{Field: "amount", Message: "amount must be positive"}
	}

	payment.ID = uuid.NewString()
	payment.FeeRecordID = recordID
	payment.CreatedAt = time.Now()
	rec.Payments = append(rec.Payments, payment)
	rec.Status = models.DeriveStatus(rec.Payments, rec.FeeAmount, rec.DueDate, time.Now())
	rec.UpdatedAt = time.Now()
	return m.GetByID(ctx, recordID)
}

func (m *mockLedger) AddNote(ctx context.Context, recordID string, note models.FeeNote) (*models.FeeRecord, error) {
	rec, ok := m.records[recordID]
	if !ok {
		return nil, database.ErrNotFound
	}

	note.ID = uuid.NewString()
	note.FeeRecordID = recordID
	note.CreatedAt = time.Now()
	rec.Notes = append(rec.Notes, note)
	rec.UpdatedAt = time.Now()
	return m.GetByID(ctx, recordID)
}

func (m *mockLedger) Update(ctx context.Context, recordID string, upd database.FeeRecordUpdate) (*models.FeeRecord, error) {
	rec, ok := m.records[recordID]
	if !ok {
		return nil, database.ErrNotFound
	}
	if upd.SerialNumber != nil {
		rec.SerialNumber = *upd.SerialNumber
	}
	if upd.FeeAmount != nil {
		rec.FeeAmount = *upd.FeeAmount
	}
	if upd.Status != nil {
		rec.Status = *upd.Status
	}
	if upd.AdmissionDate != nil {
		rec.AdmissionDate = *upd.AdmissionDate
	}
	if upd.NextPaymentDate != nil {
		rec.NextPaymentDate = *upd.NextPaymentDate
	}
	if upd.DueDate != nil {
		rec.DueDate = *upd.DueDate
	}
	if upd.AcademicYear != nil {
		rec.AcademicYear = *upd.AcademicYear
	}
	if upd.Term != nil {
		rec.Term = *upd.Term
	}
	rec.UpdatedAt = time.Now()
	return m.GetByID(ctx, recordID)
}

func (m *mockLedger) Delete(ctx context.Context, recordID string) error {
	rec, ok := m.records[recordID]
	if !ok {
		return database.ErrNotFound
	}
	delete(m.serials, rec.SerialNumber)
	delete(m.records, recordID)
	for i, id := range m.order {
		if id == recordID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockLedger) Stats(ctx context.Context) (*database.FeeStats, error) {
	stats := &database.FeeStats{
		StatusCounts: make(map[models.FeeStatus]int),
	}
	for _, rec := range m.records {
		stats.TotalRecords++
		stats.TotalDue += rec.FeeAmount
		stats.TotalCollected += rec.TotalPaid()
		stats.StatusCounts[rec.Status]++
	}
	return stats, nil
}

// mockDirectory is an in-memory StudentDirectory keyed by admission number.
type mockDirectory struct {
	byID        map[string]*models.Student
	byAdmission map[string]*models.Student
	byClass     map[string][]*models.Student

	failResolve bool
	created     int
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{
		byID:        make(map[string]*models.Student),
		byAdmission: make(map[string]*models.Student),
		byClass:     make(map[string][]*models.Student),
	}
}

func (m *mockDirectory) add(student *models.Student) *models.Student {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if student.Status == "" {
		student.Status = models.StudentActive
	}
	m.byID[student.ID] = student
	m.byAdmission[student.AdmissionNumber] = student
	if student.ClassID != "" {
		m.byClass[student.ClassID] = append(m.byClass[student.ClassID], student)
	}
	return student
}

func (m *mockDirectory) GetByID(ctx context.Context, id string) (*models.Student, error) {
	student, ok := m.byID[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return student, nil
}

func (m *mockDirectory) GetByAdmissionNumber(ctx context.Context, admissionNumber string) (*models.Student, error) {
	student, ok := m.byAdmission[admissionNumber]
	if !ok {
		return nil, database.ErrNotFound
	}
	return student, nil
}

func (m *mockDirectory) ResolveOrCreate(ctx context.Context, admissionNumber string, defaults models.StudentDefaults) (*models.Student, error) {
	if m.failResolve {
		return nil, fmt.Errorf("directory unavailable")
	}
	if admissionNumber == "" {
		return nil, &database.ValidationError{Field: "admission_number", Message: "admission_number is required"}
	}
	if student, ok := m.byAdmission[admissionNumber]; ok {
		return student, nil
	}

	m.created++
	return m.add(&models.Student{
		AdmissionNumber: admissionNumber,
		FirstName:       defaults.FirstName,
		LastName:        defaults.LastName,
		DateOfBirth:     defaults.DateOfBirth,
		ClassID:         defaults.ClassID,
		SectionID:       defaults.SectionID,
		AdmissionDate:   defaults.AdmissionDate,
		ContactNumber:   defaults.ContactNumber,
		Email:           defaults.Email,
		Address:         defaults.Address,
		ParentName:      defaults.ParentName,
		ParentContact:   defaults.ParentContact,
		Notes:           defaults.Notes,
	}), nil
}

func (m *mockDirectory) GetByClass(ctx context.Context, classID string) ([]*models.Student, error) {
	return m.byClass[classID], nil
}
