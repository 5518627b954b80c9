package models

import "time"

// DateOnly is the calendar-date layout used for every fee date field.
// Dates are stored and exchanged as plain YYYY-MM-DD strings.
const DateOnly = "2006-01-02"

// FeeRecord represents one billing obligation for a student, with its own
// append-only payment and note ledgers and a derived status.
type FeeRecord struct {
	ID              string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	StudentID       string    `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	SerialNumber    string    `json:"serial_number" gorm:"uniqueIndex;not null" validate:"required"`
	FeeAmount       float64   `json:"fee_amount" gorm:"not null;type:numeric" validate:"gte=0"`
	Status          FeeStatus `json:"status" gorm:"not null;default:'unpaid';index;type:varchar(10)"`
	AdmissionDate   string    `json:"admission_date" gorm:"type:varchar(10)"`
	NextPaymentDate string    `json:"next_payment_date" gorm:"type:varchar(10)"`
	DueDate         string    `json:"due_date" gorm:"type:varchar(10)"`
	AcademicYear    string    `json:"academic_year" gorm:"not null;index" validate:"required"`
	Term            Term      `json:"term" gorm:"not null;type:varchar(10)" validate:"required"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Payments []Payment `json:"payments" gorm:"foreignKey:FeeRecordID;references:ID"`
	Notes    []FeeNote `json:"notes" gorm:"foreignKey:FeeRecordID;references:ID"`

	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
}

// Payment is one immutable entry in a fee record's payment ledger.
type Payment struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	FeeRecordID string    `json:"fee_record_id" gorm:"not null;index;type:uuid"`
	Date        string    `json:"date" gorm:"not null;type:varchar(10)" validate:"required"`
	Amount      float64   `json:"amount" gorm:"not null;type:numeric" validate:"required,gt=0"`
	Method      string    `json:"method" gorm:"not null;type:varchar(50)" validate:"required"`
	Reference   string    `json:"reference,omitempty"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// FeeNote is one immutable entry in a fee record's audit trail.
type FeeNote struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	FeeRecordID string    `json:"fee_record_id" gorm:"not null;index;type:uuid"`
	Date        string    `json:"date" gorm:"not null;type:varchar(10)" validate:"required"`
	Text        string    `json:"text" gorm:"not null" validate:"required"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TotalPaid returns the sum of every payment in the ledger.
func (f *FeeRecord) TotalPaid() float64 {
	return SumPayments(f.Payments)
}

// RemainingBalance returns the billed amount minus the total paid.
// It can go negative on overpayment.
func (f *FeeRecord) RemainingBalance() float64 {
	return f.FeeAmount - f.TotalPaid()
}

// SumPayments totals the amounts of a payment ledger.
func SumPayments(payments []Payment) float64 {
	var total float64
	for _, p := range payments {
		total += p.Amount
	}
	return total
}

// DeriveStatus computes a fee record's status from its payment ledger, billed
// amount and due date as of the given day. The stored status column is only a
// cache of this function.
//
// A zero fee amount derives as paid even with an empty ledger. A due date that
// does not parse as YYYY-MM-DD never triggers the overdue override.
func DeriveStatus(payments []Payment, feeAmount float64, dueDate string, today time.Time) FeeStatus {
	totalPaid := SumPayments(payments)

	status := FeeUnpaid
	if totalPaid >= feeAmount {
		status = FeePaid
	} else if totalPaid > 0 {
		status = FeePartial
	}

	if status != FeePaid {
		if due, err := time.Parse(DateOnly, dueDate); err == nil {
			day := today.Truncate(24 * time.Hour)
			if day.After(due) {
				status = FeeOverdue
			}
		}
	}

	return status
}

// ComputeSchedule returns the next-payment and due dates for a fee record:
// next payment one month after the admission date, due 15 days after that.
// An empty or malformed admission date falls back to today.
func ComputeSchedule(admissionDate string, today time.Time) (nextPaymentDate, dueDate string) {
	base, err := time.Parse(DateOnly, admissionDate)
	if err != nil {
		base = today
	}
	next := base.AddDate(0, 1, 0)
	due := next.AddDate(0, 0, 15)
	return next.Format(DateOnly), due.Format(DateOnly)
}
