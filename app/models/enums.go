package models

// FeeStatus defines the possible status values for a fee record.
type FeeStatus string

const (
	FeeUnpaid  FeeStatus = "unpaid"
	FeePartial FeeStatus = "partial"
	FeePaid    FeeStatus = "paid"
	FeeOverdue FeeStatus = "overdue"
)

// Valid reports whether s is one of the known fee statuses.
func (s FeeStatus) Valid() bool {
	switch s {
	case FeeUnpaid, FeePartial, FeePaid, FeeOverdue:
		return true
	}
	return false
}

// FeeStatuses lists every fee status in report order.
var FeeStatuses = []FeeStatus{FeePaid, FeePartial, FeeUnpaid, FeeOverdue}

// Term defines the billing periods a fee record can be tagged with.
type Term string

const (
	Term1      Term = "Term 1"
	Term2      Term = "Term 2"
	Term3      Term = "Term 3"
	TermAnnual Term = "Annual"
)

// Valid reports whether t is one of the known terms.
func (t Term) Valid() bool {
	switch t {
	case Term1, Term2, Term3, TermAnnual:
		return true
	}
	return false
}

// StudentStatus defines the possible status values for a student.
type StudentStatus string

const (
	StudentActive   StudentStatus = "Active"
	StudentInactive StudentStatus = "Inactive"
)
