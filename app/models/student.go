package models

import "time"

// Student is the directory entry a fee record belongs to. The fee core only
// reads students and creates placeholders during reconciliation; it never
// updates or deletes them.
type Student struct {
	ID              string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	AdmissionNumber string        `json:"admission_number" gorm:"uniqueIndex;not null" validate:"required"`
	FirstName       string        `json:"first_name" gorm:"not null" validate:"required"`
	LastName        string        `json:"last_name" gorm:"not null" validate:"required"`
	DateOfBirth     string        `json:"date_of_birth" gorm:"type:varchar(10)"`
	ClassID         string        `json:"class_id" gorm:"index;type:uuid"`
	SectionID       string        `json:"section_id" gorm:"index;type:uuid"`
	AdmissionDate   string        `json:"admission_date" gorm:"type:varchar(10)"`
	ContactNumber   string        `json:"contact_number,omitempty"`
	Email           string        `json:"email,omitempty"`
	Address         string        `json:"address,omitempty"`
	ParentName      string        `json:"parent_name,omitempty"`
	ParentContact   string        `json:"parent_contact,omitempty"`
	Status          StudentStatus `json:"status" gorm:"not null;default:'Active';type:varchar(10)"`
	Notes           string        `json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// StudentDefaults carries the field values used when reconciliation has to
// create a placeholder student for an unknown admission number. Every field
// left empty by the import row gets the corresponding default.
type StudentDefaults struct {
	FirstName     string
	LastName      string
	DateOfBirth   string
	ClassID       string
	SectionID     string
	AdmissionDate string
	ContactNumber string
	Email         string
	Address       string
	ParentName    string
	ParentContact string
	Notes         string
}
