package database

import (
	"database/sql"
	"log"
)

// RunMigrations checks and applies necessary schema updates
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'admin',
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE TABLE IF NOT EXISTS students (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			admission_number TEXT NOT NULL UNIQUE,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			date_of_birth VARCHAR(10) NOT NULL DEFAULT '',
			class_id UUID,
			section_id UUID,
			admission_date VARCHAR(10) NOT NULL DEFAULT '',
			contact_number TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			parent_name TEXT NOT NULL DEFAULT '',
			parent_contact TEXT NOT NULL DEFAULT '',
			status VARCHAR(10) NOT NULL DEFAULT 'Active',
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_students_class ON students (class_id)`,

		`CREATE TABLE IF NOT EXISTS fee_records (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id),
			serial_number TEXT NOT NULL UNIQUE,
			fee_amount NUMERIC NOT NULL CHECK (fee_amount >= 0),
			status VARCHAR(10) NOT NULL DEFAULT 'unpaid',
			admission_date VARCHAR(10) NOT NULL DEFAULT '',
			next_payment_date VARCHAR(10) NOT NULL DEFAULT '',
			due_date VARCHAR(10) NOT NULL DEFAULT '',
			academic_year TEXT NOT NULL,
			term VARCHAR(10) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fee_records_student ON fee_records (student_id)`,
		`CREATE INDEX IF NOT EXISTS idx_fee_records_status ON fee_records (status)`,
		`CREATE INDEX IF NOT EXISTS idx_fee_records_year ON fee_records (academic_year)`,

		`CREATE TABLE IF NOT EXISTS fee_payments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			fee_record_id UUID NOT NULL REFERENCES fee_records(id) ON DELETE CASCADE,
			seq BIGSERIAL,
			date VARCHAR(10) NOT NULL,
			amount NUMERIC NOT NULL CHECK (amount > 0),
			method VARCHAR(50) NOT NULL,
			reference TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fee_payments_record ON fee_payments (fee_record_id, seq)`,

		`CREATE TABLE IF NOT EXISTS fee_notes (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			fee_record_id UUID NOT NULL REFERENCES fee_records(id) ON DELETE CASCADE,
			seq BIGSERIAL,
			date VARCHAR(10) NOT NULL,
			text TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fee_notes_record ON fee_notes (fee_record_id, seq)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Printf("Migration failed: %v", err)
			return err
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
