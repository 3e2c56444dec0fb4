package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/roster-hub/student-roster-hub/internal/domain/shared"
	"github.com/roster-hub/student-roster-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY (REMOTE ACCESS FACADE)
// The only component permitted to talk to the hosted students table. It owns
// the translation between the store's snake_case row shape and the domain
// shape, and wraps every store failure as shared.ErrRemote carrying the
// store's diagnostic. No operation retries; each is a single attempt.
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

const studentColumns = `id, name, phone, email, age, grade, address, enrollment_date, gpa, status, created_at, updated_at`

// ─────────────────────────────────────────────────────────────────────────────
// Wire format
// ─────────────────────────────────────────────────────────────────────────────

// studentRow mirrors the store's row shape. Optional columns are pointers so
// a NULL survives the round trip.
type studentRow struct {
	ID             string
	Name           string
	Phone          string
	Email          *string
	Age            *int32
	Grade          *string
	Address        *string
	EnrollmentDate *time.Time
	GPA            *float64
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// toDomain translates the stored row into the domain shape
// (enrollment_date becomes EnrollmentDate, NULLs become zero values).
func (r studentRow) toDomain() *student.Student {
	s := &student.Student{
		ID:             r.ID,
		Name:           r.Name,
		Phone:          r.Phone,
		EnrollmentDate: r.EnrollmentDate,
		GPA:            r.GPA,
		Status:         student.Status(r.Status),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.Email != nil {
		s.Email = *r.Email
	}
	if r.Age != nil {
		s.Age = int(*r.Age)
	}
	if r.Grade != nil {
		s.Grade = *r.Grade
	}
	if r.Address != nil {
		s.Address = *r.Address
	}
	return s
}

// rowArgs converts form data into store-side values: empty optional fields
// are written as NULL.
func rowArgs(form student.FormData, enrollment *time.Time) []interface{} {
	return []interface{}{
		form.Name,
		form.Phone,
		nullString(form.Email),
		nullInt(form.Age),
		nullString(form.Grade),
		nullString(form.Address),
		enrollment,
		form.GPA,
		string(form.Status),
	}
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullInt(n int) *int32 {
	if n == 0 {
		return nil
	}
	v := int32(n)
	return &v
}

func remoteError(op, message string, err error) error {
	return shared.WrapError("student", op, shared.ErrRemote, message, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// List returns all students ordered by creation time, descending.
func (r *StudentRepository) List(ctx context.Context) ([]*student.Student, error) {
	query := `
		SELECT ` + studentColumns + `
		FROM students
		ORDER BY created_at DESC
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, remoteError("List", "failed to fetch students", err)
	}
	defer rows.Close()

	students := make([]*student.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, remoteError("List", "failed to read student row", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, remoteError("List", "failed to fetch students", err)
	}

	return students, nil
}

// Create submits a new record; the store assigns the ID and timestamps.
func (r *StudentRepository) Create(ctx context.Context, form student.FormData) (*student.Student, error) {
	enrollment, err := form.EnrollmentTime(time.Now())
	if err != nil {
		return nil, remoteError("Create", "invalid enrollment date", err)
	}

	query := `
		INSERT INTO students (name, phone, email, age, grade, address, enrollment_date, gpa, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + studentColumns

	row := r.conn.QueryRow(ctx, query, rowArgs(form, &enrollment)...)
	s, err := scanStudent(row)
	if err != nil {
		return nil, remoteError("Create", "store rejected the record", err)
	}

	return s, nil
}

// Update submits a full-record replacement, stamping updated_at server-side.
func (r *StudentRepository) Update(ctx context.Context, id string, form student.FormData) (*student.Student, error) {
	var enrollment *time.Time
	if form.EnrollmentDate != "" {
		t, err := time.Parse(student.DateLayout, form.EnrollmentDate)
		if err != nil {
			return nil, remoteError("Update", "invalid enrollment date", err)
		}
		enrollment = &t
	}

	query := `
		UPDATE students SET
			name = $1,
			phone = $2,
			email = $3,
			age = $4,
			grade = $5,
			address = $6,
			enrollment_date = $7,
			gpa = $8,
			status = $9,
			updated_at = NOW()
		WHERE id = $10
		RETURNING ` + studentColumns

	args := append(rowArgs(form, enrollment), id)
	row := r.conn.QueryRow(ctx, query, args...)
	s, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, remoteError("Update", "student not found", shared.ErrStudentNotFound)
		}
		return nil, remoteError("Update", "store rejected the update", err)
	}

	return s, nil
}

// Delete removes the record.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return remoteError("Delete", "failed to delete student", err)
	}

	if result.RowsAffected() == 0 {
		return remoteError("Delete", "student not found", shared.ErrStudentNotFound)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning
// ─────────────────────────────────────────────────────────────────────────────

func scanStudent(row pgx.Row) (*student.Student, error) {
	var r studentRow
	err := row.Scan(
		&r.ID,
		&r.Name,
		&r.Phone,
		&r.Email,
		&r.Age,
		&r.Grade,
		&r.Address,
		&r.EnrollmentDate,
		&r.GPA,
		&r.Status,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r.toDomain(), nil
}
