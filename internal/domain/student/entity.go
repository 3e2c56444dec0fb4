// Package student contains the student roster domain model.
// This is the business-logic core: record shape, status enumeration,
// validation rules, and the duplicate-detection rule live here, with no
// infrastructure dependencies.
package student

import (
	"fmt"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Status represents the student's current standing.
type Status string

// The canonical status enumeration. Free text is never accepted.
const (
	StatusStudying  Status = "studying"
	StatusWorking   Status = "working"
	StatusGraduated Status = "graduated"
)

// AllStatuses returns every valid status value.
func AllStatuses() []Status {
	return []Status{StatusStudying, StatusWorking, StatusGraduated}
}

// IsValid reports whether the status is one of the fixed enumeration values.
func (s Status) IsValid() bool {
	switch s {
	case StatusStudying, StatusWorking, StatusGraduated:
		return true
	}
	return false
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts free text into a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return status, nil
}

// GPA bounds, inclusive.
const (
	MinGPA = 0.0
	MaxGPA = 4.0
)

// Age bounds, inclusive, applied only when an age is provided.
const (
	MinAge = 16
	MaxAge = 100
)

// DateLayout is the wire format for enrollment dates.
const DateLayout = "2006-01-02"

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Student is the roster record. The ID is assigned by the record store on
// creation and is immutable thereafter.
type Student struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email,omitempty"`
	Age            int        `json:"age,omitempty"`
	Grade          string     `json:"grade,omitempty"`
	Address        string     `json:"address,omitempty"`
	EnrollmentDate *time.Time `json:"enrollmentDate,omitempty"`
	GPA            *float64   `json:"gpa,omitempty"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// String returns a short representation for logging.
func (s *Student) String() string {
	return fmt.Sprintf("Student{ID: %s, Name: %s, Status: %s}", s.ID, s.Name, s.Status)
}

// Clone creates a copy of the student.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}
	clone := *s
	if s.EnrollmentDate != nil {
		d := *s.EnrollmentDate
		clone.EnrollmentDate = &d
	}
	if s.GPA != nil {
		g := *s.GPA
		clone.GPA = &g
	}
	return &clone
}

// ══════════════════════════════════════════════════════════════════════════════
// FORM DATA
// ══════════════════════════════════════════════════════════════════════════════

// FormData is the subset of fields collected on create and update
// submissions. The ID and both timestamps are store-owned and never
// submitted.
type FormData struct {
	Name           string   `json:"name" validate:"required"`
	Phone          string   `json:"phone" validate:"required"`
	Email          string   `json:"email" validate:"omitempty,email"`
	Age            int      `json:"age" validate:"omitempty,gte=16,lte=100"`
	Grade          string   `json:"grade"`
	Address        string   `json:"address"`
	EnrollmentDate string   `json:"enrollmentDate" validate:"omitempty,datetime=2006-01-02"`
	GPA            *float64 `json:"gpa" validate:"omitempty,gte=0,lte=4"`
	Status         Status   `json:"status" validate:"required,oneof=studying working graduated"`
}

// Normalize trims whitespace and lowercases the status so that validation
// and duplicate detection see canonical values.
func (f FormData) Normalize() FormData {
	f.Name = strings.TrimSpace(f.Name)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Email = strings.TrimSpace(f.Email)
	f.Grade = strings.TrimSpace(f.Grade)
	f.Address = strings.TrimSpace(f.Address)
	f.EnrollmentDate = strings.TrimSpace(f.EnrollmentDate)
	f.Status = Status(strings.ToLower(strings.TrimSpace(string(f.Status))))
	return f
}

// EnrollmentTime parses the submitted enrollment date. When the field is
// empty it defaults to the current date, matching create-form behavior.
func (f FormData) EnrollmentTime(now time.Time) (time.Time, error) {
	if f.EnrollmentDate == "" {
		return now.UTC().Truncate(24 * time.Hour), nil
	}
	return time.Parse(DateLayout, f.EnrollmentDate)
}

// FormFromStudent pre-fills form data from an existing record, used by the
// edit flow.
func FormFromStudent(s *Student) FormData {
	f := FormData{
		Name:    s.Name,
		Phone:   s.Phone,
		Email:   s.Email,
		Age:     s.Age,
		Grade:   s.Grade,
		Address: s.Address,
		GPA:     s.GPA,
		Status:  s.Status,
	}
	if s.EnrollmentDate != nil {
		f.EnrollmentDate = s.EnrollmentDate.Format(DateLayout)
	}
	return f
}
