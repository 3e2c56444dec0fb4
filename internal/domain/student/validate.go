package student

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/roster-hub/student-roster-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// FIELD VALIDATION
// Submissions are rejected here before any remote call is attempted.
// ══════════════════════════════════════════════════════════════════════════════

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report errors under the JSON field names the form uses.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// fieldRules maps each form field to its validation tag, mirroring the
// struct tags on FormData so single-field checks agree with full-form ones.
var fieldRules = map[string]string{
	"name":           "required",
	"phone":          "required",
	"email":          "omitempty,email",
	"age":            "omitempty,gte=16,lte=100",
	"grade":          "",
	"address":        "",
	"enrollmentDate": "omitempty,datetime=2006-01-02",
	"gpa":            "omitempty,gte=0,lte=4",
	"status":         "required,oneof=studying working graduated",
}

// fieldMessages translates validator tags into the user-facing, field-scoped
// messages the form surfaces.
var fieldMessages = map[string]map[string]string{
	"name": {
		"required": "Name is required",
	},
	"phone": {
		"required": "Phone number is required",
	},
	"email": {
		"email": "Invalid email address",
	},
	"age": {
		"gte": "Age must be at least 16",
		"lte": "Age must be less than 100",
	},
	"enrollmentDate": {
		"datetime": "Enrollment date must be a valid date (YYYY-MM-DD)",
	},
	"gpa": {
		"gte": "GPA must be positive",
		"lte": "GPA cannot exceed 4.0",
	},
	"status": {
		"required": "Status is required",
		"oneof":    "Status must be one of: studying, working, graduated",
	},
}

func messageFor(field, tag string) string {
	if byTag, ok := fieldMessages[field]; ok {
		if msg, ok := byTag[tag]; ok {
			return msg
		}
	}
	return fmt.Sprintf("Invalid value for %s", field)
}

// ValidateForm checks every field of a submission against the roster rules.
// On failure it returns a validation error carrying one message per
// offending field; the caller must not proceed to the record store.
func ValidateForm(form FormData) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return shared.WrapError("student", "Validate", shared.ErrValidation, "invalid submission", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = messageFor(fe.Field(), fe.Tag())
	}
	return shared.NewValidationError("student", "Validate", fields)
}

// ValidateField checks a single field value, used for inline form feedback.
func ValidateField(field string, value any) error {
	rule, ok := fieldRules[field]
	if !ok {
		return fmt.Errorf("unknown field %q", field)
	}
	if rule == "" {
		return nil
	}

	err := validate.Var(value, rule)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return shared.WrapError("student", "ValidateField", shared.ErrValidation, "invalid value", err)
	}
	return shared.NewValidationError("student", "ValidateField", map[string]string{
		field: messageFor(field, verrs[0].Tag()),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// DUPLICATE DETECTION
// ══════════════════════════════════════════════════════════════════════════════

// FindDuplicate scans the given records and returns the first one whose name
// matches the candidate's case-insensitively and whose phone matches exactly,
// skipping the record identified by excludeID (so an edit does not collide
// with itself). Returns nil when no match exists.
//
// This is a best-effort, client-side check against the last-fetched snapshot.
// It does not guarantee global uniqueness under concurrent writers; it only
// prevents the common single-user mistake of re-adding the same student.
func FindDuplicate(candidate FormData, existing []*Student, excludeID string) *Student {
	name := strings.TrimSpace(candidate.Name)
	phone := strings.TrimSpace(candidate.Phone)

	for _, s := range existing {
		if s == nil || s.ID == excludeID {
			continue
		}
		if strings.EqualFold(s.Name, name) && s.Phone == phone {
			return s
		}
	}
	return nil
}

// DuplicateError builds the duplicate error reported on both colliding
// fields, naming the existing record.
func DuplicateError(op string, match *Student) error {
	msg := fmt.Sprintf("A student with this name and phone already exists (%s)", match.Name)
	return shared.NewDuplicateError("student", op, map[string]string{
		"name":  msg,
		"phone": msg,
	})
}
