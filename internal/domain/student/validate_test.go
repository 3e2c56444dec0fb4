package student

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roster-hub/student-roster-hub/internal/domain/shared"
)

func validForm() FormData {
	gpa := 3.5
	return FormData{
		Name:           "Alice Johnson",
		Phone:          "+7 700 123 4567",
		Email:          "alice@example.com",
		Age:            20,
		Grade:          "Sophomore",
		Address:        "12 Abay Ave",
		EnrollmentDate: "2024-09-01",
		GPA:            &gpa,
		Status:         StatusStudying,
	}
}

func TestValidateForm_Valid(t *testing.T) {
	assert.NoError(t, ValidateForm(validForm()))
}

func TestValidateForm_OptionalFieldsEmpty(t *testing.T) {
	form := FormData{
		Name:   "Bob Lee",
		Phone:  "+7 701 000 0000",
		Status: StatusWorking,
	}
	assert.NoError(t, ValidateForm(form))
}

func TestValidateForm_RequiredFields(t *testing.T) {
	form := validForm()
	form.Name = ""
	form.Phone = ""

	err := ValidateForm(form)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))

	fields := shared.FieldErrors(err)
	assert.Equal(t, "Name is required", fields["name"])
	assert.Equal(t, "Phone number is required", fields["phone"])
	assert.Len(t, fields, 2)
}

func TestValidateForm_GPAOutOfRange(t *testing.T) {
	form := validForm()
	gpa := 4.5
	form.GPA = &gpa

	err := ValidateForm(form)
	require.Error(t, err)
	assert.Equal(t, "GPA cannot exceed 4.0", shared.FieldErrors(err)["gpa"])

	gpa = -0.1
	err = ValidateForm(form)
	require.Error(t, err)
	assert.Equal(t, "GPA must be positive", shared.FieldErrors(err)["gpa"])
}

func TestValidateForm_GPABoundsInclusive(t *testing.T) {
	form := validForm()
	for _, v := range []float64{0.0, 4.0} {
		gpa := v
		form.GPA = &gpa
		assert.NoError(t, ValidateForm(form), "gpa %v should be accepted", v)
	}
}

func TestValidateForm_InvalidEmail(t *testing.T) {
	form := validForm()
	form.Email = "not-an-email"

	err := ValidateForm(form)
	require.Error(t, err)
	assert.Equal(t, "Invalid email address", shared.FieldErrors(err)["email"])
}

func TestValidateForm_AgeBounds(t *testing.T) {
	form := validForm()

	form.Age = 15
	err := ValidateForm(form)
	require.Error(t, err)
	assert.Equal(t, "Age must be at least 16", shared.FieldErrors(err)["age"])

	form.Age = 101
	err = ValidateForm(form)
	require.Error(t, err)
	assert.Equal(t, "Age must be less than 100", shared.FieldErrors(err)["age"])

	form.Age = 16
	assert.NoError(t, ValidateForm(form))
	form.Age = 100
	assert.NoError(t, ValidateForm(form))
	form.Age = 0 // optional
	assert.NoError(t, ValidateForm(form))
}

func TestValidateForm_InvalidStatus(t *testing.T) {
	form := validForm()
	form.Status = "retired"

	err := ValidateForm(form)
	require.Error(t, err)
	assert.Equal(t, "Status must be one of: studying, working, graduated", shared.FieldErrors(err)["status"])
}

func TestValidateForm_InvalidEnrollmentDate(t *testing.T) {
	form := validForm()
	form.EnrollmentDate = "01/09/2024"

	err := ValidateForm(form)
	require.Error(t, err)
	assert.Equal(t, "Enrollment date must be a valid date (YYYY-MM-DD)", shared.FieldErrors(err)["enrollmentDate"])
}

func TestValidateField(t *testing.T) {
	assert.NoError(t, ValidateField("email", "alice@example.com"))
	assert.NoError(t, ValidateField("grade", "anything goes"))

	err := ValidateField("email", "nope")
	require.Error(t, err)
	assert.Equal(t, "Invalid email address", shared.FieldErrors(err)["email"])

	err = ValidateField("unknown", "x")
	require.Error(t, err)
}

func TestFindDuplicate_CaseInsensitiveNameAndExactPhone(t *testing.T) {
	existing := []*Student{
		{ID: "s1", Name: "Alice Johnson", Phone: "+7 700 123 4567"},
		{ID: "s2", Name: "Bob Lee", Phone: "+7 701 000 0000"},
	}

	candidate := FormData{Name: "alice johnson", Phone: "+7 700 123 4567"}
	match := FindDuplicate(candidate, existing, "")
	require.NotNil(t, match)
	assert.Equal(t, "s1", match.ID)

	// Same name, different phone is not a duplicate.
	candidate.Phone = "+7 700 999 9999"
	assert.Nil(t, FindDuplicate(candidate, existing, ""))

	// Same phone, different name is not a duplicate.
	candidate = FormData{Name: "Alicia Johnson", Phone: "+7 700 123 4567"}
	assert.Nil(t, FindDuplicate(candidate, existing, ""))
}

func TestFindDuplicate_ExcludesEditedRecord(t *testing.T) {
	existing := []*Student{
		{ID: "s1", Name: "Alice Johnson", Phone: "+7 700 123 4567"},
	}

	// Editing s1 without changing name or phone must not collide with itself.
	candidate := FormData{Name: "Alice Johnson", Phone: "+7 700 123 4567"}
	assert.Nil(t, FindDuplicate(candidate, existing, "s1"))

	// But another record submitting the same identity still collides.
	match := FindDuplicate(candidate, existing, "s2")
	require.NotNil(t, match)
	assert.Equal(t, "s1", match.ID)
}

func TestDuplicateError_ReportsBothFields(t *testing.T) {
	match := &Student{ID: "s1", Name: "Alice Johnson", Phone: "+7 700 123 4567"}

	err := DuplicateError("Create", match)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrDuplicate))

	fields := shared.FieldErrors(err)
	assert.Contains(t, fields["name"], "Alice Johnson")
	assert.Equal(t, fields["name"], fields["phone"])
}
