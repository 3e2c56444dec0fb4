package student

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("  Working ")
	require.NoError(t, err)
	assert.Equal(t, StatusWorking, s)

	_, err = ParseStatus("retired")
	assert.Error(t, err)

	for _, valid := range AllStatuses() {
		assert.True(t, valid.IsValid())
	}
	assert.False(t, Status("").IsValid())
}

func TestFormData_Normalize(t *testing.T) {
	form := FormData{
		Name:   "  Alice Johnson  ",
		Phone:  " +7 700 123 4567 ",
		Email:  " alice@example.com ",
		Status: " Studying ",
	}

	norm := form.Normalize()
	assert.Equal(t, "Alice Johnson", norm.Name)
	assert.Equal(t, "+7 700 123 4567", norm.Phone)
	assert.Equal(t, "alice@example.com", norm.Email)
	assert.Equal(t, StatusStudying, norm.Status)
}

func TestFormData_EnrollmentTime(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

	// Empty defaults to today's date.
	got, err := FormData{}.EnrollmentTime(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), got)

	// Explicit date is parsed as-is.
	got, err = FormData{EnrollmentDate: "2024-09-01"}.EnrollmentTime(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = FormData{EnrollmentDate: "bad"}.EnrollmentTime(now)
	assert.Error(t, err)
}

func TestStudent_Clone(t *testing.T) {
	gpa := 3.2
	enrolled := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	orig := &Student{
		ID:             "s1",
		Name:           "Alice Johnson",
		EnrollmentDate: &enrolled,
		GPA:            &gpa,
	}

	clone := orig.Clone()
	require.NotNil(t, clone)

	*clone.GPA = 1.0
	*clone.EnrollmentDate = enrolled.AddDate(1, 0, 0)
	clone.Name = "changed"

	assert.Equal(t, 3.2, *orig.GPA)
	assert.Equal(t, enrolled, *orig.EnrollmentDate)
	assert.Equal(t, "Alice Johnson", orig.Name)

	var nilStudent *Student
	assert.Nil(t, nilStudent.Clone())
}

func TestFormFromStudent(t *testing.T) {
	gpa := 3.8
	enrolled := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	s := &Student{
		ID:             "s1",
		Name:           "Bob Lee",
		Phone:          "+7 701 000 0000",
		Email:          "bob@example.com",
		Age:            22,
		Grade:          "Senior",
		EnrollmentDate: &enrolled,
		GPA:            &gpa,
		Status:         StatusGraduated,
	}

	form := FormFromStudent(s)
	assert.Equal(t, "Bob Lee", form.Name)
	assert.Equal(t, "2023-01-15", form.EnrollmentDate)
	assert.Equal(t, StatusGraduated, form.Status)
	assert.Equal(t, &gpa, form.GPA)

	// The pre-filled form passes validation unchanged.
	assert.NoError(t, ValidateForm(form.Normalize()))
}
