package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roster-hub/student-roster-hub/internal/domain/student"
)

func TestStudentRow_ToDomain(t *testing.T) {
	email := "alice@example.com"
	age := int32(20)
	grade := "Sophomore"
	address := "12 Abay Ave"
	gpa := 3.5
	enrolled := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)

	row := studentRow{
		ID:             "7ed99bd0-87b2-4dbb-a97b-596c3f29c49b",
		Name:           "Alice Johnson",
		Phone:          "+7 700 123 4567",
		Email:          &email,
		Age:            &age,
		Grade:          &grade,
		Address:        &address,
		EnrollmentDate: &enrolled,
		GPA:            &gpa,
		Status:         "studying",
		CreatedAt:      created,
		UpdatedAt:      created,
	}

	s := row.toDomain()
	assert.Equal(t, "Alice Johnson", s.Name)
	assert.Equal(t, "alice@example.com", s.Email)
	assert.Equal(t, 20, s.Age)
	assert.Equal(t, "Sophomore", s.Grade)
	assert.Equal(t, student.StatusStudying, s.Status)
	require.NotNil(t, s.GPA)
	assert.Equal(t, 3.5, *s.GPA)
	require.NotNil(t, s.EnrollmentDate)
	assert.Equal(t, enrolled, *s.EnrollmentDate)
}

func TestStudentRow_ToDomain_Nulls(t *testing.T) {
	row := studentRow{
		ID:     "s1",
		Name:   "Bob Lee",
		Phone:  "+7 701 000 0000",
		Status: "working",
	}

	s := row.toDomain()
	assert.Empty(t, s.Email)
	assert.Zero(t, s.Age)
	assert.Empty(t, s.Grade)
	assert.Empty(t, s.Address)
	assert.Nil(t, s.EnrollmentDate)
	assert.Nil(t, s.GPA)
	assert.Equal(t, student.StatusWorking, s.Status)
}

func TestRowArgs_EmptyOptionalsBecomeNull(t *testing.T) {
	form := student.FormData{
		Name:   "Bob Lee",
		Phone:  "+7 701 000 0000",
		Status: student.StatusWorking,
	}

	args := rowArgs(form, nil)
	require.Len(t, args, 9)

	assert.Equal(t, "Bob Lee", args[0])
	assert.Equal(t, "+7 701 000 0000", args[1])
	assert.Nil(t, args[2]) // email
	assert.Nil(t, args[3]) // age
	assert.Nil(t, args[4]) // grade
	assert.Nil(t, args[5]) // address
	assert.Nil(t, args[7]) // gpa
	assert.Equal(t, "working", args[8])
}

func TestRowArgs_ProvidedOptionalsPassThrough(t *testing.T) {
	gpa := 3.9
	enrolled := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	form := student.FormData{
		Name:   "Alice Johnson",
		Phone:  "+7 700 123 4567",
		Email:  "alice@example.com",
		Age:    20,
		GPA:    &gpa,
		Status: student.StatusStudying,
	}

	args := rowArgs(form, &enrolled)
	require.NotNil(t, args[2])
	assert.Equal(t, "alice@example.com", *(args[2].(*string)))
	require.NotNil(t, args[3])
	assert.Equal(t, int32(20), *(args[3].(*int32)))
	assert.Equal(t, &enrolled, args[6])
	assert.Equal(t, &gpa, args[7])
}

func TestMigrations_AreOrderedAndNamed(t *testing.T) {
	migrations := GetMigrations()
	require.NotEmpty(t, migrations)

	for i, m := range migrations {
		assert.Equal(t, i+1, m.Version)
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.UpSQL)
	}
}
