package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty(" \t "))
	assert.False(t, IsEmpty(" Ayesha "))
}

func TestIsValidEmail(t *testing.T) {
	for _, email := range []string{"hr@example.com", "imran.ali+leave@office.com.pk", "a@b.cd"} {
		assert.True(t, IsValidEmail(email), email)
	}
	for _, email := range []string{"hr@", "@example.com", "hr@.com", "hr@office", " ", ""} {
		assert.False(t, IsValidEmail(email), email)
	}
}

func TestIsDigits(t *testing.T) {
	assert.True(t, IsDigits("12345", 5))
	assert.False(t, IsDigits("1234", 5))
	assert.False(t, IsDigits("12a45", 5))
	assert.False(t, IsDigits("", 0))
}

func TestIsValidCNIC(t *testing.T) {
	for _, cnic := range []string{"3520212345671", "0000000000000"} {
		assert.True(t, IsValidCNIC(cnic), cnic)
	}
	for _, cnic := range []string{"352021234567", "35202123456712", "35202-1234567-1", "352021234567a", ""} {
		assert.False(t, IsValidCNIC(cnic), cnic)
	}
}

func TestIsValidHRISID(t *testing.T) {
	tests := []struct {
		id   int
		want bool
	}{
		{10000, true},
		{54321, true},
		{99999, true},
		{9999, false},
		{100000, false},
		{0, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidHRISID(tt.id), tt.id)
	}
}

func TestIsValidDate(t *testing.T) {
	d, ok := IsValidDate("2024-02-29")
	assert.True(t, ok)
	assert.Equal(t, 29, d.Day())

	for _, s := range []string{"2023-02-29", "2024-13-01", "01-03-2024", "2024-3-1", ""} {
		_, ok := IsValidDate(s)
		assert.False(t, ok, s)
	}
}

func TestIsInSlice(t *testing.T) {
	assert.True(t, IsInSlice("Male", []string{"Male", "Female"}))
	assert.False(t, IsInSlice("male", []string{"Male", "Female"}))
	assert.False(t, IsInSlice("Male", nil))
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "cnic", Message: "CNIC is required"},
		{Field: "cnic", Message: "CNIC must be 13 digits"},
		{Field: "name", Message: "Name is required"},
	}

	assert.Equal(t, "cnic: CNIC is required; cnic: CNIC must be 13 digits; name: Name is required", errs.Error())
	assert.Equal(t, map[string]string{"cnic": "CNIC is required", "name": "Name is required"}, errs.ToMap())
}
