package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid", "reader_01", false},
		{"allowed symbols", "a.b@c+d-e", false},
		{"reserved", "me", true},
		{"too short", "abc", true},
		{"five", "abcde", true},
		{"six", "abcdef", false},
		{"space", "two words", true},
		{"slash", "bad/name", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateYear(t *testing.T) {
	orig := Now
	defer func() { Now = orig }()
	Now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	assert.NoError(t, ValidateYear(2024))
	assert.NoError(t, ValidateYear(0))
	assert.Error(t, ValidateYear(2025))
}

func TestValidateStruct_UsesJSONNames(t *testing.T) {
	type payload struct {
		Slug  string `json:"slug" validate:"required,slug"`
		Score *int   `json:"score" validate:"required,min=0,max=10"`
	}

	zero := 0
	assert.Empty(t, ValidateStruct(payload{Slug: "sci-fi", Score: &zero}))

	eleven := 11
	errs := ValidateStruct(payload{Slug: "sci fi", Score: &eleven})
	assert.Equal(t, "Only letters, digits, hyphens and underscores are allowed", errs["slug"])
	assert.Equal(t, "Must be less than or equal to 10", errs["score"])

	errs = ValidateStruct(payload{})
	assert.Contains(t, errs, "slug")
	assert.Contains(t, errs, "score")
}

func TestFormatValidationErrors_Sorted(t *testing.T) {
	got := FormatValidationErrors(map[string]string{"year": "bad", "name": "missing"})
	assert.Equal(t, "name: missing; year: bad", got)
}

func TestGenerateConfirmationCode(t *testing.T) {
	code, err := GenerateConfirmationCode(8)
	assert.NoError(t, err)
	assert.Regexp(t, `^\d{8}$`, code)

	code, err = GenerateConfirmationCode(0)
	assert.NoError(t, err)
	assert.Len(t, code, 6)
}

func TestCalculateTotalPages(t *testing.T) {
	assert.Equal(t, 0, CalculateTotalPages(0, 10))
	assert.Equal(t, 1, CalculateTotalPages(10, 10))
	assert.Equal(t, 2, CalculateTotalPages(11, 10))
}
