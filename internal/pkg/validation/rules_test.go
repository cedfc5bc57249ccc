package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringValidationBounds(t *testing.T) {
	assert.False(t, NewStringValidation("").Validate(), "required fields reject empty values")
	assert.True(t, NewStringValidation("").WithRequired(false).Validate())
	assert.False(t, NewStringValidation("ab").WithMinLength(3).Validate())
	assert.False(t, NewStringValidation("abcd").WithMaxLength(3).Validate())
	assert.True(t, NewStringValidation("abc").WithMinLength(3).WithMaxLength(3).Validate())
}

func TestStringValidationPattern(t *testing.T) {
	check := func(value string) bool {
		return NewStringValidation(value).WithPattern(CompiledPatterns.StudentID).Validate()
	}

	assert.True(t, check("2021-04567"))
	assert.False(t, check("21-4567"))
	assert.False(t, check("2021-045678"))
}

func TestEmailPatternIsLowercaseOnly(t *testing.T) {
	assert.True(t, CompiledPatterns.Email.MatchString("jane.doe@univ.edu"))
	assert.False(t, CompiledPatterns.Email.MatchString("Jane.Doe@univ.edu"))
}
