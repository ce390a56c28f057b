package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("user@example.com"))
	assert.True(t, IsValidEmail("first.last+tag@sub.domain.co.il"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("missing@tld"))
	assert.False(t, IsValidEmail(""))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("longenough"))
	assert.False(t, IsValidPassword("short"))
}

func TestIsValidName(t *testing.T) {
	assert.True(t, IsValidName("Dana"))
	assert.False(t, IsValidName("D"))
	assert.False(t, IsValidName(""))
}

func TestIsValidRating(t *testing.T) {
	for rating := 1; rating <= 5; rating++ {
		assert.True(t, IsValidRating(rating))
	}
	assert.False(t, IsValidRating(0))
	assert.False(t, IsValidRating(6))
}

func TestStringValidationBuilder(t *testing.T) {
	assert.True(t, NewStringValidation("hello").WithMinLength(3).WithMaxLength(10).Validate())
	assert.False(t, NewStringValidation("hi").WithMinLength(3).Validate())
	assert.False(t, NewStringValidation("").WithRequired(true).Validate())
	assert.True(t, NewStringValidation("").WithRequired(false).Validate())
}
