package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	for _, email := range []string{"user@example.com", "a.b+tag@sub.domain.org"} {
		valid, _ := ValidateEmail(email)
		assert.True(t, valid, email)
	}
	for _, email := range []string{"", "plainaddress", "user@", "@example.com", "user@nodot"} {
		valid, _ := ValidateEmail(email)
		assert.False(t, valid, email)
	}
}

func TestValidatePhoneNormalizes(t *testing.T) {
	valid, normalized := ValidatePhone("+880 17-1234-5678")
	assert.True(t, valid)
	assert.Equal(t, "+8801712345678", normalized)

	valid, _ = ValidatePhone("not-a-phone")
	assert.False(t, valid)
}

func TestValidateBkashNumber(t *testing.T) {
	valid, normalized := ValidateBkashNumber("01712345678")
	assert.True(t, valid)
	assert.Equal(t, "01712345678", normalized)

	// Country prefix and spaces are stripped
	valid, normalized = ValidateBkashNumber("+88 01912345678")
	assert.True(t, valid)
	assert.Equal(t, "01912345678", normalized)

	for _, number := range []string{"0171234567", "017123456789", "02712345678", "01212345678", ""} {
		valid, _ := ValidateBkashNumber(number)
		assert.False(t, valid, number)
	}
}

func TestValidateCouponCode(t *testing.T) {
	for _, code := range []string{"SAVE10", "FLAT50", "ABC", "A1B2C3D4E5F6G7H8I9J0"} {
		valid, _ := ValidateCouponCode(code)
		assert.True(t, valid, code)
	}
	for _, code := range []string{"", "ab", "save10", "TOO-LONG-WITH-DASHES", "HAS SPACE", "A1B2C3D4E5F6G7H8I9J0X"} {
		valid, _ := ValidateCouponCode(code)
		assert.False(t, valid, code)
	}
}

func TestValidateCouponValue(t *testing.T) {
	assert.NoError(t, ValidateCouponValue("percentage", 10, 0))
	assert.NoError(t, ValidateCouponValue("fixed", 0, 50))

	assert.Error(t, ValidateCouponValue("percentage", 0, 0))
	assert.Error(t, ValidateCouponValue("percentage", 95, 0))
	assert.Error(t, ValidateCouponValue("fixed", 0, 0))
	assert.Error(t, ValidateCouponValue("fixed", 0, -5))
	assert.Error(t, ValidateCouponValue("bogus", 10, 10))
}

func TestValidatePassword(t *testing.T) {
	valid, _ := ValidatePassword("Str0ngPass")
	assert.True(t, valid)

	for _, password := range []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		valid, _ := ValidatePassword(password)
		assert.False(t, valid, password)
	}
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"Tanvir Hasan", "Md. Rahim", "Jean-Luc"} {
		valid, _ := ValidateName(name)
		assert.True(t, valid, name)
	}
	for _, name := range []string{"", "   ", "A", "Name123", "<script>"} {
		valid, _ := ValidateName(name)
		assert.False(t, valid, name)
	}
}

func TestValidateUsername(t *testing.T) {
	valid, _ := ValidateUsername("tanvir_99")
	assert.True(t, valid)

	for _, username := range []string{"ab", "has space", "way_too_long_username_x", "dash-ed"} {
		valid, _ := ValidateUsername(username)
		assert.False(t, valid, username)
	}
}
