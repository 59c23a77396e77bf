package utils

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOTPEmailBodyMatchesValidityWindow(t *testing.T) {
	body := otpEmailBody("482913")

	assert.Contains(t, body, "482913")
	assert.Contains(t, body, fmt.Sprintf("expire in %d minutes", int(OTPValidity.Minutes())))
}
