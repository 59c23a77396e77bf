package utils

import (
	"fmt"
	"strings"

	"regexp"
)

// FieldValidationError represents a validation error for a specific field
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidationErrors represents multiple field validation errors
type FieldValidationErrors []FieldValidationError

// Error implements the error interface
func (e FieldValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

var (
	usernameRegex   = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex      = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	bkashRegex      = regexp.MustCompile(`^01[3-9]\d{8}$`)
	couponCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)
	nameRegex       = regexp.MustCompile(`^[a-zA-Z.\- ]{2,100}$`)

	hasLower  = regexp.MustCompile(`[a-z]`)
	hasUpper  = regexp.MustCompile(`[A-Z]`)
	hasNumber = regexp.MustCompile(`[0-9]`)
)

// ValidateUsername checks if the username meets the requirements
func ValidateUsername(username string) (bool, string) {
	if !usernameRegex.MatchString(username) {
		return false, "Username must be 3-20 characters and contain only letters, numbers and underscores"
	}
	return true, ""
}

// ValidateEmail checks if the email is a well-formed address
func ValidateEmail(email string) (bool, string) {
	if !emailRegex.MatchString(email) {
		return false, "Invalid email address format"
	}
	return true, ""
}

// ValidatePhone checks the phone number and returns it normalized
func ValidatePhone(phone string) (bool, string) {
	normalized := strings.ReplaceAll(phone, " ", "")
	normalized = strings.ReplaceAll(normalized, "-", "")
	if !phoneRegex.MatchString(normalized) {
		return false, "Invalid phone number format"
	}
	return true, normalized
}

// ValidateBkashNumber checks a Bangladeshi mobile money number (e.g. 017XXXXXXXX)
func ValidateBkashNumber(number string) (bool, string) {
	normalized := strings.ReplaceAll(number, " ", "")
	normalized = strings.TrimPrefix(normalized, "+88")
	if !bkashRegex.MatchString(normalized) {
		return false, "Invalid bKash number. Expected an 11 digit number starting with 01"
	}
	return true, normalized
}

// ValidateName checks a person's name
func ValidateName(name string) (bool, string) {
	if !nameRegex.MatchString(strings.TrimSpace(name)) {
		return false, "Name must be 2-100 characters and contain only letters, spaces, dots and hyphens"
	}
	return true, ""
}

// ValidatePassword enforces the password policy
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters long"
	}
	if !hasLower.MatchString(password) || !hasUpper.MatchString(password) || !hasNumber.MatchString(password) {
		return false, "Password must contain at least one lowercase letter, one uppercase letter and one number"
	}
	return true, ""
}

// ValidateCouponCode checks the shape of an (already uppercased) coupon code
func ValidateCouponCode(code string) (bool, string) {
	if !couponCodeRegex.MatchString(code) {
		return false, "Coupon code must be 3-20 uppercase letters or digits"
	}
	return true, ""
}

// ValidateCouponValue enforces limits on coupon discount values
func ValidateCouponValue(discountType string, percentage, amount float64) error {
	switch discountType {
	case "percentage":
		if percentage <= 0 || percentage > 90 {
			return fmt.Errorf("percentage discount must be between 1 and 90")
		}
	case "fixed":
		if amount <= 0 {
			return fmt.Errorf("fixed discount amount must be greater than zero")
		}
	default:
		return fmt.Errorf("discount type must be percentage or fixed")
	}
	return nil
}
