package utils

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateInvoiceNumberFormat(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	number := GenerateInvoiceNumber(now)

	assert.Equal(t, fmt.Sprintf("INV-2026-%06d", now.Unix()%1000000), number)
	assert.Regexp(t, `^INV-\d{4}-\d{6}$`, number)
}

func TestGenerateInvoiceNumberDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, GenerateInvoiceNumber(now), GenerateInvoiceNumber(now))
}

func TestGenerateAccessCode(t *testing.T) {
	issued := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	code := GenerateAccessCode("Tanvir", issued, "Batch12")
	assert.Equal(t, "TAN0305-BATCH12", code)
}

func TestGenerateAccessCodeShortName(t *testing.T) {
	issued := time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC)

	// Names shorter than three letters are padded with X
	assert.Equal(t, "ALX1120-B7", GenerateAccessCode("Al", issued, "B7"))
	assert.Equal(t, "XXX1120-B7", GenerateAccessCode("", issued, "B7"))
}

func TestGenerateAccessCodeStripsNonLetters(t *testing.T) {
	issued := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "MDR0102-B1", GenerateAccessCode("Md. Rahim", issued, "B1"))
}

func TestGenerateAccessCodeWithoutBatch(t *testing.T) {
	issued := time.Date(2026, 7, 9, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "KAR0709", GenerateAccessCode("Karim", issued, ""))
}

func TestGenerateAccessCodeBatchSpacesCollapsed(t *testing.T) {
	issued := time.Date(2026, 7, 9, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "KAR0709-BATCH3", GenerateAccessCode("Karim", issued, "Batch 3"))
}

func TestGenerateCertificateSerial(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	serial := GenerateCertificateSerial(42, now)
	assert.Equal(t, fmt.Sprintf("CERT-2026-0042-%d", now.Unix()%100000), serial)
	assert.Regexp(t, `^CERT-\d{4}-\d{4}-\d+$`, serial)
}
