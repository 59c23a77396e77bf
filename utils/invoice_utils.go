package utils

import (
	"fmt"
	"strings"
	"time"
)

// GenerateInvoiceNumber builds an invoice number embedding the year and a
// time-derived suffix. Uniqueness is guaranteed by the unique index on
// invoices; collisions within the same second are retried by the caller.
func GenerateInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%d-%06d", now.Year(), now.Unix()%1000000)
}

// GenerateAccessCode derives the human-shareable course access token from
// the buyer's first name, the issue date and the course batch.
func GenerateAccessCode(firstName string, now time.Time, batch string) string {
	name := strings.ToUpper(strings.TrimSpace(firstName))
	name = strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r
		}
		return -1
	}, name)
	if len(name) > 3 {
		name = name[:3]
	}
	for len(name) < 3 {
		name += "X"
	}

	code := name + now.Format("0102")
	if batch != "" {
		code += "-" + strings.ToUpper(strings.ReplaceAll(batch, " ", ""))
	}
	return code
}

// GenerateCertificateSerial builds a certificate serial for a completed
// enrollment.
func GenerateCertificateSerial(enrollmentID uint, now time.Time) string {
	return fmt.Sprintf("CERT-%d-%04d-%d", now.Year(), enrollmentID%10000, now.Unix()%100000)
}
