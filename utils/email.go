package utils

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds email configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func emailConfigFromEnv() EmailConfig {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	return EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

func sendMail(to, subject, htmlBody string) error {
	config := emailConfigFromEnv()

	m := gomail.NewMessage()
	m.SetHeader("From", config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// OTPValidity is how long a registration OTP stays usable. The email copy
// and the expiry check both derive from it.
const OTPValidity = 5 * time.Minute

func otpEmailBody(otp string) string {
	return fmt.Sprintf(`
		<h2>Welcome to CourseDeck!</h2>
		<p>Thank you for registering. Please use the following OTP to verify your email address:</p>
		<h1 style="color: #4CAF50; font-size: 32px; letter-spacing: 5px;">%s</h1>
		<p>This OTP will expire in %d minutes.</p>
		<p>If you didn't request this OTP, please ignore this email.</p>
	`, otp, int(OTPValidity.Minutes()))
}

// SendOTP sends a registration OTP via email
func SendOTP(to, otp string) error {
	return sendMail(to, "Your CourseDeck Registration OTP", otpEmailBody(otp))
}

// SendEnrollmentConfirmation sends the post-payment confirmation carrying
// the invoice number and course access code. Callers treat a failure here
// as best-effort; it never rolls back enrollment state.
func SendEnrollmentConfirmation(to, studentName, courseTitle, invoiceNumber, accessCode string, amount float64) error {
	body := fmt.Sprintf(`
		<h2>Enrollment Confirmed</h2>
		<p>Dear %s,</p>
		<p>Your payment of %.2f BDT for <strong>%s</strong> has been received.</p>
		<p>Invoice number: <strong>%s</strong></p>
		<p>Your course access code is:</p>
		<h1 style="color: #4CAF50; font-size: 28px; letter-spacing: 3px;">%s</h1>
		<p>Keep this code safe. You will need it to unlock your course content.</p>
	`, studentName, amount, courseTitle, invoiceNumber, accessCode)
	return sendMail(to, "Your CourseDeck Enrollment Confirmation", body)
}
