package utils

import (
	"crypto/rand"
	"fmt"
	"lms/config"
	"log"
	"math/big"
	"net/smtp"
	"strings"
)

// Verification codes avoid ambiguous characters (0/O, 1/I) since they are
// read aloud and typed by hand.
const verifyCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateVerificationCode generates a short, publicly shareable certificate
// verification code.
func GenerateVerificationCode() string {
	length := 10
	if config.AppConfig != nil && config.AppConfig.VerifyCodeLength > 0 {
		length = config.AppConfig.VerifyCodeLength
	}

	code := make([]byte, length)
	max := big.NewInt(int64(len(verifyCodeCharset)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing is unrecoverable for code generation
			log.Fatalf("Failed to read random bytes: %v", err)
		}
		code[i] = verifyCodeCharset[n.Int64()]
	}
	return string(code)
}

// SendEmail sends an HTML email through SMTP
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	if from == "" || password == "" {
		log.Println("Email sender not configured, skipping email")
		return nil
	}

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Learning Platform <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		log.Println("Error sending email:", err)
		return err
	}
	return nil
}

// SendEnrollmentEmail sends an email notification when user enrolls in a course
func SendEnrollmentEmail(email, userName, courseName string) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">Enrollment Successful!</h2>
					<p style="font-size: 16px; color: #555555;">Dear %s,</p>
					<p style="font-size: 16px; color: #555555;">You have successfully enrolled in:</p>
					<h3 style="text-align: center; color: #4CAF50; margin: 20px 0;">%s</h3>
					<p style="font-size: 14px; color: #666666;">Complete all modules and pass the final test to earn your certificate.</p>
					<p style="font-size: 14px; color: #999999; text-align: center; margin-top: 30px;">Happy Learning!</p>
				</div>
			</body>
		</html>
	`, userName, courseName)

	return SendEmail([]string{email}, "Course Enrollment Confirmation", body)
}

// SendCertificateEmail sends certificate notification email
func SendCertificateEmail(email, userName, courseName, certificateNumber string) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">Certificate of Completion</h2>
					<p style="font-size: 16px; color: #555555;">Dear %s,</p>
					<p style="font-size: 16px; color: #555555;">Congratulations on completing the course:</p>
					<h3 style="text-align: center; color: #4CAF50; margin: 20px 0;">%s</h3>
					<div style="background-color: #f8f9fa; border-radius: 8px; padding: 20px; margin: 20px 0; text-align: center;">
						<p style="font-size: 14px; color: #666666; margin-bottom: 10px;">Your Certificate Number:</p>
						<h2 style="color: #2196F3; margin: 0;">%s</h2>
					</div>
					<p style="font-size: 14px; color: #666666;">You can use this certificate number for verification purposes.</p>
					<p style="font-size: 14px; color: #999999; text-align: center; margin-top: 30px;">Congratulations on this achievement!</p>
				</div>
			</body>
		</html>
	`, userName, courseName, certificateNumber)

	return SendEmail([]string{email}, "Course Completion Certificate", body)
}
