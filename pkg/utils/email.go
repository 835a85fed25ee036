package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

var (
	emailFrom     = os.Getenv("EMAIL_FROM")
	emailPassword = os.Getenv("EMAIL_PASSWORD")
	smtpHost      = os.Getenv("SMTP_HOST")
	smtpPort      = os.Getenv("SMTP_PORT")
	companyName   = "RoomHaven Hotels"
	baseURL       = os.Getenv("BASE_URL")
)

// Common header template for all emails
const emailHeader = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="text-align: center; margin-bottom: 30px; background-color: #f9f9f9; padding: 20px;">
			<h2 style="color: #1a5276; margin: 0;">RoomHaven</h2>
		</div>
`

// Common footer template for all emails
const emailFooter = `
		<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #666; border-top: 1px solid #eee; padding-top: 20px;">
			<p>This is an automated message, please do not reply to this email.</p>
			<p>© 2025 RoomHaven Hotels. All rights reserved.</p>
		</div>
	</div>
</body>
</html>
`

func sendEmail(to []string, subject, body string) error {
	if emailFrom == "" || emailPassword == "" || smtpHost == "" || smtpPort == "" {
		return fmt.Errorf("email configuration not set")
	}

	// Headers
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", companyName, emailFrom)
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"
	headers["X-Mailer"] = "RoomHaven-Mailer"

	// Build message
	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + body

	// Authentication
	auth := smtp.PlainAuth("", emailFrom, emailPassword, smtpHost)

	// Send email
	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, emailFrom, to, []byte(message))
	if err != nil {
		log.Printf("Failed to send email: %v", err)
		return err
	}

	log.Printf("Successfully sent email to recipients: %v", to)
	return nil
}

// SendPasswordResetEmail mails the one-time reset code to the user.
func SendPasswordResetEmail(email, otp string) error {
	subject := "Password Reset Code - RoomHaven"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Password Reset</h1>
					<p>Hello,</p>
					<p>We received a request to reset the password for your RoomHaven account.</p>
					<p style="text-align: center; font-size: 28px; letter-spacing: 6px; font-weight: bold; margin: 30px 0;">%s</p>
					<p>This code expires in 15 minutes. If you did not request a reset, you can ignore this email.</p>
					<p>Best regards,<br>The RoomHaven Team</p>
				</div>`+emailFooter,
		otp)

	return sendEmail([]string{email}, subject, body)
}

// SendBookingConfirmedEmail notifies the payer that their reservation
// is confirmed.
func SendBookingConfirmedEmail(guestEmail, bookingReference string) error {
	subject := "Reservation Confirmed - RoomHaven"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Reservation Confirmed</h1>
					<p>Hello,</p>
					<p>Your payment was received and your reservation <strong>%s</strong> is confirmed.</p>
					<p>Keep this reference handy; you will need it to view or change your stay.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/bookings/%s" style="background-color: #1a5276; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">View Reservation</a>
					</div>
					<p>Best regards,<br>The RoomHaven Team</p>
				</div>`+emailFooter,
		bookingReference, baseURL, bookingReference)

	return sendEmail([]string{guestEmail}, subject, body)
}

// SendBookingCancelledEmail notifies the guest that a reservation was
// cancelled.
func SendBookingCancelledEmail(guestEmail, bookingReference string) error {
	subject := "Reservation Cancelled - RoomHaven"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Reservation Cancelled</h1>
					<p>Hello,</p>
					<p>Your reservation <strong>%s</strong> has been cancelled.</p>
					<p>You can book another stay any time.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/rooms" style="background-color: #1a5276; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">Browse Rooms</a>
					</div>
					<p>Best regards,<br>The RoomHaven Team</p>
				</div>`+emailFooter,
		bookingReference, baseURL)

	return sendEmail([]string{guestEmail}, subject, body)
}
