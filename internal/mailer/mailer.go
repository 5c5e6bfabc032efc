package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"eatspot/internal/config"
)

func send(toEmail, subject, body string) error {
	cfg := config.AppEnv

	message := gomail.NewMessage()
	message.SetAddressHeader("From", cfg.SMTPEmail, cfg.SMTPSender)
	message.SetHeader("To", toEmail)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", body)

	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)
	return dialer.DialAndSend(message)
}

func SendVerificationCode(toEmail, code string) error {
	body := fmt.Sprintf(
		"<p>Your Eatspot verification code is:</p><h2>%s</h2><p>The code expires in 15 minutes.</p>",
		code,
	)
	return send(toEmail, "Verify your email", body)
}

func SendPasswordReset(toEmail, resetURL string) error {
	body := fmt.Sprintf(
		"<p>We received a request to reset your password.</p><p><a href=\"%s\">Reset password</a></p><p>The link expires in 1 hour. If you didn't ask for this, ignore this mail.</p>",
		resetURL,
	)
	return send(toEmail, "Reset your password", body)
}
