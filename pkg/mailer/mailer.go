package mailer

import (
	"fmt"

	"safari-booking/pkg/utils"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer is the outbound email contract: it either delivers or errors, no
// retry or queueing behind it.
type Mailer interface {
	SendVerificationEmail(to, token string) error
	SendPasswordResetEmail(to, token string) error
}

type smtpMailer struct {
	config    utils.EmailConfig
	clientURL string
	log       *zap.Logger
}

func NewSMTPMailer(config utils.EmailConfig, clientURL string, log *zap.Logger) Mailer {
	return &smtpMailer{
		config:    config,
		clientURL: clientURL,
		log:       log,
	}
}

func (m *smtpMailer) SendVerificationEmail(to, token string) error {
	verificationURL := fmt.Sprintf("%s/verify-email/%s", m.clientURL, token)

	body := fmt.Sprintf(`
		<h2>Verify Your Email Address</h2>
		<p>Thank you for registering with Adventure Safari Network! To complete your
		registration and activate your account, please verify your email address by
		clicking the link below.</p>
		<p><a href="%s">Verify Email Address</a></p>
		<p>Or copy and paste this link into your browser:</p>
		<p>%s</p>
		<p><strong>Security Note:</strong> This verification link will expire in 24 hours.
		If you didn't create an account, please ignore this email.</p>
	`, verificationURL, verificationURL)

	return m.send(to, "Email Verification - Adventure Safari", body)
}

func (m *smtpMailer) SendPasswordResetEmail(to, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password/%s", m.clientURL, token)

	body := fmt.Sprintf(`
		<h2>Reset Your Password</h2>
		<p>We received a request to reset the password for your account. Click the
		link below to choose a new password.</p>
		<p><a href="%s">Reset Password</a></p>
		<p>Or copy and paste this link into your browser:</p>
		<p>%s</p>
		<p><strong>Security Note:</strong> This reset link will expire in 1 hour.
		If you didn't request a password reset, please ignore this email.</p>
	`, resetURL, resetURL)

	return m.send(to, "Password Reset - Adventure Safari", body)
}

func (m *smtpMailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.config.From, m.config.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(m.config.Host, m.config.Port, m.config.User, m.config.Password)

	if err := dialer.DialAndSend(msg); err != nil {
		m.log.Error("Failed to send email",
			zap.Error(err),
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	m.log.Info("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
