package services

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

// NewEmailService builds the SMTP-backed EmailSender.
func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailSender {
	return &emailService{
		dialer: gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword),
		from:   fromEmail,
	}
}

func (s *emailService) SendPasswordResetCode(ctx context.Context, to, name, code string, ttl time.Duration) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your password reset code")

	body := fmt.Sprintf(`
		<h3>Hello %s,</h3>
		<p>We received a request to reset the password for your account.</p>
		<p>Your verification code is: <strong>%s</strong></p>
		<p>The code expires in %d minutes.</p>
		<p>If you did not request this change, you can ignore this email.</p>
	`, name, code, int(ttl.Minutes()))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	return nil
}

func (s *emailService) SendSubscriptionReceipt(ctx context.Context, to, name string, amountPaise int, endDate time.Time) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your premium subscription is active")

	body := fmt.Sprintf(`
		<h3>Hello %s,</h3>
		<p>Thank you for subscribing. We received your payment of ₹%d.</p>
		<p>Your premium access is active until <strong>%s</strong>.</p>
	`, name, amountPaise/100, endDate.Format("2 January 2006"))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send receipt email: %w", err)
	}

	return nil
}

func (s *emailService) SendWelcome(ctx context.Context, to, name string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Welcome to Akshara Learn!")

	body := fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>Your account has been created. Daily quizzes and the free trial mock test are waiting for you.</p>
		<p>Best of luck with your preparation.</p>
	`, name)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	return nil
}
