package services

import (
	"fmt"
	"net/smtp"
)

// EmailSender delivers transactional mail (OTP codes).
type EmailSender interface {
	Send(to, subject, body string) error
}

// SMTPSender implements EmailSender over plain SMTP.
type SMTPSender struct {
	from     string
	password string
	host     string
	port     string
}

func NewSMTPSender(from, password, host, port string) *SMTPSender {
	return &SMTPSender{
		from:     from,
		password: password,
		host:     host,
		port:     port,
	}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	if s.from == "" || s.password == "" {
		return fmt.Errorf("SMTP configuration is missing")
	}

	message := []byte("Subject: " + subject + "\r\n" + "To: " + to + "\r\n" + "\r\n" + body)
	auth := smtp.PlainAuth("", s.from, s.password, s.host)

	if err := smtp.SendMail(s.host+":"+s.port, auth, s.from, []string{to}, message); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
