// Package mailer sends transactional account emails over SMTP.
package mailer

import (
	"fmt"
	"net/smtp"
)

// Mailer delivers plain-text emails. Handlers depend on this interface
// so tests can swap in a recording fake.
type Mailer interface {
	SendPasswordReset(to, newPassword string) error
	SendEmployeeWelcome(to, username, initialPassword string) error
}

// SMTPMailer sends mail through a single SMTP relay using PLAIN auth.
type SMTPMailer struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{Host: host, Port: port, User: user, Pass: pass, From: from}
}

func (m *SMTPMailer) SendPasswordReset(to, newPassword string) error {
	body := fmt.Sprintf(
		"Your password has been reset.\r\n\r\nNew password: %s\r\n\r\nPlease sign in and change it right away.\r\n",
		newPassword)
	return m.send(to, "Password reset", body)
}

func (m *SMTPMailer) SendEmployeeWelcome(to, username, initialPassword string) error {
	body := fmt.Sprintf(
		"An employee account has been created for you.\r\n\r\nUsername: %s\r\nTemporary password: %s\r\n\r\nPlease sign in and change the password on first use.\r\n",
		username, initialPassword)
	return m.send(to, "Your new account", body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s",
		m.From, to, subject, body)
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	auth := smtp.PlainAuth("", m.User, m.Pass, m.Host)
	if err := smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// NopMailer satisfies Mailer without sending anything. Used when SMTP
// is not configured so password-reset flows still work in development.
type NopMailer struct{}

func (NopMailer) SendPasswordReset(string, string) error           { return nil }
func (NopMailer) SendEmployeeWelcome(string, string, string) error { return nil }
