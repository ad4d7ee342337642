package mailer

import (
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendPasswordResetOTP(toEmail, otp string, ttl time.Duration) error
	SendWelcome(toEmail, fullName string) error
}

type emailService struct {
	dialer     *gomail.Dialer
	from       string
	senderName string
}

func NewEmailService(host string, port int, username, password, senderName string) IEmailService {
	return &emailService{
		dialer:     gomail.NewDialer(host, port, username, password),
		from:       username,
		senderName: senderName,
	}
}

var otpTemplate = template.Must(template.New("otp").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
	<h2>Password Reset</h2>
	<p>Use this code to reset your journal password:</p>
	<h1 style="color: #4CAF50; letter-spacing: 5px;">{{.OTP}}</h1>
	<p>This code will expire in {{.Minutes}} minutes.</p>
	<p>If you didn't request this, you can ignore this email.</p>
</div>`))

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
	<h2>Welcome{{if .Name}}, {{.Name}}{{end}}!</h2>
	<p>Your mood journal is ready. Write a few lines whenever you like and we'll
	help you notice how you've been feeling.</p>
</div>`))

func (s *emailService) send(toEmail, subject string, tmpl *template.Template, data any) error {
	var body strings.Builder
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		log.Printf("[ERROR] Mailer: failed to send %s to %s: %v", tmpl.Name(), toEmail, err)
		return err
	}
	log.Printf("[INFO] Mailer: %s sent to %s", tmpl.Name(), toEmail)
	return nil
}

func (s *emailService) SendPasswordResetOTP(toEmail, otp string, ttl time.Duration) error {
	return s.send(toEmail, "Your Password Reset Code", otpTemplate, map[string]any{
		"OTP":     otp,
		"Minutes": int(ttl.Minutes()),
	})
}

func (s *emailService) SendWelcome(toEmail, fullName string) error {
	return s.send(toEmail, "Welcome to your Mood Journal", welcomeTemplate, map[string]any{
		"Name": fullName,
	})
}
