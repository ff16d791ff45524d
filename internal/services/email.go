package services

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/P3chys/fresher-portal/internal/config"
	"github.com/P3chys/fresher-portal/internal/models"
	"github.com/P3chys/fresher-portal/internal/utils"
)

//go:embed templates/*.html
var emailTemplates embed.FS

type EmailService struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
	templates    *template.Template
	send         func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		smtpHost:     cfg.SMTPHost,
		smtpPort:     cfg.SMTPPort,
		smtpUsername: cfg.SMTPUsername,
		smtpPassword: cfg.SMTPPassword,
		fromEmail:    cfg.SMTPFromEmail,
		fromName:     cfg.SMTPFromName,
		templates:    template.Must(template.ParseFS(emailTemplates, "templates/*.html")),
		send:         smtp.SendMail,
	}
}

// SendEmail sends an HTML email over SMTP
func (s *EmailService) SendEmail(to, subject, body string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	msg := []byte(fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", from, to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)

	// Development mode without authentication
	if s.smtpUsername == "" && s.smtpPassword == "" {
		return s.sendUnauthenticated(addr, to, msg)
	}

	auth := smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)
	if err := s.send(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) sendUnauthenticated(addr, to string, msg []byte) error {
	conn, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	if ok, _ := conn.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{ServerName: s.smtpHost}
		if s.smtpHost == "localhost" || s.smtpHost == "127.0.0.1" {
			tlsConfig.InsecureSkipVerify = true
		}
		if err := conn.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if err := conn.Mail(s.fromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := conn.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return conn.Quit()
}

// SendInterviewScheduled tells an employee about a new project allocation.
func (s *EmailService) SendInterviewScheduled(employee models.Employee, allocation models.ProjectAllocation) error {
	body, err := s.RenderInterviewScheduled(employee, allocation)
	if err != nil {
		return err
	}
	return s.SendEmail(employee.Email, "Project interview scheduled", body)
}

// RenderInterviewScheduled renders the notification body.
func (s *EmailService) RenderInterviewScheduled(employee models.Employee, allocation models.ProjectAllocation) (string, error) {
	data := map[string]interface{}{
		"Name":          employee.Name,
		"Domain":        "",
		"InterviewDate": "",
	}
	if allocation.ProjectDomain != nil {
		data["Domain"] = *allocation.ProjectDomain
	}
	if allocation.InterviewDate != nil {
		data["InterviewDate"] = allocation.InterviewDate.Format(utils.DateLayout)
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "interview_scheduled.html", data); err != nil {
		return "", fmt.Errorf("failed to execute template interview_scheduled.html: %w", err)
	}
	return buf.String(), nil
}
