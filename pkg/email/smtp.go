package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"sort"
	"strings"
	"time"

	"github.com/nithinv16/DukaaOnWebsite/internal/config"
)

const dialTimeout = 10 * time.Second

// EnquiryNotification is what the admin mail shows about an enquiry
type EnquiryNotification struct {
	EnquiryID       string
	VisitorName     string
	Email           string
	Phone           string
	Location        string
	EnquiryType     string
	StakeholderType string
	SellerID        string
	Message         string
}

type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

// IsConfigured reports whether SMTP host and credentials are set
func (s *EmailService) IsConfigured() bool {
	return s.cfg.EmailHost != "" && s.cfg.EmailHostUser != ""
}

// SendEnquiryNotification mails a new enquiry to the admin inbox
func (s *EmailService) SendEnquiryNotification(to string, n EnquiryNotification) error {
	subject := fmt.Sprintf("[DukaaOn] New %s enquiry from %s", n.EnquiryType, n.VisitorName)
	return s.sendEmail(to, subject, RenderEnquiryHTML(n))
}

// RenderEnquiryHTML builds the HTML body; every visitor value is escaped
func RenderEnquiryHTML(n EnquiryNotification) string {
	row := func(label, value string) string {
		if value == "" {
			return ""
		}
		return fmt.Sprintf(`<tr><td style="padding:4px 12px 4px 0;color:#666;">%s</td><td style="padding:4px 0;">%s</td></tr>`,
			label, html.EscapeString(value))
	}

	var rows strings.Builder
	rows.WriteString(row("Enquiry ID", n.EnquiryID))
	rows.WriteString(row("Type", n.EnquiryType))
	rows.WriteString(row("Stakeholder", n.StakeholderType))
	rows.WriteString(row("Seller", n.SellerID))
	rows.WriteString(row("Name", n.VisitorName))
	rows.WriteString(row("Email", n.Email))
	rows.WriteString(row("Phone", n.Phone))
	rows.WriteString(row("Location", n.Location))

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #F97316;">New enquiry on DukaaOn</h2>
        <table>%s</table>
        <div style="background-color: #f4f4f4; padding: 16px; border-radius: 5px; margin: 20px 0; white-space: pre-wrap;">%s</div>
        <hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
        <p style="color: #999; font-size: 12px;">Sent automatically by the DukaaOn website.</p>
    </div>
</body>
</html>
`, rows.String(), html.EscapeString(n.Message))
}

// buildMessage renders headers in a stable order and a quoted-printable body
func (s *EmailService) buildMessage(to, subject, body string) ([]byte, error) {
	// Gmail requires sender to match authenticated user
	from := s.cfg.EmailHostUser
	displayFrom := from
	if s.cfg.DefaultFromEmail != "" {
		displayFrom = fmt.Sprintf("DukaaOn <%s>", from)
	}

	headers := map[string]string{
		"From":                      displayFrom,
		"To":                        to,
		"Subject":                   mime.QEncoding.Encode("utf-8", subject),
		"MIME-Version":              "1.0",
		"Content-Type":              "text/html; charset=UTF-8",
		"Content-Transfer-Encoding": "quoted-printable",
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		fmt.Fprintf(&buf, "%s: %s\r\n", k, headers[k])
	}
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(body)); err != nil {
		return nil, err
	}
	if err := qp.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	msg, err := s.buildMessage(to, subject, body)
	if err != nil {
		return fmt.Errorf("failed to build message: %w", err)
	}

	from := s.cfg.EmailHostUser
	auth := smtp.PlainAuth("", s.cfg.EmailHostUser, s.cfg.EmailHostPassword, s.cfg.EmailHost)
	addr := net.JoinHostPort(s.cfg.EmailHost, fmt.Sprint(s.cfg.EmailPort))

	if s.cfg.EmailUseTLS {
		return s.sendMailTLS(addr, auth, from, []string{to}, msg)
	}
	return smtp.SendMail(addr, auth, from, []string{to}, msg)
}

// sendMailTLS sends email with STARTTLS
func (s *EmailService) sendMailTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}

	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("failed to dial: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	if err = client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range to {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}
