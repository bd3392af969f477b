package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/sirupsen/logrus"

	"astrocrm/internal/config"
	"astrocrm/internal/models/db_models"
)

// AccountNotifier tells an account holder about an admin decision on their account.
type AccountNotifier interface {
	NotifyDecision(ctx context.Context, account *db_models.Account) error
}

type noopNotifier struct{}

func (noopNotifier) NotifyDecision(context.Context, *db_models.Account) error { return nil }

// NewAccountNotifier returns an SMTP notifier when mail is enabled and a no-op otherwise.
func NewAccountNotifier(cfg config.MailConfig, log *logrus.Logger) AccountNotifier {
	if !cfg.Enabled {
		log.Info("Mail disabled, account decisions will not be e-mailed")
		return noopNotifier{}
	}
	return newSMTPNotifier(cfg)
}

type emailData struct {
	Title     string
	Intro     string
	ButtonURL string
	ButtonTxt string
	AppName   string
	Year      int
}

type smtpNotifier struct {
	cfg     config.MailConfig
	htmlTpl *template.Template
	textTpl *texttemplate.Template
	now     func() time.Time
	deliver func(ctx context.Context, to string, msg []byte) error
}

func newSMTPNotifier(cfg config.MailConfig) *smtpNotifier {
	n := &smtpNotifier{
		cfg:     cfg,
		htmlTpl: template.Must(template.New("decisionHTML").Parse(decisionHTMLTemplate)),
		textTpl: texttemplate.Must(texttemplate.New("decisionText").Parse(decisionTextTemplate)),
		now:     time.Now,
	}
	n.deliver = n.sendSMTP
	return n
}

func (s *smtpNotifier) NotifyDecision(ctx context.Context, account *db_models.Account) error {
	data := s.decisionEmail(account)

	var hb, tb bytes.Buffer
	if err := s.htmlTpl.Execute(&hb, data); err != nil {
		return err
	}
	if err := s.textTpl.Execute(&tb, data); err != nil {
		return err
	}

	msg := s.buildMessage(account.Email, data.Title, hb.String(), tb.String())
	return s.deliver(ctx, account.Email, msg)
}

func (s *smtpNotifier) decisionEmail(account *db_models.Account) emailData {
	data := emailData{
		AppName: s.cfg.AppName,
		Year:    s.now().Year(),
	}

	switch account.Status {
	case db_models.StatusApproved:
		data.Title = "Your account has been approved"
		data.Intro = fmt.Sprintf("Hello %s, an administrator approved your account. You can sign in now.", account.Name)
		data.ButtonURL = strings.TrimRight(s.cfg.AppBaseURL, "/") + "/login"
		data.ButtonTxt = "Sign in"
	default:
		reason := db_models.DefaultRejectionReason
		if account.RejectionReason != nil && *account.RejectionReason != "" {
			reason = *account.RejectionReason
		}
		data.Title = "Your account has been rejected"
		data.Intro = fmt.Sprintf("Hello %s, an administrator rejected your account. Reason: %s", account.Name, reason)
	}
	return data
}

func (s *smtpNotifier) fromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", name), s.cfg.From)
}

func (s *smtpNotifier) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := fmt.Sprintf("alt_%d", s.now().UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = fmt.Fprintf(&msg, format, a...) }

	write("From: %s\r\n", s.fromHeader())
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	write("Date: %s\r\n", s.now().Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	write("--%s--\r\n", boundary)
	return msg.Bytes()
}

// sendSMTP uses implicit TLS when UseSSL is set and STARTTLS otherwise.
func (s *smtpNotifier) sendSMTP(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	var conn net.Conn
	var err error
	if s.cfg.UseSSL {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsCfg}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if !s.cfg.UseSSL {
		ok, _ := c.Extension("STARTTLS")
		if !ok {
			return fmt.Errorf("smtp: %s does not support STARTTLS", s.cfg.Host)
		}
		if err := c.StartTLS(tlsCfg); err != nil {
			return err
		}
	}

	if s.cfg.Username != "" {
		if err := c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return err
		}
	}
	if err := c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

const decisionHTMLTemplate = `<!doctype html>
<html>
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body style="margin:0;padding:32px 16px;background:#f8fafc;font-family:-apple-system,Segoe UI,Roboto,Arial,sans-serif;color:#0f172a">
  <div style="max-width:600px;margin:0 auto;background:#ffffff;border-radius:12px;overflow:hidden">
    <div style="padding:24px 32px;font-weight:700;color:#7c3aed;text-transform:uppercase">{{.AppName}}</div>
    <div style="padding:8px 32px 32px">
      <h1 style="font-size:24px;margin:0 0 16px">{{.Title}}</h1>
      <p style="line-height:1.6;color:#475569">{{.Intro}}</p>
      {{if .ButtonURL}}<p><a href="{{.ButtonURL}}" style="display:inline-block;padding:12px 24px;background:#7c3aed;color:#ffffff;border-radius:8px;text-decoration:none">{{.ButtonTxt}}</a></p>{{end}}
    </div>
    <div style="padding:16px 32px;font-size:13px;color:#64748b;text-align:center">&copy; {{.Year}} {{.AppName}}</div>
  </div>
</body>
</html>`

const decisionTextTemplate = `{{.Title}}

{{.Intro}}
{{if .ButtonURL}}
{{.ButtonTxt}}: {{.ButtonURL}}
{{end}}
{{.AppName}} (c) {{.Year}}
`
