package notify

import (
	"context"
	"fmt"
	"html"
	"net/smtp"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-enroll/auth"
)

// SendMailFunc matches smtp.SendMail
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPConfig configures the SMTP reset notifier
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	LinkBase string
}

// SMTPNotifier emails reset links
type SMTPNotifier struct {
	cfg  SMTPConfig
	send SendMailFunc
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, send: smtp.SendMail}
}

// WithSendMail replaces the transport
func (n *SMTPNotifier) WithSendMail(send SendMailFunc) *SMTPNotifier {
	if send != nil {
		n.send = send
	}
	return n
}

func (n *SMTPNotifier) SendPasswordReset(ctx context.Context, user *auth.User, token string, expiresAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var a smtp.Auth
	if n.cfg.Username != "" {
		a = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	addr := n.cfg.Host + ":" + strconv.Itoa(n.cfg.Port)
	msg := n.message(user, token, expiresAt)

	if err := n.send(addr, a, n.cfg.From, []string{user.Email}, msg); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to send password reset email")
	}
	return nil
}

func (n *SMTPNotifier) message(user *auth.User, token string, expiresAt time.Time) []byte {
	link := ResetLink(n.cfg.LinkBase, token)

	body := fmt.Sprintf(`<html>
<body>
	<h2>Password reset</h2>
	<p>Hi %s,</p>
	<p>Use the link below to choose a new password:</p>
	<p><a href="%s">%s</a></p>
	<p>The link expires at %s.</p>
	<p>If you did not request this, you can ignore this email.</p>
</body>
</html>`,
		html.EscapeString(user.Name),
		html.EscapeString(link),
		html.EscapeString(link),
		expiresAt.UTC().Format(time.RFC1123),
	)

	headers := map[string]string{
		"From":         n.cfg.From,
		"To":           user.Email,
		"Subject":      "Reset your password",
		"MIME-Version": "1.0",
		"Content-Type": `text/html; charset="utf-8"`,
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var message strings.Builder
	for _, k := range keys {
		message.WriteString(k + ": " + headers[k] + "\r\n")
	}
	message.WriteString("\r\n" + body)

	return []byte(message.String())
}

// ResetLink appends token to base as the token query parameter
func ResetLink(base, token string) string {
	u, err := url.Parse(base)
	if err != nil || base == "" {
		return token
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
