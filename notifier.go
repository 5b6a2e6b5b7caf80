package auth

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
)

// VerificationLink builds the link delivered to the user. The token travels
// as a query parameter, so it must stay URL safe.
func VerificationLink(baseURL, token string) string {
	return fmt.Sprintf("%s/auth/verify-email?token=%s",
		strings.TrimRight(baseURL, "/"),
		url.QueryEscape(token),
	)
}

// SMTPNotifier delivers verification emails over SMTP with STARTTLS. Both
// the dial and the full exchange run under explicit deadlines so a slow
// relay cannot hold a registration request open.
type SMTPNotifier struct {
	host        string
	port        int
	username    string
	password    string
	from        string
	fromName    string
	subject     string
	baseURL     string
	dialTimeout time.Duration
	sendTimeout time.Duration
	logger      Logger
}

var _ Notifier = (*SMTPNotifier)(nil)

// SMTPNotifierOption customizes the notifier.
type SMTPNotifierOption func(*SMTPNotifier)

// WithNotifierLogger overrides the default logger.
func WithNotifierLogger(logger Logger) SMTPNotifierOption {
	return func(n *SMTPNotifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithNotifierSubject overrides the email subject line.
func WithNotifierSubject(subject string) SMTPNotifierOption {
	return func(n *SMTPNotifier) {
		if subject != "" {
			n.subject = subject
		}
	}
}

// WithNotifierFromName sets the display name on the From header.
func WithNotifierFromName(name string) SMTPNotifierOption {
	return func(n *SMTPNotifier) {
		n.fromName = name
	}
}

// WithNotifierTimeouts bounds the TCP dial and the total SMTP exchange.
func WithNotifierTimeouts(dial, send time.Duration) SMTPNotifierOption {
	return func(n *SMTPNotifier) {
		if dial > 0 {
			n.dialTimeout = dial
		}
		if send > 0 {
			n.sendTimeout = send
		}
	}
}

// NewSMTPNotifier creates a Notifier delivering verification links through
// the given relay. baseURL is the public origin the link points back to.
func NewSMTPNotifier(host string, port int, username, password, from, baseURL string, opts ...SMTPNotifierOption) *SMTPNotifier {
	n := &SMTPNotifier{
		host:        host,
		port:        port,
		username:    username,
		password:    password,
		from:        from,
		subject:     "Email Verification",
		baseURL:     baseURL,
		dialTimeout: 8 * time.Second,
		sendTimeout: 15 * time.Second,
		logger:      defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}

	return n
}

// Send dispatches the verification email synchronously. Any failure aborts
// the caller's registration.
func (n *SMTPNotifier) Send(ctx context.Context, email, token string) error {
	link := VerificationLink(n.baseURL, token)

	fromHeader := n.from
	if n.fromName != "" {
		fromHeader = fmt.Sprintf("%s <%s>", n.fromName, n.from)
	}

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", email),
		fmt.Sprintf("Subject: %s", n.subject),
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		fmt.Sprintf("Click the link to verify your email: %s", link),
	}, "\r\n")

	n.logger.Debug("notifier sending verification email", "to", email, "relay", n.addr())

	if err := n.send(ctx, email, []byte(msg)); err != nil {
		n.logger.Error("notifier delivery failed", "to", email, "error", err)
		return errors.Wrap(err, ErrNotificationFailed.Category, ErrNotificationFailed.Message).
			WithTextCode(ErrNotificationFailed.TextCode)
	}

	n.logger.Info("notifier delivered verification email", "to", email)
	return nil
}

func (n *SMTPNotifier) addr() string {
	return fmt.Sprintf("%s:%d", n.host, n.port)
}

func (n *SMTPNotifier) send(ctx context.Context, to string, msg []byte) error {
	dialer := net.Dialer{Timeout: n.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", n.addr())
	if err != nil {
		return err
	}

	// one deadline for the whole exchange, not per command
	deadline := time.Now().Add(n.sendTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, n.host)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: n.host}); err != nil {
			return err
		}
	}

	if n.username != "" {
		auth := smtp.PlainAuth("", n.username, n.password, n.host)
		if err := c.Auth(auth); err != nil {
			return err
		}
	}

	if err := c.Mail(n.from); err != nil {
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
		_ = w.Close()
		return err
	}
	return w.Close()
}
