// Package email sends membership notifications over SMTP.
package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"nexus/internal/shared/config"
	"nexus/internal/shared/logger"
	"nexus/internal/shared/utils"
)

// SMTPNotifier sends membership lifecycle emails. When disabled in
// configuration every send is a no-op, which keeps local development
// quiet without stubbing the interface.
type SMTPNotifier struct {
	cfg    config.EmailConfig
	dialer *gomail.Dialer
	logger logger.Interface
}

// NewSMTPNotifier creates the SMTP-backed notifier.
func NewSMTPNotifier(cfg config.EmailConfig, log logger.Interface) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		logger: log.Named("email"),
	}
}

// MembershipApproved tells the member their membership is active.
func (n *SMTPNotifier) MembershipApproved(ctx context.Context, to, name, planName string) error {
	subject := "Your Membership Is Active"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Welcome aboard, %s!</h2>
			<p>Your payment was verified and your <strong>%s</strong> membership is now active.</p>
			<p>You can review your membership details and renewal dates from your account page.</p>
		</body>
		</html>
	`, name, planName)

	plainBody := fmt.Sprintf(`
Welcome aboard, %s!

Your payment was verified and your %s membership is now active.

You can review your membership details and renewal dates from your account page.
	`, name, planName)

	return n.send(ctx, to, subject, htmlBody, plainBody)
}

// MembershipRejected tells the member their request was turned down.
func (n *SMTPNotifier) MembershipRejected(ctx context.Context, to, name, reason string) error {
	subject := "Membership Request Rejected"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Hello %s,</h2>
			<p>Unfortunately we could not approve your membership request.</p>
			<p>Reason: %s</p>
			<p>If you believe this is a mistake, please contact support and include your payment reference.</p>
		</body>
		</html>
	`, name, reason)

	plainBody := fmt.Sprintf(`
Hello %s,

Unfortunately we could not approve your membership request.

Reason: %s

If you believe this is a mistake, please contact support and include your payment reference.
	`, name, reason)

	return n.send(ctx, to, subject, htmlBody, plainBody)
}

func (n *SMTPNotifier) send(ctx context.Context, to, subject, htmlBody, plainBody string) error {
	if !n.cfg.Enabled {
		n.logger.Debugw("email disabled, skipping send", "to", utils.MaskEmail(to), "subject", subject)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(n.cfg.FromAddress, n.cfg.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
