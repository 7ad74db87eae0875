package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/btggithub/DAM/internal/domain"
	"github.com/btggithub/DAM/internal/observability/metrics"
	"github.com/btggithub/DAM/internal/store"

	"github.com/google/uuid"
)

// Dispatcher resolves the owner of an expiring resource, formats the alert
// email, sends it, and appends one audit record per successful send.
type Dispatcher struct {
	store  *store.Store
	mailer Mailer
	logger *slog.Logger

	now func() time.Time
}

func NewDispatcher(st *store.Store, mailer Mailer, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		store:  st,
		mailer: mailer,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (d *Dispatcher) DomainExpiry(ctx context.Context, dom *domain.Domain, days int) error {
	result := "success"
	defer func() { metrics.NotificationsSentTotal.WithLabelValues("domain", result).Inc() }()

	owner, err := d.store.Users().GetByID(ctx, dom.UserID)
	if err != nil {
		result = "failure"
		return fmt.Errorf("resolve owner %s: %w", dom.UserID, err)
	}

	subject := fmt.Sprintf("Domain Expiry Alert: %s expires in %d days", dom.Name, days)
	body := domainExpiryBody(owner.Username, dom, days)
	if err := d.mailer.Send(ctx, owner.Email, subject, body); err != nil {
		result = "failure"
		return err
	}

	return d.record(ctx, dom.UserID, domain.ResourceDomain, dom.ID, days)
}

func (d *Dispatcher) ProviderExpiry(ctx context.Context, pr *domain.Provider, days int) error {
	result := "success"
	defer func() { metrics.NotificationsSentTotal.WithLabelValues("provider", result).Inc() }()

	owner, err := d.store.Users().GetByID(ctx, pr.UserID)
	if err != nil {
		result = "failure"
		return fmt.Errorf("resolve owner %s: %w", pr.UserID, err)
	}

	subject := fmt.Sprintf("Account Expiry Alert: %s account expires in %d days", pr.Name, days)
	body := providerExpiryBody(owner.Username, pr, days)
	if err := d.mailer.Send(ctx, owner.Email, subject, body); err != nil {
		result = "failure"
		return err
	}

	return d.record(ctx, pr.UserID, domain.ResourceProvider, pr.ID, days)
}

// PasswordReset carries the raw secret inside the link only; nothing here is
// persisted or logged.
func (d *Dispatcher) PasswordReset(ctx context.Context, to, resetURL string) error {
	return d.mailer.Send(ctx, to, "Password Reset Request", passwordResetBody(resetURL))
}

func (d *Dispatcher) record(ctx context.Context, userID domain.UserID, rt domain.ResourceType, resourceID uuid.UUID, days int) error {
	rec := &domain.NotificationRecord{
		UserID:          userID,
		ResourceType:    rt,
		ResourceID:      resourceID,
		DaysUntilExpiry: days,
		SentAt:          d.now(),
	}
	if err := d.store.Notifications().Create(ctx, rec); err != nil {
		// The email went out; a failed audit write must not fail the dispatch.
		d.logger.Error("notification audit write failed",
			"user_id", userID, "resource_type", rt, "resource_id", resourceID, "error", err)
	}
	return nil
}

// ====== Templates ======

func domainExpiryBody(username string, dom *domain.Domain, days int) string {
	expiry := ""
	if dom.ExpiryDate != nil {
		expiry = dom.ExpiryDate.Format("2006-01-02")
	}
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #e74c3c;">Domain Expiry Alert</h2>
  <p>Hello %s,</p>
  <p>This is an automated notification to remind you that your domain is approaching its expiration date.</p>
  <div style="background-color: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <p><strong>Domain:</strong> %s</p>
    <p><strong>Expiry Date:</strong> %s</p>
    <p><strong>Days Remaining:</strong> %d</p>
  </div>
  <p>Please take action to renew your domain to prevent any service disruption.</p>
  <p style="margin-top: 30px; font-size: 12px; color: #777;">This is an automated message. Please do not reply to this email.</p>
</div>`, html.EscapeString(username), html.EscapeString(dom.Name), expiry, days)
}

func providerExpiryBody(username string, pr *domain.Provider, days int) string {
	expiry := ""
	if pr.AccountExpiry != nil {
		expiry = pr.AccountExpiry.Format("2006-01-02")
	}
	account := pr.AccountUsername
	if account == "" {
		account = "Not specified"
	}
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #e74c3c;">Account Expiry Alert</h2>
  <p>Hello %s,</p>
  <p>This is an automated notification to remind you that your hosting/service account is approaching its expiration date.</p>
  <div style="background-color: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <p><strong>Provider:</strong> %s</p>
    <p><strong>Account:</strong> %s</p>
    <p><strong>Expiry Date:</strong> %s</p>
    <p><strong>Days Remaining:</strong> %d</p>
  </div>
  <p>Please take action to renew your account to prevent any service disruption.</p>
  <p style="margin-top: 30px; font-size: 12px; color: #777;">This is an automated message. Please do not reply to this email.</p>
</div>`, html.EscapeString(username), html.EscapeString(pr.Name), html.EscapeString(account), expiry, days)
}

func passwordResetBody(resetURL string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #3498db;">Password Reset Request</h2>
  <p>You requested a password reset for your Domain &amp; Account Management System account.</p>
  <p>Please click the button below to reset your password. This link is valid for 1 hour.</p>
  <div style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #3498db; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block;">Reset Password</a>
  </div>
  <p>If you did not request a password reset, please ignore this email or contact support if you have concerns.</p>
  <p style="margin-top: 30px; font-size: 12px; color: #777;">This is an automated message. Please do not reply to this email.</p>
</div>`, resetURL)
}
