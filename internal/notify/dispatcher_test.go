package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/btggithub/DAM/internal/domain"
	"github.com/btggithub/DAM/internal/observability/metrics"
	"github.com/btggithub/DAM/internal/store"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	metrics.MustRegister("test")
	os.Exit(m.Run())
}

var testDBSeq atomic.Int64

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:notifytest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	st := store.New(db)
	if err := st.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return st
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type stubMailer struct {
	sent []sentMail
	err  error
}

func (s *stubMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func seedOwner(t *testing.T, st *store.Store) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
		Role:         domain.RoleUser,
	}
	if err := st.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestDomainExpirySendsAndRecords(t *testing.T) {
	st := newTestStore(t)
	mailer := &stubMailer{}
	d := NewDispatcher(st, mailer, slog.New(slog.NewTextHandler(io.Discard, nil)))

	owner := seedOwner(t, st)
	expiry := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)
	dom := &domain.Domain{
		ID:         uuid.New(),
		UserID:     owner.ID,
		Name:       "example.com",
		ExpiryDate: &expiry,
	}

	if err := d.DomainExpiry(context.Background(), dom, 7); err != nil {
		t.Fatalf("DomainExpiry: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(mailer.sent))
	}
	mail := mailer.sent[0]
	if mail.to != "alice@example.com" {
		t.Errorf("to = %q", mail.to)
	}
	if mail.subject != "Domain Expiry Alert: example.com expires in 7 days" {
		t.Errorf("subject = %q", mail.subject)
	}
	for _, want := range []string{"Hello alice", "example.com", "2026-03-17", "<strong>Days Remaining:</strong> 7"} {
		if !strings.Contains(mail.body, want) {
			t.Errorf("body missing %q", want)
		}
	}

	recs, err := st.Notifications().ListForUser(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 audit record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.ResourceType != domain.ResourceDomain || rec.ResourceID != dom.ID || rec.DaysUntilExpiry != 7 {
		t.Fatalf("audit record mismatch: %+v", rec)
	}
}

func TestDomainExpiryEscapesHTML(t *testing.T) {
	st := newTestStore(t)
	mailer := &stubMailer{}
	d := NewDispatcher(st, mailer, slog.New(slog.NewTextHandler(io.Discard, nil)))

	owner := seedOwner(t, st)
	expiry := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)
	dom := &domain.Domain{
		ID:         uuid.New(),
		UserID:     owner.ID,
		Name:       `<script>alert(1)</script>`,
		ExpiryDate: &expiry,
	}

	if err := d.DomainExpiry(context.Background(), dom, 7); err != nil {
		t.Fatalf("DomainExpiry: %v", err)
	}
	if strings.Contains(mailer.sent[0].body, "<script>") {
		t.Fatal("domain name must be HTML-escaped")
	}
}

func TestProviderExpirySendsAndRecords(t *testing.T) {
	st := newTestStore(t)
	mailer := &stubMailer{}
	d := NewDispatcher(st, mailer, slog.New(slog.NewTextHandler(io.Discard, nil)))

	owner := seedOwner(t, st)
	expiry := time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC)
	pr := &domain.Provider{
		ID:            uuid.New(),
		UserID:        owner.ID,
		Name:          "Example Registrar",
		Type:          "registrar",
		AccountExpiry: &expiry,
	}

	if err := d.ProviderExpiry(context.Background(), pr, 30); err != nil {
		t.Fatalf("ProviderExpiry: %v", err)
	}

	mail := mailer.sent[0]
	if mail.subject != "Account Expiry Alert: Example Registrar account expires in 30 days" {
		t.Errorf("subject = %q", mail.subject)
	}
	if !strings.Contains(mail.body, "Not specified") {
		t.Errorf("empty account username should render as Not specified")
	}

	recs, err := st.Notifications().ListForUser(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(recs) != 1 || recs[0].ResourceType != domain.ResourceProvider {
		t.Fatalf("audit records: %+v", recs)
	}
}

func TestDomainExpiryMissingOwner(t *testing.T) {
	st := newTestStore(t)
	mailer := &stubMailer{}
	d := NewDispatcher(st, mailer, slog.New(slog.NewTextHandler(io.Discard, nil)))

	expiry := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)
	dom := &domain.Domain{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		Name:       "orphan.example.com",
		ExpiryDate: &expiry,
	}

	err := d.DomainExpiry(context.Background(), dom, 7)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected owner lookup failure, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatal("no email without an owner")
	}
}

func TestDomainExpiryMailFailureSkipsAudit(t *testing.T) {
	st := newTestStore(t)
	mailer := &stubMailer{err: errors.New("smtp down")}
	d := NewDispatcher(st, mailer, slog.New(slog.NewTextHandler(io.Discard, nil)))

	owner := seedOwner(t, st)
	expiry := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)
	dom := &domain.Domain{ID: uuid.New(), UserID: owner.ID, Name: "example.com", ExpiryDate: &expiry}

	if err := d.DomainExpiry(context.Background(), dom, 7); err == nil {
		t.Fatal("send failure must surface")
	}
	recs, err := st.Notifications().ListForUser(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(recs) != 0 {
		t.Fatal("no audit record for a failed send")
	}
}

func TestPasswordResetBodyCarriesLink(t *testing.T) {
	st := newTestStore(t)
	mailer := &stubMailer{}
	d := NewDispatcher(st, mailer, slog.New(slog.NewTextHandler(io.Discard, nil)))

	url := "http://localhost:3000/reset-password/abc123"
	if err := d.PasswordReset(context.Background(), "alice@example.com", url); err != nil {
		t.Fatalf("PasswordReset: %v", err)
	}
	mail := mailer.sent[0]
	if mail.subject != "Password Reset Request" {
		t.Errorf("subject = %q", mail.subject)
	}
	if !strings.Contains(mail.body, url) {
		t.Error("body must contain the reset link")
	}
	if !strings.Contains(mail.body, "valid for 1 hour") {
		t.Error("body must state the validity window")
	}
}
