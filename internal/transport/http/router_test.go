package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/btggithub/DAM/internal/domain"
	"github.com/btggithub/DAM/internal/observability/metrics"
	"github.com/btggithub/DAM/internal/scheduler"
	"github.com/btggithub/DAM/internal/service/impl"
	"github.com/btggithub/DAM/internal/store"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	metrics.MustRegister("test")
	os.Exit(m.Run())
}

var testDBSeq atomic.Int64

type testMailer struct {
	urls []string
}

func (m *testMailer) PasswordReset(ctx context.Context, to, resetURL string) error {
	m.urls = append(m.urls, resetURL)
	return nil
}

type testEnv struct {
	srv    *httptest.Server
	mailer *testMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:httptest%d?mode=memory&cache=shared", testDBSeq.Add(1))
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

	mailer := &testMailer{}
	pw := impl.NewPasswordServiceBcrypt(bcrypt.MinCost)
	ts := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     "dam-test",
		TTL:        time.Hour,
		SigningKey: []byte("0123456789abcdef0123456789abcdef"),
	})
	as := impl.NewAuthServiceImpl(st, pw, ts, mailer, "http://localhost:3000")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sched := scheduler.New(st, stubSchedDispatcher{}, nil, logger, scheduler.Config{})

	h := NewHandler(as, ts, st, sched)
	srv := httptest.NewServer(h.Router(""))
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, mailer: mailer}
}

type stubSchedDispatcher struct{}

func (stubSchedDispatcher) DomainExpiry(ctx context.Context, dom *domain.Domain, days int) error {
	return nil
}

func (stubSchedDispatcher) ProviderExpiry(ctx context.Context, pr *domain.Provider, days int) error {
	return nil
}

func testUserStub() *domain.User {
	return &domain.User{ID: uuid.New(), Username: "ghost", Email: "ghost@example.com", Role: domain.RoleUser}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := e.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(res.Body).Decode(&out)
	return res, out
}

func (e *testEnv) register(t *testing.T, username, email string) string {
	t.Helper()
	res, out := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "Sup3rSecret",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d body %v", username, res.StatusCode, out)
	}
	return out["token"].(string)
}

func TestRegisterAndMe(t *testing.T) {
	e := newTestEnv(t)
	token := e.register(t, "alice", "alice@example.com")

	res, out := e.do(t, http.MethodGet, "/auth/me", token, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("me: status %d body %v", res.StatusCode, out)
	}
	user := out["user"].(map[string]any)
	if user["username"] != "alice" || user["role"] != "user" {
		t.Fatalf("unexpected user payload: %v", user)
	}
}

func TestRegisterValidation(t *testing.T) {
	e := newTestEnv(t)

	cases := []map[string]string{
		{"username": "ab", "email": "a@example.com", "password": "Sup3rSecret"}, // too short
		{"username": "alice", "email": "not-an-email", "password": "Sup3rSecret"},
		{"username": "alice", "email": "a@example.com", "password": "short"},
		{"username": "alice", "email": "a@example.com", "password": "alllowercase1"}, // no upper
	}
	for _, body := range cases {
		res, _ := e.do(t, http.MethodPost, "/auth/register", "", body)
		if res.StatusCode != http.StatusBadRequest {
			t.Errorf("register %v: status %d, want 400", body, res.StatusCode)
		}
	}
}

func TestAuthMiddlewareResponses(t *testing.T) {
	e := newTestEnv(t)
	token := e.register(t, "alice", "alice@example.com")

	res, out := e.do(t, http.MethodGet, "/auth/me", "", nil)
	if res.StatusCode != http.StatusUnauthorized || out["message"] != "No authorization token provided" {
		t.Fatalf("missing token: %d %v", res.StatusCode, out)
	}

	req, _ := http.NewRequest(http.MethodGet, e.srv.URL+"/auth/me", nil)
	req.Header.Set("Authorization", "NotBearer "+token)
	rawRes, err := e.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer rawRes.Body.Close()
	var body map[string]any
	_ = json.NewDecoder(rawRes.Body).Decode(&body)
	if rawRes.StatusCode != http.StatusUnauthorized || body["message"] != "Token format is invalid" {
		t.Fatalf("bad scheme: %d %v", rawRes.StatusCode, body)
	}

	res, out = e.do(t, http.MethodGet, "/auth/me", "garbage.token.here", nil)
	if res.StatusCode != http.StatusUnauthorized || out["message"] != "Invalid token" {
		t.Fatalf("garbage token: %d %v", res.StatusCode, out)
	}

	expiredTS := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     "dam-test",
		TTL:        -time.Hour,
		SigningKey: []byte("0123456789abcdef0123456789abcdef"),
	})
	// Claims inside don't matter; the verifier rejects on exp before subject lookup.
	expired, err := expiredTS.Issue(testUserStub())
	if err != nil {
		t.Fatalf("issue expired: %v", err)
	}
	res, out = e.do(t, http.MethodGet, "/auth/me", expired, nil)
	if res.StatusCode != http.StatusUnauthorized || out["message"] != "Token has expired" {
		t.Fatalf("expired token: %d %v", res.StatusCode, out)
	}
}

func TestAdminRoutesForbiddenForUser(t *testing.T) {
	e := newTestEnv(t)
	token := e.register(t, "alice", "alice@example.com")

	res, out := e.do(t, http.MethodGet, "/auth/users", token, nil)
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("users as non-admin: %d %v", res.StatusCode, out)
	}
	if out["message"] != "Access denied. Admin only." {
		t.Fatalf("forbidden body: %v", out)
	}

	res, _ = e.do(t, http.MethodPost, "/api/notifications/check-domains", token, nil)
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("check-domains as non-admin: %d", res.StatusCode)
	}
}

func TestForgotAndResetPasswordRoutes(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "alice", "alice@example.com")

	res, out := e.do(t, http.MethodPost, "/auth/forgot-password", "", map[string]string{"email": "alice@example.com"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("forgot-password: %d %v", res.StatusCode, out)
	}
	knownMsg := out["message"]

	res, out = e.do(t, http.MethodPost, "/auth/forgot-password", "", map[string]string{"email": "nobody@example.com"})
	if res.StatusCode != http.StatusOK || out["message"] != knownMsg {
		t.Fatalf("unknown email must answer identically: %d %v", res.StatusCode, out)
	}

	if len(e.mailer.urls) != 1 {
		t.Fatalf("expected one reset mail, got %d", len(e.mailer.urls))
	}
	secret := strings.TrimPrefix(e.mailer.urls[0], "http://localhost:3000/reset-password/")

	res, out = e.do(t, http.MethodPost, "/auth/reset-password/"+secret, "", map[string]string{"password": "N3wSecret"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("reset-password: %d %v", res.StatusCode, out)
	}

	res, out = e.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "alice@example.com", "password": "N3wSecret"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("login with new password: %d %v", res.StatusCode, out)
	}

	res, out = e.do(t, http.MethodPost, "/auth/reset-password/"+secret, "", map[string]string{"password": "An0therSecret"})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("replayed secret: %d %v", res.StatusCode, out)
	}
}

func TestProviderCRUDOverHTTP(t *testing.T) {
	e := newTestEnv(t)
	alice := e.register(t, "alice", "alice@example.com")
	bob := e.register(t, "bob", "bob@example.com")

	res, out := e.do(t, http.MethodPost, "/api/providers", alice, map[string]any{
		"name": "Example Registrar",
		"type": "registrar",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create provider: %d %v", res.StatusCode, out)
	}
	id := out["id"].(string)

	// Owner sees it; another user does not.
	res, _ = e.do(t, http.MethodGet, "/api/providers/"+id, alice, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get as owner: %d", res.StatusCode)
	}
	res, _ = e.do(t, http.MethodGet, "/api/providers/"+id, bob, nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("get as stranger: %d, want 404", res.StatusCode)
	}

	res, out = e.do(t, http.MethodPut, "/api/providers/"+id, alice, map[string]any{
		"name": "Renamed Registrar",
		"type": "registrar",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update: %d %v", res.StatusCode, out)
	}

	res, _ = e.do(t, http.MethodDelete, "/api/providers/"+id, alice, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("delete: %d", res.StatusCode)
	}
	res, _ = e.do(t, http.MethodGet, "/api/providers/"+id, alice, nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete: %d", res.StatusCode)
	}
}

func TestDomainCreateWithNameservers(t *testing.T) {
	e := newTestEnv(t)
	alice := e.register(t, "alice", "alice@example.com")

	expiry := time.Now().UTC().AddDate(1, 0, 0).Format(time.RFC3339)
	res, out := e.do(t, http.MethodPost, "/api/domains", alice, map[string]any{
		"name":        "example.com",
		"expiryDate":  expiry,
		"nameservers": []string{"ns1.example.net", "ns2.example.net"},
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create domain: %d %v", res.StatusCode, out)
	}
	id := out["id"].(string)

	res, got := e.do(t, http.MethodGet, "/api/domains/"+id, alice, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get domain: %d", res.StatusCode)
	}
	ns := got["nameservers"].([]any)
	if len(ns) != 2 {
		t.Fatalf("expected 2 nameservers, got %d", len(ns))
	}
	first := ns[0].(map[string]any)
	if first["value"] != "ns1.example.net" {
		t.Fatalf("nameserver order lost: %v", ns)
	}
}

func TestStatsRoute(t *testing.T) {
	e := newTestEnv(t)
	alice := e.register(t, "alice", "alice@example.com")

	res, _ := e.do(t, http.MethodPost, "/api/providers", alice, map[string]any{
		"name": "Example Registrar",
		"type": "registrar",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("seed provider: %d", res.StatusCode)
	}

	res, out := e.do(t, http.MethodGet, "/api/stats", alice, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("stats: %d %v", res.StatusCode, out)
	}
	providers := out["providers"].([]any)
	if len(providers) != 1 {
		t.Fatalf("provider counts: %v", providers)
	}
	entry := providers[0].(map[string]any)
	if entry["type"] != "registrar" || entry["count"] != float64(1) {
		t.Fatalf("unexpected count entry: %v", entry)
	}
}

func TestHealthz(t *testing.T) {
	e := newTestEnv(t)
	res, err := e.srv.Client().Get(e.srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("healthz status %d", res.StatusCode)
	}
}
