package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"arthavidhi/internal/app"
	"arthavidhi/internal/core"

	"github.com/sirupsen/logrus"
)

// fakeService implements the handful of ApplicationService methods the tests hit.
// Anything else panics through the nil embedded interface.
type fakeService struct {
	app.ApplicationService
	bills map[int]*core.AssembledBill
}

func (f *fakeService) AuthenticateUser(_ context.Context, req app.LoginRequest) (*app.UserSession, error) {
	if req.Email == "owner@example.com" && req.Password == "correct-horse" {
		return &app.UserSession{UserID: 7, Name: "Owner", Email: req.Email}, nil
	}
	return nil, app.ErrInvalidCredentials
}

func (f *fakeService) GetBill(_ context.Context, userID, billID int) (*core.AssembledBill, error) {
	if b, ok := f.bills[billID]; ok && userID == 7 {
		return b, nil
	}
	return nil, fmt.Errorf("bill %d: %w", billID, core.ErrNotFound)
}

func (f *fakeService) CreateBill(_ context.Context, _ int, req app.BillRequest) (*app.Result, error) {
	if len(req.Items) == 0 {
		return nil, &app.ValidationError{Message: "validation failed", Fields: map[string]string{"items": "is required"}}
	}
	return nil, fmt.Errorf("insert bill: %w: %w", core.ErrDatabase, errors.New("conn reset by peer"))
}

func (f *fakeService) RenderBillPDF(_ context.Context, _, billID int, w io.Writer) (string, error) {
	_, _ = io.WriteString(w, "%PDF-1.3 fake")
	return f.bills[billID].Bill.Number + ".pdf", nil
}

const testSecret = "test-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := &fakeService{bills: map[int]*core.AssembledBill{
		1: {Bill: &core.Bill{ID: 1, Number: "HG0100"}},
	}}
	srv := httptest.NewServer(NewHandler(svc, Options{JWTSecret: testSecret, TokenTTL: time.Hour, Logger: logger}))
	t.Cleanup(srv.Close)
	return srv
}

func login(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/auth/login", "application/json",
		strings.NewReader(`{"email":"owner@example.com","password":"correct-horse"}`))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Token == "" {
		t.Fatalf("login response: %v %+v", err, body)
	}
	found := false
	for _, c := range resp.Cookies() {
		if c.Name == authCookie && c.Value == body.Token && c.HttpOnly {
			found = true
		}
	}
	if !found {
		t.Error("expected auth cookie to carry the token")
	}
	return body.Token
}

func do(t *testing.T, method, url, token, body string) (*http.Response, errorResponse) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	var e errorResponse
	if resp.StatusCode >= 400 {
		_ = json.NewDecoder(resp.Body).Decode(&e)
	}
	return resp, e
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := do(t, http.MethodGet, srv.URL+"/api/health", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestAuth_Required(t *testing.T) {
	srv := newTestServer(t)
	resp, e := do(t, http.MethodGet, srv.URL+"/api/bills/1", "", "")
	if resp.StatusCode != http.StatusUnauthorized || e.Code != "UNAUTHORIZED" {
		t.Errorf("status = %d, code = %s", resp.StatusCode, e.Code)
	}

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/bills/1", "not-a-jwt", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("garbage token status = %d", resp.StatusCode)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := newTestServer(t)
	resp, e := do(t, http.MethodPost, srv.URL+"/api/auth/login", "", `{"email":"owner@example.com","password":"nope"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if e.Error != app.ErrInvalidCredentials.Error() {
		t.Errorf("error = %q", e.Error)
	}
}

func TestBills_ErrorMapping(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	t.Run("Found", func(t *testing.T) {
		resp, _ := do(t, http.MethodGet, srv.URL+"/api/bills/1", token, "")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d", resp.StatusCode)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		resp, e := do(t, http.MethodGet, srv.URL+"/api/bills/99", token, "")
		if resp.StatusCode != http.StatusNotFound || e.Error != "bill not found" {
			t.Errorf("status = %d, error = %q", resp.StatusCode, e.Error)
		}
	})

	t.Run("BadID", func(t *testing.T) {
		resp, _ := do(t, http.MethodGet, srv.URL+"/api/bills/abc", token, "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d", resp.StatusCode)
		}
	})

	t.Run("Validation", func(t *testing.T) {
		resp, e := do(t, http.MethodPost, srv.URL+"/api/bills", token, `{"items":[]}`)
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if e.Fields["items"] == "" {
			t.Errorf("expected field problem for items, got %+v", e)
		}
	})

	t.Run("DatabaseErrorIsGeneric", func(t *testing.T) {
		resp, e := do(t, http.MethodPost, srv.URL+"/api/bills", token, `{"items":[{"description":"x"}]}`)
		if resp.StatusCode != http.StatusInternalServerError {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if e.Error != "database error" || strings.Contains(e.Error, "conn reset") {
			t.Errorf("error leaked detail: %q", e.Error)
		}
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		resp, _ := do(t, http.MethodPost, srv.URL+"/api/bills", token, `{"items":`)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d", resp.StatusCode)
		}
	})
}

func TestBills_PDFDownload(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	resp, _ := do(t, http.MethodGet, srv.URL+"/api/bills/1/pdf", token, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, `filename="HG0100.pdf"`) {
		t.Errorf("content disposition = %q", cd)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(body), "%PDF") {
		t.Errorf("unexpected body %q", body)
	}
}
