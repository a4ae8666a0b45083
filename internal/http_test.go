package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"vpn-coordination-portal/internal/config"
	"vpn-coordination-portal/internal/portal"
	"vpn-coordination-portal/internal/storage"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// In-memory portal.Store for handler tests.
type fakeStore struct {
	mu     sync.Mutex
	nextID int64
	recs   map[int64]*storage.VPNRequest
}

func newFakeStore() *fakeStore {
	return &fakeStore{recs: make(map[int64]*storage.VPNRequest)}
}

func (s *fakeStore) CreateRequest(ctx context.Context, req *storage.VPNRequest) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	req.ID = s.nextID
	s.recs[req.ID] = req.Clone()
	return req.ID, nil
}

func (s *fakeStore) GetRequestByID(ctx context.Context, id int64) (*storage.VPNRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[id]
	if !ok {
		return nil, storage.ErrNoRecord
	}
	return rec.Clone(), nil
}

func (s *fakeStore) GetRequestByToken(ctx context.Context, token string) (*storage.VPNRequest, storage.Side, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.recs {
		if rec.RemoteToken == token {
			return rec.Clone(), storage.SideRemote, nil
		}
		if rec.LocalToken == token {
			return rec.Clone(), storage.SideLocal, nil
		}
	}
	return nil, "", storage.ErrNoRecord
}

func (s *fakeStore) UpdateRequest(ctx context.Context, req *storage.VPNRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recs[req.ID]; !ok {
		return storage.ErrNoRecord
	}
	s.recs[req.ID] = req.Clone()
	return nil
}

func (s *fakeStore) ListRequests(ctx context.Context) ([]storage.VPNRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []storage.VPNRequest
	for id := s.nextID; id >= 1; id-- {
		if rec, ok := s.recs[id]; ok {
			out = append(out, *rec.Clone())
		}
	}
	return out, nil
}

type nopNotifier struct{}

func (nopNotifier) Send(to []string, subject string, html string) {}

func newTestServer(t *testing.T) (*gin.Engine, *portal.Engine) {
	t.Helper()
	cfg := &config.Config{BaseURL: "http://portal.test"}
	engine := portal.NewEngine(newFakeStore(), nopNotifier{}, cfg.BaseURL)
	return HTTPServer(cfg, engine), engine
}

func doGET(srv *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.ServeHTTP(w, req)
	return w
}

func doPOST(srv *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.ServeHTTP(w, req)
	return w
}

func createViaEngine(t *testing.T, engine *portal.Engine) *storage.VPNRequest {
	t.Helper()
	req, err := engine.Create(context.Background(), portal.CreateInput{
		Name:               "Branch-HQ Link",
		ConnType:           storage.ConnTypePolicy,
		Reason:             "Branch connectivity",
		RemoteContactName:  "Alice Johnson",
		RemoteContactEmail: "r@x.com",
		LocalTeamEmail:     "a@y.com,b@y.com",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return req
}

func sideForm(gateway string) url.Values {
	return url.Values{
		"contact_name": {"Alice Johnson"},
		"gateway":      {gateway},
		"ike_version":  {"IKEv2"},
		"subnets":      {"192.168.0.0/24"},
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doGET(srv, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"status":"ok"`) {
		t.Errorf("body missing status: %s", body)
	}
	if !strings.Contains(body, `"base_url":"http://portal.test"`) {
		t.Errorf("body missing base_url: %s", body)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestIndexPage(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doGET(srv, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "New VPN Request") {
		t.Error("landing page missing form heading")
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestCreateRequest(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doPOST(srv, "/request/new", url.Values{
		"vpn_name":             {"Branch-HQ Link"},
		"vpn_type":             {"Policy"},
		"reason":               {"Branch connectivity"},
		"remote_contact_name":  {"Alice Johnson"},
		"remote_contact_email": {"r@x.com"},
		"local_team_email":     {"a@y.com,b@y.com"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Request Submitted") {
		t.Error("confirmation page missing")
	}
}

func TestCreateRequest_Invalid(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doPOST(srv, "/request/new", url.Values{
		"vpn_name": {"Branch-HQ Link"},
		"vpn_type": {"Mesh"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSideForm_UnknownToken(t *testing.T) {
	srv, _ := newTestServer(t)

	if w := doGET(srv, "/remote/no-such-token"); w.Code != http.StatusNotFound {
		t.Errorf("GET status = %d, want 404", w.Code)
	}
	if w := doPOST(srv, "/local/no-such-token", sideForm("203.0.113.1")); w.Code != http.StatusNotFound {
		t.Errorf("POST status = %d, want 404", w.Code)
	}
}

func TestSideForm_WrongSideToken(t *testing.T) {
	srv, engine := newTestServer(t)
	req := createViaEngine(t, engine)

	// A remote token on the local endpoint must not leak the record.
	if w := doGET(srv, "/local/"+req.RemoteToken); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestSideForm_SubmitAndPrefill(t *testing.T) {
	srv, engine := newTestServer(t)
	req := createViaEngine(t, engine)

	w := doPOST(srv, "/remote/"+req.RemoteToken, sideForm("203.0.113.1"))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body: %s", w.Code, w.Body.String())
	}

	w = doGET(srv, "/remote/"+req.RemoteToken)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "203.0.113.1") {
		t.Error("form not pre-filled with saved gateway")
	}
}

func TestSideForm_MissingGateway(t *testing.T) {
	srv, engine := newTestServer(t)
	req := createViaEngine(t, engine)

	w := doPOST(srv, "/remote/"+req.RemoteToken, sideForm(""))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want redirect back to form", w.Code)
	}
	loc := w.Header().Get("Location")
	if !strings.Contains(loc, "flash_kind=error") {
		t.Errorf("redirect %q missing error flash", loc)
	}
}

func TestQRCode(t *testing.T) {
	srv, engine := newTestServer(t)
	req := createViaEngine(t, engine)

	w := doGET(srv, "/remote/"+req.RemoteToken+"/qr.png")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", got)
	}
}

func TestAgreeFlow(t *testing.T) {
	srv, engine := newTestServer(t)
	req := createViaEngine(t, engine)
	ctx := context.Background()

	if _, err := engine.SubmitSideData(ctx, req.RemoteToken, storage.SideRemote, storage.SideConfig{Gateway: "203.0.113.1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.SubmitSideData(ctx, req.LocalToken, storage.SideLocal, storage.SideConfig{Gateway: "198.51.100.1"}); err != nil {
		t.Fatal(err)
	}

	w := doGET(srv, "/agree/"+req.RemoteToken)
	if w.Code != http.StatusOK {
		t.Fatalf("review status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "203.0.113.1") || !strings.Contains(body, "198.51.100.1") {
		t.Error("review page missing one of the gateways")
	}

	// Edit bounces back to the caller's own form.
	w = doPOST(srv, "/agree/"+req.LocalToken, url.Values{"action": {"edit"}})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/local/"+req.LocalToken {
		t.Errorf("edit redirect: status=%d location=%q", w.Code, w.Header().Get("Location"))
	}

	w = doPOST(srv, "/agree/"+req.RemoteToken, url.Values{"action": {"agree"}})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Agreement Recorded") {
		t.Errorf("first agreement: status=%d", w.Code)
	}

	w = doPOST(srv, "/agree/"+req.LocalToken, url.Values{"action": {"agree"}})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "All Parties Agreed") {
		t.Errorf("second agreement: status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestAgree_BeforeReviewConflict(t *testing.T) {
	srv, engine := newTestServer(t)
	req := createViaEngine(t, engine)

	w := doPOST(srv, "/agree/"+req.RemoteToken, url.Values{"action": {"agree"}})
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestAdminPanel(t *testing.T) {
	srv, engine := newTestServer(t)
	req := createViaEngine(t, engine)

	w := doGET(srv, "/admin")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), req.Name) {
		t.Error("admin list missing the request")
	}

	// Flash round trip through the redirect query.
	w = doPOST(srv, "/admin/cancel/1", nil)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("cancel status = %d, want 303", w.Code)
	}
	loc := w.Header().Get("Location")
	if !strings.HasPrefix(loc, "/admin?") || !strings.Contains(loc, "flash_kind=success") {
		t.Errorf("cancel redirect = %q", loc)
	}

	w = doGET(srv, loc)
	if !strings.Contains(w.Body.String(), "Request cancelled") {
		t.Error("flash message not rendered")
	}

	// Cancelling again is a state error, surfaced as an error flash.
	w = doPOST(srv, "/admin/cancel/1", nil)
	if loc := w.Header().Get("Location"); !strings.Contains(loc, "flash_kind=error") {
		t.Errorf("double cancel redirect = %q", loc)
	}
}

func TestAdmin_JSONErrorShape(t *testing.T) {
	srv, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/remote/no-such-token", nil)
	req.Header.Set("Accept", "application/json")
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"error"`) {
		t.Errorf("JSON error shape missing: %s", w.Body.String())
	}
}
