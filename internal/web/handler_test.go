package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	gojwt "github.com/golang-jwt/jwt/v5"

	"bizcards/internal/notify"
	"bizcards/internal/session"
	"bizcards/pkg/rest"
)

const (
	bizID   = "64b7f0c2a1e4d3b2c1a00001"
	otherID = "64b7f0c2a1e4d3b2c1a00002"
	card1   = "64b7f0c2a1e4d3b2c1a0c001"
	card2   = "64b7f0c2a1e4d3b2c1a0c002"
)

// backend is a fake REST directory that records what it was asked.
type backend struct {
	mu    sync.Mutex
	calls []string
	cards []map[string]any
	token string
}

func (b *backend) record(r *http.Request) {
	b.mu.Lock()
	b.calls = append(b.calls, r.Method+" "+r.URL.Path)
	b.mu.Unlock()
}

func (b *backend) count(call string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (b *backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b.record(r)
			next.ServeHTTP(w, r)
		})
	})
	r.Get("/cards", func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, b.cards)
	})
	r.Get("/cards/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, c := range b.cards {
			if c["_id"] == chi.URLParam(r, "id") {
				writeJSON(w, http.StatusOK, c)
				return
			}
		}
		http.Error(w, "Card not found", http.StatusNotFound)
	})
	r.Delete("/cards/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, c := range b.cards {
			if c["_id"] == chi.URLParam(r, "id") {
				b.cards = append(b.cards[:i], b.cards[i+1:]...)
				writeJSON(w, http.StatusOK, c)
				return
			}
		}
		http.Error(w, "Card not found", http.StatusNotFound)
	})
	r.Patch("/cards/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"_id": chi.URLParam(r, "id")})
	})
	r.Post("/cards", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		body["_id"] = "64b7f0c2a1e4d3b2c1a0c0ff"
		writeJSON(w, http.StatusCreated, body)
	})
	r.Post("/users/login", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(b.token))
	})
	return r
}

type harness struct {
	t       *testing.T
	srv     *httptest.Server
	backend *backend
	hub     *notify.Hub
	client  *http.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := &backend{
		cards: []map[string]any{
			{"_id": card1, "title": "Falafel King", "address": map[string]any{"city": "Haifa", "country": "Israel"}, "likes": []string{}, "user_id": bizID},
			{"_id": card2, "title": "Tel Aviv Bikes", "address": map[string]any{"city": "Tel Aviv", "country": "Israel"}, "likes": []string{}, "user_id": otherID},
		},
	}
	raw, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{"_id": bizID, "isBusiness": true}).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	b.token = raw

	be := httptest.NewServer(b.routes())
	t.Cleanup(be.Close)

	var sessions *session.Manager
	hub := notify.NewHub(func(r *http.Request) (string, bool) { return SessionOf(sessions)(r) })
	sessions = session.NewManager(session.Deps{API: rest.NewClient(be.URL, time.Second), Hub: hub, TTL: time.Hour})

	srv := httptest.NewServer(NewRouter(sessions, hub))
	t.Cleanup(srv.Close)

	jar, _ := cookiejar.New(nil)
	return &harness{t: t, srv: srv, backend: b, hub: hub, client: &http.Client{Jar: jar}}
}

func (h *harness) do(method, path string, body any) (int, map[string]any) {
	h.t.Helper()
	var rd io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		rd = bytes.NewReader(data)
	}
	req, _ := http.NewRequest(method, h.srv.URL+path, rd)
	resp, err := h.client.Do(req)
	if err != nil {
		h.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	out := map[string]any{}
	if len(data) > 0 && data[0] == '{' {
		json.Unmarshal(data, &out)
	}
	return resp.StatusCode, out
}

func (h *harness) login() {
	h.t.Helper()
	status, _ := h.do(http.MethodPost, "/api/login", map[string]string{"email": "biz@example.com", "password": "Abcd123!"})
	if status != http.StatusOK {
		h.t.Fatalf("login status = %d", status)
	}
}

func cardCount(page map[string]any) int {
	cs, _ := page["cards"].([]any)
	return len(cs)
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	status, body := h.do(http.MethodGet, "/health", nil)
	if status != http.StatusOK || body["status"] != "ok" {
		t.Errorf("health = %d %v", status, body)
	}
}

func TestMountViews(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name     string
		path     string
		status   int
		cards    int
		gate     string
		loggedIn bool
	}{
		{name: "Home logged out", path: "/api/views/home", status: http.StatusOK, cards: 2},
		{name: "My cards logged out", path: "/api/views/my-cards", status: http.StatusOK, cards: 0, gate: "Please log in to view your business cards."},
		{name: "Unknown view", path: "/api/views/sandbox", status: http.StatusNotFound},
		{name: "My cards business", path: "/api/views/my-cards", status: http.StatusOK, cards: 1, loggedIn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.loggedIn {
				h.login()
			}
			status, page := h.do(http.MethodGet, tt.path, nil)
			if status != tt.status {
				t.Fatalf("status = %d, expected %d", status, tt.status)
			}
			if status != http.StatusOK {
				return
			}
			if got := cardCount(page); got != tt.cards {
				t.Errorf("cards = %d, expected %d", got, tt.cards)
			}
			gate, _ := page["gate"].(string)
			if gate != tt.gate {
				t.Errorf("gate = %q, expected %q", gate, tt.gate)
			}
		})
	}
}

func TestSessionCookieIsReused(t *testing.T) {
	h := newHarness(t)
	h.do(http.MethodPost, "/api/nav/theme", nil)
	_, nav := h.do(http.MethodGet, "/api/nav", nil)
	settings, _ := nav["settings"].(map[string]any)
	if settings["darkMode"] != true {
		t.Errorf("settings = %v, expected dark mode kept across requests", settings)
	}
}

func TestSessionCookieEndsWithBrowser(t *testing.T) {
	sessions := session.NewManager(session.Deps{TTL: time.Hour})
	handler := WithSession(sessions)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/nav", nil))

	header := rr.Header().Get("Set-Cookie")
	if !strings.HasPrefix(header, CookieName+"=") {
		t.Fatalf("Set-Cookie = %q", header)
	}
	if strings.Contains(header, "Max-Age") || strings.Contains(header, "Expires") {
		t.Errorf("Set-Cookie = %q, expected a session cookie", header)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != 0 || !cookies[0].Expires.IsZero() {
		t.Errorf("cookies = %+v", cookies)
	}
}

func TestLikeLoggedOutMakesNoCall(t *testing.T) {
	h := newHarness(t)
	h.do(http.MethodGet, "/api/views/home", nil)

	status, _ := h.do(http.MethodPost, "/api/views/home/cards/"+card1+"/like", nil)
	if status != http.StatusUnauthorized {
		t.Errorf("status = %d, expected 401", status)
	}
	if n := h.backend.count("PATCH /cards/" + card1); n != 0 {
		t.Errorf("PATCH calls = %d, expected 0", n)
	}
}

func TestDeleteFlow(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.do(http.MethodGet, "/api/views/my-cards", nil)

	status, body := h.do(http.MethodDelete, "/api/views/my-cards/cards/"+card1, nil)
	if status != http.StatusPreconditionRequired {
		t.Fatalf("unconfirmed status = %d, expected 428", status)
	}
	ask, _ := body["confirm"].(map[string]any)
	if ask["title"] != "Are you sure?" {
		t.Errorf("confirm = %v", body["confirm"])
	}
	if n := h.backend.count("DELETE /cards/" + card1); n != 0 {
		t.Errorf("DELETE before confirm = %d", n)
	}

	status, page := h.do(http.MethodDelete, "/api/views/my-cards/cards/"+card1+"?confirm=true", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if n := h.backend.count("DELETE /cards/" + card1); n != 1 {
		t.Errorf("DELETE calls = %d, expected 1", n)
	}
	if n := h.backend.count("GET /cards"); n != 2 {
		t.Errorf("GET /cards = %d, expected mount + one reload", n)
	}
	if got := cardCount(page); got != 0 {
		t.Errorf("cards after delete = %d", got)
	}

	found := false
	for _, n := range h.hub.Drain(sessionID(t, h)) {
		if n.Title == "Deleted!" && n.TimerMS == 2000 {
			found = true
		}
	}
	if !found {
		t.Error("no Deleted! notice queued")
	}
}

func TestDeleteNotOwner(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.do(http.MethodGet, "/api/views/home", nil)

	status, _ := h.do(http.MethodDelete, "/api/views/home/cards/"+card2+"?confirm=true", nil)
	if status != http.StatusForbidden {
		t.Errorf("status = %d, expected 403", status)
	}
}

func TestInvalidCardID(t *testing.T) {
	h := newHarness(t)
	for _, path := range []string{"/api/cards/abc", "/api/cards/abc/form", "/api/views/home/cards/xyz/like"} {
		method := http.MethodGet
		if strings.HasSuffix(path, "/like") {
			method = http.MethodPost
		}
		if status, _ := h.do(method, path, nil); status != http.StatusBadRequest {
			t.Errorf("%s %s = %d, expected 400", method, path, status)
		}
	}
}

func TestCardDetail(t *testing.T) {
	h := newHarness(t)
	status, page := h.do(http.MethodGet, "/api/cards/"+card1, nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	c, _ := page["card"].(map[string]any)
	if c["title"] != "Falafel King" {
		t.Errorf("card = %v", c)
	}

	if status, _ := h.do(http.MethodGet, "/api/cards/64b7f0c2a1e4d3b2c1a0cfff", nil); status != http.StatusNotFound {
		t.Errorf("missing card status = %d, expected 404", status)
	}
}

func TestCreateCard(t *testing.T) {
	h := newHarness(t)
	form := map[string]any{
		"title": "Jaffa Print", "subtitle": "Posters", "description": "Old city print shop",
		"phone": "050-123-4567", "email": "print@jaffa.co.il", "web": "https://jaffa.print",
		"address": map[string]any{"country": "Israel", "city": "Jaffa", "street": "Yefet", "houseNumber": "5"},
	}

	if status, _ := h.do(http.MethodPost, "/api/cards", form); status != http.StatusUnauthorized {
		t.Errorf("logged out status = %d, expected 401", status)
	}

	h.login()
	status, body := h.do(http.MethodPost, "/api/cards", map[string]any{"title": "x"})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("invalid status = %d, expected 422", status)
	}
	fields, _ := body["fields"].(map[string]any)
	if _, ok := fields["address.houseNumber"]; !ok {
		t.Errorf("fields = %v", body["fields"])
	}
	if n := h.backend.count("POST /cards"); n != 0 {
		t.Errorf("POST /cards after invalid form = %d", n)
	}

	status, body = h.do(http.MethodPost, "/api/cards", form)
	if status != http.StatusCreated {
		t.Fatalf("status = %d", status)
	}
	addr, _ := body["address"].(map[string]any)
	if addr["houseNumber"] != float64(5) {
		t.Errorf("houseNumber = %#v, expected number 5", addr["houseNumber"])
	}
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	h.login()

	if status, _ := h.do(http.MethodPost, "/api/nav/logout", nil); status != http.StatusPreconditionRequired {
		t.Errorf("unconfirmed logout = %d, expected 428", status)
	}
	status, nav := h.do(http.MethodPost, "/api/nav/logout?confirm=true", nil)
	if status != http.StatusOK {
		t.Fatalf("logout status = %d", status)
	}
	roles, _ := nav["roles"].(map[string]any)
	if roles["isLoggedIn"] != false {
		t.Errorf("roles after logout = %v", roles)
	}
}

func TestNoticesEndpoint(t *testing.T) {
	h := newHarness(t)
	h.do(http.MethodGet, "/api/cards/64b7f0c2a1e4d3b2c1a0cfff", nil)

	req, _ := http.NewRequest(http.MethodGet, h.srv.URL+"/api/notices", nil)
	resp, err := h.client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var notices []notify.Notice
	if err := json.NewDecoder(resp.Body).Decode(&notices); err != nil {
		t.Fatal(err)
	}
	if len(notices) != 1 || notices[0].Title != "Oops..." {
		t.Errorf("notices = %+v", notices)
	}
}

func TestSocketRequiresSession(t *testing.T) {
	h := newHarness(t)
	resp, err := http.Get(h.srv.URL + "/ws/notifications")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, expected 401", resp.StatusCode)
	}
}

func sessionID(t *testing.T, h *harness) string {
	t.Helper()
	u, _ := http.NewRequest(http.MethodGet, h.srv.URL+"/api", nil)
	for _, c := range h.client.Jar.Cookies(u.URL) {
		if c.Name == CookieName {
			return c.Value
		}
	}
	t.Fatal("no session cookie")
	return ""
}
