package routes

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/addspin/satexam/models"
	"github.com/addspin/satexam/utils"
	"github.com/gofiber/fiber/v3"
)

const sessionCookie = "session_id"

type testApp struct {
	app    *fiber.App
	dbPath string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithDB(t, filepath.Join(t.TempDir(), "sat.db"))
}

func newTestAppWithDB(t *testing.T, dbPath string) *testApp {
	t.Helper()

	seed, err := models.DemoSeed()
	if err != nil {
		t.Fatalf("DemoSeed: %v", err)
	}

	cfg := utils.Config{
		Server:   utils.ServerConfig{Host: "127.0.0.1", Port: 8888},
		Database: utils.DatabaseConfig{Path: dbPath},
		Session:  utils.SessionConfig{IdleTimeout: time.Hour},
		Auth:     utils.AuthConfig{PasswordScheme: "plaintext"},
	}
	app, err := New(cfg, seed)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &testApp{app: app, dbPath: dbPath}
}

func (a *testApp) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()

	resp, err := a.app.Test(req, fiber.TestConfig{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func get(path string, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func postForm(path string, form url.Values, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func findCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie {
			return &http.Cookie{Name: c.Name, Value: c.Value}
		}
	}
	return nil
}

func assertRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusFound)
	}
	if got := resp.Header.Get("Location"); got != location {
		t.Fatalf("Location = %q, want %q", got, location)
	}
}

func (a *testApp) login(t *testing.T, username, password string, cookie *http.Cookie) *http.Cookie {
	t.Helper()

	form := url.Values{"username": {username}, "password": {password}}
	resp, body := a.do(t, postForm("/login", form, cookie))
	assertRedirect(t, resp, "/exam")

	session := findCookie(resp)
	if session == nil {
		t.Fatalf("login did not set %s cookie; body: %s", sessionCookie, body)
	}
	return session
}

func TestPublicPages(t *testing.T) {
	a := newTestApp(t)

	for _, path := range []string{"/", "/practice"} {
		resp, body := a.do(t, get(path, nil))
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
		if !strings.Contains(body, "<nav>") {
			t.Fatalf("GET %s did not render the layout: %s", path, body)
		}
	}
}

func TestPublicPagesShowLoggedInLearner(t *testing.T) {
	a := newTestApp(t)
	cookie := a.login(t, "student", "1234", nil)

	for _, path := range []string{"/", "/practice"} {
		_, body := a.do(t, get(path, cookie))
		if !strings.Contains(body, `<span class="who">student</span>`) {
			t.Fatalf("GET %s does not show the learner: %s", path, body)
		}
	}
}

func TestProtectedRoutesRedirectWithoutSession(t *testing.T) {
	a := newTestApp(t)

	resp, _ := a.do(t, get("/exam", nil))
	assertRedirect(t, resp, "/login")

	form := url.Values{"1": {"B"}, "2": {"D"}, "3": {"C"}, "4": {"B"}}
	resp, body := a.do(t, postForm("/submit", form, nil))
	assertRedirect(t, resp, "/login")
	if strings.Contains(body, "correct") {
		t.Fatalf("unauthenticated submit produced a score: %s", body)
	}

	// Nothing touched the database, so it was never created.
	if _, err := os.Stat(a.dbPath); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("database file exists after unauthenticated requests: %v", err)
	}
}

func TestLoginPageInitializesStore(t *testing.T) {
	a := newTestApp(t)

	resp, body := a.do(t, get("/login", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, `name="password"`) {
		t.Fatalf("login form missing: %s", body)
	}
	if _, err := os.Stat(a.dbPath); err != nil {
		t.Fatalf("database not created by GET /login: %v", err)
	}
}

func TestLoginRejectsInvalidCredentials(t *testing.T) {
	a := newTestApp(t)

	for _, creds := range [][2]string{{"student", "wrong"}, {"nobody", "1234"}} {
		form := url.Values{"username": {creds[0]}, "password": {creds[1]}}
		resp, body := a.do(t, postForm("/login", form, nil))

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if !strings.Contains(body, "Wrong username or password") {
			t.Fatalf("inline message missing for %v: %s", creds, body)
		}
		if cookie := findCookie(resp); cookie != nil {
			t.Fatalf("failed login set a session cookie")
		}
	}
}

func TestLoginMessageFollowsAcceptLanguage(t *testing.T) {
	a := newTestApp(t)

	req := postForm("/login", url.Values{"username": {"student"}, "password": {"nope"}}, nil)
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9")
	_, body := a.do(t, req)

	if !strings.Contains(body, "用户名或密码不对") {
		t.Fatalf("expected Chinese message: %s", body)
	}
}

func TestLoginTrimsWhitespace(t *testing.T) {
	a := newTestApp(t)
	a.login(t, "  student ", " 1234\t", nil)
}

func TestExamAndSubmitFlow(t *testing.T) {
	a := newTestApp(t)
	cookie := a.login(t, "student", "1234", nil)

	resp, body := a.do(t, get("/exam", cookie))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /exam status = %d, want 200", resp.StatusCode)
	}
	for _, want := range []string{
		"student",
		"what is the value of x?",
		"Which of the following is a prime number?",
		`name="4" value="D"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("exam page missing %q: %s", want, body)
		}
	}
	first := strings.Index(body, "what is the value of x?")
	last := strings.Index(body, "If f(x)=x^2")
	if first < 0 || last < 0 || first > last {
		t.Fatalf("questions not rendered in id order")
	}

	form := url.Values{"1": {"B"}, "2": {"A"}, "3": {"C"}}
	resp, body = a.do(t, postForm("/submit", form, cookie))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /submit status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "2 / 4 correct (50.0%)") {
		t.Fatalf("unexpected score: %s", body)
	}
	if !strings.Contains(body, "unanswered") {
		t.Fatalf("unanswered question 4 not reported: %s", body)
	}

	form = url.Values{"1": {"B"}, "2": {"D"}, "3": {"C"}, "4": {"B"}}
	_, body = a.do(t, postForm("/submit", form, cookie))
	if !strings.Contains(body, "4 / 4 correct (100.0%)") {
		t.Fatalf("unexpected score for perfect submission: %s", body)
	}
}

func TestLoginReplacesPreviousSession(t *testing.T) {
	a := newTestApp(t)

	first := a.login(t, "student", "1234", nil)
	second := a.login(t, "student", "1234", first)

	if second.Value == first.Value {
		t.Fatalf("second login reused the previous session cookie")
	}

	resp, _ := a.do(t, get("/exam", second))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("new session rejected: status %d", resp.StatusCode)
	}

	resp, _ = a.do(t, get("/exam", first))
	assertRedirect(t, resp, "/login")
}

func TestFailedLoginKeepsExistingSession(t *testing.T) {
	a := newTestApp(t)
	cookie := a.login(t, "student", "1234", nil)

	form := url.Values{"username": {"student"}, "password": {"wrong"}}
	resp, body := a.do(t, postForm("/login", form, cookie))
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Wrong username or password") {
		t.Fatalf("failed login = %d: %s", resp.StatusCode, body)
	}

	resp, _ = a.do(t, get("/exam", cookie))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("existing session lost after failed login: status %d", resp.StatusCode)
	}
}

func TestNewRejectsUnknownPasswordScheme(t *testing.T) {
	seed, err := models.DemoSeed()
	if err != nil {
		t.Fatalf("DemoSeed: %v", err)
	}
	cfg := utils.Config{Auth: utils.AuthConfig{PasswordScheme: "rot13"}}
	if _, err := New(cfg, seed); err == nil {
		t.Fatalf("expected New to reject an unknown password scheme")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	a := newTestApp(t)
	cookie := a.login(t, "student", "1234", nil)

	resp, _ := a.do(t, get("/logout", cookie))
	assertRedirect(t, resp, "/login")

	resp, _ = a.do(t, get("/exam", cookie))
	assertRedirect(t, resp, "/login")
}

func TestLogoutWithoutSession(t *testing.T) {
	a := newTestApp(t)

	resp, _ := a.do(t, get("/logout", nil))
	assertRedirect(t, resp, "/login")
}

func TestStorageFailureRendersErrorPage(t *testing.T) {
	a := newTestAppWithDB(t, filepath.Join(t.TempDir(), "missing", "sat.db"))

	resp, body := a.do(t, get("/login", nil))
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if !strings.Contains(body, "Something went wrong") {
		t.Fatalf("generic error page missing: %s", body)
	}
	if strings.Contains(body, "unable to open") {
		t.Fatalf("driver error leaked to the page: %s", body)
	}
}

func TestHealthz(t *testing.T) {
	a := newTestApp(t)

	resp, body := a.do(t, get("/healthz", nil))
	if resp.StatusCode != http.StatusOK || body != "ok" {
		t.Fatalf("GET /healthz = %d %q, want 200 ok", resp.StatusCode, body)
	}
}

func TestCookieKey(t *testing.T) {
	key, err := cookieKey("")
	if err != nil || key == "" {
		t.Fatalf("cookieKey(\"\") = (%q, %v), want generated key", key, err)
	}

	valid := "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY=" // 32 bytes
	if got, err := cookieKey(valid); err != nil || got != valid {
		t.Fatalf("cookieKey(valid) = (%q, %v)", got, err)
	}

	if _, err := cookieKey("c2hvcnQ="); err == nil {
		t.Fatalf("expected error for short key")
	}
	if _, err := cookieKey("not base64!"); err == nil {
		t.Fatalf("expected error for non-base64 key")
	}
}
