package web

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/balkashynov/taskpanel/internal/auth"
	"github.com/balkashynov/taskpanel/internal/db"
	"github.com/balkashynov/taskpanel/internal/models"
)

var testSecret = []byte("test-secret")

type response struct {
	code     int
	location string
	body     string
}

// client is a browser stand-in: it keeps cookies and does not follow redirects
type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func setupTestServer(t *testing.T, opts Options) (*httptest.Server, *db.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := db.Open(filepath.Join(t.TempDir(), "web.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	authService := auth.NewService(store, auth.NewSQLStore(store), testSecret, auth.WithHashCost(bcrypt.MinCost))
	server, err := New(store, authService, testSecret, opts)
	if err != nil {
		t.Fatalf("Failed to build server: %v", err)
	}

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func newClient(t *testing.T, ts *httptest.Server) *client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("Failed to create cookie jar: %v", err)
	}
	return &client{
		t:    t,
		base: ts.URL,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *client) do(req *http.Request) response {
	c.t.Helper()
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s failed: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("Failed to read body: %v", err)
	}
	return response{code: resp.StatusCode, location: resp.Header.Get("Location"), body: string(body)}
}

func (c *client) get(path string) response {
	c.t.Helper()
	req, _ := http.NewRequest(http.MethodGet, c.base+path, nil)
	return c.do(req)
}

func (c *client) post(path string, form url.Values) response {
	c.t.Helper()
	req, _ := http.NewRequest(http.MethodPost, c.base+path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) register(username, password string) response {
	c.t.Helper()
	return c.post("/register", url.Values{
		"username":         {username},
		"password":         {password},
		"confirm_password": {password},
	})
}

func (c *client) login(username, password string) response {
	c.t.Helper()
	return c.post("/login", url.Values{"username": {username}, "password": {password}})
}

// signedIn registers username and returns a logged-in client
func signedIn(t *testing.T, ts *httptest.Server, username string) *client {
	t.Helper()
	c := newClient(t, ts)
	if resp := c.register(username, "pw-"+username); resp.code != http.StatusFound {
		t.Fatalf("Register %s returned %d", username, resp.code)
	}
	if resp := c.login(username, "pw-"+username); resp.code != http.StatusFound || resp.location != "/panel" {
		t.Fatalf("Login %s returned %d -> %q", username, resp.code, resp.location)
	}
	return c
}

func expectRedirect(t *testing.T, resp response, location string) {
	t.Helper()
	if resp.code != http.StatusFound {
		t.Fatalf("Expected 302, got %d", resp.code)
	}
	if resp.location != location {
		t.Errorf("Expected redirect to %q, got %q", location, resp.location)
	}
}

func userTasks(t *testing.T, store *db.Store, username string) []models.Task {
	t.Helper()
	user, err := store.GetUserByUsername(context.Background(), username)
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	tasks, err := store.ListTasks(context.Background(), user.ID, models.FilterAll, "")
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	return tasks
}

func idString(task models.Task) string {
	return strconv.FormatUint(uint64(task.ID), 10)
}

func TestIndex(t *testing.T) {
	ts, _ := setupTestServer(t, Options{})

	expectRedirect(t, newClient(t, ts).get("/"), "/login")
	expectRedirect(t, signedIn(t, ts, "alice").get("/"), "/panel")
}

func TestProtectedRoutes_RedirectToLogin(t *testing.T) {
	ts, _ := setupTestServer(t, Options{})
	c := newClient(t, ts)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/panel"},
		{http.MethodPost, "/panel"},
		{http.MethodPost, "/add_task"},
		{http.MethodGet, "/complete_task/1"},
		{http.MethodGet, "/delete_task/1"},
		{http.MethodGet, "/toggle_important_task/1"},
		{http.MethodPost, "/edit_task/1"},
		{http.MethodGet, "/report"},
	}

	for _, r := range routes {
		var resp response
		if r.method == http.MethodGet {
			resp = c.get(r.path)
		} else {
			resp = c.post(r.path, url.Values{"task": {"x"}})
		}
		if resp.code != http.StatusFound || resp.location != "/login" {
			t.Errorf("%s %s: expected redirect to /login, got %d -> %q", r.method, r.path, resp.code, resp.location)
		}
	}
}

func TestForgedSessionCookie(t *testing.T) {
	ts, _ := setupTestServer(t, Options{})
	c := newClient(t, ts)

	u, _ := url.Parse(ts.URL)
	c.http.Jar.SetCookies(u, []*http.Cookie{{Name: sessionCookie, Value: "not-a-token", Path: "/"}})

	expectRedirect(t, c.get("/panel"), "/login")
}

func TestRegisterAndLogin(t *testing.T) {
	ts, _ := setupTestServer(t, Options{})
	c := newClient(t, ts)

	if resp := c.get("/register"); resp.code != http.StatusOK {
		t.Fatalf("GET /register returned %d", resp.code)
	}

	expectRedirect(t, c.register("alice", "secret1"), "/login")

	resp := c.get("/login")
	if !strings.Contains(resp.body, "Registration successful, you can now log in.") {
		t.Error("Expected registration flash on the login page")
	}
	// Flashes are shown once
	if resp := c.get("/login"); strings.Contains(resp.body, "Registration successful") {
		t.Error("Flash shown twice")
	}

	expectRedirect(t, c.login("alice", "secret1"), "/panel")

	resp = c.get("/panel")
	if resp.code != http.StatusOK {
		t.Fatalf("GET /panel returned %d", resp.code)
	}
	if !strings.Contains(resp.body, "Welcome, alice") {
		t.Error("Expected welcome flash on the panel")
	}
}

func TestRegister_Errors(t *testing.T) {
	ts, _ := setupTestServer(t, Options{})
	c := newClient(t, ts)
	c.register("alice", "secret1")

	tests := []struct {
		name    string
		form    url.Values
		message string
	}{
		{"missing fields", url.Values{"username": {"bob"}, "password": {"x"}}, "all fields are required"},
		{"mismatch", url.Values{"username": {"bob"}, "password": {"x"}, "confirm_password": {"y"}}, "passwords do not match"},
		{"taken", url.Values{"username": {"alice"}, "password": {"x"}, "confirm_password": {"x"}}, "already taken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := c.post("/register", tt.form)
			if resp.code != http.StatusOK {
				t.Fatalf("Expected the form again with 200, got %d", resp.code)
			}
			if !strings.Contains(resp.body, tt.message) {
				t.Errorf("Expected %q in the page", tt.message)
			}
		})
	}
}

func TestRegister_LongPassword(t *testing.T) {
	ts, _ := setupTestServer(t, Options{})
	c := newClient(t, ts)

	password := strings.Repeat("p", 100)
	expectRedirect(t, c.register("bob", password), "/login")

	resp := c.login("bob", password)
	if resp.code != http.StatusFound || resp.location != "/panel" {
		t.Fatalf("Expected login to redirect to /panel, got %d -> %q", resp.code, resp.location)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ts, _ := setupTestServer(t, Options{})
	c := newClient(t, ts)
	c.register("alice", "secret1")

	for _, username := range []string{"alice", "nobody"} {
		resp := c.login(username, "wrong")
		if resp.code != http.StatusOK {
			t.Fatalf("Expected login form with 200, got %d", resp.code)
		}
		if !strings.Contains(resp.body, "Invalid username or password.") {
			t.Errorf("Expected invalid credentials flash for %q", username)
		}
	}

	expectRedirect(t, c.get("/panel"), "/login")
}

func TestLogout(t *testing.T) {
	ts, _ := setupTestServer(t, Options{})
	c := signedIn(t, ts, "alice")

	expectRedirect(t, c.get("/logout"), "/login")

	if resp := c.get("/login"); !strings.Contains(resp.body, "Session closed.") {
		t.Error("Expected logout flash")
	}
	expectRedirect(t, c.get("/panel"), "/login")

	// Logging out twice is harmless
	expectRedirect(t, c.get("/logout"), "/login")
}

func TestTaskLifecycle(t *testing.T) {
	ts, store := setupTestServer(t, Options{})
	c := signedIn(t, ts, "alice")

	expectRedirect(t, c.post("/add_task", url.Values{"task": {"Buy milk"}}), "/panel")
	expectRedirect(t, c.post("/add_task", url.Values{"task": {"Call Bob"}}), "/panel")

	resp := c.get("/panel")
	if !strings.Contains(resp.body, "Task added.") {
		t.Error("Expected add flash")
	}
	bob, milk := strings.Index(resp.body, "Call Bob"), strings.Index(resp.body, "Buy milk")
	if bob < 0 || milk < 0 || bob > milk {
		t.Errorf("Expected newest task first (Call Bob at %d, Buy milk at %d)", bob, milk)
	}

	tasks := userTasks(t, store, "alice")
	if len(tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(tasks))
	}
	callBob, buyMilk := tasks[0], tasks[1]

	expectRedirect(t, c.get("/toggle_important_task/"+idString(callBob)), "/panel")
	if resp := c.get("/panel?filter=important"); !strings.Contains(resp.body, "Task marked as important.") ||
		!strings.Contains(resp.body, "Call Bob") || strings.Contains(resp.body, "Buy milk") {
		t.Error("Expected only the important task with the toggle flash")
	}

	expectRedirect(t, c.get("/complete_task/"+idString(buyMilk)), "/panel")
	if resp := c.get("/panel?filter=completed"); !strings.Contains(resp.body, "Buy milk") || strings.Contains(resp.body, "Call Bob") {
		t.Error("Expected only the completed task")
	}

	expectRedirect(t, c.post("/edit_task/"+idString(callBob), url.Values{"task": {"  Call Bob today  "}}), "/panel")

	resp = c.get("/report")
	for _, row := range []string{
		"<th>Total</th><td>2</td>",
		"<th>Completed</th><td>1</td>",
		"<th>Pending</th><td>1</td>",
		"<th>Important</th><td>1</td>",
	} {
		if !strings.Contains(resp.body, row) {
			t.Errorf("Expected %q in the report", row)
		}
	}

	expectRedirect(t, c.get("/delete_task/"+idString(buyMilk)), "/panel")
	tasks = userTasks(t, store, "alice")
	if len(tasks) != 1 || tasks[0].Text != "Call Bob today" || !tasks[0].Important {
		t.Errorf("Unexpected tasks after delete: %+v", tasks)
	}

	resp = c.get("/toggle_important_task/" + idString(callBob))
	expectRedirect(t, resp, "/panel")
	if resp := c.get("/panel"); !strings.Contains(resp.body, "Task unmarked as important.") {
		t.Error("Expected unmark flash")
	}
}

func TestPanel_SearchIsCaseSensitive(t *testing.T) {
	ts, _ := setupTestServer(t, Options{})
	c := signedIn(t, ts, "alice")
	c.post("/add_task", url.Values{"task": {"Buy milk"}})
	c.post("/add_task", url.Values{"task": {"Call Bob"}})

	resp := c.get("/panel?search=" + url.QueryEscape("  milk "))
	if !strings.Contains(resp.body, "Buy milk") || strings.Contains(resp.body, "Call Bob") {
		t.Error("Expected only the matching task")
	}
	if resp := c.get("/panel?search=Milk"); strings.Contains(resp.body, "Buy milk") {
		t.Error("Search should be case-sensitive")
	}
	if resp := c.get("/panel?filter=bogus"); !strings.Contains(resp.body, "Buy milk") || !strings.Contains(resp.body, "Call Bob") {
		t.Error("Unknown filter should list everything")
	}
}

func TestAddTask_BlankIsIgnored(t *testing.T) {
	ts, store := setupTestServer(t, Options{})
	c := signedIn(t, ts, "alice")

	expectRedirect(t, c.post("/add_task", url.Values{"task": {"   "}}), "/panel")

	if tasks := userTasks(t, store, "alice"); len(tasks) != 0 {
		t.Errorf("Expected no tasks, got %d", len(tasks))
	}
	if resp := c.get("/panel"); strings.Contains(resp.body, "Task added.") {
		t.Error("No flash expected for a blank task")
	}
}

func TestEditTask_EmptyText(t *testing.T) {
	ts, store := setupTestServer(t, Options{})
	c := signedIn(t, ts, "alice")
	c.post("/add_task", url.Values{"task": {"Buy milk"}})
	task := userTasks(t, store, "alice")[0]

	expectRedirect(t, c.post("/edit_task/"+idString(task), url.Values{"task": {"  "}}), "/panel")
	if resp := c.get("/panel"); !strings.Contains(resp.body, "Task text cannot be empty.") {
		t.Error("Expected empty text warning")
	}
	// No lookup happens for empty text, so even a missing task redirects
	expectRedirect(t, c.post("/edit_task/999", url.Values{"task": {""}}), "/panel")

	if got := userTasks(t, store, "alice")[0].Text; got != "Buy milk" {
		t.Errorf("Text changed to %q", got)
	}
}

func TestTaskRoutes_ForeignTaskIsNotFound(t *testing.T) {
	ts, store := setupTestServer(t, Options{})
	alice := signedIn(t, ts, "alice")
	bob := signedIn(t, ts, "bob")
	bob.post("/add_task", url.Values{"task": {"Bob's task"}})
	task := userTasks(t, store, "bob")[0]
	id := idString(task)

	for _, resp := range []response{
		alice.get("/complete_task/" + id),
		alice.get("/delete_task/" + id),
		alice.get("/toggle_important_task/" + id),
		alice.post("/edit_task/"+id, url.Values{"task": {"hijacked"}}),
	} {
		if resp.code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", resp.code)
		}
	}

	got := userTasks(t, store, "bob")
	if len(got) != 1 || got[0].Text != "Bob's task" || got[0].Completed || got[0].Important {
		t.Errorf("Bob's task was modified: %+v", got)
	}
	if resp := alice.get("/panel"); strings.Contains(resp.body, "Bob&#39;s task") {
		t.Error("Alice sees Bob's task")
	}
}

func TestTaskRoutes_InvalidID(t *testing.T) {
	ts, _ := setupTestServer(t, Options{})
	c := signedIn(t, ts, "alice")

	for _, path := range []string{"/complete_task/abc", "/delete_task/0", "/toggle_important_task/-1", "/complete_task/999"} {
		if resp := c.get(path); resp.code != http.StatusNotFound {
			t.Errorf("GET %s: expected 404, got %d", path, resp.code)
		}
	}
}

func TestNoRoute(t *testing.T) {
	ts, _ := setupTestServer(t, Options{})

	if resp := newClient(t, ts).get("/nope"); resp.code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.code)
	}
}

func TestHealthz(t *testing.T) {
	ts, store := setupTestServer(t, Options{})
	c := newClient(t, ts)

	resp := c.get("/healthz")
	if resp.code != http.StatusOK || !strings.Contains(resp.body, `"database":"up"`) {
		t.Errorf("Expected healthy response, got %d %s", resp.code, resp.body)
	}

	store.Close()
	if resp := c.get("/healthz"); resp.code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 with the database closed, got %d", resp.code)
	}
}

func TestFlashCodec(t *testing.T) {
	codec := flashCodec{secret: testSecret}
	flashes := []Flash{{Category: flashInfo, Message: "hello"}}

	raw, err := codec.encode(flashes, time.Now())
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	got, err := codec.decode(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(got) != 1 || got[0] != flashes[0] {
		t.Errorf("Expected %v, got %v", flashes, got)
	}

	if _, err := (flashCodec{secret: []byte("other")}).decode(raw); err == nil {
		t.Error("Expected a foreign signature to be rejected")
	}
}

func TestForgedFlashCookieIsIgnored(t *testing.T) {
	ts, _ := setupTestServer(t, Options{})
	c := newClient(t, ts)

	u, _ := url.Parse(ts.URL)
	c.http.Jar.SetCookies(u, []*http.Cookie{{Name: flashCookie, Value: "garbage", Path: "/"}})

	resp := c.get("/login")
	if resp.code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.code)
	}
	if strings.Contains(resp.body, `class="flash`) {
		t.Error("Expected no flashes from a forged cookie")
	}
}
