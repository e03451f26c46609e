package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/render"
	"github.com/goliatone/go-regform/pkg/renderers/vanilla"
	"github.com/goliatone/go-regform/pkg/testsupport"
)

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newTestServer(t *testing.T) *client {
	t.Helper()

	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	theme, err := render.ResolveTheme(render.DefaultThemeManifest(), "dark")
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	srv := New(testsupport.MustLoadForm(t), renderer,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithTheme(theme),
	)
	handler, err := srv.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &client{t: t, base: ts.URL, http: &http.Client{Jar: jar}}
}

func (c *client) get(path string) (int, string) {
	c.t.Helper()
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		c.t.Fatalf("GET %s: %v", path, err)
	}
	return readBody(c.t, resp)
}

func (c *client) post(path string, form url.Values) (int, string) {
	c.t.Helper()
	resp, err := c.http.PostForm(c.base+path, form)
	if err != nil {
		c.t.Fatalf("POST %s: %v", path, err)
	}
	return readBody(c.t, resp)
}

func (c *client) event(event string, field registration.Field, value string) fieldState {
	c.t.Helper()
	status, body := c.post("/events", url.Values{"event": {event}, "field": {field.String()}, "value": {value}})
	if status != http.StatusOK {
		c.t.Fatalf("event %s/%s: status %d: %s", event, field, status, body)
	}
	var state fieldState
	if err := json.Unmarshal([]byte(body), &state); err != nil {
		c.t.Fatalf("decode event state: %v", err)
	}
	return state
}

func readBody(t *testing.T, resp *http.Response) (int, string) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func validForm() url.Values {
	form := url.Values{}
	for field, value := range testsupport.ValidValues() {
		form.Set(field.String(), value)
	}
	return form
}

func TestIndex_RendersEmptyForm(t *testing.T) {
	c := newTestServer(t)

	status, body := c.get("/")
	if status != http.StatusOK {
		t.Fatalf("status %d", status)
	}
	if !strings.Contains(body, "Selamat Datang") || !strings.Contains(body, "Lengkapi Semua Data") {
		t.Fatalf("unexpected page:\n%s", body)
	}
	if !strings.Contains(body, `name="lang" value="id"`) {
		t.Fatalf("locale hidden field missing")
	}
}

func TestEvents_ReflectValidation(t *testing.T) {
	c := newTestServer(t)

	state := c.event(eventChange, registration.FieldEmail, "abc")
	if !state.Accepted || state.Error != "" || state.Touched {
		t.Fatalf("untouched change should not show an error: %+v", state)
	}

	state = c.event(eventBlur, registration.FieldEmail, "")
	if state.Error != registration.MsgEmailFormat || !state.Touched {
		t.Fatalf("blur should reveal the error: %+v", state)
	}

	state = c.event(eventChange, registration.FieldEmail, "a@b.co")
	if state.Error != "" || state.Valid {
		t.Fatalf("live revalidation failed: %+v", state)
	}

	state = c.event(eventChange, registration.FieldNIK, "12a")
	if state.Accepted || state.Value != "" {
		t.Fatalf("filtered nik should be rejected: %+v", state)
	}

	state = c.event(eventChange, registration.FieldPassphrase, strings.Repeat("x", 150))
	if state.Strength == nil || state.Strength.Level != 4 || state.Strength.Label != "Kuat" || state.Strength.Color != "#22c55e" {
		t.Fatalf("strength mismatch: %+v", state.Strength)
	}
}

func TestEvents_StrengthMeterAndRemaining(t *testing.T) {
	c := newTestServer(t)
	theme, err := render.ResolveTheme(render.DefaultThemeManifest(), "dark")
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	muted := theme.StrengthColor(registration.WeightMuted)
	yellow := theme.StrengthColor(registration.WeightYellow)

	state := c.event(eventChange, registration.FieldPassphrase, strings.Repeat("x", 120))
	if state.Strength == nil || state.Strength.Color != yellow {
		t.Fatalf("strength colour mismatch: %+v", state.Strength)
	}
	if diff := cmp.Diff([]string{yellow, yellow, yellow, muted}, state.Strength.Segments); diff != "" {
		t.Fatalf("segment colours mismatch (-want +got):\n%s", diff)
	}
	if state.Remaining != "" {
		t.Fatalf("long enough passphrase should not report remaining: %q", state.Remaining)
	}

	c.event(eventBlur, registration.FieldPassphrase, "")
	state = c.event(eventChange, registration.FieldPassphrase, "pendek")
	if state.Remaining != "Kurang 94 karakter lagi" {
		t.Fatalf("remaining mismatch: %q", state.Remaining)
	}
	if diff := cmp.Diff([]string{theme.StrengthColor(registration.WeightRed), muted, muted, muted}, state.Strength.Segments); diff != "" {
		t.Fatalf("segment colours mismatch (-want +got):\n%s", diff)
	}

	_, body := c.get("/")
	if !strings.Contains(body, "Kurang 94 karakter lagi") {
		t.Fatalf("page should show the remaining hint")
	}
}

func TestEvents_ConcurrentChangesKeepEveryValue(t *testing.T) {
	c := newTestServer(t)
	// The first event creates the session cookie.
	c.event(eventBlur, registration.FieldOwnName, "")

	values := testsupport.ValidValues()
	errs := make(chan error, len(values))
	var wg sync.WaitGroup
	for field, value := range values {
		wg.Add(1)
		go func(field registration.Field, value string) {
			defer wg.Done()
			resp, err := c.http.PostForm(c.base+"/events", url.Values{
				"event": {eventChange},
				"field": {field.String()},
				"value": {value},
			})
			if err != nil {
				errs <- err
				return
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				errs <- fmt.Errorf("%s: status %d", field, resp.StatusCode)
			}
		}(field, value)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("event: %v", err)
	}

	_, body := c.get("/")
	for field, value := range values {
		if !strings.Contains(body, `value="`+value+`"`) {
			t.Fatalf("value of %s lost", field)
		}
	}
}

func TestSessionLocks_ReleaseEntries(t *testing.T) {
	locks := newSessionLocks()

	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("token")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("lost increments: %d", counter)
	}
	if locks.size() != 0 {
		t.Fatalf("lock entries leaked: %d", locks.size())
	}
	locks.lock("")()
}

func TestEvents_BadRequests(t *testing.T) {
	c := newTestServer(t)

	if status, _ := c.post("/events", url.Values{"event": {"change"}, "field": {"alamat"}}); status != http.StatusBadRequest {
		t.Fatalf("unknown field: status %d", status)
	}
	if status, _ := c.post("/events", url.Values{"event": {"paste"}, "field": {"nik"}}); status != http.StatusBadRequest {
		t.Fatalf("unknown event: status %d", status)
	}
}

func TestSubmit_InvalidReturns422(t *testing.T) {
	c := newTestServer(t)

	form := validForm()
	form.Set("nik", "123")
	status, body := c.post("/submit", form)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", status)
	}
	if !strings.Contains(body, registration.MsgNIKLength) || !strings.Contains(body, "Data belum lengkap") {
		t.Fatalf("errors missing from page:\n%s", body)
	}
}

func TestSubmit_ValidConfirmsDismissAndReset(t *testing.T) {
	c := newTestServer(t)
	values := testsupport.ValidValues()

	status, body := c.post("/submit", validForm())
	if status != http.StatusOK {
		t.Fatalf("status %d: %s", status, body)
	}
	if !strings.Contains(body, "Pendaftaran Berhasil!") || !strings.Contains(body, "3171****0123") {
		t.Fatalf("confirmation missing:\n%s", body)
	}
	if strings.Contains(body, values[registration.FieldPassphrase]) {
		t.Fatalf("passphrase leaked")
	}

	// The confirmation survives a reload.
	if _, body := c.get("/"); !strings.Contains(body, "Pendaftaran Berhasil!") {
		t.Fatalf("confirmation not kept in session")
	}

	// Dismiss keeps the values and returns to the form.
	status, body = c.post("/dismiss", url.Values{})
	if status != http.StatusOK || !strings.Contains(body, `value="Budi Santoso"`) || !strings.Contains(body, "Daftar Sekarang") {
		t.Fatalf("dismiss should return to a filled form, status %d", status)
	}

	status, body = c.post("/reset", url.Values{})
	if status != http.StatusOK || strings.Contains(body, `value="Budi Santoso"`) {
		t.Fatalf("reset should clear the form, status %d", status)
	}
}

func TestLocaleIsRemembered(t *testing.T) {
	c := newTestServer(t)

	if _, body := c.get("/?lang=en"); !strings.Contains(body, "Complete all fields") {
		t.Fatalf("english page expected")
	}
	if _, body := c.get("/"); !strings.Contains(body, "Complete all fields") {
		t.Fatalf("locale should be remembered")
	}
	if _, body := c.get("/?lang=fr"); !strings.Contains(body, "Complete all fields") {
		t.Fatalf("unknown locale should keep the remembered one")
	}
}

func TestCrossOriginPostRejected(t *testing.T) {
	c := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, c.base+"/reset", strings.NewReader(""))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	resp, err := c.http.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if status, _ := readBody(t, resp); status != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", status)
	}
}

func TestHealthAndAssets(t *testing.T) {
	c := newTestServer(t)

	if status, body := c.get("/healthz"); status != http.StatusOK || body != "ok" {
		t.Fatalf("healthz: %d %q", status, body)
	}
	if status, body := c.get("/assets/" + vanilla.StylesheetName); status != http.StatusOK || !strings.Contains(body, ".rf-submit") {
		t.Fatalf("stylesheet: %d", status)
	}
}
