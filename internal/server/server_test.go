package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ritikiit/careergps1/internal/fixtures"
	"github.com/ritikiit/careergps1/internal/pipeline"
	"github.com/ritikiit/careergps1/internal/rendering"
	"github.com/ritikiit/careergps1/internal/server/ratelimit"
	"github.com/ritikiit/careergps1/internal/types"
)

// fakeClient answers every prompt with the sample report unless err is set.
type fakeClient struct {
	mu    sync.Mutex
	err   error
	block chan struct{}
}

func (f *fakeClient) GenerateJSON(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	block, err := f.block, f.err
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if err != nil {
		return "", err
	}
	return fixtures.SampleResponse(), nil
}

func (f *fakeClient) Model() string { return "fake-model" }

func (f *fakeClient) Close() error { return nil }

// fakeRenderer returns fixed PDF bytes unless err is set.
type fakeRenderer struct {
	mu   sync.Mutex
	err  error
	html string
}

func (f *fakeRenderer) RenderPDF(_ context.Context, html string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.7 fake"), nil
}

type testServer struct {
	*Server
	client   *fakeClient
	renderer *fakeRenderer
}

func newTestServer(t *testing.T, rate *ratelimit.Config) *testServer {
	t.Helper()
	logger := zaptest.NewLogger(t)
	client := &fakeClient{}
	renderer := &fakeRenderer{}

	projector, err := rendering.NewProjector(rendering.DefaultBranding())
	require.NoError(t, err)

	s, err := New(Config{
		Port:          8080,
		SessionSecret: "test-secret-key-for-jwt-signing-minimum-32-bytes",
		SessionTTL:    time.Hour,
		SettleDelay:   -1,
		RateLimit:     rate,
	}, Dependencies{
		Generator: pipeline.NewGenerator(client, pipeline.GeneratorOptions{Logger: logger}),
		Projector: projector,
		Renderer:  renderer,
		Logger:    logger,
	})
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)

	return &testServer{Server: s, client: client, renderer: renderer}
}

// browser carries the session cookie between requests.
type browser struct {
	t      *testing.T
	srv    *testServer
	cookie *http.Cookie
}

func (b *browser) do(method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	b.t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	w := httptest.NewRecorder()
	b.srv.Handler().ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie {
			b.cookie = c
		}
	}
	return w
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, target, nil, "")
}

func (b *browser) submit(form url.Values) *httptest.ResponseRecorder {
	return b.do(http.MethodPost, "/report", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

func (b *browser) page() *goquery.Document {
	b.t.Helper()
	w := b.get("/")
	require.Equal(b.t, http.StatusOK, w.Code)
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(b.t, err)
	return doc
}

// state reads the session's controller state directly.
func (b *browser) state() pipeline.State {
	b.t.Helper()
	require.NotNil(b.t, b.cookie, "no session yet")
	claims, err := b.srv.jwtService.ValidateToken(b.cookie.Value)
	require.NoError(b.t, err)
	return b.srv.sessions.Controller(claims.SessionID).Snapshot().State
}

func (b *browser) waitFor(state pipeline.State) {
	b.t.Helper()
	require.Eventually(b.t, func() bool { return b.state() == state }, 2*time.Second, 5*time.Millisecond)
}

func sampleForm() url.Values {
	req := fixtures.SampleRequest()
	return url.Values{
		"role":       {req.Role},
		"experience": {req.Experience},
		"industry":   {req.Industry},
		"target":     {req.Target},
		"horizon":    {string(req.Horizon)},
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Empty(t, w.Result().Cookies(), "health checks do not start sessions")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	b := &browser{t: t, srv: s}
	b.get("/")

	w := b.get("/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "careergps_active_sessions")
}

func TestPage_NewSessionShowsForm(t *testing.T) {
	b := &browser{t: t, srv: newTestServer(t, nil)}
	doc := b.page()

	require.NotNil(t, b.cookie)
	assert.True(t, b.cookie.HttpOnly)
	assert.Equal(t, 1, doc.Find("#report-form").Length())
	assert.Equal(t, "1 Year", doc.Find(`input[name="horizon"][checked]`).AttrOr("value", ""))
	assert.Equal(t, 0, doc.Find("#loading").Length())
}

func TestSubmit_ShowsResults(t *testing.T) {
	b := &browser{t: t, srv: newTestServer(t, nil)}
	b.get("/")

	w := b.submit(sampleForm())
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/#results", w.Header().Get("Location"))

	b.waitFor(pipeline.StateResults)
	doc := b.page()
	assert.Equal(t, 0, doc.Find("#report-form").Length())
	assert.Greater(t, doc.Find("[data-section]").Length(), 5)
	assert.Equal(t, exportURL, doc.Find("a.download").AttrOr("href", ""))
}

func TestSubmit_ValidationErrorKeepsForm(t *testing.T) {
	b := &browser{t: t, srv: newTestServer(t, nil)}

	form := sampleForm()
	form.Set("role", "   ")
	w := b.submit(form)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	doc := b.page()
	assert.Contains(t, doc.Find(".error-banner").Text(), "role")
	assert.Equal(t, sampleForm().Get("target"), doc.Find("#target").AttrOr("value", ""))
	assert.Equal(t, pipeline.StateInput, b.state())
}

func TestSubmit_ModelFailureShowsMessage(t *testing.T) {
	s := newTestServer(t, nil)
	s.client.err = errors.New("quota exceeded")
	b := &browser{t: t, srv: s}

	b.submit(sampleForm())
	require.Eventually(t, func() bool {
		return strings.Contains(b.page().Find(".error-banner").Text(), pipeline.GenerateFailedMessage)
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, pipeline.StateInput, b.state())
}

func TestSubmit_LoadingPageAndBusy(t *testing.T) {
	s := newTestServer(t, nil)
	s.client.block = make(chan struct{})
	b := &browser{t: t, srv: s}

	b.submit(sampleForm())
	assert.Equal(t, pipeline.StateLoading, b.state())

	doc := b.page()
	assert.Equal(t, 1, doc.Find("#loading").Length())
	assert.Contains(t, doc.Find(`meta[http-equiv="refresh"]`).AttrOr("content", ""), "/#results")

	// Neither a second submit nor a reset interrupts generation.
	assert.Equal(t, http.StatusSeeOther, b.submit(sampleForm()).Code)
	assert.Equal(t, http.StatusSeeOther, b.do(http.MethodPost, "/report/reset", nil, "").Code)
	assert.Equal(t, pipeline.StateLoading, b.state())

	close(s.client.block)
	b.waitFor(pipeline.StateResults)
}

func TestReset_ReturnsToPrefilledForm(t *testing.T) {
	b := &browser{t: t, srv: newTestServer(t, nil)}
	b.submit(sampleForm())
	b.waitFor(pipeline.StateResults)

	w := b.do(http.MethodPost, "/report/reset", nil, "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, pipeline.StateInput, b.state())

	doc := b.page()
	assert.Equal(t, sampleForm().Get("role"), doc.Find("#role").AttrOr("value", ""))
}

func TestSessions_AreIsolated(t *testing.T) {
	s := newTestServer(t, nil)
	alice := &browser{t: t, srv: s}
	bob := &browser{t: t, srv: s}

	alice.submit(sampleForm())
	alice.waitFor(pipeline.StateResults)

	assert.Equal(t, 1, bob.page().Find("#report-form").Length())
	assert.NotEqual(t, alice.cookie.Value, bob.cookie.Value)
	assert.Equal(t, 2, s.sessions.Len())
}

func TestPrint(t *testing.T) {
	b := &browser{t: t, srv: newTestServer(t, nil)}

	w := b.get("/report/print")
	assert.Equal(t, http.StatusNotFound, w.Code)

	b.submit(sampleForm())
	b.waitFor(pipeline.StateResults)

	w = b.get("/report/print")
	require.Equal(t, http.StatusOK, w.Code)
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	assert.Equal(t, rendering.PrintPageCount, doc.Find(".pdf-page").Length())
}

func TestDownload(t *testing.T) {
	s := newTestServer(t, nil)
	b := &browser{t: t, srv: s}

	w := b.get("/report/pdf")
	assert.Equal(t, http.StatusNotFound, w.Code)

	b.submit(sampleForm())
	b.waitFor(pipeline.StateResults)

	w = b.get("/report/pdf")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Career_GPS_Student_Strategy.pdf")
	assert.Equal(t, "%PDF-1.7 fake", w.Body.String())
	assert.Contains(t, s.renderer.html, `id="print-container"`)
}

func TestDownload_FailureShowsNotice(t *testing.T) {
	s := newTestServer(t, nil)
	s.renderer.err = errors.New("chrome crashed")
	b := &browser{t: t, srv: s}

	b.submit(sampleForm())
	b.waitFor(pipeline.StateResults)

	w := b.get("/report/pdf")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/#results", w.Header().Get("Location"))

	doc := b.page()
	assert.Contains(t, doc.Find(".notice-banner").Text(), pipeline.ExportFailedMessage)
	assert.Equal(t, 1, doc.Find("a.download").Length(), "the report stays available")
}

func postJSON(s *testServer, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func sampleRequestJSON(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(fixtures.SampleRequest())
	require.NoError(t, err)
	return string(data)
}

func TestAPIReport(t *testing.T) {
	s := newTestServer(t, nil)

	w := postJSON(s, "/api/report", sampleRequestJSON(t))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	var resp struct {
		Request  types.ReportRequest `json:"request"`
		Report   map[string]any      `json:"report"`
		Warnings []any               `json:"warnings"`
		Model    string              `json:"model"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, fixtures.SampleRequest(), resp.Request)
	assert.NotEmpty(t, resp.Report["career_snapshot"])
	assert.NotNil(t, resp.Warnings)
	assert.Empty(t, resp.Warnings)
	assert.Equal(t, "fake-model", resp.Model)
	assert.Empty(t, w.Result().Cookies(), "the API is stateless")
}

func TestAPIReport_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		modelErr error
		want     int
	}{
		{name: "invalid json", body: `{"role":`, want: http.StatusBadRequest},
		{name: "missing fields", body: `{"role": "Student"}`, want: http.StatusBadRequest},
		{name: "unknown horizon", body: `{"role": "a", "experience": "b", "industry": "c", "target": "d", "horizon": "10 Years"}`, want: http.StatusBadRequest},
		{name: "model failure", modelErr: errors.New("unavailable"), want: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)
			s.client.err = tt.modelErr
			body := tt.body
			if body == "" {
				body = sampleRequestJSON(t)
			}

			w := postJSON(s, "/api/report", body)
			assert.Equal(t, tt.want, w.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestAPIReport_Preflight(t *testing.T) {
	s := newTestServer(t, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/report", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestAPIReportPDF(t *testing.T) {
	s := newTestServer(t, nil)

	w := postJSON(s, "/api/report", sampleRequestJSON(t))
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(s, "/api/report/pdf", w.Body.String())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Career_GPS_Student_Strategy.pdf")

	w = postJSON(s, "/api/report/pdf", `{"request": {}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.renderer.err = errors.New("chrome crashed")
	w = postJSON(s, "/api/report/pdf", `{"report": {}}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), pipeline.ExportFailedMessage)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Rules:         ratelimit.ReportRules(1, time.Hour, 1),
	})

	w := postJSON(s, "/api/report", sampleRequestJSON(t))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = postJSON(s, "/api/report", sampleRequestJSON(t))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")

	// Other routes are unaffected.
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Config{}, Dependencies{})
	assert.Error(t, err)
}

func TestStart_ShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, nil)
	s.httpServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
