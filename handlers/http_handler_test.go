package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/giygas/disease-dashboard/completion"
	"github.com/giygas/disease-dashboard/completion/completiontest"
	"github.com/giygas/disease-dashboard/data"
	"github.com/giygas/disease-dashboard/export"
	"github.com/giygas/disease-dashboard/interfaces"
	"github.com/giygas/disease-dashboard/logging"
	"github.com/giygas/disease-dashboard/pipeline"
	"github.com/giygas/disease-dashboard/report"
)

const influenzaReply = `{"name":"Influenza","statistics":{"total_cases":"1000000","recovery_rate":"95%","mortality_rate":"0.1%"},"recovery_options":{"Rest":"Stay hydrated"},"medication":{"Paracetamol":{"side_effects":["Nausea"],"dosage":"500mg"}}}`

const distributionReply = `{"name":"Measles","statistics":{"total_cases":"150","recovery_rate":"62%","mortality_rate":"3%"},"recovery_options":{},"medication":{},"global_distribution":{"Asia":100,"Europe":50}}`

// ============================================================================
// TEST HELPERS
// ============================================================================

type mockHealthChecker struct {
	status     string
	details    map[string]any
	httpStatus int
}

func (m *mockHealthChecker) HealthCheck() (string, map[string]any, int) {
	return m.status, m.details, m.httpStatus
}

type testEnv struct {
	handler  *HTTPHandlerImpl
	upstream *completiontest.Server
	stats    *data.DataContainer
}

// newTestEnv wires a real pipeline to a fake completion endpoint
func newTestEnv(t *testing.T, reply string) *testEnv {
	t.Helper()

	upstream := completiontest.NewServer(reply)
	t.Cleanup(upstream.Close)

	client, err := completion.NewClient(completion.Config{
		APIKey:  "sk-test",
		BaseURL: upstream.URL,
	})
	if err != nil {
		t.Fatalf("Failed to create completion client: %v", err)
	}

	stats := data.NewDataContainer()
	stats.SetServerStartTime(time.Now().Add(-90 * time.Second))
	stats.SetCompletionConfigured(true)

	health := &mockHealthChecker{
		status:     "healthy",
		details:    map[string]any{"submissions": 0},
		httpStatus: http.StatusOK,
	}

	return &testEnv{
		handler:  NewHTTPHandler(pipeline.New(client), stats, health),
		upstream: upstream,
		stats:    stats,
	}
}

func postForm(handler http.HandlerFunc, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func assertContains(t *testing.T, body string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(body, w) {
			t.Errorf("Expected body to contain %q", w)
		}
	}
}

// ============================================================================
// PAGE TESTS
// ============================================================================

func TestServeDashboardIdle(t *testing.T) {
	env := newTestEnv(t, influenzaReply)

	rr := httptest.NewRecorder()
	env.handler.ServeDashboard(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	assertContains(t, body,
		"Enhanced Disease Information Dashboard",
		"User Settings",
		"Enter the name of the disease:",
	)
	if strings.Contains(body, "Total Cases:") {
		t.Error("Idle page should not render a report")
	}
	if env.upstream.Calls() != 0 {
		t.Errorf("Idle page should not call the completion endpoint, got %d calls", env.upstream.Calls())
	}
}

func TestSubmitDiseaseInfluenza(t *testing.T) {
	env := newTestEnv(t, influenzaReply)

	rr := postForm(env.handler.SubmitDisease, "/", url.Values{"disease": {"Influenza"}})

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get(logging.SubmissionHeader) == "" {
		t.Error("Expected a submission ID header")
	}
	if got := rr.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Expected Cache-Control no-store, got %q", got)
	}

	body := rr.Body.String()
	assertContains(t, body,
		"Global Statistics for Influenza",
		"Total Cases: 1000000",
		"Recovery Rate 95, Mortality Rate 0.1",
		"data:image/png;base64,",
		"<h3>Rest</h3>",
		"Stay hydrated",
		"1. Paracetamol",
		"Side Effects: Nausea",
		"Dosage: 500mg",
		"Download Data as CSV",
	)
	if strings.Contains(body, "Global Distribution") {
		t.Error("Report without distribution should not render a pie chart")
	}

	if env.upstream.Calls() != 1 {
		t.Fatalf("Expected exactly one completion call, got %d", env.upstream.Calls())
	}
	req := env.upstream.Requests()[0]
	if len(req.Messages) != 1 || req.Messages[0].Role != "system" {
		t.Fatalf("Expected one system message, got %+v", req.Messages)
	}
	if !strings.Contains(req.Messages[0].Content, "Influenza") {
		t.Errorf("Instruction does not mention the disease: %q", req.Messages[0].Content)
	}

	if got := env.stats.Snapshot().Rendered; got != 1 {
		t.Errorf("Expected one rendered submission, got %d", got)
	}
}

func TestSubmitDiseaseDistribution(t *testing.T) {
	env := newTestEnv(t, distributionReply)

	rr := postForm(env.handler.SubmitDisease, "/", url.Values{"disease": {"Measles"}})

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	assertContains(t, body,
		"Global Distribution",
		"<td>Asia</td><td>100</td><td>66.7%</td>",
		"<td>Europe</td><td>50</td><td>33.3%</td>",
		"<td>Total</td><td>150</td>",
	)
	if strings.Index(body, "Asia") > strings.Index(body, "Europe") {
		t.Error("Expected regions in reply order")
	}
}

func TestSubmitDiseaseMalformedReply(t *testing.T) {
	env := newTestEnv(t, "not json")

	rr := postForm(env.handler.SubmitDisease, "/", url.Values{"disease": {"Influenza"}})

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected status 422, got %d", rr.Code)
	}
	body := rr.Body.String()
	assertContains(t, body, "Failed to decode the response into JSON.")
	if strings.Contains(body, "Total Cases:") {
		t.Error("Malformed reply must not render any report content")
	}
	if got := env.stats.Snapshot().Malformed; got != 1 {
		t.Errorf("Expected one malformed submission, got %d", got)
	}
}

func TestSubmitDiseaseFailures(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		upstream   int
		wantStatus int
		wantText   string
	}{
		{
			name:       "upstream unauthorized",
			reply:      influenzaReply,
			upstream:   http.StatusUnauthorized,
			wantStatus: http.StatusBadGateway,
			wantText:   "Bad Gateway",
		},
		{
			name:       "rate without percent sign",
			reply:      `{"name":"X","statistics":{"total_cases":"1","recovery_rate":"high","mortality_rate":"1%"},"recovery_options":{},"medication":{}}`,
			wantStatus: http.StatusInternalServerError,
			wantText:   "Internal Server Error",
		},
		{
			name:       "missing statistics",
			reply:      `{"name":"X","recovery_options":{},"medication":{}}`,
			wantStatus: http.StatusInternalServerError,
			wantText:   "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.reply)
			if tt.upstream != 0 {
				env.upstream.SetStatus(tt.upstream)
			}

			rr := postForm(env.handler.SubmitDisease, "/", url.Values{"disease": {"X"}})

			if rr.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			body := rr.Body.String()
			assertContains(t, body, tt.wantText)
			if strings.Contains(body, report.MalformedReplyMessage) {
				t.Error("Only malformed replies get the designated message")
			}
		})
	}
}

func TestSubmitDiseaseBlankStaysIdle(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		env := newTestEnv(t, influenzaReply)

		rr := postForm(env.handler.SubmitDisease, "/", url.Values{"disease": {input}})

		if rr.Code != http.StatusOK {
			t.Errorf("Input %q: expected status 200, got %d", input, rr.Code)
		}
		if env.upstream.Calls() != 0 {
			t.Errorf("Input %q: expected no completion call, got %d", input, env.upstream.Calls())
		}
		if env.stats.Snapshot().Submissions != 0 {
			t.Errorf("Input %q: blank input should not count as a submission", input)
		}
	}
}

func TestSubmitDiseaseNoCaching(t *testing.T) {
	env := newTestEnv(t, influenzaReply)

	for i := 0; i < 2; i++ {
		rr := postForm(env.handler.SubmitDisease, "/", url.Values{"disease": {"Influenza"}})
		if rr.Code != http.StatusOK {
			t.Fatalf("Submission %d: expected status 200, got %d", i, rr.Code)
		}
	}
	if env.upstream.Calls() != 2 {
		t.Errorf("Expected a completion call per submission, got %d", env.upstream.Calls())
	}
}

// ============================================================================
// EXPORT TESTS
// ============================================================================

func TestExportCSV(t *testing.T) {
	env := newTestEnv(t, influenzaReply)

	rr := postForm(env.handler.ExportCSV, "/export", url.Values{"report": {influenzaReply}})

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Content-Type"); !strings.HasPrefix(got, export.ContentType) {
		t.Errorf("Expected content type %s, got %q", export.ContentType, got)
	}
	if got := rr.Header().Get("Content-Disposition"); got != `attachment; filename="disease_info.csv"` {
		t.Errorf("Unexpected Content-Disposition %q", got)
	}

	rep, err := report.Parse(influenzaReply)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want, err := export.CSV(rep)
	if err != nil {
		t.Fatalf("CSV failed: %v", err)
	}
	if rr.Body.String() != string(want) {
		t.Errorf("Export body differs from export.CSV:\n%s\nwant:\n%s", rr.Body.String(), want)
	}
	if env.upstream.Calls() != 0 {
		t.Error("Export must not call the completion endpoint")
	}
}

func TestExportCSVRejectsBadInput(t *testing.T) {
	env := newTestEnv(t, influenzaReply)

	for _, raw := range []string{"", "not json", "[1,2]"} {
		rr := postForm(env.handler.ExportCSV, "/export", url.Values{"report": {raw}})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Report %q: expected status 400, got %d", raw, rr.Code)
		}
	}
}

// ============================================================================
// API TESTS
// ============================================================================

func TestCreateReport(t *testing.T) {
	env := newTestEnv(t, influenzaReply)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(`{"disease":"Influenza"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	env.handler.CreateReport(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		SubmissionID string `json:"submission_id"`
		View         struct {
			Title      string `json:"title"`
			TotalCases string `json:"total_cases"`
			Rates      struct {
				Series []struct {
					Label string  `json:"label"`
					Value float64 `json:"value"`
				} `json:"series"`
			} `json:"rates"`
		} `json:"view"`
		Report map[string]any `json:"report"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.SubmissionID == "" || resp.SubmissionID != rr.Header().Get(logging.SubmissionHeader) {
		t.Errorf("Submission ID mismatch: body %q header %q", resp.SubmissionID, rr.Header().Get(logging.SubmissionHeader))
	}
	if resp.View.Title != "Global Statistics for Influenza" || resp.View.TotalCases != "1000000" {
		t.Errorf("Unexpected view %+v", resp.View)
	}
	if len(resp.View.Rates.Series) != 2 || resp.View.Rates.Series[0].Value != 95 || resp.View.Rates.Series[1].Value != 0.1 {
		t.Errorf("Unexpected rates %+v", resp.View.Rates.Series)
	}
	if resp.Report["name"] != "Influenza" {
		t.Errorf("Expected the report to be echoed, got %v", resp.Report)
	}
}

func TestCreateReportErrors(t *testing.T) {
	tests := []struct {
		name        string
		reply       string
		body        string
		wantStatus  int
		wantMessage string
		wantCalls   int
	}{
		{"invalid json body", influenzaReply, `{"disease":`, http.StatusBadRequest, "Invalid JSON body", 0},
		{"blank disease", influenzaReply, `{"disease":"  "}`, http.StatusBadRequest, "Missing disease name", 0},
		{"malformed reply", "not json", `{"disease":"Influenza"}`, http.StatusUnprocessableEntity, report.MalformedReplyMessage, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.reply)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			env.handler.CreateReport(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, rr.Code)
			}

			var resp map[string]any
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp["message"] != tt.wantMessage {
				t.Errorf("Expected message %q, got %v", tt.wantMessage, resp["message"])
			}
			if env.upstream.Calls() != tt.wantCalls {
				t.Errorf("Expected %d completion calls, got %d", tt.wantCalls, env.upstream.Calls())
			}
		})
	}
}

// ============================================================================
// HEALTH AND UTILITY TESTS
// ============================================================================

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t, influenzaReply)

	rr := httptest.NewRecorder()
	env.handler.HealthCheck(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("Expected status healthy, got %q", resp.Status)
	}
	if resp.UptimeSeconds < 90 {
		t.Errorf("Expected uptime of at least 90s, got %f", resp.UptimeSeconds)
	}
	if _, ok := resp.System["goroutines"]; !ok {
		t.Error("Expected goroutines in system section")
	}
}

func TestHealthCheckPassesStatusThrough(t *testing.T) {
	handler := NewHTTPHandler(nil, data.NewDataContainer(), &mockHealthChecker{
		status:     "unhealthy",
		httpStatus: http.StatusServiceUnavailable,
	})

	rr := httptest.NewRecorder()
	handler.HealthCheck(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", rr.Code)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantOutcome interfaces.Outcome
		wantStatus  int
	}{
		{"nil", nil, interfaces.OutcomeRendered, http.StatusOK},
		{"malformed", report.ErrMalformedReply, interfaces.OutcomeMalformed, http.StatusUnprocessableEntity},
		{"completion", pipeline.ErrCompletion, interfaces.OutcomeUpstream, http.StatusBadGateway},
		{"field", report.Missing("name"), interfaces.OutcomeFault, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, status := classify(tt.err)
			if outcome != tt.wantOutcome || status != tt.wantStatus {
				t.Errorf("classify(%v) = %s %d, want %s %d", tt.err, outcome, status, tt.wantOutcome, tt.wantStatus)
			}
		})
	}
}

func TestBlankDisease(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"\t \n", true},
		{"  Influenza ", false},
		{"Me\u0301nie\u0300re", false},
	}
	for _, tt := range tests {
		if got := blankDisease(tt.in); got != tt.want {
			t.Errorf("blankDisease(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSubmitDiseaseSendsNameUnchanged(t *testing.T) {
	names := []string{"  Influenza ", "Me\u0301nie\u0300re"}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t, influenzaReply)

			rr := postForm(env.handler.SubmitDisease, "/", url.Values{"disease": {name}})
			if rr.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", rr.Code)
			}
			if env.upstream.Calls() != 1 {
				t.Fatalf("Expected one completion call, got %d", env.upstream.Calls())
			}
			if got := env.upstream.Requests()[0].Messages[0].Content; !strings.Contains(got, name) {
				t.Errorf("Instruction should contain %q verbatim, got %q", name, got)
			}
		})
	}
}

func TestFormatUptimeHuman(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{90 * time.Second, "1m 30s"},
		{26*time.Hour + 5*time.Second, "1d 2h 0m 5s"},
	}
	for _, tt := range tests {
		if got := formatUptimeHuman(tt.d); got != tt.want {
			t.Errorf("formatUptimeHuman(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
