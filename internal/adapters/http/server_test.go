package httpadapter

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ims/internal/adapters/memory"
	"ims/internal/domain"
	"ims/internal/engine"
	"ims/internal/services/aspects"
	"ims/internal/services/compliance"
	"ims/internal/services/dashboard"
	"ims/internal/services/registers"
	"ims/internal/services/risks"
	"ims/internal/services/safety"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	store := memory.New()
	holder := engine.NewHolder(engine.Default())
	comp := compliance.New(compliance.Repos{
		Risks: store, Incidents: store, Actions: store, Legal: store, Snapshots: store,
	}, holder, memory.NewScoreCache(time.Minute), &memory.Recorder{}, nil)

	svc := Services{
		Risks:      risks.New(store, holder, comp),
		Aspects:    aspects.New(store, holder, comp),
		Safety:     safety.New(store, comp),
		Registers:  registers.New(registers.Repos{Incidents: store, Actions: store, Legal: store, Analyses: store}, comp),
		Compliance: comp,
		Dashboard: dashboard.New(dashboard.Repos{
			Risks: store, Incidents: store, Actions: store, Legal: store, Analyses: store, Safety: store,
		}, holder),
	}
	ts := httptest.NewServer(New(svc, opts).Routes())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string, header ...string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, body := do(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestRiskLifecycle(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := do(t, http.MethodPost, ts.URL+"/api/risks",
		`{"title":"Forklift collision","standard":"ISO_45001","likelihood":4,"severity":5,"detectability":3}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created domain.Risk
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, 60, created.Score)
	assert.Equal(t, "HIGH", created.Level)

	resp, body = do(t, http.MethodPatch, ts.URL+"/api/risks/"+created.ID, `{"detectability":5}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var updated domain.Risk
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, 100, updated.Score)
	assert.Equal(t, "CRITICAL", updated.Level)

	resp, body = do(t, http.MethodGet, ts.URL+"/api/risks?level=CRITICAL&minScore=90", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list domain.ListResult[domain.Risk]
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, domain.DefaultLimit, list.Limit)

	resp, _ = do(t, http.MethodDelete, ts.URL+"/api/risks/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/risks/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValidationErrors(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := do(t, http.MethodPost, ts.URL+"/api/risks", `{"title":"","standard":"ISO_45001","likelihood":6}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var e errorBody
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Contains(t, e.Fields, "title")
	assert.Contains(t, e.Fields, "likelihood")

	resp, _ = do(t, http.MethodPost, ts.URL+"/api/risks", `{"title":"x","bogus":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/risks?minScore=lots", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/safety-metrics/nope/ytd", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/compliance/ISO_27001", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestComplianceReflectsWrites(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := do(t, http.MethodGet, ts.URL+"/api/compliance/ISO_9001", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var empty domain.ComplianceScore
	require.NoError(t, json.Unmarshal(body, &empty))
	assert.Equal(t, 100, empty.Overall)
	assert.False(t, empty.HasData)

	resp, body = do(t, http.MethodPost, ts.URL+"/api/incidents",
		`{"title":"Batch out of tolerance","standard":"ISO_9001","severity":"HIGH"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	// Writes invalidate the cached score, so the open incident shows at once.
	resp, body = do(t, http.MethodGet, ts.URL+"/api/compliance/ISO_9001", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var score domain.ComplianceScore
	require.NoError(t, json.Unmarshal(body, &score))
	assert.True(t, score.HasData)
	assert.Equal(t, 0.0, score.IncidentClosureRate)

	resp, body = do(t, http.MethodGet, ts.URL+"/api/compliance", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all complianceResponse
	require.NoError(t, json.Unmarshal(body, &all))
	assert.Len(t, all.Standards, len(domain.Standards))
	assert.Equal(t, score.Overall, all.OverallScore)
}

func TestActionStatusAndOverdueFilter(t *testing.T) {
	ts := newTestServer(t, Options{})
	past := time.Now().Add(-72 * time.Hour).UTC().Format(time.RFC3339)
	future := time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)

	var late domain.Action
	resp, body := do(t, http.MethodPost, ts.URL+"/api/actions",
		`{"title":"Guard rail","standard":"ISO_45001","dueDate":"`+past+`"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &late))
	resp, _ = do(t, http.MethodPost, ts.URL+"/api/actions",
		`{"title":"Signage","standard":"ISO_45001","dueDate":"`+future+`"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = do(t, http.MethodGet, ts.URL+"/api/actions?overdue=true", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list domain.ListResult[domain.Action]
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, late.ID, list.Items[0].ID)

	resp, body = do(t, http.MethodPatch, ts.URL+"/api/actions/"+late.ID+"/status", `{"status":"COMPLETED"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var done domain.Action
	require.NoError(t, json.Unmarshal(body, &done))
	assert.NotNil(t, done.CompletedAt)

	resp, _ = do(t, http.MethodPatch, ts.URL+"/api/actions/missing/status", `{"status":"COMPLETED"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSafetyEndpoints(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, body := do(t, http.MethodPut, ts.URL+"/api/safety-metrics",
		`{"year":2024,"month":3,"hoursWorked":200000,"lostTimeInjuries":2,"totalRecordableInjuries":3,"daysLost":10}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var p domain.SafetyMetricPeriod
	require.NoError(t, json.Unmarshal(body, &p))
	assert.InDelta(t, 2.0, p.LTIFR, 1e-9)

	resp, body = do(t, http.MethodGet, ts.URL+"/api/safety-metrics?year=2024", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var periods []domain.SafetyMetricPeriod
	require.NoError(t, json.Unmarshal(body, &periods))
	assert.Len(t, periods, 1)

	resp, body = do(t, http.MethodGet, ts.URL+"/api/safety-metrics/2024/ytd", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"ltifr":2`)
}

func TestDashboard(t *testing.T) {
	ts := newTestServer(t, Options{})
	resp, _ := do(t, http.MethodPost, ts.URL+"/api/risks",
		`{"title":"Chemical spill","standard":"ISO_14001","likelihood":5,"severity":5,"detectability":5}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := do(t, http.MethodGet, ts.URL+"/api/dashboard", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snap struct {
		Risks struct {
			Total    int `json:"total"`
			Critical int `json:"critical"`
		} `json:"risks"`
		TopRisks []domain.Risk `json:"topRisks"`
	}
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Equal(t, 1, snap.Risks.Total)
	assert.Equal(t, 1, snap.Risks.Critical)
	assert.Len(t, snap.TopRisks, 1)
}

func TestBearerAuth(t *testing.T) {
	const secret = "s3cret"
	ts := newTestServer(t, Options{JWTSecret: secret})

	resp, _ := do(t, http.MethodGet, ts.URL+"/api/compliance", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	sign := func(key string, exp time.Time) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "auditor",
			ExpiresAt: jwt.NewNumericDate(exp),
		}).SignedString([]byte(key))
		require.NoError(t, err)
		return tok
	}

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/compliance", "", "Authorization", "Bearer "+sign(secret, time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/compliance", "", "Authorization", "Bearer "+sign("other", time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/compliance", "", "Authorization", "Bearer "+sign(secret, time.Now().Add(-time.Hour)))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, Options{Metrics: NewMetrics()})

	do(t, http.MethodGet, ts.URL+"/healthz", "")
	resp, body := do(t, http.MethodGet, ts.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, bytes.Contains(body, []byte(`ims_http_requests_total{method="GET",route="/healthz",status="200"} 1`)))
}
