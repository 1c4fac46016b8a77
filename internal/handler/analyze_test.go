package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivalscan/pkg/analysis"
	"rivalscan/pkg/serp"
)

type stubSerpClient struct {
	configured bool
	hits       map[string][]serp.Hit
	errs       map[string]error
	panicMsg   string
	calls      int
}

func (s *stubSerpClient) Configured() bool { return s.configured }

func (s *stubSerpClient) FullResults(ctx context.Context, keyword, region string, resultCount int) ([]serp.Hit, error) {
	s.calls++
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	if err := s.errs[keyword]; err != nil {
		return nil, err
	}
	return s.hits[keyword], nil
}

func newTestApp(client *stubSerpClient) *fiber.App {
	engine := analysis.NewEngine(client, nil, analysis.Options{})
	app := fiber.New()
	New(engine, client, time.Minute).Register(app)
	return app
}

func postAnalyze(t *testing.T, app *fiber.App, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/competitors/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload), "response must be well-formed JSON: %s", raw)
	return resp.StatusCode, payload
}

func TestAnalyze_MissingDomain(t *testing.T) {
	client := &stubSerpClient{configured: true}
	app := newTestApp(client)

	status, payload := postAnalyze(t, app, `{"keywords": [{"keyword": "seo", "volume": 100}]}`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, payload["error"], "domain")
	assert.Zero(t, client.calls, "provider must not be contacted on bad input")
}

func TestAnalyze_MalformedBody(t *testing.T) {
	client := &stubSerpClient{configured: true}
	app := newTestApp(client)

	status, payload := postAnalyze(t, app, `{"domain": "example.com", "keywords": "not-a-list"}`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.NotEmpty(t, payload["error"])
	assert.Zero(t, client.calls)
}

func TestAnalyze_ProviderNotConfigured(t *testing.T) {
	client := &stubSerpClient{configured: false}
	app := newTestApp(client)

	status, payload := postAnalyze(t, app,
		`{"domain": "example.com", "keywords": [{"keyword": "seo tools", "volume": 1000}]}`)

	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "serper_not_configured", payload["analysisMethod"])
	assert.Empty(t, payload["competitors"])
	assert.Equal(t, float64(1), payload["totalKeywordsAnalyzed"])
	assert.Equal(t, float64(0), payload["creditsUsed"])
	assert.NotEmpty(t, payload["error"])
	assert.Zero(t, client.calls, "no network calls may be attempted")
}

func TestAnalyze_Success(t *testing.T) {
	client := &stubSerpClient{
		configured: true,
		hits: map[string][]serp.Hit{
			"seo tools": {
				{Domain: "competitor-a.com", Title: "Competitor A", Position: 1},
			},
			"marketing agency": {
				{Domain: "competitor-a.com", Title: "Competitor A", Position: 1},
			},
		},
	}
	app := newTestApp(client)

	status, payload := postAnalyze(t, app, `{
		"domain": "example.com",
		"keywords": [
			{"keyword": "seo tools", "volume": 1000},
			{"keyword": "marketing agency", "volume": 500}
		]
	}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "serper_api", payload["analysisMethod"])
	assert.Equal(t, float64(2), payload["totalKeywordsAnalyzed"])
	assert.Equal(t, float64(0), payload["keywordsFailed"])

	competitors, ok := payload["competitors"].([]any)
	require.True(t, ok)
	require.Len(t, competitors, 1)
	first := competitors[0].(map[string]any)
	assert.Equal(t, "competitor-a.com", first["domain"])
	assert.Equal(t, "aspirational", first["competitorType"])

	reportAnalysis, ok := payload["analysis"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, reportAnalysis["opportunities"])
	assert.NotEmpty(t, reportAnalysis["threats"])
	assert.NotEmpty(t, reportAnalysis["recommendations"])
}

func TestAnalyze_FailedLookupsVisibleInResponse(t *testing.T) {
	client := &stubSerpClient{
		configured: true,
		hits: map[string][]serp.Hit{
			"seo tools": {{Domain: "competitor-a.com", Title: "Competitor A", Position: 1}},
		},
		errs: map[string]error{
			"marketing agency": errors.New("provider 502"),
		},
	}
	app := newTestApp(client)

	status, payload := postAnalyze(t, app, `{
		"domain": "example.com",
		"keywords": [
			{"keyword": "seo tools", "volume": 1000},
			{"keyword": "marketing agency", "volume": 500}
		]
	}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(1), payload["keywordsFailed"],
		"a failed lookup must be reported to the caller, not just logged")
}

func TestAnalyze_PanicDegradesToFailedReport(t *testing.T) {
	client := &stubSerpClient{configured: true, panicMsg: "boom"}
	app := newTestApp(client)

	status, payload := postAnalyze(t, app,
		`{"domain": "example.com", "keywords": [{"keyword": "seo", "volume": 100}]}`)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "serper_failed", payload["analysisMethod"])
	assert.Empty(t, payload["competitors"])
	assert.Equal(t, float64(0), payload["totalKeywordsAnalyzed"])
	assert.NotEmpty(t, payload["error"])
}

func TestHealth(t *testing.T) {
	app := newTestApp(&stubSerpClient{configured: true})

	req := httptest.NewRequest("GET", "/healthz", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, true, payload["serperConfigured"])
}
