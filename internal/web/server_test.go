package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camuig/trade-quest/internal/ai"
	"github.com/camuig/trade-quest/internal/config"
	"github.com/camuig/trade-quest/internal/logger"
	"github.com/camuig/trade-quest/internal/quest"
	"github.com/camuig/trade-quest/internal/state"
	"github.com/camuig/trade-quest/internal/storage"
	"github.com/camuig/trade-quest/internal/telegram"
)

type fakeCoach struct {
	lastBlob []byte
}

func (f *fakeCoach) AnalyzeTrades(ctx context.Context, blob []byte) (ai.Reply, error) {
	f.lastBlob = blob
	if _, err := ai.ParseTrades(blob); err != nil {
		return ai.Reply{}, err
	}
	return ai.Reply{Text: "analysis"}, nil
}

func (f *fakeCoach) WeeklyReview(ctx context.Context, blob []byte, now time.Time) (ai.Reply, error) {
	f.lastBlob = blob
	return ai.Reply{Text: "weekly"}, nil
}

func (f *fakeCoach) Chat(ctx context.Context, req ai.ChatRequest) (ai.Reply, error) {
	if len(req.History) == 0 {
		return ai.Reply{}, ai.ErrEmptyChat
	}
	return ai.Reply{Text: "echo: " + req.History[len(req.History)-1].Content}, nil
}

type fixedRate float64

func (r fixedRate) RateOr(ctx context.Context, def float64) float64 { return float64(r) }

func newTestServer(t *testing.T) (*Server, *fakeCoach) {
	t.Helper()
	cfg := &config.Config{
		AI:         config.AIConfig{TimeoutSeconds: 5},
		Journal:    config.JournalConfig{Timezone: "UTC", MinRankTrades: 3, Currency: "RUB", DefaultExchangeRate: 90},
		Ledger:     config.LedgerConfig{AnchorDate: "2025-01-06", Days: 30, InitialBalance: 1000, Phases: []config.PhaseConfig{{FromWeek: 1, ToWeek: 5, WeeklyGain: 100}}},
		Projection: config.ProjectionConfig{Steps: 17},
		Web:        config.WebConfig{Port: 0},
	}

	db, err := storage.NewDatabase(filepath.Join(t.TempDir(), "web.db"), nil)
	require.NoError(t, err)
	log := logger.Discard()
	svc := quest.NewService(state.New(storage.NewRepository(db)), telegram.Disabled(log), cfg, log)

	coach := &fakeCoach{}
	s := NewServer(svc, coach, fixedRate(95), cfg, log)
	s.now = func() time.Time { return time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC) }
	return s, coach
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != "" {
		rd = bytes.NewReader([]byte(body))
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestTradeLifecycle(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/trades", `{"pair":"EURUSD","outcome":"win","profit":40}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[quest.TradeResult](t, rec)
	assert.Equal(t, 50, res.Reward.Award.XP)

	rec = do(t, s, http.MethodGet, "/api/trades", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "EURUSD")

	rec = do(t, s, http.MethodPut, "/api/trades/"+res.Trade.ID, `{"pair":"EURUSD","outcome":"loss","profit":-40}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/trades/"+res.Trade.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/trades/"+res.Trade.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestValidationErrorsAreBadRequest(t *testing.T) {
	s, _ := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/trades", `{"pair":"EURUSD","outcome":"draw"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/trades", `not json`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/withdrawals", `{"amount":-3}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPut, "/api/ledger/actuals/2025-01-09", `{}`).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, s, http.MethodPatch, "/api/trades", "").Code)
}

func TestProjectionEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/projection?balance=100&percent=1&rate=90", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[projectionResponse](t, rec)
	require.Len(t, resp.Rows, 17)
	assert.Equal(t, "1", resp.Rows[0].Gain.String())
	assert.Equal(t, "101", resp.Rows[0].Balance.String())

	rec = do(t, s, http.MethodGet, "/api/projection?balance=100&percent=1", "")
	resp = decode[projectionResponse](t, rec)
	assert.Equal(t, "95", resp.Rate.String())

	rec = do(t, s, http.MethodGet, "/api/projection?balance=abc&percent=1&rate=90", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[projectionResponse](t, rec)
	assert.Empty(t, resp.Rows)
	assert.Contains(t, rec.Body.String(), `"rows":[]`)
	assert.Contains(t, resp.Warning, "balance")
}

func TestProjectionRejectsBadParameters(t *testing.T) {
	s, _ := newTestServer(t)

	cases := map[string]string{
		"/api/projection?balance=100&percent=1&rate=90&steps=99999999999":          "steps",
		"/api/projection?balance=100&percent=1&rate=90&steps=99999999999999999999": "steps",
		"/api/projection?balance=100&percent=1&rate=90&steps=-4":                   "steps",
		"/api/projection?balance=100&percent=1&rate=ninety":                        "rate",
		"/api/projection?balance=100&percent=-1&rate=90":                           "positive",
	}
	for path, want := range cases {
		t.Run(path, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, path, "")
			require.Equal(t, http.StatusOK, rec.Code)
			resp := decode[projectionResponse](t, rec)
			assert.Empty(t, resp.Rows)
			assert.Contains(t, resp.Warning, want)
		})
	}

	rec := do(t, s, http.MethodGet, "/api/projection?balance=100&percent=1&rate=90&steps=3", "")
	resp := decode[projectionResponse](t, rec)
	assert.Len(t, resp.Rows, 3)
	assert.Empty(t, resp.Warning)
}

func TestLedgerAndReconcile(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPut, "/api/ledger/actuals/2025-01-09", `{"balance":1050}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/reconcile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"date":"2025-01-10"`)
	assert.Contains(t, body, `"actual_date":"2025-01-09"`)
	assert.Contains(t, body, `"diff":"-50"`)

	rec = do(t, s, http.MethodGet, "/api/ledger", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 30, strings.Count(rec.Body.String(), `"weekday"`))
}

func TestAIEndpoints(t *testing.T) {
	s, coach := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/ai/analyze", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", string(coach.lastBlob))

	rec = do(t, s, http.MethodPost, "/api/ai/analyze", "{broken")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/ai/weekly", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "weekly", decode[ai.Reply](t, rec).Text)

	rec = do(t, s, http.MethodPost, "/api/ai/chat", `{"history":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "echo: hi", decode[ai.Reply](t, rec).Text)

	rec = do(t, s, http.MethodPost, "/api/ai/chat", `{"history":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCollectionsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/collections/trades", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())

	rec = do(t, s, http.MethodPut, "/api/collections/preferences", `{"theme": "dungeon", "sound": true}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/collections/preferences", "")
	assert.JSONEq(t, `{"theme":"dungeon","sound":true}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/collections/secrets", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPut, "/api/collections/trades", `[{`).Code)
}

func TestShopAndMilestones(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/shop", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "title-apprentice")

	assert.Equal(t, http.StatusConflict, do(t, s, http.MethodPost, "/api/shop/title-apprentice", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPost, "/api/shop/nope", "").Code)

	rec = do(t, s, http.MethodPost, "/api/milestones", `{"name":"funded"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[quest.Reward](t, rec).LeveledUp)
}

func TestJournalAndCreatures(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/journal", `{"date":"2025-01-10","content":"patient","rating":5}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, s, http.MethodPost, "/api/journal", `{"date":"2025-01-10","content":"edited","rating":5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/creatures", `{"name":"FOMO Wraith"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, s, http.MethodGet, "/api/creatures", "")
	assert.Contains(t, rec.Body.String(), "FOMO Wraith")

	assert.Equal(t, http.StatusNoContent, do(t, s, http.MethodDelete, "/api/creatures", "").Code)
	assert.Equal(t, "[]\n", do(t, s, http.MethodGet, "/api/creatures", "").Body.String())
}

func TestDashboardAndExports(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/api/trades", `{"pair":"EURUSD","outcome":"win","profit":40,"notes":"<b>bold</b>"}`)

	rec := do(t, s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Trade Quest")
	assert.Contains(t, body, "EURUSD")
	assert.Contains(t, body, "&lt;b&gt;bold&lt;/b&gt;")

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/missing", "").Code)

	rec = do(t, s, http.MethodGet, "/api/export/trades.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "trades_20250110.csv")
	assert.Contains(t, rec.Body.String(), "EURUSD")

	rec = do(t, s, http.MethodGet, "/api/export/trades.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestOverviewEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	for _, path := range []string{"/api/overview", "/api/level", "/api/stats", "/api/rank", "/api/reviews", "/api/journal"} {
		rec := do(t, s, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := do(t, s, http.MethodGet, "/api/rank", "")
	assert.Contains(t, rec.Body.String(), `"letter":"N/A"`)
}
