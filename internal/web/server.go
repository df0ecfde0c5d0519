package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/camuig/trade-quest/internal/ai"
	"github.com/camuig/trade-quest/internal/config"
	"github.com/camuig/trade-quest/internal/logger"
	"github.com/camuig/trade-quest/internal/quest"
)

//go:embed templates/*.html
var templateFS embed.FS

type Coach interface {
	AnalyzeTrades(ctx context.Context, blob []byte) (ai.Reply, error)
	WeeklyReview(ctx context.Context, blob []byte, now time.Time) (ai.Reply, error)
	Chat(ctx context.Context, req ai.ChatRequest) (ai.Reply, error)
}

// RateSource supplies the live exchange rate for projections. Optional.
type RateSource interface {
	RateOr(ctx context.Context, def float64) float64
}

type Server struct {
	httpServer *http.Server
	svc        *quest.Service
	coach      Coach
	rates      RateSource
	config     *config.Config
	logger     *logger.Logger
	dashboard  *template.Template
	now        func() time.Time
}

func NewServer(svc *quest.Service, coach Coach, rates RateSource, cfg *config.Config, log *logger.Logger) *Server {
	s := &Server{
		svc:       svc,
		coach:     coach,
		rates:     rates,
		config:    cfg,
		logger:    log,
		dashboard: template.Must(template.ParseFS(templateFS, "templates/dashboard.html")),
		now:       time.Now,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Web.Port),
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.AITimeout() + 10*time.Second,
	}

	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleDashboard)

	mux.HandleFunc("GET /api/overview", s.handleOverview)
	mux.HandleFunc("GET /api/level", s.handleLevel)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/rank", s.handleRank)

	mux.HandleFunc("GET /api/trades", s.handleListTrades)
	mux.HandleFunc("POST /api/trades", s.handleLogTrade)
	mux.HandleFunc("PUT /api/trades/{id}", s.handleUpdateTrade)
	mux.HandleFunc("DELETE /api/trades/{id}", s.handleDeleteTrade)

	mux.HandleFunc("POST /api/withdrawals", s.handleEntry(s.svc.LogWithdrawal))
	mux.HandleFunc("POST /api/deposits", s.handleEntry(s.svc.LogDeposit))
	mux.HandleFunc("POST /api/adjustments", s.handleEntry(s.svc.LogAdjustment))

	mux.HandleFunc("GET /api/journal", s.handleListJournal)
	mux.HandleFunc("POST /api/journal", s.handleAddJournal)
	mux.HandleFunc("GET /api/creatures", s.handleListCreatures)
	mux.HandleFunc("POST /api/creatures", s.handleAddCreature)
	mux.HandleFunc("DELETE /api/creatures", s.handleResetCreatures)
	mux.HandleFunc("POST /api/milestones", s.handleMilestone)
	mux.HandleFunc("GET /api/shop", s.handleShop)
	mux.HandleFunc("POST /api/shop/{id}", s.handlePurchase)

	mux.HandleFunc("GET /api/projection", s.handleProjection)
	mux.HandleFunc("GET /api/ledger", s.handleLedger)
	mux.HandleFunc("GET /api/reconcile", s.handleReconcile)
	mux.HandleFunc("PUT /api/ledger/actuals/{date}", s.handleSetActual)

	mux.HandleFunc("POST /api/ai/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/ai/weekly", s.handleWeekly)
	mux.HandleFunc("POST /api/ai/chat", s.handleChat)
	mux.HandleFunc("GET /api/reviews", s.handleReviews)

	mux.HandleFunc("GET /api/collections/{key}", s.handleGetCollection)
	mux.HandleFunc("PUT /api/collections/{key}", s.handlePutCollection)

	mux.HandleFunc("GET /api/export/trades.csv", s.handleExportCSV)
	mux.HandleFunc("GET /api/export/trades.xlsx", s.handleExportXLSX)

	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start).String())
	})
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	s.logger.Info("web server starting", "port", s.config.Web.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
