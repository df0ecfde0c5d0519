package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/camuig/trade-quest/internal/ai"
	"github.com/camuig/trade-quest/internal/export"
	"github.com/camuig/trade-quest/internal/journal"
	"github.com/camuig/trade-quest/internal/projection"
	"github.com/camuig/trade-quest/internal/quest"
	"github.com/camuig/trade-quest/internal/state"
)

// maxBody leaves room for chart screenshots sent as data URLs.
const maxBody = 8 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, quest.ErrNotFound), errors.Is(err, state.ErrUnknownCollection):
		return http.StatusNotFound
	case errors.Is(err, quest.ErrInvalidInput), errors.Is(err, ai.ErrInvalidTradeData),
		errors.Is(err, ai.ErrEmptyChat), errors.Is(err, state.ErrInvalidDocument):
		return http.StatusBadRequest
	case errors.Is(err, quest.ErrInsufficientCoins), errors.Is(err, quest.ErrAlreadyOwned):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v); err != nil {
		return fmt.Errorf("%w: decode body: %v", quest.ErrInvalidInput, err)
	}
	return nil
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := s.svc.Overview(s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Level()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.Stats()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	ranks, err := s.svc.Ranks()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ranks)
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := s.svc.Trades()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trades)
}

func (s *Server) handleLogTrade(w http.ResponseWriter, r *http.Request) {
	var in quest.TradeInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.LogTrade(in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleUpdateTrade(w http.ResponseWriter, r *http.Request) {
	var in quest.TradeInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.svc.UpdateTrade(r.PathValue("id"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteTrade(r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEntry(log func(quest.EntryInput) (journal.LedgerEntry, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in quest.EntryInput
		if err := decodeJSON(w, r, &in); err != nil {
			s.writeError(w, r, err)
			return
		}
		entry, err := log(in)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, entry)
	}
}

func (s *Server) handleListJournal(w http.ResponseWriter, r *http.Request) {
	entries, err := s.svc.Store().JournalEntries()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAddJournal(w http.ResponseWriter, r *http.Request) {
	var in quest.JournalInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.AddJournalEntry(in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusCreated
	if res.Replaced {
		status = http.StatusOK
	}
	writeJSON(w, status, res)
}

func (s *Server) handleListCreatures(w http.ResponseWriter, r *http.Request) {
	creatures, err := s.svc.Creatures()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, creatures)
}

func (s *Server) handleAddCreature(w http.ResponseWriter, r *http.Request) {
	var in quest.CreatureInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.svc.AddCreature(in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleResetCreatures(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.ResetCreatures(); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMilestone(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	reward, err := s.svc.CompleteMilestone(in.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reward)
}

func (s *Server) handleShop(w http.ResponseWriter, r *http.Request) {
	player, err := s.svc.Player()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":     quest.Catalog,
		"coins":     player.Coins,
		"inventory": player.Inventory,
	})
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	player, err := s.svc.Purchase(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

type projectionResponse struct {
	Balance string                   `json:"balance"`
	Percent string                   `json:"percent"`
	Rate    decimal.Decimal          `json:"rate"`
	Steps   int                      `json:"steps"`
	Rows    []projection.CompoundRow `json:"rows"`
	Warning string                   `json:"warning,omitempty"`
}

// handleProjection compounds ?balance by ?percent (1 = 1%) per step. Values
// that do not parse or are out of range produce an empty row list and a
// warning naming the first offending parameter.
func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp := projectionResponse{
		Balance: q.Get("balance"),
		Percent: q.Get("percent"),
		Steps:   s.config.Projection.Steps,
		Rows:    []projection.CompoundRow{},
	}

	var problems []string
	if v := q.Get("steps"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > projection.MaxSteps {
			problems = append(problems, fmt.Sprintf("steps must be 1-%d, got %q", projection.MaxSteps, v))
		}
		resp.Steps = n
	}

	if v := q.Get("rate"); v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil {
			problems = append(problems, fmt.Sprintf("rate is not a number: %q", v))
		}
		resp.Rate = rate
	} else {
		def := s.config.Journal.DefaultExchangeRate
		if s.rates != nil {
			def = s.rates.RateOr(r.Context(), def)
		}
		resp.Rate = decimal.NewFromFloat(def)
	}

	balance, err := decimal.NewFromString(resp.Balance)
	if err != nil {
		problems = append(problems, fmt.Sprintf("balance is not a number: %q", resp.Balance))
	}
	percent, err := decimal.NewFromString(resp.Percent)
	if err != nil {
		problems = append(problems, fmt.Sprintf("percent is not a number: %q", resp.Percent))
	}

	if len(problems) == 0 {
		if rows := projection.Compound(balance, percent.Div(decimal.NewFromInt(100)), resp.Rate, resp.Steps); rows != nil {
			resp.Rows = rows
		} else {
			problems = append(problems, "balance, percent and rate must be positive")
		}
	}
	if len(problems) > 0 {
		resp.Warning = problems[0]
		s.logger.Debug("empty projection", "query", r.URL.RawQuery, "reason", resp.Warning)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	l, err := s.svc.Ledger()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.Reconcile(s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleSetActual(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Balance *float64 `json:"balance"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	if in.Balance == nil {
		s.writeError(w, r, fmt.Errorf("%w: balance is required", quest.ErrInvalidInput))
		return
	}
	if err := s.svc.SetActualBalance(r.PathValue("date"), *in.Balance); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// tradeBlob returns the request body, or the stored trades when it is empty.
func (s *Server) tradeBlob(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", quest.ErrInvalidInput, err)
	}
	if len(body) > 0 {
		return body, nil
	}
	trades, err := s.svc.Trades()
	if err != nil {
		return nil, err
	}
	if trades == nil {
		trades = []journal.Trade{}
	}
	return json.Marshal(trades)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	blob, err := s.tradeBlob(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	reply, err := s.coach.AnalyzeTrades(r.Context(), blob)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleWeekly(w http.ResponseWriter, r *http.Request) {
	blob, err := s.tradeBlob(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	reply, err := s.coach.WeeklyReview(r.Context(), blob, s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ai.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	reply, err := s.coach.Chat(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.svc.Store().Reviews()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	key, err := state.ParseKey(r.PathValue("key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	raw, err := s.svc.Store().Raw(key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

func (s *Server) handlePutCollection(w http.ResponseWriter, r *http.Request) {
	key, err := state.ParseKey(r.PathValue("key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: read body: %v", quest.ErrInvalidInput, err))
		return
	}
	if err := s.svc.Store().PutRaw(key, body); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) exportName(ext string) string {
	return fmt.Sprintf("trades_%s.%s", s.now().In(s.svc.Location()).Format("20060102"), ext)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	trades, err := s.svc.Trades()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.exportName("csv")))
	if err := export.WriteCSV(w, trades, s.svc.Location()); err != nil {
		s.logger.Error("export csv", "error", err)
	}
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	trades, err := s.svc.Trades()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.exportName("xlsx")))
	if err := export.WriteXLSX(w, trades, s.svc.Location()); err != nil {
		s.logger.Error("export xlsx", "error", err)
	}
}
