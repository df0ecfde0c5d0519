package web

import (
	"net/http"
	"sort"

	"github.com/camuig/trade-quest/internal/journal"
	"github.com/camuig/trade-quest/internal/quest"
)

type DashboardData struct {
	quest.Overview
	RecentTrades []journal.Trade
	Currency     string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ov, err := s.svc.Overview(s.now())
	if err != nil {
		s.logger.Error("build overview", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := DashboardData{Overview: ov, Currency: s.config.Journal.Currency}
	if trades, err := s.svc.Trades(); err == nil {
		data.RecentTrades = recent(trades, 20)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.dashboard.Execute(w, data); err != nil {
		s.logger.Error("execute template", "error", err)
	}
}

// recent returns up to n trades, newest first.
func recent(trades []journal.Trade, n int) []journal.Trade {
	out := make([]journal.Trade, len(trades))
	copy(out, trades)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
