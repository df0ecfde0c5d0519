// Package export writes the trade list as CSV or as an XLSX workbook.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/camuig/trade-quest/internal/journal"
	"github.com/camuig/trade-quest/internal/stats"
)

const (
	TradesSheet = "Trades"
	DailySheet  = "Daily P&L"
)

var tradeHeader = []string{
	"id", "time", "pair", "outcome", "profit", "pips", "lot_size",
	"strategy", "emotion", "discipline", "creature_id", "notes",
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func tradeRecord(t journal.Trade, loc *time.Location) []string {
	return []string{
		t.ID,
		t.Timestamp.In(loc).Format(time.RFC3339),
		t.Pair,
		string(t.Outcome),
		strconv.FormatFloat(t.Profit, 'f', 2, 64),
		optFloat(t.Pips),
		optFloat(t.LotSize),
		t.Strategy,
		t.Emotion,
		optInt(t.Discipline),
		t.CreatureID,
		t.Notes,
	}
}

func WriteCSV(w io.Writer, trades []journal.Trade, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tradeHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, t := range trades {
		if err := cw.Write(tradeRecord(t, loc)); err != nil {
			return fmt.Errorf("write trade %s: %w", t.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a workbook with the trades and their daily P&L.
func WriteXLSX(w io.Writer, trades []journal.Trade, loc *time.Location) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TradesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(tradeHeader))
	for i, h := range tradeHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(TradesSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, t := range trades {
		row := []interface{}{
			t.ID,
			t.Timestamp.In(loc).Format("2006-01-02 15:04"),
			t.Pair,
			string(t.Outcome),
			t.Profit,
			optFloat(t.Pips),
			optFloat(t.LotSize),
			t.Strategy,
			t.Emotion,
			optInt(t.Discipline),
			t.CreatureID,
			t.Notes,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(TradesSheet, cell, &row); err != nil {
			return fmt.Errorf("write trade %s: %w", t.ID, err)
		}
	}

	f.SetColWidth(TradesSheet, "A", "A", 38)
	f.SetColWidth(TradesSheet, "B", "B", 17)
	f.SetColWidth(TradesSheet, "L", "L", 40)

	if _, err := f.NewSheet(DailySheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := f.SetSheetRow(DailySheet, "A1", &[]interface{}{"date", "trades", "profit"}); err != nil {
		return err
	}
	for i, d := range stats.DailyPnL(trades, loc) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(DailySheet, cell, &[]interface{}{d.Date, d.Trades, d.Profit}); err != nil {
			return fmt.Errorf("write day %s: %w", d.Date, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
