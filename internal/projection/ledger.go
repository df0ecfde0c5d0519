package projection

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/camuig/trade-quest/internal/journal"
)

const dateLayout = "2006-01-02"

// MaxLedgerDays bounds the ledger window; longer windows are truncated.
const MaxLedgerDays = 3660

var tradingDays = decimal.NewFromInt(5)

type LedgerInput struct {
	Anchor  time.Time
	Days    int
	Initial decimal.Decimal
	Phases  []journal.GainPhase
	Actuals journal.ActualBalances
}

type LedgerDay struct {
	Date        string           `json:"date"`
	Weekday     string           `json:"weekday"`
	Week        int              `json:"week"`
	DailyTarget decimal.Decimal  `json:"daily_target"`
	Projected   decimal.Decimal  `json:"projected"`
	Actual      *decimal.Decimal `json:"actual,omitempty"`
	Diff        *decimal.Decimal `json:"diff,omitempty"`
}

type Ledger struct {
	Initial decimal.Decimal `json:"initial"`
	Days    []LedgerDay     `json:"days"`
	actuals journal.ActualBalances
}

// PhaseGain picks the weekly gain for week. The narrowest covering phase wins
// and later phases win ties. Uncovered weeks use the first phase.
func PhaseGain(week int, phases []journal.GainPhase) decimal.Decimal {
	if len(phases) == 0 {
		return decimal.Zero
	}
	best := -1
	for i, p := range phases {
		if !p.Covers(week) {
			continue
		}
		if best < 0 || p.ToWeek-p.FromWeek <= phases[best].ToWeek-phases[best].FromWeek {
			best = i
		}
	}
	if best < 0 {
		best = 0
	}
	return decimal.NewFromFloat(phases[best].WeeklyGain)
}

// civil drops the clock and zone so day arithmetic ignores DST shifts.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}

// BuildLedger walks Days days from Anchor. Week 1 starts on the Monday of the
// anchor's ISO week; each week's daily target is its weekly gain over five
// trading days and weekends get nothing. A non-positive Days gives an empty
// window.
func BuildLedger(in LedgerInput) Ledger {
	anchor := civil(in.Anchor)
	offset := (int(anchor.Weekday()) + 6) % 7 // days since Monday
	weekStart := anchor.AddDate(0, 0, -offset)

	days := min(max(in.Days, 0), MaxLedgerDays)
	l := Ledger{Initial: in.Initial, Days: make([]LedgerDay, 0, days), actuals: in.Actuals}

	projected := in.Initial
	week := 0
	weekTarget := decimal.Zero
	for i := 0; i < days; i++ {
		day := anchor.AddDate(0, 0, i)
		w := int(day.Sub(weekStart).Hours()/24)/7 + 1
		if w != week {
			week = w
			weekTarget = PhaseGain(week, in.Phases).Div(tradingDays)
		}

		target := weekTarget
		if isWeekend(day.Weekday()) {
			target = decimal.Zero
		}
		projected = projected.Add(target)

		ld := LedgerDay{
			Date:        day.Format(dateLayout),
			Weekday:     day.Weekday().String(),
			Week:        week,
			DailyTarget: target,
			Projected:   projected,
		}
		if v, ok := in.Actuals[ld.Date]; ok {
			actual := decimal.NewFromFloat(v)
			diff := actual.Sub(projected)
			ld.Actual = &actual
			ld.Diff = &diff
		}
		l.Days = append(l.Days, ld)
	}
	return l
}

type Reconciliation struct {
	Date       string           `json:"date"`
	Projected  decimal.Decimal  `json:"projected"`
	Actual     *decimal.Decimal `json:"actual,omitempty"`
	ActualDate string           `json:"actual_date,omitempty"`
	Diff       *decimal.Decimal `json:"diff,omitempty"`
}

// ProjectedOn returns the projected balance for date, clamped to the window:
// before it the initial balance, after it the last projected day.
func (l Ledger) ProjectedOn(date string) decimal.Decimal {
	if len(l.Days) == 0 || date < l.Days[0].Date {
		return l.Initial
	}
	i := sort.Search(len(l.Days), func(i int) bool { return l.Days[i].Date > date })
	return l.Days[i-1].Projected
}

// Reconcile compares the latest actual balance on or before today with
// today's projection. Diff is actual minus projected.
func (l Ledger) Reconcile(today time.Time) Reconciliation {
	key := civil(today).Format(dateLayout)
	r := Reconciliation{Date: key, Projected: l.ProjectedOn(key)}

	var latest string
	for date := range l.actuals {
		if _, err := time.Parse(dateLayout, date); err != nil {
			continue
		}
		if date <= key && date > latest {
			latest = date
		}
	}
	if latest == "" {
		return r
	}

	actual := decimal.NewFromFloat(l.actuals[latest])
	diff := actual.Sub(r.Projected)
	r.Actual = &actual
	r.ActualDate = latest
	r.Diff = &diff
	return r
}
