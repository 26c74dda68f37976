package reporting

import (
	"errors"
	"strings"
	"time"

	"finance-tracker/internal/models"
)

type Period string

const (
	PeriodAll       Period = "all"
	PeriodMonth     Period = "month"
	PeriodWeek      Period = "week"
	PeriodToday     Period = "today"
	PeriodLastMonth Period = "last_month"
	PeriodCustom    Period = "custom"

	// FilterAll disables the category or type filter.
	FilterAll = "all"
)

var (
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrInvalidDateRange = errors.New("start date must not be after end date")
)

// ParsePeriod maps a query value onto a Period. An empty value means PeriodAll.
func ParsePeriod(value string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(value)))
	if p == "" {
		return PeriodAll, nil
	}
	if !p.IsValid() {
		return "", ErrInvalidPeriod
	}
	return p, nil
}

func (p Period) IsValid() bool {
	switch p {
	case PeriodAll, PeriodMonth, PeriodWeek, PeriodToday, PeriodLastMonth, PeriodCustom:
		return true
	default:
		return false
	}
}

// ValidPeriods lists the accepted period values in display order.
func ValidPeriods() []string {
	return []string{
		string(PeriodAll), string(PeriodMonth), string(PeriodWeek),
		string(PeriodToday), string(PeriodLastMonth), string(PeriodCustom),
	}
}

// DateRange is an inclusive pair of bounds. A nil bound is open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Contains compares on calendar days, so a transaction date stored as UTC
// midnight matches the day of a bound expressed in any location.
func (r DateRange) Contains(date time.Time) bool {
	day := models.TruncateToDate(date)
	if r.Start != nil && day.Before(models.TruncateToDate(*r.Start)) {
		return false
	}
	if r.End != nil && day.After(models.TruncateToDate(*r.End)) {
		return false
	}
	return true
}

// Window selects a time range relative to a clock. Start and End are only
// read for PeriodCustom.
type Window struct {
	Period Period
	Start  *time.Time
	End    *time.Time
}

// Bounds resolves the window against now. The location of now decides where
// days and weeks begin.
func (w Window) Bounds(now time.Time) DateRange {
	loc := now.Location()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	switch w.Period {
	case PeriodMonth:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return DateRange{Start: &start}
	case PeriodWeek:
		start := today.AddDate(0, 0, -int(today.Weekday()))
		return DateRange{Start: &start}
	case PeriodToday:
		return DateRange{Start: &today}
	case PeriodLastMonth:
		start := time.Date(y, m-1, 1, 0, 0, 0, 0, loc)
		return DateRange{Start: &start}
	case PeriodCustom:
		var r DateRange
		if w.Start != nil {
			sy, sm, sd := w.Start.Date()
			start := time.Date(sy, sm, sd, 0, 0, 0, 0, w.Start.Location())
			r.Start = &start
		}
		if w.End != nil {
			ey, em, ed := w.End.Date()
			end := time.Date(ey, em, ed, 23, 59, 59, 999999999, w.End.Location())
			r.End = &end
		}
		return r
	default:
		return DateRange{}
	}
}

func (w Window) Validate() error {
	if !w.Period.IsValid() {
		return ErrInvalidPeriod
	}
	if w.Period == PeriodCustom && w.Start != nil && w.End != nil && models.TruncateToDate(*w.Start).After(models.TruncateToDate(*w.End)) {
		return ErrInvalidDateRange
	}
	return nil
}

// Filter combines a window with category and type filters. All of them must
// hold for a transaction to pass.
type Filter struct {
	Window   Window
	Category string
	Type     string
}

func (f Filter) Matches(tx *models.Transaction, bounds DateRange) bool {
	if !bounds.Contains(tx.Date) {
		return false
	}
	if category := strings.TrimSpace(f.Category); category != "" && category != FilterAll && tx.Category != category {
		return false
	}
	if txType := strings.TrimSpace(f.Type); txType != "" && txType != FilterAll && tx.Type != txType {
		return false
	}
	return true
}

// Apply returns the transactions passing f, keeping their order.
func Apply(txs []models.Transaction, f Filter, now time.Time) []models.Transaction {
	bounds := f.Window.Bounds(now)
	out := make([]models.Transaction, 0, len(txs))
	for i := range txs {
		if f.Matches(&txs[i], bounds) {
			out = append(out, txs[i])
		}
	}
	return out
}
