package calendar

import (
	"strings"
	"time"

	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
)

type PeriodKind string

const (
	PeriodToday PeriodKind = "today"
	PeriodWeek  PeriodKind = "this-week"
	PeriodMonth PeriodKind = "this-month"
	PeriodDate  PeriodKind = "date"
	PeriodRange PeriodKind = "range"
)

// Period is a query token resolved to concrete bounds.
type Period struct {
	Kind  PeriodKind       `json:"kind"`
	Label string           `json:"label"`
	Range domain.DateRange `json:"range"`
}

// legacyPeriodTokens maps the query words understood by the first version
// of the bot.
var legacyPeriodTokens = map[string]string{
	"오늘":  "today",
	"이번주": "this-week",
	"이번달": "this-month",
	"한달":  "this-month",
}

// ResolvePeriod turns a free-form query token into a date range. An
// empty token means today.
func (c *Calendar) ResolvePeriod(token string, now time.Time) (Period, error) {
	token = strings.TrimSpace(token)
	if alias, ok := legacyPeriodTokens[token]; ok {
		token = alias
	}

	switch strings.ToLower(token) {
	case "", "today":
		today := c.DateKey(now)
		return Period{Kind: PeriodToday, Label: "today", Range: domain.DateRange{Start: today, End: today}}, nil
	case "this-week", "week":
		return Period{Kind: PeriodWeek, Label: "this week", Range: c.ThisWeekRange(now)}, nil
	case "this-month", "month":
		return Period{Kind: PeriodMonth, Label: "this month", Range: c.ThisMonthRange(now)}, nil
	}

	if strings.Contains(token, RangeSeparator) {
		r, err := c.ParseRange(token)
		if err != nil {
			return Period{}, err
		}
		return Period{Kind: PeriodRange, Label: r.Start + RangeSeparator + r.End, Range: r}, nil
	}

	date, err := c.ParseDate(token)
	if err != nil {
		return Period{}, err
	}
	return Period{Kind: PeriodDate, Label: date, Range: domain.DateRange{Start: date, End: date}}, nil
}
