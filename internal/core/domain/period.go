package domain

import "sort"

// DateRange is an inclusive range of YYYY-MM-DD keys. Start == End for a
// single day.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (r DateRange) SingleDay() bool {
	return r.Start == r.End
}

// UserTotal is one voter's activity across a period.
type UserTotal struct {
	UserID        string     `json:"user_id"`
	UserName      string     `json:"user_name"`
	Count         int        `json:"count"`
	MenuBreakdown MenuCounts `json:"menu_breakdown"`
}

// DayTotal holds the votes of a single date in submission order.
type DayTotal struct {
	Date      string     `json:"date"`
	Votes     []Vote     `json:"votes"`
	MenuCount MenuCounts `json:"menu_count"`
}

// PeriodAggregate is the rollup of every vote in Range. Days without votes
// are not present in Days.
type PeriodAggregate struct {
	Range          DateRange
	TotalVotes     int
	DistinctVoters int
	MenuTotals     MenuCounts
	Users          map[string]*UserTotal
	Days           map[string]*DayTotal

	// Degraded is set when the votes could not be read and the aggregate
	// is empty for that reason rather than because nobody voted.
	Degraded bool
}

func NewPeriodAggregate(r DateRange) *PeriodAggregate {
	return &PeriodAggregate{
		Range:      r,
		MenuTotals: NewMenuCounts(),
		Users:      make(map[string]*UserTotal),
		Days:       make(map[string]*DayTotal),
	}
}

// Add folds one vote into the aggregate. Votes are expected in store order
// (date, then submission time); the user's display name is the last one
// seen.
func (a *PeriodAggregate) Add(v Vote) {
	a.TotalVotes++
	a.MenuTotals[v.Menu]++

	user, ok := a.Users[v.UserID]
	if !ok {
		user = &UserTotal{UserID: v.UserID, MenuBreakdown: NewMenuCounts()}
		a.Users[v.UserID] = user
		a.DistinctVoters++
	}
	user.UserName = v.UserName
	user.Count++
	user.MenuBreakdown[v.Menu]++

	day, ok := a.Days[v.Date]
	if !ok {
		day = &DayTotal{Date: v.Date, MenuCount: NewMenuCounts()}
		a.Days[v.Date] = day
	}
	day.Votes = append(day.Votes, v)
	day.MenuCount[v.Menu]++
}

// SortedUsers lists voters by descending vote count, ties by user id.
func (a *PeriodAggregate) SortedUsers() []UserTotal {
	users := make([]UserTotal, 0, len(a.Users))
	for _, u := range a.Users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Count != users[j].Count {
			return users[i].Count > users[j].Count
		}
		return users[i].UserID < users[j].UserID
	})
	return users
}

// SortedDays lists the days that had votes in ascending date order.
func (a *PeriodAggregate) SortedDays() []DayTotal {
	days := make([]DayTotal, 0, len(a.Days))
	for _, d := range a.Days {
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})
	return days
}
