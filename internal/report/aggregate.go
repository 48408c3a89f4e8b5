package report

import (
	"cmp"
	"slices"
	"time"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
	// TopN is the number of expenses Top5 returns.
	TopN = 5
)

// group sums amounts per key and returns the groups ordered by key.
// keyOf also returns the period start and display label for a new group.
func group(t Table, name string, keyOf func(Row) (key, display string, start time.Time)) Series {
	index := make(map[string]int)
	var points []Point
	for _, r := range t.rows {
		key, display, start := keyOf(r)
		i, ok := index[key]
		if !ok {
			i = len(points)
			index[key] = i
			points = append(points, Point{Key: key, Display: display, Time: start})
		}
		points[i].Value += r.Amount
	}
	slices.SortStableFunc(points, func(a, b Point) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return Series{Name: name, Points: points}
}

// DailyTotals sums amounts per calendar day, ascending by date.
func DailyTotals(t Table) Series {
	return group(t, "Daily spending", func(r Row) (string, string, time.Time) {
		y, m, d := r.Time.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, r.Time.Location())
		return day.Format(dayLayout), day.Format(dayLayout), day
	})
}

// CategoryTotals sums amounts per category, ordered by category name.
func CategoryTotals(t Table) Series {
	return group(t, "Spending by category", func(r Row) (string, string, time.Time) {
		return r.Category, r.Category, time.Time{}
	})
}

// MonthlyTotals sums amounts per calendar month in chronological order.
// Display labels read like "Jan 2024".
func MonthlyTotals(t Table) Series {
	return group(t, "Monthly spending", func(r Row) (string, string, time.Time) {
		month := time.Date(r.Time.Year(), r.Time.Month(), 1, 0, 0, 0, 0, r.Time.Location())
		return month.Format(monthLayout), month.Format("Jan 2006"), month
	})
}

// Top5 returns the five largest single expenses in ascending order, so the
// largest comes last. Equal amounts keep the earlier expense ranked higher.
func Top5(t Table) Series {
	type ranked struct {
		Row
		seq int
	}
	rows := make([]ranked, len(t.rows))
	for i, r := range t.rows {
		rows[i] = ranked{Row: r, seq: i}
	}
	slices.SortFunc(rows, func(a, b ranked) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}
		if c := a.Time.Compare(b.Time); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	if len(rows) > TopN {
		rows = rows[:TopN]
	}
	slices.Reverse(rows)

	points := make([]Point, len(rows))
	for i, r := range rows {
		points[i] = Point{
			Key:     r.Time.Format("2006-01-02 15:04:05"),
			Display: r.Category + " " + r.Time.Format(dayLayout),
			Time:    r.Time,
			Value:   r.Amount,
		}
	}
	return Series{Name: "Top 5 expenses", Points: points}
}

// Summary bundles the aggregates shown on the report screen.
type Summary struct {
	Count    int
	Total    float64
	Daily    Series
	Category Series
	Monthly  Series
	Top      Series
}

// Summarize computes every aggregate of t.
func Summarize(t Table) Summary {
	s := Summary{
		Count:    t.Len(),
		Daily:    DailyTotals(t),
		Category: CategoryTotals(t),
		Monthly:  MonthlyTotals(t),
		Top:      Top5(t),
	}
	s.Total = s.Category.Total()
	return s
}
