// Package calendar models the month grid and booking form of the doctor
// detail screen.
package calendar

import (
	"fmt"
	"time"

	"github.com/zatekoja/ayucare/internal/domain/entities"
)

// Month is the month shown on the calendar
type Month struct {
	Year     int
	Month    time.Month
	Location *time.Location
}

// MonthOf returns the month containing t
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month(), Location: t.Location()}
}

func (m Month) loc() *time.Location {
	if m.Location == nil {
		return time.Local
	}
	return m.Location
}

// First returns midnight of the first day of the month
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, m.loc())
}

// Next returns the following month
func (m Month) Next() Month {
	return MonthOf(m.First().AddDate(0, 1, 0))
}

// Prev returns the preceding month
func (m Month) Prev() Month {
	return MonthOf(m.First().AddDate(0, -1, 0))
}

// Days returns the number of days in the month. Day 0 of the next month
// normalises to the last day of this one.
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, m.loc()).Day()
}

// LeadingBlanks is the number of empty cells before day 1, Sunday = 0
func (m Month) LeadingBlanks() int {
	return int(m.First().Weekday())
}

// Label renders the month heading, e.g. "June 2025"
func (m Month) Label() string {
	return m.First().Format("January 2006")
}

// Date returns midnight of day in the month
func (m Month) Date(day int) time.Time {
	return time.Date(m.Year, m.Month, day, 0, 0, 0, 0, m.loc())
}

// FormatDate renders day of this month as YYYY-MM-DD
func (m Month) FormatDate(day int) string {
	return m.Date(day).Format(entities.DateLayout)
}

// IsPast reports whether day falls before the start of now's day
func (m Month) IsPast(day int, now time.Time) bool {
	now = now.In(m.loc())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, m.loc())
	return m.Date(day).Before(today)
}

// Cell is one square of the month grid. Day is zero for leading blanks.
type Cell struct {
	Day      int
	Disabled bool
}

// Blank reports whether the cell precedes day 1
func (c Cell) Blank() bool {
	return c.Day == 0
}

// Grid returns the leading blanks followed by one cell per day
func (m Month) Grid(now time.Time) []Cell {
	blanks := m.LeadingBlanks()
	days := m.Days()

	cells := make([]Cell, 0, blanks+days)
	for i := 0; i < blanks; i++ {
		cells = append(cells, Cell{Disabled: true})
	}
	for d := 1; d <= days; d++ {
		cells = append(cells, Cell{Day: d, Disabled: m.IsPast(d, now)})
	}
	return cells
}

// Weeks splits the grid into rows of seven
func (m Month) Weeks(now time.Time) [][]Cell {
	cells := m.Grid(now)
	var weeks [][]Cell
	for len(cells) > 0 {
		n := 7
		if len(cells) < n {
			n = len(cells)
		}
		weeks = append(weeks, cells[:n])
		cells = cells[n:]
	}
	return weeks
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
