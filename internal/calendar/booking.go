package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/zatekoja/ayucare/internal/domain/entities"
)

// Booking form errors
var (
	ErrSelectDateAndSlot = errors.New("Please select a date and time slot.")
	ErrDescribeProblem   = errors.New("Please describe your problem briefly.")
	ErrProblemTooLong    = fmt.Errorf("Problem description must be at most %d characters.", entities.MaxProblemLength)
	ErrPatientsOnly      = errors.New("Only patients can book appointments.")
	ErrDayUnavailable    = errors.New("That day cannot be booked.")
	ErrUnknownSlot       = errors.New("Unknown time slot.")
)

// Selection is a validated booking ready to submit
type Selection struct {
	Date    string
	Time    string
	Problem string
}

// Booking holds the state of the booking form
type Booking struct {
	month   Month
	day     int
	slot    string
	problem string
	now     func() time.Time
}

// NewBooking starts the form on the current month
func NewBooking(now func() time.Time) *Booking {
	if now == nil {
		now = time.Now
	}
	return &Booking{month: MonthOf(now()), now: now}
}

// Month returns the displayed month
func (b *Booking) Month() Month { return b.month }

// Day returns the selected day, zero when none
func (b *Booking) Day() int { return b.day }

// Slot returns the selected slot label
func (b *Booking) Slot() string { return b.slot }

// Problem returns the problem text
func (b *Booking) Problem() string { return b.problem }

// NextMonth moves forward one month and clears the form
func (b *Booking) NextMonth() {
	b.month = b.month.Next()
	b.reset()
}

// PrevMonth moves back one month and clears the form
func (b *Booking) PrevMonth() {
	b.month = b.month.Prev()
	b.reset()
}

// ShowMonth jumps to m and clears the form
func (b *Booking) ShowMonth(m Month) {
	b.month = m
	b.reset()
}

func (b *Booking) reset() {
	b.day = 0
	b.slot = ""
	b.problem = ""
}

// SelectDate picks a day of the displayed month. The slot is cleared.
func (b *Booking) SelectDate(day int) error {
	if day < 1 || day > b.month.Days() || b.month.IsPast(day, b.now()) {
		return ErrDayUnavailable
	}
	b.day = day
	b.slot = ""
	return nil
}

// SelectSlot picks one of entities.TimeSlots
func (b *Booking) SelectSlot(label string) error {
	if !entities.IsKnownSlot(label) {
		return ErrUnknownSlot
	}
	b.slot = label
	return nil
}

// SetProblem stores the problem description
func (b *Booking) SetProblem(text string) {
	b.problem = text
}

// Submit validates the form for a user of role and returns what to send
func (b *Booking) Submit(role entities.Role) (Selection, error) {
	if role != entities.RolePatient {
		return Selection{}, ErrPatientsOnly
	}
	if b.day == 0 || b.slot == "" {
		return Selection{}, ErrSelectDateAndSlot
	}
	if strings.TrimSpace(b.problem) == "" {
		return Selection{}, ErrDescribeProblem
	}
	if utf8.RuneCountInString(b.problem) > entities.MaxProblemLength {
		return Selection{}, ErrProblemTooLong
	}
	return Selection{
		Date:    b.month.FormatDate(b.day),
		Time:    b.slot,
		Problem: b.problem,
	}, nil
}

// Done clears the form after a successful booking
func (b *Booking) Done() {
	b.reset()
}
