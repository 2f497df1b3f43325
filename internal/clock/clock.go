// Package clock implements the simulated calendar.
package clock

import (
	"fmt"

	"github.com/user/wealth-sprint/internal/types"
)

// Calendar constants. A year is 48 weeks.
const (
	DaysPerWeek   = 7
	WeeksPerMonth = 4
	WeeksPerYear  = 48
	DaysPerMonth  = DaysPerWeek * WeeksPerMonth
	DaysPerYear   = DaysPerWeek * WeeksPerYear
)

// Tick reports the boundaries crossed by one advance
type Tick struct {
	Day      int
	Week     int
	Month    int
	Year     int
	NewWeek  bool
	NewMonth bool
	NewYear  bool
}

// Clock advances simulated time one day at a time
type Clock struct {
	state types.GameClock
}

// New creates a clock at day zero
func New() *Clock {
	return &Clock{}
}

// Restore creates a clock from persisted state, recomputing derived fields
func Restore(state types.GameClock) *Clock {
	c := &Clock{state: state}
	c.derive()
	return c
}

// State returns a copy of the clock state
func (c *Clock) State() types.GameClock {
	return c.state
}

// Advance moves the clock forward by one day
func (c *Clock) Advance() (Tick, error) {
	if c.state.IsEnded {
		return Tick{}, fmt.Errorf("advance day %d: %w", c.state.CurrentDay, types.ErrTerminalState)
	}

	prev := c.state
	c.state.CurrentDay++
	c.state.DaysSinceLastEvent++
	c.derive()

	return Tick{
		Day:      c.state.CurrentDay,
		Week:     c.state.CurrentWeek,
		Month:    c.state.CurrentMonth,
		Year:     c.state.CurrentYear,
		NewWeek:  c.state.CurrentWeek != prev.CurrentWeek,
		NewMonth: c.state.CurrentMonth != prev.CurrentMonth,
		NewYear:  c.state.CurrentYear != prev.CurrentYear,
	}, nil
}

// ResetEventCounter records that a scripted scenario was just consumed
func (c *Clock) ResetEventCounter() {
	c.state.DaysSinceLastEvent = 0
}

// End stops the clock permanently
func (c *Clock) End() {
	c.state.IsEnded = true
}

// Ended reports whether the clock has been stopped
func (c *Clock) Ended() bool {
	return c.state.IsEnded
}

// Day returns the current day number
func (c *Clock) Day() int {
	return c.state.CurrentDay
}

// Year returns the current year number
func (c *Clock) Year() int {
	return c.state.CurrentYear
}

// DaysSinceLastEvent returns days elapsed since the last scenario
func (c *Clock) DaysSinceLastEvent() int {
	return c.state.DaysSinceLastEvent
}

func (c *Clock) derive() {
	c.state.CurrentWeek = c.state.CurrentDay / DaysPerWeek
	c.state.CurrentMonth = c.state.CurrentDay / DaysPerMonth
	c.state.CurrentYear = c.state.CurrentDay / DaysPerYear
}
