// Package team manages the hired roster and the hiring pipeline.
package team

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/user/wealth-sprint/internal/interfaces"
	"github.com/user/wealth-sprint/internal/types"
)

const (
	maxStat            = 100
	roleDiversityBonus = 5
)

// DefaultPoolSize is the number of applicants kept before the oldest is discarded
const DefaultPoolSize = 5

// Team owns the roster and the applicant pool
type Team struct {
	members            []*types.TeamMember
	applicants         []*types.JobApplicant
	templates          []types.RoleTemplate
	rng                interfaces.RandomSource
	poolSize           int
	lastExperienceYear int
	day                int
}

// New creates an empty team
func New(templates []types.RoleTemplate, rng interfaces.RandomSource, poolSize int) *Team {
	if len(templates) == 0 {
		templates = DefaultRoleTemplates()
	}
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}
	return &Team{
		members:    make([]*types.TeamMember, 0),
		applicants: make([]*types.JobApplicant, 0),
		templates:  templates,
		rng:        rng,
		poolSize:   poolSize,
	}
}

// Restore rebuilds a team from persisted state
func Restore(state types.TeamState, templates []types.RoleTemplate, rng interfaces.RandomSource, poolSize int) *Team {
	t := New(templates, rng, poolSize)
	t.lastExperienceYear = state.LastExperienceYear
	for _, m := range state.Members {
		m := m
		t.members = append(t.members, &m)
	}
	for _, a := range state.Applicants {
		a := a
		t.applicants = append(t.applicants, &a)
	}
	return t
}

// State returns the serialisable team state
func (t *Team) State() types.TeamState {
	return types.TeamState{
		Members:            t.Members(),
		Applicants:         t.Applicants(),
		LastExperienceYear: t.lastExperienceYear,
	}
}

// SetDay sets the day stamped on new hires
func (t *Team) SetDay(day int) {
	t.day = day
}

// Templates returns the role catalogue
func (t *Team) Templates() []types.RoleTemplate {
	return append([]types.RoleTemplate(nil), t.templates...)
}

// Members returns copies of all members in hire order
func (t *Team) Members() []types.TeamMember {
	out := make([]types.TeamMember, 0, len(t.members))
	for _, m := range t.members {
		out = append(out, *m)
	}
	return out
}

// Member returns one member
func (t *Team) Member(id string) (types.TeamMember, error) {
	m, _, err := t.find(id)
	if err != nil {
		return types.TeamMember{}, err
	}
	return *m, nil
}

// Size returns the roster size
func (t *Team) Size() int {
	return len(t.members)
}

// Payroll returns the monthly salary total
func (t *Team) Payroll() decimal.Decimal {
	total := decimal.Zero
	for _, m := range t.members {
		total = total.Add(m.Salary)
	}
	return total
}

// Synergy scores the roster on average stats plus role diversity
func (t *Team) Synergy() int {
	if len(t.members) == 0 {
		return 0
	}

	sum := 0
	roles := make(map[string]struct{})
	for _, m := range t.members {
		sum += m.Loyalty + m.Impact + m.Energy
		roles[m.BaseRole] = struct{}{}
	}
	avg := float64(sum) / float64(len(t.members)*3)
	score := avg + float64(roleDiversityBonus*len(roles))
	return int(math.Round(math.Min(maxStat, score)))
}

// BurnoutRisk flags low energy, burnt out mood and low loyalty across the roster
func (t *Team) BurnoutRisk() int {
	if len(t.members) == 0 {
		return 0
	}

	weighted := 0
	for _, m := range t.members {
		if m.Energy < 50 {
			weighted += 2
		}
		if m.Mood == types.MoodBurntOut {
			weighted += 3
		}
		if m.Loyalty < 60 {
			weighted++
		}
	}
	risk := float64(weighted) / float64(len(t.members)) * 20
	return int(math.Round(math.Min(maxStat, risk)))
}

// AdvanceExperience adds a year of experience to every member. It applies
// at most once per year value and reports whether it ran.
func (t *Team) AdvanceExperience(year int) bool {
	if year <= t.lastExperienceYear {
		return false
	}
	t.lastExperienceYear = year

	for _, m := range t.members {
		m.YearsOfExperience++
	}
	return true
}

// Promote raises salary by 25% and lifts morale
func (t *Team) Promote(id string) (types.TeamMember, error) {
	m, _, err := t.find(id)
	if err != nil {
		return types.TeamMember{}, err
	}

	m.Salary = m.Salary.Mul(decimal.RequireFromString("1.25")).Round(2)
	m.Loyalty = capStat(m.Loyalty + 20)
	m.Impact = capStat(m.Impact + 10)
	m.Energy = capStat(m.Energy + 15)
	m.Mood = types.MoodMotivated
	return *m, nil
}

// GiveBonus lifts loyalty and energy. The payment itself is booked by the caller.
func (t *Team) GiveBonus(id string) (types.TeamMember, error) {
	m, _, err := t.find(id)
	if err != nil {
		return types.TeamMember{}, err
	}

	m.Loyalty = capStat(m.Loyalty + 15)
	m.Energy = capStat(m.Energy + 10)
	m.Mood = types.MoodMotivated
	return *m, nil
}

// Terminate removes a member from the roster
func (t *Team) Terminate(id string) (types.TeamMember, error) {
	m, idx, err := t.find(id)
	if err != nil {
		return types.TeamMember{}, err
	}
	t.members = append(t.members[:idx], t.members[idx+1:]...)
	return *m, nil
}

func (t *Team) find(id string) (*types.TeamMember, int, error) {
	for i, m := range t.members {
		if m.ID == id {
			return m, i, nil
		}
	}
	return nil, -1, fmt.Errorf("team member %q: %w", id, types.ErrUnknownEntity)
}

func capStat(v int) int {
	if v > maxStat {
		return maxStat
	}
	if v < 0 {
		return 0
	}
	return v
}
