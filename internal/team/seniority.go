package team

import "github.com/user/wealth-sprint/internal/types"

// Seniority is a role tier derived from years of experience
type Seniority int

const (
	Fresher Seniority = iota
	Junior
	Senior
	Chief
)

func (s Seniority) String() string {
	switch s {
	case Fresher:
		return "Fresher"
	case Junior:
		return "Junior"
	case Senior:
		return "Senior"
	case Chief:
		return "Chief"
	}
	return "Unknown"
}

// AssignSeniority bands experience: 0 Fresher, 1-5 Junior, 6-10 Senior, 11+ Chief
func AssignSeniority(years int) Seniority {
	switch {
	case years <= 0:
		return Fresher
	case years <= 5:
		return Junior
	case years <= 10:
		return Senior
	default:
		return Chief
	}
}

// Role pairs a base role with its seniority tier
type Role struct {
	Base      string
	Seniority Seniority
}

func (r Role) String() string {
	return r.Seniority.String() + " " + r.Base
}

// RoleOf derives a member's role from their base role and experience
func RoleOf(m types.TeamMember) Role {
	return Role{Base: m.BaseRole, Seniority: AssignSeniority(m.YearsOfExperience)}
}
