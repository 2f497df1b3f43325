package team

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/user/wealth-sprint/internal/types"
)

// Applicant generation and hire baselines
const (
	salaryJitter     = 10000
	minSalary        = 1000
	minExperience    = 1
	experienceSpread = 8
	minAutoHire      = 70
	autoHireSpread   = 20

	baseLoyalty   = 60
	loyaltySpread = 21
	baseImpact    = 40
	impactSpread  = 31
	baseEnergy    = 70
	energySpread  = 21
)

// MinBaseSalary is the lowest template salary whose draws stay positive
const MinBaseSalary = salaryJitter

// Applicants returns the pool, oldest first
func (t *Team) Applicants() []types.JobApplicant {
	out := make([]types.JobApplicant, 0, len(t.applicants))
	for _, a := range t.applicants {
		out = append(out, *a)
	}
	return out
}

// Applicant returns one applicant
func (t *Team) Applicant(id string) (types.JobApplicant, error) {
	a, _, err := t.findApplicant(id)
	if err != nil {
		return types.JobApplicant{}, err
	}
	return *a, nil
}

// GenerateApplicant draws a candidate for role, or for a random role when
// role is empty. The oldest applicant is dropped when the pool is full.
func (t *Team) GenerateApplicant(role string) (types.JobApplicant, error) {
	var tmpl types.RoleTemplate
	if role == "" {
		tmpl = t.templates[t.rng.Intn(len(t.templates))]
	} else {
		found := false
		for _, candidate := range t.templates {
			if candidate.Role == role {
				tmpl, found = candidate, true
				break
			}
		}
		if !found {
			return types.JobApplicant{}, fmt.Errorf("role %q: %w", role, types.ErrUnknownEntity)
		}
	}

	questions := tmpl.Questions
	if len(questions) == 0 {
		questions = genericQuestions
	}

	salary := max(minSalary, tmpl.BaseSalary+int64(t.rng.Intn(2*salaryJitter))-salaryJitter)
	applicant := &types.JobApplicant{
		ID:                 uuid.New().String(),
		Name:               candidateNames[t.rng.Intn(len(candidateNames))],
		BaseRole:           tmpl.Role,
		ExpectedSalary:     decimal.NewFromInt(salary),
		YearsOfExperience:  minExperience + t.rng.Intn(experienceSpread),
		Skills:             append([]string(nil), tmpl.Skills...),
		Strengths:          append([]string(nil), tmpl.Strengths...),
		Weaknesses:         append([]string(nil), tmpl.Weaknesses...),
		InterviewQuestions: append([]types.InterviewQuestion(nil), questions...),
		AutoHireThreshold:  minAutoHire + t.rng.Intn(autoHireSpread),
	}

	t.applicants = append(t.applicants, applicant)
	if len(t.applicants) > t.poolSize {
		t.applicants = t.applicants[len(t.applicants)-t.poolSize:]
	}
	return *applicant, nil
}

// Score returns correct answers, question count and percentage correct.
// Missing answers count as wrong.
func Score(applicant types.JobApplicant, answers []int) (correct, total, percent int) {
	total = len(applicant.InterviewQuestions)
	if total == 0 {
		return 0, 0, 0
	}
	for i, q := range applicant.InterviewQuestions {
		if i < len(answers) && answers[i] == q.CorrectAnswer {
			correct++
		}
	}
	return correct, total, correct * 100 / total
}

// Interview scores an applicant and records the result on it
func (t *Team) Interview(id string, answers []int) (types.InterviewResult, error) {
	a, _, err := t.findApplicant(id)
	if err != nil {
		return types.InterviewResult{}, err
	}

	correct, total, percent := Score(*a, answers)
	a.InterviewScore = &percent

	return types.InterviewResult{
		ApplicantID: a.ID,
		Correct:     correct,
		Total:       total,
		Score:       percent,
		AutoHire:    percent >= a.AutoHireThreshold,
	}, nil
}

// Hire converts an applicant into a team member and removes it from the pool
func (t *Team) Hire(id string) (types.TeamMember, error) {
	a, idx, err := t.findApplicant(id)
	if err != nil {
		return types.TeamMember{}, err
	}

	m := &types.TeamMember{
		ID:                uuid.New().String(),
		Name:              a.Name,
		BaseRole:          a.BaseRole,
		Salary:            a.ExpectedSalary,
		YearsOfExperience: a.YearsOfExperience,
		Loyalty:           baseLoyalty + t.rng.Intn(loyaltySpread),
		Impact:            baseImpact + t.rng.Intn(impactSpread),
		Energy:            baseEnergy + t.rng.Intn(energySpread),
		Mood:              types.MoodNeutral,
		Skills:            append([]string(nil), a.Skills...),
		HiddenDynamics: types.HiddenDynamics{
			TrustWithFounder:    80,
			CreativeFulfillment: 70,
			BurnoutRisk:         20,
		},
		HiredDay: t.day,
	}

	t.applicants = append(t.applicants[:idx], t.applicants[idx+1:]...)
	t.members = append(t.members, m)
	return *m, nil
}

// Reject discards an applicant
func (t *Team) Reject(id string) error {
	_, idx, err := t.findApplicant(id)
	if err != nil {
		return err
	}
	t.applicants = append(t.applicants[:idx], t.applicants[idx+1:]...)
	return nil
}

func (t *Team) findApplicant(id string) (*types.JobApplicant, int, error) {
	for i, a := range t.applicants {
		if a.ID == id {
			return a, i, nil
		}
	}
	return nil, -1, fmt.Errorf("applicant %q: %w", id, types.ErrUnknownEntity)
}
