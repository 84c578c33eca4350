package domain

import (
	"time"

	"github.com/enutri/platform/internal/patient"
	"github.com/enutri/platform/internal/shared/config"
)

// ReturnPolicy computes the suggested next visit date from the patient's goal
// and the observed adherence. Intervals come from configuration so clinics
// can tune them without a rebuild.
type ReturnPolicy struct {
	goalDays    map[patient.Goal]int
	defaultDays int
	lowPenalty  int
	minInterval int
}

// NewReturnPolicy creates a return policy from configuration
func NewReturnPolicy(cfg config.ReturnPolicyConfig) *ReturnPolicy {
	return &ReturnPolicy{
		goalDays: map[patient.Goal]int{
			patient.GoalWeightLoss:    cfg.WeightLossDays,
			patient.GoalHypertrophy:   cfg.HypertrophyDays,
			patient.GoalMaintenance:   cfg.MaintenanceDays,
			patient.GoalGeneralHealth: cfg.GeneralHealthDays,
		},
		defaultDays: cfg.DefaultDays,
		lowPenalty:  cfg.LowAdherencePenalty,
		minInterval: cfg.MinIntervalDays,
	}
}

// SuggestNextReturn returns the date of the suggested next visit. Low
// adherence shortens the interval, but never below the policy floor.
func (p *ReturnPolicy) SuggestNextReturn(goal patient.Goal, adherence *Adherence, from time.Time) time.Time {
	days, ok := p.goalDays[goal]
	if !ok {
		days = p.defaultDays
	}

	if adherence != nil && *adherence == AdherenceLow {
		days -= p.lowPenalty
	}
	if days < p.minInterval {
		days = p.minInterval
	}

	return from.AddDate(0, 0, days)
}
