package domain

import (
	"testing"
	"time"

	"github.com/enutri/platform/internal/patient"
	"github.com/enutri/platform/internal/shared/config"
)

func testPolicy() *ReturnPolicy {
	return NewReturnPolicy(config.ReturnPolicyConfig{
		WeightLossDays:      14,
		HypertrophyDays:     21,
		MaintenanceDays:     30,
		GeneralHealthDays:   30,
		DefaultDays:         30,
		LowAdherencePenalty: 7,
		MinIntervalDays:     7,
	})
}

func adherence(a Adherence) *Adherence {
	return &a
}

// TestSuggestNextReturn tests the goal intervals and the low-adherence penalty
func TestSuggestNextReturn(t *testing.T) {
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	policy := testPolicy()

	tests := []struct {
		name      string
		goal      patient.Goal
		adherence *Adherence
		expected  time.Time
	}{
		{"Weight loss", patient.GoalWeightLoss, nil, from.AddDate(0, 0, 14)},
		{"Weight loss high adherence", patient.GoalWeightLoss, adherence(AdherenceHigh), from.AddDate(0, 0, 14)},
		{"Weight loss low adherence floors", patient.GoalWeightLoss, adherence(AdherenceLow), from.AddDate(0, 0, 7)},
		{"Hypertrophy", patient.GoalHypertrophy, nil, from.AddDate(0, 0, 21)},
		{"Hypertrophy low adherence", patient.GoalHypertrophy, adherence(AdherenceLow), from.AddDate(0, 0, 14)},
		{"Maintenance", patient.GoalMaintenance, nil, from.AddDate(0, 0, 30)},
		{"General health medium adherence", patient.GoalGeneralHealth, adherence(AdherenceMedium), from.AddDate(0, 0, 30)},
		{"Unknown goal falls back to default", patient.Goal("other"), nil, from.AddDate(0, 0, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.SuggestNextReturn(tt.goal, tt.adherence, from)
			if !got.Equal(tt.expected) {
				t.Errorf("Expected %s, got %s", tt.expected.Format("2006-01-02"), got.Format("2006-01-02"))
			}
		})
	}
}

// TestSuggestNextReturnFloor tests that no combination suggests a return
// sooner than the policy floor
func TestSuggestNextReturnFloor(t *testing.T) {
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	floor := from.AddDate(0, 0, 7)
	policy := testPolicy()

	goals := []patient.Goal{
		patient.GoalWeightLoss, patient.GoalHypertrophy,
		patient.GoalMaintenance, patient.GoalGeneralHealth,
	}
	adherences := []*Adherence{nil, adherence(AdherenceLow), adherence(AdherenceMedium), adherence(AdherenceHigh)}

	for _, goal := range goals {
		for _, a := range adherences {
			got := policy.SuggestNextReturn(goal, a, from)
			if got.Before(floor) {
				t.Errorf("Expected %s/%v to stay at or above the floor, got %s", goal, a, got.Format("2006-01-02"))
			}
		}
	}
}
