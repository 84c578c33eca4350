package domain

import (
	"context"
	"time"

	"github.com/enutri/platform/internal/shared/errors"
	"github.com/enutri/platform/internal/shared/metrics"
	"github.com/enutri/platform/internal/shared/types"
)

// Service manages the check-in lifecycle: derived metrics, the return-date
// policy and ownership scoping
type Service struct {
	repo     Repository
	patients PatientDirectory
	policy   *ReturnPolicy
}

// NewService creates a new check-in service
func NewService(repo Repository, patients PatientDirectory, policy *ReturnPolicy) *Service {
	return &Service{repo: repo, patients: patients, policy: policy}
}

// Create records a new check-in for a patient. The body mass index is derived
// from the patient's registered height. When the caller leaves the next
// return date empty it is suggested by the policy from the patient's goal and
// the recorded adherence.
func (s *Service) Create(ctx context.Context, patientID, professionalID types.ID, input CreateInput) (*CheckIn, error) {
	if err := validateWeight(input.WeightKg); err != nil {
		return nil, err
	}
	if input.Adherence != nil && !input.Adherence.IsValid() {
		return nil, errors.Validation("invalid check-in data", map[string]string{"adherence": "must be one of low, medium, high"})
	}

	p, err := s.patients.FindOwned(ctx, patientID, professionalID)
	if err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = today()
	}

	now := time.Now().UTC()
	c := &CheckIn{
		ID:                      types.NewID(),
		PatientID:               p.ID,
		Date:                    date,
		WeightKg:                input.WeightKg,
		IMC:                     ComputeIMC(input.WeightKg, p.HeightCm),
		WaistCm:                 input.WaistCm,
		HipCm:                   input.HipCm,
		BodyFatPct:              input.BodyFatPct,
		Adherence:               input.Adherence,
		RecommendationDiet:      input.Diet,
		RecommendationTraining:  input.Training,
		RecommendationLifestyle: input.Lifestyle,
		Observations:            input.Observations,
		NextReturnDate:          input.NextReturnDate,
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	if c.NextReturnDate == nil {
		suggested := s.policy.SuggestNextReturn(p.Goal, c.Adherence, date)
		c.NextReturnDate = &suggested
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	metrics.RecordCheckInCreated(string(p.Goal))
	return c, nil
}

// Get returns a single check-in scoped to the owning professional
func (s *Service) Get(ctx context.Context, id, professionalID types.ID) (*CheckIn, error) {
	return s.repo.FindOwned(ctx, id, professionalID)
}

// ListByPatient returns a patient's check-ins newest first
func (s *Service) ListByPatient(ctx context.Context, patientID, professionalID types.ID) ([]*CheckIn, error) {
	if _, err := s.patients.FindOwned(ctx, patientID, professionalID); err != nil {
		return nil, err
	}
	return s.repo.ListByPatient(ctx, patientID)
}

// Update applies a partial update. The body mass index is recomputed only
// when a new weight is supplied. The next return date is recomputed only
// when adherence is supplied without an explicit next return date, and the
// stored date was empty or the adherence actually changed.
func (s *Service) Update(ctx context.Context, id, professionalID types.ID, input UpdateInput) (*CheckIn, error) {
	c, err := s.repo.FindOwned(ctx, id, professionalID)
	if err != nil {
		return nil, err
	}

	p, err := s.patients.FindOwned(ctx, c.PatientID, professionalID)
	if err != nil {
		return nil, err
	}

	previousAdherence := c.Adherence

	if input.Date.Set && input.Date.Valid {
		c.Date = input.Date.Value
	}
	if input.WeightKg.Set && input.WeightKg.Valid {
		if err := validateWeight(input.WeightKg.Value); err != nil {
			return nil, err
		}
		c.WeightKg = input.WeightKg.Value
		c.IMC = ComputeIMC(c.WeightKg, p.HeightCm)
	}
	applyFloat(&c.WaistCm, input.WaistCm)
	applyFloat(&c.HipCm, input.HipCm)
	applyFloat(&c.BodyFatPct, input.BodyFatPct)
	if input.Adherence.Set {
		if input.Adherence.Valid {
			if !input.Adherence.Value.IsValid() {
				return nil, errors.Validation("invalid check-in data", map[string]string{"adherence": "must be one of low, medium, high"})
			}
			a := input.Adherence.Value
			c.Adherence = &a
		} else {
			c.Adherence = nil
		}
	}
	applyText(&c.RecommendationDiet, input.Diet)
	applyText(&c.RecommendationTraining, input.Training)
	applyText(&c.RecommendationLifestyle, input.Lifestyle)
	applyText(&c.Observations, input.Observations)

	if input.NextReturnDate.Set {
		if input.NextReturnDate.Valid {
			d := input.NextReturnDate.Value
			c.NextReturnDate = &d
		} else {
			c.NextReturnDate = nil
		}
	} else if input.Adherence.Set {
		// Clearing adherence counts as a change; the policy then yields the
		// goal's base interval
		if c.NextReturnDate == nil || !equalAdherence(previousAdherence, c.Adherence) {
			suggested := s.policy.SuggestNextReturn(p.Goal, c.Adherence, c.Date)
			c.NextReturnDate = &suggested
		}
	}

	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, c, professionalID); err != nil {
		return nil, err
	}

	metrics.RecordCheckInUpdated()
	return c, nil
}

// Delete removes a check-in scoped to the owning professional
func (s *Service) Delete(ctx context.Context, id, professionalID types.ID) error {
	return s.repo.Delete(ctx, id, professionalID)
}

func equalAdherence(a, b *Adherence) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func applyText(field **string, opt types.Optional[string]) {
	if !opt.Set {
		return
	}
	if opt.Valid {
		v := opt.Value
		*field = &v
	} else {
		*field = nil
	}
}

func applyFloat(field **float64, opt types.Optional[float64]) {
	if !opt.Set {
		return
	}
	if opt.Valid {
		v := opt.Value
		*field = &v
	} else {
		*field = nil
	}
}

func validateWeight(weightKg float64) error {
	if weightKg < MinWeightKg || weightKg > MaxWeightKg {
		return errors.Validation("invalid check-in data", map[string]string{"weight_kg": "must be between 10 and 500"})
	}
	return nil
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
