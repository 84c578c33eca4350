package domain

import (
	"time"

	"github.com/enutri/platform/internal/shared/types"
)

// Adherence is the professional's judgement of how well the patient followed
// the current plan since the previous visit
type Adherence string

const (
	AdherenceLow    Adherence = "low"
	AdherenceMedium Adherence = "medium"
	AdherenceHigh   Adherence = "high"
)

// IsValid reports whether the adherence is one of the closed set
func (a Adherence) IsValid() bool {
	switch a {
	case AdherenceLow, AdherenceMedium, AdherenceHigh:
		return true
	}
	return false
}

// Weight bounds in kilograms, enforced at the validation boundary
const (
	MinWeightKg = 10.0
	MaxWeightKg = 500.0
)

// CheckIn is one clinical visit record. The body mass index is always derived
// from the recorded weight and the patient's registered height, never taken
// from the caller.
type CheckIn struct {
	ID        types.ID   `json:"id"`
	PatientID types.ID   `json:"patient_id"`
	Date      time.Time  `json:"-"`
	WeightKg  float64    `json:"weight_kg"`
	IMC       float64    `json:"imc"`
	Adherence *Adherence `json:"adherence,omitempty"`

	WaistCm    *float64 `json:"waist_cm,omitempty"`
	HipCm      *float64 `json:"hip_cm,omitempty"`
	BodyFatPct *float64 `json:"body_fat_pct,omitempty"`

	RecommendationDiet      *string `json:"recommendation_diet,omitempty"`
	RecommendationTraining  *string `json:"recommendation_training,omitempty"`
	RecommendationLifestyle *string `json:"recommendation_lifestyle,omitempty"`

	Observations   *string    `json:"observations,omitempty"`
	NextReturnDate *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateInput carries the caller-supplied fields for a new check-in. Date
// defaults to today when zero; the next return date is computed when absent.
type CreateInput struct {
	Date           time.Time
	WeightKg       float64
	WaistCm        *float64
	HipCm          *float64
	BodyFatPct     *float64
	Adherence      *Adherence
	Diet           *string
	Training       *string
	Lifestyle      *string
	Observations   *string
	NextReturnDate *time.Time
}

// UpdateInput carries a partial update. Every field distinguishes omitted
// from explicitly null.
type UpdateInput struct {
	Date           types.Optional[time.Time]
	WeightKg       types.Optional[float64]
	WaistCm        types.Optional[float64]
	HipCm          types.Optional[float64]
	BodyFatPct     types.Optional[float64]
	Adherence      types.Optional[Adherence]
	Diet           types.Optional[string]
	Training       types.Optional[string]
	Lifestyle      types.Optional[string]
	Observations   types.Optional[string]
	NextReturnDate types.Optional[time.Time]
}
