package patient

import (
	"time"

	"github.com/enutri/platform/internal/shared/errors"
	"github.com/enutri/platform/internal/shared/types"
)

// Sex is the patient's registered sex
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

// ActivityLevel is the patient's habitual physical activity
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityHigh      ActivityLevel = "high"
)

// Goal is the patient's primary objective. It drives the default
// recommendation templates and the return-interval policy.
type Goal string

const (
	GoalWeightLoss    Goal = "weight_loss"
	GoalHypertrophy   Goal = "hypertrophy"
	GoalMaintenance   Goal = "maintenance"
	GoalGeneralHealth Goal = "general_health"
)

// Height bounds in centimeters, enforced at the validation boundary
const (
	MinHeightCm = 50.0
	MaxHeightCm = 300.0
)

// Patient is a clinical record owned by exactly one professional. The owner
// reference is immutable after creation.
type Patient struct {
	ID             types.ID      `json:"id"`
	ProfessionalID types.ID      `json:"professional_id"`
	FullName       string        `json:"full_name"`
	BirthDate      time.Time     `json:"birth_date"`
	Sex            Sex           `json:"sex"`
	HeightCm       float64       `json:"height_cm"`
	ActivityLevel  ActivityLevel `json:"activity_level"`
	Goal           Goal          `json:"goal"`
	Notes          *string       `json:"notes,omitempty"`

	// The identifying document is stored split: last four digits in the
	// clear for search and masking, full value only encrypted. Both are set
	// together or not at all.
	CPFLast4     *string `json:"-"`
	CPFEncrypted *string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CPFMasked returns the display form of the stored document, or empty when
// none is registered
func (p *Patient) CPFMasked() string {
	if p.CPFLast4 == nil {
		return ""
	}
	return types.MaskCPF(*p.CPFLast4)
}

// SetCPF stores the encrypted value and its last four digits together
func (p *Patient) SetCPF(cpf types.CPF, encrypted string) {
	last4 := cpf.Last4()
	p.CPFLast4 = &last4
	p.CPFEncrypted = &encrypted
}

// ClearCPF removes both halves of the stored document
func (p *Patient) ClearCPF() {
	p.CPFLast4 = nil
	p.CPFEncrypted = nil
}

// NewPatient creates a patient with validation
func NewPatient(
	professionalID types.ID,
	fullName string,
	birthDate time.Time,
	sex Sex,
	heightCm float64,
	activityLevel ActivityLevel,
	goal Goal,
	notes *string,
) (*Patient, error) {
	if professionalID.IsZero() {
		return nil, errors.BadRequest("owning professional is required")
	}
	if err := Validate(fullName, birthDate, sex, heightCm, activityLevel, goal); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Patient{
		ID:             types.NewID(),
		ProfessionalID: professionalID,
		FullName:       fullName,
		BirthDate:      birthDate,
		Sex:            sex,
		HeightCm:       heightCm,
		ActivityLevel:  activityLevel,
		Goal:           goal,
		Notes:          notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Validate checks the patient fields shared by create and update
func Validate(
	fullName string,
	birthDate time.Time,
	sex Sex,
	heightCm float64,
	activityLevel ActivityLevel,
	goal Goal,
) error {
	details := map[string]string{}

	if fullName == "" {
		details["full_name"] = "is required"
	}
	if birthDate.IsZero() {
		details["birth_date"] = "is required"
	}
	if !sex.IsValid() {
		details["sex"] = "must be one of male, female, other"
	}
	if heightCm < MinHeightCm || heightCm > MaxHeightCm {
		details["height_cm"] = "must be between 50 and 300"
	}
	if !activityLevel.IsValid() {
		details["activity_level"] = "must be one of sedentary, light, moderate, high"
	}
	if !goal.IsValid() {
		details["goal"] = "must be one of weight_loss, hypertrophy, maintenance, general_health"
	}

	if len(details) > 0 {
		return errors.Validation("invalid patient data", details)
	}
	return nil
}

// IsValid reports whether the sex value is one of the closed set
func (s Sex) IsValid() bool {
	switch s {
	case SexMale, SexFemale, SexOther:
		return true
	}
	return false
}

// IsValid reports whether the activity level is one of the closed set
func (a ActivityLevel) IsValid() bool {
	switch a {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityHigh:
		return true
	}
	return false
}

// IsValid reports whether the goal is one of the closed set
func (g Goal) IsValid() bool {
	switch g {
	case GoalWeightLoss, GoalHypertrophy, GoalMaintenance, GoalGeneralHealth:
		return true
	}
	return false
}
