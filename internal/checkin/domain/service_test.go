package domain

import (
	"context"
	"testing"
	"time"

	"github.com/enutri/platform/internal/patient"
	"github.com/enutri/platform/internal/shared/errors"
	"github.com/enutri/platform/internal/shared/types"
)

// --- In-memory fakes ---

type fakeDirectory struct {
	patients map[types.ID]*patient.Patient
}

func (d *fakeDirectory) FindOwned(_ context.Context, id, professionalID types.ID) (*patient.Patient, error) {
	p, ok := d.patients[id]
	if !ok || p.ProfessionalID != professionalID {
		return nil, errors.NotFound("patient", id.String())
	}
	return p, nil
}

type fakeRepo struct {
	directory *fakeDirectory
	checkins  map[types.ID]*CheckIn
}

func (r *fakeRepo) owner(c *CheckIn) types.ID {
	if p, ok := r.directory.patients[c.PatientID]; ok {
		return p.ProfessionalID
	}
	return types.ID("")
}

func (r *fakeRepo) Save(_ context.Context, c *CheckIn) error {
	copied := *c
	r.checkins[c.ID] = &copied
	return nil
}

func (r *fakeRepo) FindOwned(_ context.Context, id, professionalID types.ID) (*CheckIn, error) {
	c, ok := r.checkins[id]
	if !ok || r.owner(c) != professionalID {
		return nil, errors.NotFound("check-in", id.String())
	}
	copied := *c
	return &copied, nil
}

func (r *fakeRepo) ListByPatient(_ context.Context, patientID types.ID) ([]*CheckIn, error) {
	var result []*CheckIn
	for _, c := range r.checkins {
		if c.PatientID == patientID {
			copied := *c
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeRepo) Update(_ context.Context, c *CheckIn, professionalID types.ID) error {
	stored, ok := r.checkins[c.ID]
	if !ok || r.owner(stored) != professionalID {
		return errors.NotFound("check-in", c.ID.String())
	}
	copied := *c
	r.checkins[c.ID] = &copied
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id, professionalID types.ID) error {
	c, ok := r.checkins[id]
	if !ok || r.owner(c) != professionalID {
		return errors.NotFound("check-in", id.String())
	}
	delete(r.checkins, id)
	return nil
}

// --- Fixtures ---

type fixture struct {
	service        *Service
	repo           *fakeRepo
	professionalID types.ID
	patientID      types.ID
}

func newFixture(t *testing.T, goal patient.Goal, heightCm float64) *fixture {
	t.Helper()

	professionalID := types.NewID()
	p, err := patient.NewPatient(professionalID, "Maria Souza",
		time.Date(1990, 5, 12, 0, 0, 0, 0, time.UTC),
		patient.SexFemale, heightCm, patient.ActivityModerate, goal, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	directory := &fakeDirectory{patients: map[types.ID]*patient.Patient{p.ID: p}}
	repo := &fakeRepo{directory: directory, checkins: map[types.ID]*CheckIn{}}
	service := NewService(repo, directory, testPolicy())

	return &fixture{
		service:        service,
		repo:           repo,
		professionalID: professionalID,
		patientID:      p.ID,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// --- Tests ---

// TestCreateDerivesIMC tests that the index comes from the registered height
func TestCreateDerivesIMC(t *testing.T) {
	f := newFixture(t, patient.GoalWeightLoss, 175)

	c, err := f.service.Create(context.Background(), f.patientID, f.professionalID, CreateInput{
		Date:     date(2025, 3, 10),
		WeightKg: 70,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if c.IMC != 22.86 {
		t.Errorf("Expected IMC 22.86, got %.2f", c.IMC)
	}
}

// TestCreateSuggestsReturnDate tests the policy-driven default return date
func TestCreateSuggestsReturnDate(t *testing.T) {
	f := newFixture(t, patient.GoalWeightLoss, 175)
	visit := date(2025, 3, 10)

	c, err := f.service.Create(context.Background(), f.patientID, f.professionalID, CreateInput{
		Date:      visit,
		WeightKg:  70,
		Adherence: adherence(AdherenceLow),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if c.NextReturnDate == nil || !c.NextReturnDate.Equal(visit.AddDate(0, 0, 7)) {
		t.Errorf("Expected return floored at 7 days, got %v", c.NextReturnDate)
	}
}

// TestCreateKeepsExplicitReturnDate tests that a supplied date wins over the policy
func TestCreateKeepsExplicitReturnDate(t *testing.T) {
	f := newFixture(t, patient.GoalWeightLoss, 175)
	explicit := date(2025, 5, 1)

	c, err := f.service.Create(context.Background(), f.patientID, f.professionalID, CreateInput{
		Date:           date(2025, 3, 10),
		WeightKg:       70,
		NextReturnDate: &explicit,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if c.NextReturnDate == nil || !c.NextReturnDate.Equal(explicit) {
		t.Errorf("Expected explicit return date kept, got %v", c.NextReturnDate)
	}
}

// TestCreateValidation tests weight bounds and the adherence set
func TestCreateValidation(t *testing.T) {
	f := newFixture(t, patient.GoalWeightLoss, 175)

	tests := []struct {
		name  string
		input CreateInput
	}{
		{"Weight too low", CreateInput{WeightKg: 9.9}},
		{"Weight too high", CreateInput{WeightKg: 500.1}},
		{"Unknown adherence", CreateInput{WeightKg: 70, Adherence: adherence(Adherence("perfect"))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), f.patientID, f.professionalID, tt.input)
			if err == nil {
				t.Error("Expected error but got none")
			}
		})
	}
}

// TestCreateForForeignPatient tests that another professional's patient
// reads as missing
func TestCreateForForeignPatient(t *testing.T) {
	f := newFixture(t, patient.GoalWeightLoss, 175)

	_, err := f.service.Create(context.Background(), f.patientID, types.NewID(), CreateInput{WeightKg: 70})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

// TestUpdateWeightRecomputesIMC tests that a new weight refreshes the index
func TestUpdateWeightRecomputesIMC(t *testing.T) {
	f := newFixture(t, patient.GoalWeightLoss, 175)

	c, err := f.service.Create(context.Background(), f.patientID, f.professionalID, CreateInput{
		Date:     date(2025, 3, 10),
		WeightKg: 70,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	updated, err := f.service.Update(context.Background(), c.ID, f.professionalID, UpdateInput{
		WeightKg: types.Some(68.0),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.IMC != ComputeIMC(68, 175) {
		t.Errorf("Expected recomputed IMC, got %.2f", updated.IMC)
	}
}

// TestUpdateObservationsOnly tests that a text-only update leaves the
// derived fields alone
func TestUpdateObservationsOnly(t *testing.T) {
	f := newFixture(t, patient.GoalWeightLoss, 175)

	c, err := f.service.Create(context.Background(), f.patientID, f.professionalID, CreateInput{
		Date:     date(2025, 3, 10),
		WeightKg: 70,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	updated, err := f.service.Update(context.Background(), c.ID, f.professionalID, UpdateInput{
		Observations: types.Some("patient reports better sleep"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.IMC != c.IMC {
		t.Errorf("Expected IMC unchanged, got %.2f", updated.IMC)
	}
	if updated.NextReturnDate == nil || !updated.NextReturnDate.Equal(*c.NextReturnDate) {
		t.Errorf("Expected return date unchanged, got %v", updated.NextReturnDate)
	}
	if updated.Observations == nil || *updated.Observations != "patient reports better sleep" {
		t.Error("Expected observations applied")
	}
}

// TestUpdateAdherenceRecomputesReturnDate tests that a changed adherence
// refreshes the suggested return date
func TestUpdateAdherenceRecomputesReturnDate(t *testing.T) {
	f := newFixture(t, patient.GoalWeightLoss, 175)
	visit := date(2025, 3, 10)

	c, err := f.service.Create(context.Background(), f.patientID, f.professionalID, CreateInput{
		Date:      visit,
		WeightKg:  70,
		Adherence: adherence(AdherenceHigh),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	updated, err := f.service.Update(context.Background(), c.ID, f.professionalID, UpdateInput{
		Adherence: types.Some(AdherenceLow),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.NextReturnDate == nil || !updated.NextReturnDate.Equal(visit.AddDate(0, 0, 7)) {
		t.Errorf("Expected return date recomputed to the floor, got %v", updated.NextReturnDate)
	}
}

// TestUpdateSameAdherenceKeepsReturnDate tests that an unchanged adherence
// does not overwrite a present return date
func TestUpdateSameAdherenceKeepsReturnDate(t *testing.T) {
	f := newFixture(t, patient.GoalWeightLoss, 175)
	explicit := date(2025, 6, 1)

	c, err := f.service.Create(context.Background(), f.patientID, f.professionalID, CreateInput{
		Date:           date(2025, 3, 10),
		WeightKg:       70,
		Adherence:      adherence(AdherenceHigh),
		NextReturnDate: &explicit,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	updated, err := f.service.Update(context.Background(), c.ID, f.professionalID, UpdateInput{
		Adherence: types.Some(AdherenceHigh),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.NextReturnDate == nil || !updated.NextReturnDate.Equal(explicit) {
		t.Errorf("Expected explicit return date kept, got %v", updated.NextReturnDate)
	}
}

// TestUpdateAdherenceFillsClearedReturnDate tests that supplying adherence
// repopulates an empty return date even when the value is unchanged
func TestUpdateAdherenceFillsClearedReturnDate(t *testing.T) {
	f := newFixture(t, patient.GoalWeightLoss, 175)
	visit := date(2025, 3, 10)

	c, err := f.service.Create(context.Background(), f.patientID, f.professionalID, CreateInput{
		Date:      visit,
		WeightKg:  70,
		Adherence: adherence(AdherenceHigh),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := f.service.Update(context.Background(), c.ID, f.professionalID, UpdateInput{
		NextReturnDate: types.Null[time.Time](),
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	updated, err := f.service.Update(context.Background(), c.ID, f.professionalID, UpdateInput{
		Adherence: types.Some(AdherenceHigh),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.NextReturnDate == nil || !updated.NextReturnDate.Equal(visit.AddDate(0, 0, 14)) {
		t.Errorf("Expected return date repopulated, got %v", updated.NextReturnDate)
	}
}

// TestUpdateClearedAdherenceRecomputesReturnDate tests that setting
// adherence to null is a change: the return date falls back to the goal's
// base interval
func TestUpdateClearedAdherenceRecomputesReturnDate(t *testing.T) {
	f := newFixture(t, patient.GoalWeightLoss, 175)
	visit := date(2025, 3, 10)

	c, err := f.service.Create(context.Background(), f.patientID, f.professionalID, CreateInput{
		Date:      visit,
		WeightKg:  70,
		Adherence: adherence(AdherenceLow),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if c.NextReturnDate == nil || !c.NextReturnDate.Equal(visit.AddDate(0, 0, 7)) {
		t.Fatalf("Expected low-adherence floor on create, got %v", c.NextReturnDate)
	}

	updated, err := f.service.Update(context.Background(), c.ID, f.professionalID, UpdateInput{
		Adherence: types.Null[Adherence](),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.Adherence != nil {
		t.Errorf("Expected adherence cleared, got %v", *updated.Adherence)
	}
	if updated.NextReturnDate == nil || !updated.NextReturnDate.Equal(visit.AddDate(0, 0, 14)) {
		t.Errorf("Expected return date recomputed to the base interval, got %v", updated.NextReturnDate)
	}
}

// TestUpdateExplicitReturnDateWins tests that a supplied return date is
// never overridden by the policy
func TestUpdateExplicitReturnDateWins(t *testing.T) {
	f := newFixture(t, patient.GoalWeightLoss, 175)
	explicit := date(2025, 7, 15)

	c, err := f.service.Create(context.Background(), f.patientID, f.professionalID, CreateInput{
		Date:     date(2025, 3, 10),
		WeightKg: 70,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	updated, err := f.service.Update(context.Background(), c.ID, f.professionalID, UpdateInput{
		Adherence:      types.Some(AdherenceLow),
		NextReturnDate: types.Some(explicit),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.NextReturnDate == nil || !updated.NextReturnDate.Equal(explicit) {
		t.Errorf("Expected explicit return date kept, got %v", updated.NextReturnDate)
	}
}

// TestUpdateClearsMeasurement tests that an explicit null removes an optional
// measurement while an omitted field keeps it
func TestUpdateClearsMeasurement(t *testing.T) {
	f := newFixture(t, patient.GoalWeightLoss, 175)
	waist := 82.5
	hip := 98.0

	c, err := f.service.Create(context.Background(), f.patientID, f.professionalID, CreateInput{
		Date:     date(2025, 3, 10),
		WeightKg: 70,
		WaistCm:  &waist,
		HipCm:    &hip,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	updated, err := f.service.Update(context.Background(), c.ID, f.professionalID, UpdateInput{
		WaistCm: types.Null[float64](),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.WaistCm != nil {
		t.Errorf("Expected waist cleared, got %v", *updated.WaistCm)
	}
	if updated.HipCm == nil || *updated.HipCm != hip {
		t.Error("Expected hip untouched by partial update")
	}
}

// TestUpdateOwnershipIsolation tests that another professional cannot see or
// change the record
func TestUpdateOwnershipIsolation(t *testing.T) {
	f := newFixture(t, patient.GoalWeightLoss, 175)

	c, err := f.service.Create(context.Background(), f.patientID, f.professionalID, CreateInput{WeightKg: 70})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	stranger := types.NewID()
	if _, err := f.service.Get(context.Background(), c.ID, stranger); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Expected not found on read, got %v", err)
	}
	if _, err := f.service.Update(context.Background(), c.ID, stranger, UpdateInput{WeightKg: types.Some(80.0)}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Expected not found on update, got %v", err)
	}
	if err := f.service.Delete(context.Background(), c.ID, stranger); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Expected not found on delete, got %v", err)
	}

	// The owner still sees the original record
	got, err := f.service.Get(context.Background(), c.ID, f.professionalID)
	if err != nil {
		t.Fatalf("Expected owner read to succeed, got %v", err)
	}
	if got.WeightKg != 70 {
		t.Errorf("Expected weight unchanged by foreign update, got %.1f", got.WeightKg)
	}
}
