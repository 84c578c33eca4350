package infrastructure

import (
	"context"

	"github.com/enutri/platform/internal/checkin/domain"
	"github.com/enutri/platform/internal/shared/errors"
	"github.com/enutri/platform/internal/shared/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements domain.Repository on PostgreSQL. Ownership
// scoping joins through the patients table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new check-in repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Save saves a new check-in
func (r *PostgresRepository) Save(ctx context.Context, c *domain.CheckIn) error {
	query := `
		INSERT INTO checkins (id, patient_id, date, weight_kg, imc,
			waist_cm, hip_cm, body_fat_pct, adherence,
			recommendation_diet, recommendation_training, recommendation_lifestyle,
			observations, next_return_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.PatientID, c.Date, c.WeightKg, c.IMC,
		c.WaistCm, c.HipCm, c.BodyFatPct, adherenceValue(c.Adherence),
		c.RecommendationDiet, c.RecommendationTraining, c.RecommendationLifestyle,
		c.Observations, c.NextReturnDate, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to save check-in")
	}

	return nil
}

// FindOwned finds a check-in by ID scoped to the owning professional
func (r *PostgresRepository) FindOwned(ctx context.Context, id, professionalID types.ID) (*domain.CheckIn, error) {
	query := `
		SELECT c.id, c.patient_id, c.date, c.weight_kg, c.imc,
			c.waist_cm, c.hip_cm, c.body_fat_pct, c.adherence,
			c.recommendation_diet, c.recommendation_training, c.recommendation_lifestyle,
			c.observations, c.next_return_date, c.created_at, c.updated_at
		FROM checkins c
		JOIN patients p ON p.id = c.patient_id
		WHERE c.id = $1 AND p.professional_id = $2`

	c, err := scanCheckIn(r.pool.QueryRow(ctx, query, id, professionalID))
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("check-in", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find check-in")
	}

	return c, nil
}

// ListByPatient lists a patient's check-ins newest first
func (r *PostgresRepository) ListByPatient(ctx context.Context, patientID types.ID) ([]*domain.CheckIn, error) {
	query := `
		SELECT id, patient_id, date, weight_kg, imc,
			waist_cm, hip_cm, body_fat_pct, adherence,
			recommendation_diet, recommendation_training, recommendation_lifestyle,
			observations, next_return_date, created_at, updated_at
		FROM checkins
		WHERE patient_id = $1
		ORDER BY date DESC`

	rows, err := r.pool.Query(ctx, query, patientID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list check-ins")
	}
	defer rows.Close()

	var checkins []*domain.CheckIn
	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan check-in")
		}
		checkins = append(checkins, c)
	}

	return checkins, rows.Err()
}

// Update updates a check-in scoped to the owning professional
func (r *PostgresRepository) Update(ctx context.Context, c *domain.CheckIn, professionalID types.ID) error {
	query := `
		UPDATE checkins
		SET date = $1, weight_kg = $2, imc = $3,
			waist_cm = $4, hip_cm = $5, body_fat_pct = $6, adherence = $7,
			recommendation_diet = $8, recommendation_training = $9,
			recommendation_lifestyle = $10, observations = $11,
			next_return_date = $12, updated_at = $13
		WHERE id = $14 AND patient_id IN (
			SELECT id FROM patients WHERE professional_id = $15
		)`

	tag, err := r.pool.Exec(ctx, query,
		c.Date, c.WeightKg, c.IMC,
		c.WaistCm, c.HipCm, c.BodyFatPct, adherenceValue(c.Adherence),
		c.RecommendationDiet, c.RecommendationTraining,
		c.RecommendationLifestyle, c.Observations,
		c.NextReturnDate, c.UpdatedAt,
		c.ID, professionalID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update check-in")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("check-in", c.ID.String())
	}

	return nil
}

// Delete removes a check-in scoped to the owning professional
func (r *PostgresRepository) Delete(ctx context.Context, id, professionalID types.ID) error {
	query := `
		DELETE FROM checkins
		WHERE id = $1 AND patient_id IN (
			SELECT id FROM patients WHERE professional_id = $2
		)`

	tag, err := r.pool.Exec(ctx, query, id, professionalID)
	if err != nil {
		return errors.Wrap(err, "failed to delete check-in")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("check-in", id.String())
	}

	return nil
}

func scanCheckIn(row pgx.Row) (*domain.CheckIn, error) {
	c := &domain.CheckIn{}
	var adherence *string

	err := row.Scan(
		&c.ID, &c.PatientID, &c.Date, &c.WeightKg, &c.IMC,
		&c.WaistCm, &c.HipCm, &c.BodyFatPct, &adherence,
		&c.RecommendationDiet, &c.RecommendationTraining, &c.RecommendationLifestyle,
		&c.Observations, &c.NextReturnDate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if adherence != nil {
		a := domain.Adherence(*adherence)
		c.Adherence = &a
	}

	return c, nil
}

func adherenceValue(a *domain.Adherence) *string {
	if a == nil {
		return nil
	}
	s := string(*a)
	return &s
}
