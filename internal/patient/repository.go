package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/enutri/platform/internal/shared/errors"
	"github.com/enutri/platform/internal/shared/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListFilter narrows and pages the patient directory listing
type ListFilter struct {
	Search        string
	Goal          Goal
	ActivityLevel ActivityLevel
	Limit         int
	Offset        int
}

// Summary is a directory row: the patient plus the date and body mass index
// of the most recent check-in, when one exists
type Summary struct {
	Patient         *Patient
	LastCheckInDate *time.Time
	LastIMC         *float64
}

// Repository provides database operations for patients
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new patient repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const patientColumns = `id, professional_id, full_name, birth_date, sex, height_cm,
	activity_level, goal, notes, cpf_last4, cpf_encrypted, created_at, updated_at`

// Save saves a new patient
func (r *Repository) Save(ctx context.Context, p *Patient) error {
	query := `
		INSERT INTO patients (` + patientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.ProfessionalID, p.FullName, p.BirthDate, p.Sex, p.HeightCm,
		p.ActivityLevel, p.Goal, p.Notes, p.CPFLast4, p.CPFEncrypted,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to save patient")
	}

	return nil
}

// FindOwned finds a patient by ID scoped to its owning professional. A patient
// belonging to someone else is indistinguishable from a missing one.
func (r *Repository) FindOwned(ctx context.Context, id, professionalID types.ID) (*Patient, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM patients
		WHERE id = $1 AND professional_id = $2`

	p := &Patient{}
	err := r.pool.QueryRow(ctx, query, id, professionalID).Scan(
		&p.ID, &p.ProfessionalID, &p.FullName, &p.BirthDate, &p.Sex, &p.HeightCm,
		&p.ActivityLevel, &p.Goal, &p.Notes, &p.CPFLast4, &p.CPFEncrypted,
		&p.CreatedAt, &p.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("patient", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find patient")
	}

	return p, nil
}

// List lists a professional's patients newest first, with optional name
// search and goal/activity filters, each row carrying its latest check-in
func (r *Repository) List(ctx context.Context, professionalID types.ID, filter ListFilter) ([]*Summary, error) {
	conditions := []string{"p.professional_id = $1"}
	args := []any{professionalID}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("p.full_name ILIKE $%d", len(args)))
	}
	if filter.Goal != "" {
		args = append(args, filter.Goal)
		conditions = append(conditions, fmt.Sprintf("p.goal = $%d", len(args)))
	}
	if filter.ActivityLevel != "" {
		args = append(args, filter.ActivityLevel)
		conditions = append(conditions, fmt.Sprintf("p.activity_level = $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
		SELECT p.id, p.professional_id, p.full_name, p.birth_date, p.sex, p.height_cm,
			p.activity_level, p.goal, p.notes, p.cpf_last4, p.cpf_encrypted,
			p.created_at, p.updated_at,
			c.date, c.imc
		FROM patients p
		LEFT JOIN LATERAL (
			SELECT date, imc
			FROM checkins
			WHERE patient_id = p.id
			ORDER BY date DESC
			LIMIT 1
		) c ON true
		WHERE %s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`,
		strings.Join(conditions, " AND "), len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list patients")
	}
	defer rows.Close()

	var summaries []*Summary
	for rows.Next() {
		p := &Patient{}
		s := &Summary{Patient: p}
		err := rows.Scan(
			&p.ID, &p.ProfessionalID, &p.FullName, &p.BirthDate, &p.Sex, &p.HeightCm,
			&p.ActivityLevel, &p.Goal, &p.Notes, &p.CPFLast4, &p.CPFEncrypted,
			&p.CreatedAt, &p.UpdatedAt,
			&s.LastCheckInDate, &s.LastIMC,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan patient")
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// Update updates a patient's mutable fields
func (r *Repository) Update(ctx context.Context, p *Patient) error {
	query := `
		UPDATE patients
		SET full_name = $1, birth_date = $2, sex = $3, height_cm = $4,
			activity_level = $5, goal = $6, notes = $7,
			cpf_last4 = $8, cpf_encrypted = $9, updated_at = $10
		WHERE id = $11 AND professional_id = $12`

	tag, err := r.pool.Exec(ctx, query,
		p.FullName, p.BirthDate, p.Sex, p.HeightCm,
		p.ActivityLevel, p.Goal, p.Notes,
		p.CPFLast4, p.CPFEncrypted, p.UpdatedAt,
		p.ID, p.ProfessionalID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update patient")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("patient", p.ID.String())
	}

	return nil
}

// Delete removes a patient and, through the schema cascade, its check-ins
func (r *Repository) Delete(ctx context.Context, id, professionalID types.ID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM patients WHERE id = $1 AND professional_id = $2`,
		id, professionalID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to delete patient")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("patient", id.String())
	}

	return nil
}
