package professional

import (
	"context"
	"strings"

	"github.com/enutri/platform/internal/shared/errors"
	"github.com/enutri/platform/internal/shared/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides database operations for professionals
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new professional repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save saves a new professional
func (r *Repository) Save(ctx context.Context, p *Professional) error {
	query := `
		INSERT INTO professionals (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, p.ID, p.Name, p.Email, p.PasswordHash, p.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Conflict("email already registered")
		}
		return errors.Wrap(err, "failed to save professional")
	}

	return nil
}

// FindByID finds a professional by ID
func (r *Repository) FindByID(ctx context.Context, id types.ID) (*Professional, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM professionals
		WHERE id = $1`

	p := &Professional{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("professional", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find professional")
	}

	return p, nil
}

// FindByEmail finds a professional by email
func (r *Repository) FindByEmail(ctx context.Context, email string) (*Professional, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM professionals
		WHERE email = $1`

	p := &Professional{}
	err := r.pool.QueryRow(ctx, query, strings.ToLower(email)).Scan(
		&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("professional", email)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find professional")
	}

	return p, nil
}
