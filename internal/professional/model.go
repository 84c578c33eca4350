package professional

import (
	"strings"
	"time"

	"github.com/enutri/platform/internal/shared/errors"
	"github.com/enutri/platform/internal/shared/types"
	"golang.org/x/crypto/bcrypt"
)

// Professional is a nutrition professional account. It owns patients; every
// patient and check-in lookup is scoped by this identity.
type Professional struct {
	ID           types.ID  `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewProfessional creates a professional with a hashed credential. The display
// name defaults to the email local part when not given.
func NewProfessional(name, email, password string) (*Professional, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.Validation("invalid email", map[string]string{"email": "must be a valid address"})
	}
	if len(password) < 8 {
		return nil, errors.Validation("invalid password", map[string]string{"password": "must be at least 8 characters"})
	}

	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal(err)
	}

	return &Professional{
		ID:           types.NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (p *Professional) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) == nil
}
