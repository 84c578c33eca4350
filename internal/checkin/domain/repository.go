package domain

import (
	"context"

	"github.com/enutri/platform/internal/patient"
	"github.com/enutri/platform/internal/shared/types"
)

// Repository provides persistence for check-ins. All single-record lookups
// are scoped to the owning professional through the patient relation.
type Repository interface {
	Save(ctx context.Context, c *CheckIn) error
	FindOwned(ctx context.Context, id, professionalID types.ID) (*CheckIn, error)
	ListByPatient(ctx context.Context, patientID types.ID) ([]*CheckIn, error)
	Update(ctx context.Context, c *CheckIn, professionalID types.ID) error
	Delete(ctx context.Context, id, professionalID types.ID) error
}

// PatientDirectory is the slice of the patient module the check-in service
// needs: ownership-scoped lookup of the patient record
type PatientDirectory interface {
	FindOwned(ctx context.Context, id, professionalID types.ID) (*patient.Patient, error)
}
