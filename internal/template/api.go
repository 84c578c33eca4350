package template

import (
	"encoding/json"
	"net/http"

	"github.com/enutri/platform/internal/patient"
	"github.com/enutri/platform/internal/shared/auth"
	"github.com/enutri/platform/internal/shared/errors"
	"github.com/enutri/platform/internal/shared/types"
	"github.com/go-chi/chi/v5"
)

// Handler provides HTTP handlers for the recommendation template catalog
type Handler struct {
	patients *patient.Repository
}

// NewHandler creates a new template handler
func NewHandler(patients *patient.Repository) *Handler {
	return &Handler{patients: patients}
}

// Routes registers the template routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/defaults/{goal}", h.ByGoal)
	r.Get("/defaults/patient/{patientID}", h.ByPatient)

	return r
}

// ByGoal returns the default recommendation set for a goal
func (h *Handler) ByGoal(w http.ResponseWriter, r *http.Request) {
	goal := patient.Goal(chi.URLParam(r, "goal"))
	if !goal.IsValid() {
		writeError(w, errors.BadRequest("invalid goal"))
		return
	}

	writeJSON(w, http.StatusOK, Defaults(goal))
}

// ByPatient returns the default set for a patient's registered goal, scoped
// to the owning professional
func (h *Handler) ByPatient(w http.ResponseWriter, r *http.Request) {
	professionalID := auth.ProfessionalID(r.Context())

	patientID, err := types.ParseID(chi.URLParam(r, "patientID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid patient ID"))
		return
	}

	p, err := h.patients.FindOwned(r.Context(), patientID, professionalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Defaults(p.Goal))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if appErr, ok := err.(*errors.AppError); ok {
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   appErr.Message,
			"code":    appErr.Code,
			"details": appErr.Details,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
