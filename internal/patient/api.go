package patient

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/enutri/platform/internal/shared/auth"
	"github.com/enutri/platform/internal/shared/errors"
	"github.com/enutri/platform/internal/shared/events"
	"github.com/enutri/platform/internal/shared/metrics"
	"github.com/enutri/platform/internal/shared/secrets"
	"github.com/enutri/platform/internal/shared/types"
	"github.com/go-chi/chi/v5"
)

// VisitLister returns a patient's check-in history in wire form for the
// detail response. A function type keeps the check-in module's dependency on
// this package one-directional.
type VisitLister func(ctx context.Context, patientID, professionalID types.ID) (any, error)

// Handler provides HTTP handlers for the patient directory
type Handler struct {
	repo   *Repository
	codec  *secrets.Codec
	bus    *events.Bus
	visits VisitLister
}

// NewHandler creates a new patient handler. The event bus may be nil when
// event publishing is disabled.
func NewHandler(repo *Repository, codec *secrets.Codec, bus *events.Bus, visits VisitLister) *Handler {
	return &Handler{repo: repo, codec: codec, bus: bus, visits: visits}
}

// Routes registers the patient routes. The check-in router mounts under each
// patient so visit records stay nested in their owning resource.
func (h *Handler) Routes(checkins http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)

	r.Route("/{patientID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Mount("/checkins", checkins)
	})

	return r
}

// --- Request/response types ---

type CreateRequest struct {
	FullName      string        `json:"full_name"`
	BirthDate     string        `json:"birth_date"`
	Sex           Sex           `json:"sex"`
	HeightCm      float64       `json:"height_cm"`
	ActivityLevel ActivityLevel `json:"activity_level"`
	Goal          Goal          `json:"goal"`
	Notes         *string       `json:"notes"`
	CPF           *string       `json:"cpf"`
}

// UpdateRequest distinguishes omitted fields from explicit nulls. An omitted
// field keeps its stored value; a null CPF clears the stored document.
type UpdateRequest struct {
	FullName      types.Optional[string]        `json:"full_name"`
	BirthDate     types.Optional[string]        `json:"birth_date"`
	Sex           types.Optional[Sex]           `json:"sex"`
	HeightCm      types.Optional[float64]       `json:"height_cm"`
	ActivityLevel types.Optional[ActivityLevel] `json:"activity_level"`
	Goal          types.Optional[Goal]          `json:"goal"`
	Notes         types.Optional[string]        `json:"notes"`
	CPF           types.Optional[string]        `json:"cpf"`
}

// Response is the patient wire form. The identifying document only ever
// leaves the service masked.
type Response struct {
	ID             types.ID      `json:"id"`
	ProfessionalID types.ID      `json:"professional_id"`
	FullName       string        `json:"full_name"`
	BirthDate      string        `json:"birth_date"`
	Sex            Sex           `json:"sex"`
	HeightCm       float64       `json:"height_cm"`
	ActivityLevel  ActivityLevel `json:"activity_level"`
	Goal           Goal          `json:"goal"`
	Notes          *string       `json:"notes,omitempty"`
	CPFMasked      string        `json:"cpf_masked,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// DetailResponse is the single-patient view including the check-in history
type DetailResponse struct {
	Response
	CheckIns any `json:"checkins"`
}

// SummaryResponse is a directory listing row
type SummaryResponse struct {
	Response
	LastCheckInDate *string  `json:"last_checkin_date,omitempty"`
	LastIMC         *float64 `json:"last_imc,omitempty"`
}

type ListResponse struct {
	Patients []SummaryResponse `json:"patients"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

func toResponse(p *Patient) Response {
	return Response{
		ID:             p.ID,
		ProfessionalID: p.ProfessionalID,
		FullName:       p.FullName,
		BirthDate:      p.BirthDate.Format("2006-01-02"),
		Sex:            p.Sex,
		HeightCm:       p.HeightCm,
		ActivityLevel:  p.ActivityLevel,
		Goal:           p.Goal,
		Notes:          p.Notes,
		CPFMasked:      p.CPFMasked(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// --- Handlers ---

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	professionalID := auth.ProfessionalID(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		writeError(w, errors.Validation("invalid patient data", map[string]string{"birth_date": "must be YYYY-MM-DD"}))
		return
	}

	p, err := NewPatient(professionalID, req.FullName, birthDate, req.Sex,
		req.HeightCm, req.ActivityLevel, req.Goal, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.CPF != nil {
		if err := h.storeCPF(p, *req.CPF); err != nil {
			writeError(w, err)
			return
		}
	}

	if err := h.repo.Save(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}

	metrics.RecordPatientCreated(string(p.Goal))
	h.publish(r, "patient.created", p)
	writeJSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	professionalID := auth.ProfessionalID(r.Context())

	q := r.URL.Query()
	filter := ListFilter{
		Search:        q.Get("search"),
		Goal:          Goal(q.Get("goal")),
		ActivityLevel: ActivityLevel(q.Get("activity_level")),
	}
	if filter.Goal != "" && !filter.Goal.IsValid() {
		writeError(w, errors.BadRequest("invalid goal filter"))
		return
	}
	if filter.ActivityLevel != "" && !filter.ActivityLevel.IsValid() {
		writeError(w, errors.BadRequest("invalid activity_level filter"))
		return
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	summaries, err := h.repo.List(r.Context(), professionalID, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := ListResponse{
		Patients: make([]SummaryResponse, 0, len(summaries)),
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}
	for _, s := range summaries {
		row := SummaryResponse{Response: toResponse(s.Patient), LastIMC: s.LastIMC}
		if s.LastCheckInDate != nil {
			d := s.LastCheckInDate.Format("2006-01-02")
			row.LastCheckInDate = &d
		}
		resp.Patients = append(resp.Patients, row)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	professionalID := auth.ProfessionalID(r.Context())

	id, err := types.ParseID(chi.URLParam(r, "patientID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid patient ID"))
		return
	}

	p, err := h.repo.FindOwned(r.Context(), id, professionalID)
	if err != nil {
		writeError(w, err)
		return
	}

	checkins, err := h.visits(r.Context(), p.ID, professionalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, DetailResponse{Response: toResponse(p), CheckIns: checkins})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	professionalID := auth.ProfessionalID(r.Context())

	id, err := types.ParseID(chi.URLParam(r, "patientID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid patient ID"))
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	p, err := h.repo.FindOwned(r.Context(), id, professionalID)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.FullName.Set && req.FullName.Valid {
		p.FullName = req.FullName.Value
	}
	if req.BirthDate.Set && req.BirthDate.Valid {
		birthDate, err := parseDate(req.BirthDate.Value)
		if err != nil {
			writeError(w, errors.Validation("invalid patient data", map[string]string{"birth_date": "must be YYYY-MM-DD"}))
			return
		}
		p.BirthDate = birthDate
	}
	if req.Sex.Set && req.Sex.Valid {
		p.Sex = req.Sex.Value
	}
	if req.HeightCm.Set && req.HeightCm.Valid {
		p.HeightCm = req.HeightCm.Value
	}
	if req.ActivityLevel.Set && req.ActivityLevel.Valid {
		p.ActivityLevel = req.ActivityLevel.Value
	}
	if req.Goal.Set && req.Goal.Valid {
		p.Goal = req.Goal.Value
	}
	if req.Notes.Set {
		if req.Notes.Valid {
			p.Notes = &req.Notes.Value
		} else {
			p.Notes = nil
		}
	}
	if req.CPF.Set {
		if req.CPF.Valid {
			if err := h.storeCPF(p, req.CPF.Value); err != nil {
				writeError(w, err)
				return
			}
		} else {
			p.ClearCPF()
		}
	}

	if err := Validate(p.FullName, p.BirthDate, p.Sex, p.HeightCm, p.ActivityLevel, p.Goal); err != nil {
		writeError(w, err)
		return
	}

	p.UpdatedAt = time.Now().UTC()
	if err := h.repo.Update(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}

	h.publish(r, "patient.updated", p)
	writeJSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	professionalID := auth.ProfessionalID(r.Context())

	id, err := types.ParseID(chi.URLParam(r, "patientID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid patient ID"))
		return
	}

	if err := h.repo.Delete(r.Context(), id, professionalID); err != nil {
		writeError(w, err)
		return
	}

	h.publish(r, "patient.deleted", map[string]string{"patient_id": id.String()})
	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

// storeCPF validates the document, encrypts it and stores both halves
func (h *Handler) storeCPF(p *Patient, raw string) error {
	cpf, err := types.ParseCPF(raw)
	if err != nil {
		return errors.Validation("invalid patient data", map[string]string{"cpf": "is not a valid document number"})
	}

	encrypted, err := h.codec.Encrypt(cpf.String())
	if err != nil {
		return errors.Internal(err)
	}

	p.SetCPF(cpf, encrypted)
	return nil
}

// publish sends a domain event when the bus is configured. Events carry the
// masked document only.
func (h *Handler) publish(r *http.Request, eventType string, data any) {
	if h.bus == nil {
		return
	}

	event := events.NewEvent(eventType, "patient-directory", data).
		WithActor(auth.ProfessionalID(r.Context()))
	if err := h.bus.Publish(r.Context(), event); err != nil {
		// Publishing is best effort; the write already succeeded
		return
	}
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
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
