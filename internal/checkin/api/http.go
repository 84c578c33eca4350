package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/enutri/platform/internal/checkin/domain"
	"github.com/enutri/platform/internal/shared/auth"
	"github.com/enutri/platform/internal/shared/errors"
	"github.com/enutri/platform/internal/shared/events"
	"github.com/enutri/platform/internal/shared/types"
	"github.com/go-chi/chi/v5"
)

// Handler provides HTTP handlers for check-ins
type Handler struct {
	service *domain.Service
	bus     *events.Bus
}

// NewHandler creates a new check-in handler. The event bus may be nil when
// event publishing is disabled.
func NewHandler(service *domain.Service, bus *events.Bus) *Handler {
	return &Handler{service: service, bus: bus}
}

// PatientRoutes registers the patient-nested routes; the parent route must
// carry a patientID URL parameter
func (h *Handler) PatientRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.ListByPatient)

	return r
}

// Routes registers the standalone check-in routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

// --- Request/response types ---

type CreateRequest struct {
	Date           string            `json:"date"`
	WeightKg       float64           `json:"weight_kg"`
	WaistCm        *float64          `json:"waist_cm"`
	HipCm          *float64          `json:"hip_cm"`
	BodyFatPct     *float64          `json:"body_fat_pct"`
	Adherence      *domain.Adherence `json:"adherence"`
	Diet           *string           `json:"recommendation_diet"`
	Training       *string           `json:"recommendation_training"`
	Lifestyle      *string           `json:"recommendation_lifestyle"`
	Observations   *string           `json:"observations"`
	NextReturnDate *string           `json:"next_return_date"`
}

// UpdateRequest distinguishes omitted fields from explicit nulls
type UpdateRequest struct {
	Date           types.Optional[string]           `json:"date"`
	WeightKg       types.Optional[float64]          `json:"weight_kg"`
	WaistCm        types.Optional[float64]          `json:"waist_cm"`
	HipCm          types.Optional[float64]          `json:"hip_cm"`
	BodyFatPct     types.Optional[float64]          `json:"body_fat_pct"`
	Adherence      types.Optional[domain.Adherence] `json:"adherence"`
	Diet           types.Optional[string]           `json:"recommendation_diet"`
	Training       types.Optional[string]           `json:"recommendation_training"`
	Lifestyle      types.Optional[string]           `json:"recommendation_lifestyle"`
	Observations   types.Optional[string]           `json:"observations"`
	NextReturnDate types.Optional[string]           `json:"next_return_date"`
}

// Response is the check-in wire form; the index classification is derived on
// the way out
type Response struct {
	ID                types.ID          `json:"id"`
	PatientID         types.ID          `json:"patient_id"`
	Date              string            `json:"date"`
	WeightKg          float64           `json:"weight_kg"`
	IMC               float64           `json:"imc"`
	IMCClassification string            `json:"imc_classification"`
	WaistCm           *float64          `json:"waist_cm,omitempty"`
	HipCm             *float64          `json:"hip_cm,omitempty"`
	BodyFatPct        *float64          `json:"body_fat_pct,omitempty"`
	Adherence         *domain.Adherence `json:"adherence,omitempty"`

	RecommendationDiet      *string `json:"recommendation_diet,omitempty"`
	RecommendationTraining  *string `json:"recommendation_training,omitempty"`
	RecommendationLifestyle *string `json:"recommendation_lifestyle,omitempty"`

	Observations   *string   `json:"observations,omitempty"`
	NextReturnDate *string   `json:"next_return_date,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ListResponse struct {
	CheckIns []Response `json:"checkins"`
}

func ToResponse(c *domain.CheckIn) Response {
	resp := Response{
		ID:                      c.ID,
		PatientID:               c.PatientID,
		Date:                    c.Date.Format("2006-01-02"),
		WeightKg:                c.WeightKg,
		IMC:                     c.IMC,
		IMCClassification:       domain.ClassifyIMC(c.IMC),
		WaistCm:                 c.WaistCm,
		HipCm:                   c.HipCm,
		BodyFatPct:              c.BodyFatPct,
		Adherence:               c.Adherence,
		RecommendationDiet:      c.RecommendationDiet,
		RecommendationTraining:  c.RecommendationTraining,
		RecommendationLifestyle: c.RecommendationLifestyle,
		Observations:            c.Observations,
		CreatedAt:               c.CreatedAt,
		UpdatedAt:               c.UpdatedAt,
	}
	if c.NextReturnDate != nil {
		d := c.NextReturnDate.Format("2006-01-02")
		resp.NextReturnDate = &d
	}
	return resp
}

// --- Handlers ---

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	professionalID := auth.ProfessionalID(r.Context())

	patientID, err := types.ParseID(chi.URLParam(r, "patientID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid patient ID"))
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	input := domain.CreateInput{
		WeightKg:     req.WeightKg,
		WaistCm:      req.WaistCm,
		HipCm:        req.HipCm,
		BodyFatPct:   req.BodyFatPct,
		Adherence:    req.Adherence,
		Diet:         req.Diet,
		Training:     req.Training,
		Lifestyle:    req.Lifestyle,
		Observations: req.Observations,
	}
	if req.Date != "" {
		input.Date, err = parseDate(req.Date)
		if err != nil {
			writeError(w, errors.Validation("invalid check-in data", map[string]string{"date": "must be YYYY-MM-DD"}))
			return
		}
	}
	if req.NextReturnDate != nil {
		d, err := parseDate(*req.NextReturnDate)
		if err != nil {
			writeError(w, errors.Validation("invalid check-in data", map[string]string{"next_return_date": "must be YYYY-MM-DD"}))
			return
		}
		input.NextReturnDate = &d
	}

	c, err := h.service.Create(r.Context(), patientID, professionalID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	h.publish(r, "checkin.created", ToResponse(c))
	writeJSON(w, http.StatusCreated, ToResponse(c))
}

func (h *Handler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	professionalID := auth.ProfessionalID(r.Context())

	patientID, err := types.ParseID(chi.URLParam(r, "patientID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid patient ID"))
		return
	}

	checkins, err := h.service.ListByPatient(r.Context(), patientID, professionalID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := ListResponse{CheckIns: make([]Response, 0, len(checkins))}
	for _, c := range checkins {
		resp.CheckIns = append(resp.CheckIns, ToResponse(c))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	professionalID := auth.ProfessionalID(r.Context())

	id, err := types.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid check-in ID"))
		return
	}

	c, err := h.service.Get(r.Context(), id, professionalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ToResponse(c))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	professionalID := auth.ProfessionalID(r.Context())

	id, err := types.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid check-in ID"))
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	input := domain.UpdateInput{
		WeightKg:     req.WeightKg,
		WaistCm:      req.WaistCm,
		HipCm:        req.HipCm,
		BodyFatPct:   req.BodyFatPct,
		Adherence:    req.Adherence,
		Diet:         req.Diet,
		Training:     req.Training,
		Lifestyle:    req.Lifestyle,
		Observations: req.Observations,
	}
	input.Date, err = parseOptionalDate(req.Date, "date")
	if err != nil {
		writeError(w, err)
		return
	}
	input.NextReturnDate, err = parseOptionalDate(req.NextReturnDate, "next_return_date")
	if err != nil {
		writeError(w, err)
		return
	}

	c, err := h.service.Update(r.Context(), id, professionalID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	h.publish(r, "checkin.updated", ToResponse(c))
	writeJSON(w, http.StatusOK, ToResponse(c))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	professionalID := auth.ProfessionalID(r.Context())

	id, err := types.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid check-in ID"))
		return
	}

	if err := h.service.Delete(r.Context(), id, professionalID); err != nil {
		writeError(w, err)
		return
	}

	h.publish(r, "checkin.deleted", map[string]string{"checkin_id": id.String()})
	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

func (h *Handler) publish(r *http.Request, eventType string, data any) {
	if h.bus == nil {
		return
	}

	event := events.NewEvent(eventType, "checkin", data).
		WithActor(auth.ProfessionalID(r.Context()))
	if err := h.bus.Publish(r.Context(), event); err != nil {
		// Publishing is best effort; the write already succeeded
		return
	}
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

// parseOptionalDate converts a wire date field, preserving omitted and null
func parseOptionalDate(opt types.Optional[string], field string) (types.Optional[time.Time], error) {
	if !opt.Set {
		return types.Optional[time.Time]{}, nil
	}
	if !opt.Valid {
		return types.Null[time.Time](), nil
	}

	d, err := parseDate(opt.Value)
	if err != nil {
		return types.Optional[time.Time]{}, errors.Validation("invalid check-in data", map[string]string{field: "must be YYYY-MM-DD"})
	}
	return types.Some(d), nil
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
