package professional

import (
	"encoding/json"
	"net/http"

	"github.com/enutri/platform/internal/shared/auth"
	"github.com/enutri/platform/internal/shared/errors"
	"github.com/enutri/platform/internal/shared/metrics"
	"github.com/go-chi/chi/v5"
)

// Handler provides HTTP handlers for authentication and account access
type Handler struct {
	repo   *Repository
	issuer *auth.Issuer
}

// NewHandler creates a new professional handler
func NewHandler(repo *Repository, issuer *auth.Issuer) *Handler {
	return &Handler{repo: repo, issuer: issuer}
}

// Routes registers the auth routes. Only /me requires authentication, so the
// middleware is applied per-route rather than on the whole router.
func (h *Handler) Routes(requireAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Post("/logout", h.Logout)

	r.With(requireAuth).Get("/me", h.Me)

	return r
}

// --- Request types ---

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// --- Handlers ---

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	p, err := NewProfessional(req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.repo.Save(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	p, err := h.repo.FindByEmail(r.Context(), req.Email)
	if err != nil || !p.CheckPassword(req.Password) {
		// Identical response for unknown email and wrong password
		metrics.RecordLogin(false)
		writeError(w, errors.Unauthorized("invalid email or password"))
		return
	}

	pair, err := h.issuer.IssuePair(p.ID)
	if err != nil {
		writeError(w, errors.Internal(err))
		return
	}

	metrics.RecordLogin(true)
	writeJSON(w, http.StatusOK, pair)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	professionalID, err := h.issuer.Parse(req.RefreshToken, auth.TokenTypeRefresh)
	if err != nil {
		writeError(w, errors.Unauthorized("invalid or expired refresh token"))
		return
	}

	// The account must still exist
	p, err := h.repo.FindByID(r.Context(), professionalID)
	if err != nil {
		writeError(w, errors.Unauthorized("invalid or expired refresh token"))
		return
	}

	pair, err := h.issuer.IssuePair(p.ID)
	if err != nil {
		writeError(w, errors.Internal(err))
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	// Tokens are stateless; clients discard them
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	professionalID := auth.ProfessionalID(r.Context())

	p, err := h.repo.FindByID(r.Context(), professionalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// --- Helpers ---

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
