package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"awsprep-assessment-service/internal/app"
	"awsprep-assessment-service/internal/domain"
	"awsprep-assessment-service/internal/rewards"
)

// Handler exposes the assessment lifecycle over plain JSON endpoints.
type Handler struct {
	assessments *app.AssessmentService
	claims      *app.ClaimService
	contract    *rewards.Contract
}

func NewHandler(assessments *app.AssessmentService, claims *app.ClaimService, contract *rewards.Contract) *Handler {
	return &Handler{assessments: assessments, claims: claims, contract: contract}
}

// Register mounts all routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", h.Healthz)
	mux.HandleFunc("/api/assessment/start", h.Start)
	mux.HandleFunc("/api/assessment/answer", h.Answer)
	mux.HandleFunc("/api/assessment/submit", h.Submit)
	mux.HandleFunc("/api/assessment/claim", h.ClaimEligibility)
	mux.HandleFunc("/api/courses", h.Courses)
}

type errorPayload struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("ok"))
}

type startRequest struct {
	CandidateAddress string `json:"candidateAddress"`
}

// Start draws a balanced question set and opens a session.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	var req startRequest
	// The body is optional; an anonymous start still gets a question set.
	_ = json.NewDecoder(r.Body).Decode(&req)

	started, err := h.assessments.Start(r.Context(), req.CandidateAddress)
	if err != nil {
		log.Error().Err(err).Msg("start assessment failed")
		writeError(w, http.StatusInternalServerError, "failed to start assessment", "")
		return
	}
	writeJSON(w, http.StatusOK, started)
}

type answerRequest struct {
	AssessmentID string        `json:"assessmentId"`
	Answer       domain.Answer `json:"answer"`
}

// Answer records one answer on the live session.
func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request data", err.Error())
		return
	}
	if req.AssessmentID == "" || req.Answer.QuestionID == "" {
		writeError(w, http.StatusBadRequest, "invalid request data", "assessmentId and answer.questionId are required")
		return
	}

	err := h.assessments.RecordAnswer(r.Context(), req.AssessmentID, req.Answer)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, domain.ErrQuestionNotInSession), errors.Is(err, domain.ErrSessionCompleted):
		writeError(w, http.StatusBadRequest, err.Error(), "")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to record answer", "")
	default:
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// Submit validates and scores a full submission.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	var sub app.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request data", err.Error())
		return
	}

	result, err := h.assessments.Submit(r.Context(), sub)
	switch {
	case errors.Is(err, domain.ErrAnswerCountMismatch), errors.Is(err, domain.ErrMissingField):
		writeError(w, http.StatusBadRequest, "invalid request data", err.Error())
	case err != nil:
		log.Error().Err(err).Str("assessmentId", sub.AssessmentID).Msg("submit failed")
		writeError(w, http.StatusInternalServerError, "failed to submit assessment", "")
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

// ClaimEligibility runs the advisory pre-flight check. A negative answer is
// a 200 with canClaim=false; only chain-read failures are 5xx.
func (h *Handler) ClaimEligibility(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	var req app.ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request data", err.Error())
		return
	}

	eligibility, err := h.claims.CheckEligibility(r.Context(), req)
	switch {
	case errors.Is(err, domain.ErrMissingField):
		writeError(w, http.StatusBadRequest, "invalid request data", err.Error())
	case err != nil:
		// Failed chain read: cannot confirm eligibility, never "eligible".
		log.Error().Err(err).Str("candidate", req.CandidateAddress).Msg("eligibility check failed")
		writeError(w, http.StatusBadGateway, "failed to validate claim", err.Error())
	default:
		writeJSON(w, http.StatusOK, eligibility)
	}
}

// Courses lists the course catalog.
func (h *Handler) Courses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"courses": domain.Courses})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("write response failed")
	}
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorPayload{Error: message, Details: details})
}
