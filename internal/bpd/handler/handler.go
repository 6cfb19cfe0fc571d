package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bpd/internal/bpd/api"
	"bpd/internal/bpd/outcome"
	"bpd/pkg/domain"
	dErrors "bpd/pkg/domain-errors"
	"bpd/pkg/platform/httputil"
	"bpd/pkg/requestcontext"
)

// HeaderCitizenID carries the fiscal code or support token of the citizen
// being looked up.
const HeaderCitizenID = "x-citizen-id"

// Service defines the BPD operations exposed over HTTP.
type Service interface {
	GetCitizen(ctx context.Context, id domain.CitizenID) outcome.Outcome
	GetAwards(ctx context.Context, id domain.CitizenID) outcome.Outcome
	GetTransactions(ctx context.Context, id domain.CitizenID) outcome.Outcome
	BlacklistSupportToken(ctx context.Context, id domain.CitizenID) outcome.Outcome
}

// Handler wires BPD endpoints to the BPD service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a BPD handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts BPD endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/v1/bpd", func(r chi.Router) {
		r.Get("/citizen", h.serve(Service.GetCitizen))
		r.Get("/awards", h.serve(Service.GetAwards))
		r.Get("/transactions", h.serve(Service.GetTransactions))
		r.Delete("/support-token", h.serve(Service.BlacklistSupportToken))
	})
}

type operation func(Service, context.Context, domain.CitizenID) outcome.Outcome

// serve parses the citizen header, runs op and writes its outcome.
func (h *Handler) serve(op operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := domain.ParseCitizenID(r.Header.Get(HeaderCitizenID))
		if err != nil {
			h.logger.WarnContext(ctx, "invalid citizen identifier header",
				"request_id", requestcontext.RequestID(ctx),
				"path", r.URL.Path,
			)
			httputil.WriteProblem(w, http.StatusBadRequest, api.Problem{
				Title:  "Invalid " + HeaderCitizenID + " header",
				Status: http.StatusBadRequest,
				Detail: dErrors.MessageOf(err),
			})
			return
		}

		writeOutcome(w, op(h.service, ctx, id))
	}
}

// writeOutcome maps each outcome variant to its HTTP response.
func writeOutcome(w http.ResponseWriter, out outcome.Outcome) {
	switch o := out.(type) {
	case outcome.Success:
		httputil.WriteJSON(w, http.StatusOK, o.Payload)
	case outcome.Forbidden:
		httputil.WriteProblem(w, http.StatusForbidden, api.Problem{
			Title:  "Forbidden",
			Status: http.StatusForbidden,
		})
	case outcome.NotFound:
		httputil.WriteProblem(w, http.StatusNotFound, api.Problem{
			Title:  o.Title,
			Status: http.StatusNotFound,
			Detail: o.Detail,
		})
	case outcome.ValidationFailed:
		httputil.WriteProblem(w, http.StatusBadRequest, api.Problem{
			Title:  o.Title,
			Status: http.StatusBadRequest,
			Detail: o.Report,
		})
	case outcome.InternalFailed:
		httputil.WriteProblem(w, http.StatusInternalServerError, api.Problem{
			Title:  "Internal server error",
			Status: http.StatusInternalServerError,
			Detail: o.Message,
		})
	default:
		httputil.WriteProblem(w, http.StatusInternalServerError, api.Problem{
			Title:  "Internal server error",
			Status: http.StatusInternalServerError,
			Detail: outcome.GenericInternalMessage,
		})
	}
}
