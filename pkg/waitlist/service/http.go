package service

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/blitzfun/blitz-api/pkg/app/errors"
	apphttp "github.com/blitzfun/blitz-api/pkg/app/http"
	"github.com/blitzfun/blitz-api/pkg/waitlist"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers HTTP endpoints for the waitlist service on the given chi router
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Post("/waitlist", apphttp.HandleError(h.join))
	r.Get("/waitlist", apphttp.HandleError(h.lookup))
	r.Get("/waitlist/stats", apphttp.HandleError(h.stats))
}

type joinResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	ID         string `json:"id"`
	CardNumber int    `json:"cardNumber"`
}

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// join handles POST /waitlist
func (h *HTTP) join(w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1MB limit
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}

	var sub waitlist.Submission
	if err := json.Unmarshal(body, &sub); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}

	result, err := h.service.Admit(r.Context(), &sub)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusCreated, joinResponse{
		Success:    true,
		Message:    "Successfully added to waitlist",
		ID:         result.ID,
		CardNumber: result.CardNumber,
	})
	return nil
}

// lookup handles GET /waitlist?fid=<id>
func (h *HTTP) lookup(w http.ResponseWriter, r *http.Request) error {
	fid := r.URL.Query().Get("fid")
	if fid == "" {
		return apperrors.BadRequestError(nil, "FID parameter is required")
	}

	entry, err := h.service.Lookup(r.Context(), fid)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, dataResponse{Success: true, Data: entry})
	return nil
}

// stats handles GET /waitlist/stats
func (h *HTTP) stats(w http.ResponseWriter, r *http.Request) error {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, dataResponse{Success: true, Data: stats})
	return nil
}
