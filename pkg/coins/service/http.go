package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/blitzfun/blitz-api/pkg/app/errors"
	apphttp "github.com/blitzfun/blitz-api/pkg/app/http"
)

const defaultCreatorCoinCount = 20

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service        Service
	defaultChainID int
	logger         *zap.Logger
}

// RegisterRoutes registers HTTP endpoints for the coins service on the given chi router
func RegisterRoutes(r chi.Router, service Service, defaultChainID int, logger *zap.Logger) {
	h := &HTTP{
		service:        service,
		defaultChainID: defaultChainID,
		logger:         logger,
	}

	r.Get("/coins/compare", apphttp.HandleError(h.compare))
	r.Get("/creators/{identifier}", apphttp.HandleError(h.creatorProfile))
	r.Get("/creators/{identifier}/coins", apphttp.HandleError(h.creatorCoins))
}

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// compare handles GET /coins/compare?coin1=<addr>&coin2=<addr>&start=<rfc3339>&chain=<id>
func (h *HTTP) compare(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()

	coin1 := q.Get("coin1")
	coin2 := q.Get("coin2")
	if coin1 == "" || coin2 == "" {
		return apperrors.BadRequestError(nil, "coin1 and coin2 parameters are required")
	}

	startParam := q.Get("start")
	if startParam == "" {
		return apperrors.BadRequestError(nil, "start parameter is required")
	}
	startTime, err := time.Parse(time.RFC3339, startParam)
	if err != nil {
		return apperrors.BadRequestError(err, "start must be an RFC3339 timestamp")
	}

	chainID := h.defaultChainID
	if chainParam := q.Get("chain"); chainParam != "" {
		chainID, err = strconv.Atoi(chainParam)
		if err != nil {
			return apperrors.BadRequestError(err, "chain must be an integer chain id")
		}
	}

	result, err := h.service.Compare(r.Context(), coin1, coin2, startTime, chainID)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, dataResponse{Success: true, Data: result})
	return nil
}

// creatorProfile handles GET /creators/{identifier}
func (h *HTTP) creatorProfile(w http.ResponseWriter, r *http.Request) error {
	identifier := chi.URLParam(r, "identifier")

	profile, err := h.service.CreatorProfile(r.Context(), identifier)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, dataResponse{Success: true, Data: profile})
	return nil
}

// creatorCoins handles GET /creators/{identifier}/coins?count=<n>
func (h *HTTP) creatorCoins(w http.ResponseWriter, r *http.Request) error {
	identifier := chi.URLParam(r, "identifier")

	count := defaultCreatorCoinCount
	if countParam := r.URL.Query().Get("count"); countParam != "" {
		parsed, err := strconv.Atoi(countParam)
		if err != nil || parsed <= 0 {
			return apperrors.BadRequestError(err, "count must be a positive integer")
		}
		count = parsed
	}

	creatorCoins, err := h.service.CreatorCoins(r.Context(), identifier, count)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, dataResponse{Success: true, Data: creatorCoins})
	return nil
}
