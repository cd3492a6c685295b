package waitlistcard

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/blitzfun/blitz-api/pkg/app/errors"
	apphttp "github.com/blitzfun/blitz-api/pkg/app/http"
	"github.com/blitzfun/blitz-api/pkg/waitlist"
)

// EntryLookup resolves a waitlist entry by Farcaster id.
type EntryLookup interface {
	Lookup(ctx context.Context, fid string) (*waitlist.Entry, error)
}

// HTTP serves rendered waitlist cards.
type HTTP struct {
	lookup   EntryLookup
	renderer *Renderer
	logger   *zap.Logger
}

// RegisterRoutes registers the card image endpoint on the given chi router
func RegisterRoutes(r chi.Router, lookup EntryLookup, renderer *Renderer, logger *zap.Logger) {
	h := &HTTP{
		lookup:   lookup,
		renderer: renderer,
		logger:   logger,
	}

	r.Get("/waitlist-card", apphttp.HandleError(h.card))
}

// card handles GET /waitlist-card?fid=<id>
func (h *HTTP) card(w http.ResponseWriter, r *http.Request) error {
	fid := r.URL.Query().Get("fid")
	if fid == "" {
		return apperrors.BadRequestError(nil, "FID parameter is required")
	}

	entry, err := h.lookup.Lookup(r.Context(), fid)
	if err != nil {
		return err
	}

	image, err := h.renderer.Render(entry)
	if err != nil {
		return apperrors.GeneralError(fmt.Errorf("failed to render card: %w", err))
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(image); err != nil {
		h.logger.Warn("Failed to write card response", zap.Error(err))
	}
	return nil
}
