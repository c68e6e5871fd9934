package dashboard

import (
	"context"
	"net/http"

	"github.com/frahmantamala/savings/internal"
	"github.com/frahmantamala/savings/internal/transport"
)

type ServiceAPI interface {
	Refresh(ctx context.Context) (Summary, error)
	Summary() Summary
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetDashboard serves the current snapshot. ?refresh=true, or a snapshot that
// was never computed, forces a recompute first.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	summary := h.Service.Summary()
	if summary.Revision == 0 || r.URL.Query().Get("refresh") == "true" {
		var err error
		summary, err = h.Service.Refresh(r.Context())
		if err != nil {
			h.HandleServiceError(w, internal.NewInternalError("failed to compute dashboard", err))
			return
		}
	}
	h.WriteJSON(w, http.StatusOK, summary)
}
