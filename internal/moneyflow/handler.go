package moneyflow

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/savings/internal"
	"github.com/frahmantamala/savings/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreateMoneyFlowDTO) (*MoneyFlow, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*MoneyFlow, error)
	List(ctx context.Context, filter ListFilter) ([]*MoneyFlow, error)
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

func (h *Handler) CreateMoneyFlow(w http.ResponseWriter, r *http.Request) {
	var dto CreateMoneyFlowDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	flow, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, flow.ToResponse())
}

func (h *Handler) ListMoneyFlows(w http.ResponseWriter, r *http.Request) {
	flowType, err := ParseFlowType(r.URL.Query().Get("type"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	flows, err := h.Service.List(r.Context(), ListFilter{Type: flowType})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MoneyFlowsResponse{
		MoneyFlows: ToResponses(flows),
		Count:      len(flows),
	})
}

func (h *Handler) GetMoneyFlow(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	flow, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, flow.ToResponse())
}

func (h *Handler) DeleteMoneyFlow(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.HandleServiceError(w, internal.NewValidationError("invalid money flow id", internal.ErrCodeInvalidRequest))
		return 0, false
	}
	return id, true
}
