package category

import (
	"net/http"

	"github.com/frahmantamala/savings/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
}

func NewHandler(baseHandler *transport.BaseHandler) *Handler {
	return &Handler{BaseHandler: baseHandler}
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, CategoriesResponse{
		Categories: All(),
	})
}
