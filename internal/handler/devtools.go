package handler

import (
	"net/http"

	"github.com/bobalog/bobalog-go/internal/repository"
)

// DevToolsHandler exposes destructive reset endpoints for development and
// end-to-end test runs. It must never be registered in production.
type DevToolsHandler struct {
	users     *repository.UserRepository
	purchases *repository.PurchaseRepository
}

// NewDevToolsHandler creates a new DevToolsHandler.
func NewDevToolsHandler(users *repository.UserRepository, purchases *repository.PurchaseRepository) *DevToolsHandler {
	return &DevToolsHandler{users: users, purchases: purchases}
}

// HandleClearUsers handles DELETE /dev/users requests. Purchases cascade
// with their owners.
func (h *DevToolsHandler) HandleClearUsers(w http.ResponseWriter, r *http.Request) {
	if err := h.users.DeleteAll(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// HandleClearPurchases handles DELETE /dev/purchases requests.
func (h *DevToolsHandler) HandleClearPurchases(w http.ResponseWriter, r *http.Request) {
	if err := h.purchases.DeleteAll(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
