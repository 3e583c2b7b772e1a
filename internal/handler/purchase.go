package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bobalog/bobalog-go/internal/middleware"
	"github.com/bobalog/bobalog-go/internal/model"
	"github.com/bobalog/bobalog-go/internal/service"
)

// PurchaseHandler handles HTTP requests for purchase mutations, the
// unfiltered log, the three filtered views and the global ranking.
//
// Every owner-scoped route is answered with the authenticated user's data
// only. Addressing another user's rows yields the same empty or no-op result
// as addressing rows that do not exist.
type PurchaseHandler struct {
	purchases *service.PurchaseService
	queries   *service.QueryService
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(purchases *service.PurchaseService, queries *service.QueryService) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases, queries: queries}
}

// HandleList handles GET /purchases/{ownerID} requests: the unfiltered log,
// most recent date first.
func (h *PurchaseHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("not authorized"))
		return
	}

	ownerID, err := pathID(r, "ownerID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid owner id"))
		return
	}
	if ownerID != identity.UserID {
		writeJSON(w, http.StatusOK, []model.Purchase{})
		return
	}

	purchases, err := h.purchases.List(r.Context(), identity.UserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, purchases)
}

// HandleGet handles GET /purchases/{ownerID}/{purchaseID} requests, used to
// pre-populate edit forms. A record that does not exist for this owner is
// returned as null.
func (h *PurchaseHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("not authorized"))
		return
	}

	ownerID, err := pathID(r, "ownerID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid owner id"))
		return
	}
	purchaseID, err := pathID(r, "purchaseID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid purchase id"))
		return
	}

	if ownerID != identity.UserID {
		writeJSON(w, http.StatusOK, (*model.Purchase)(nil))
		return
	}

	p, err := h.purchases.Get(r.Context(), identity.UserID, purchaseID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// HandleCreate handles POST /purchases requests.
func (h *PurchaseHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("not authorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	if req.OwnerID != identity.UserID {
		writeJSON(w, http.StatusBadRequest, errorResponse("owner mismatch"))
		return
	}

	p, err := h.purchases.Create(r.Context(), identity.UserID, req)
	if err != nil {
		if isValidationError(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

// HandleUpdate handles PUT /purchases requests. The body carries the full
// replacement field set; a record that does not exist for this owner is
// answered with null.
func (h *PurchaseHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("not authorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	if req.OwnerID != identity.UserID {
		writeJSON(w, http.StatusOK, (*model.Purchase)(nil))
		return
	}

	p, err := h.purchases.Update(r.Context(), identity.UserID, req)
	if err != nil {
		if isValidationError(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// HandleDelete handles DELETE /purchases/{ownerID}/{purchaseID} requests.
// The acknowledgement is identical whether or not a row was removed.
func (h *PurchaseHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("not authorized"))
		return
	}

	ownerID, err := pathID(r, "ownerID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid owner id"))
		return
	}
	purchaseID, err := pathID(r, "purchaseID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid purchase id"))
		return
	}

	if ownerID == identity.UserID {
		if err := h.purchases.Delete(r.Context(), identity.UserID, purchaseID); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
			return
		}
	}

	writeJSON(w, http.StatusOK, model.DeleteResponse{Status: "deleted"})
}

// HandleRanking handles GET /purchases/ranking requests: the top 7 flavours
// by summed quantity across all users.
func (h *PurchaseHandler) HandleRanking(w http.ResponseWriter, r *http.Request) {
	totals, err := h.purchases.TopFlavours(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, totals)
}

// HandleByTime handles GET /purchases/by-time/{ownerID}/{window} requests.
func (h *PurchaseHandler) HandleByTime(w http.ResponseWriter, r *http.Request) {
	h.handleFiltered(w, r, model.TemporalFilter(chi.URLParam(r, "window")))
}

// HandleByPrice handles GET /purchases/by-price/{ownerID}/{direction} requests.
func (h *PurchaseHandler) HandleByPrice(w http.ResponseWriter, r *http.Request) {
	h.handleFiltered(w, r, model.PriceOrderFilter(chi.URLParam(r, "direction")))
}

// HandleByFlavour handles GET /purchases/by-flavour/{ownerID}/{flavour} requests.
func (h *PurchaseHandler) HandleByFlavour(w http.ResponseWriter, r *http.Request) {
	h.handleFiltered(w, r, model.FlavourRankFilter(chi.URLParam(r, "flavour")))
}

func (h *PurchaseHandler) handleFiltered(w http.ResponseWriter, r *http.Request, filter model.FilterRequest) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("not authorized"))
		return
	}

	ownerID, err := pathID(r, "ownerID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid owner id"))
		return
	}
	if ownerID != identity.UserID {
		writeJSON(w, http.StatusOK, []model.Purchase{})
		return
	}

	purchases, err := h.queries.Dispatch(r.Context(), identity.UserID, filter)
	if err != nil {
		if errors.Is(err, model.ErrChooseOneFilter) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, purchases)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func isValidationError(err error) bool {
	return errors.Is(err, service.ErrFlavourRequired) ||
		errors.Is(err, service.ErrFlavourTooLong) ||
		errors.Is(err, service.ErrQuantityTooSmall) ||
		errors.Is(err, service.ErrPriceNegative)
}
