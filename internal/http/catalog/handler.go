package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dayledger/internal/catalog"
	"github.com/MrJamesThe3rd/dayledger/internal/logger"
)

type Handler struct {
	svc *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
}

type productResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	UnitValue decimal.Decimal `json:"unit_value"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(p *catalog.Product) productResponse {
	return productResponse{
		ID:        p.ID,
		Name:      p.Name,
		Quantity:  p.Quantity,
		UnitValue: p.UnitValue,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.List(r.Context())
	if err != nil {
		logger.Log.Error().Err(err).Msg("failed to list products")
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toResponse(p)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Log.Error().Err(err).Msg("failed to encode response")
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}

		logger.Log.Error().Err(err).Str("product_id", id.String()).Msg("failed to get product")
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(p)); err != nil {
		logger.Log.Error().Err(err).Msg("failed to encode response")
	}
}
