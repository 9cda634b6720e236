package operation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dayledger/internal/logger"
	"github.com/MrJamesThe3rd/dayledger/internal/operation"
	"github.com/MrJamesThe3rd/dayledger/internal/report"
)

// ActorHeader carries the id of the user performing a write.
const ActorHeader = "X-Actor-ID"

const keepAliveInterval = 15 * time.Second

type Handler struct {
	svc     *operation.Service
	hub     *operation.Hub
	reports *report.Service
}

func NewHandler(svc *operation.Service, hub *operation.Hub, reports *report.Service) *Handler {
	return &Handler{svc: svc, hub: hub, reports: reports}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.open)
	r.Get("/", h.list)
	r.Get("/{id}", h.snapshot)
	r.Get("/{id}/stream", h.stream)
	r.Get("/{id}/report", h.report)
	r.Post("/{id}/loaded", h.addLoaded)
	r.Post("/{id}/returned", h.addReturned)
	r.Post("/{id}/unreturned", h.addUnreturned)
	r.Post("/{id}/expenses", h.registerExpense)
	r.Post("/{id}/invoices", h.createInvoice)
	r.Patch("/{id}/invoices/{entryID}/status", h.updateInvoiceStatus)
	r.Delete("/{id}/{kind}/{entryID}", h.removeEntry)
	r.Post("/{id}/close", h.close)
	r.Post("/{id}/close/preview", h.previewClose)
}

type openDayRequest struct {
	DistributorID string          `json:"distributor_id"`
	Date          string          `json:"date"`
	OpeningCash   decimal.Decimal `json:"opening_cash"`
	Notes         string          `json:"notes"`
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req openDayRequest
	if !decode(w, r, &req) {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date", Field: "date"})
		return
	}

	op, err := h.svc.OpenDay(r.Context(), operation.OpenDayParams{
		DistributorID: req.DistributorID,
		Date:          date,
		OpeningCash:   req.OpeningCash,
		OpenedBy:      actor,
		Notes:         req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOperationResponse(op))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := operation.ListFilter{}
	q := r.URL.Query()

	if s := q.Get("distributor_id"); s != "" {
		filter.DistributorID = &s
	}

	if s := q.Get("status"); s != "" {
		filter.Status = new(operation.Status(s))
	}

	for _, bound := range []struct {
		param string
		dst   **time.Time
	}{{"from", &filter.From}, {"to", &filter.To}} {
		s := q.Get(bound.param)
		if s == "" {
			continue
		}

		t, err := parseDate(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid " + bound.param + " date", Field: bound.param})
			return
		}

		*bound.dst = &t
	}

	ops, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOperationResponseList(ops))
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	snap, err := h.svc.Snapshot(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSnapshotResponse(snap))
}

// stream pushes a full snapshot as a server-sent event every time the
// operation changes, starting with the current one.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	sub, err := h.hub.Subscribe(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	defer sub.Cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}

			flusher.Flush()
		case snap, ok := <-sub.C:
			if !ok {
				return
			}

			data, err := json.Marshal(toSnapshotResponse(snap))
			if err != nil {
				logger.Log.Error().Err(err).Str("operation_id", id.String()).Msg("failed to encode snapshot")
				return
			}

			if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data); err != nil {
				return
			}

			flusher.Flush()
		}
	}
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	body, err := h.reports.DayReport(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := fmt.Fprint(w, body); err != nil {
		logger.Log.Error().Err(err).Msg("failed to write report")
	}
}

type productEntryRequest struct {
	ProductID uuid.UUID            `json:"product_id"`
	Quantity  int64                `json:"quantity"`
	UnitPrice *decimal.Decimal     `json:"unit_price,omitempty"`
	UnitCost  *decimal.Decimal     `json:"unit_cost,omitempty"`
	Condition operation.Condition  `json:"condition,omitempty"`
	Reason    operation.LossReason `json:"reason,omitempty"`
	Notes     string               `json:"notes,omitempty"`
}

func (h *Handler) addLoaded(w http.ResponseWriter, r *http.Request) {
	id, actor, req, ok := entryRequest[productEntryRequest](w, r)
	if !ok {
		return
	}

	p, err := h.svc.AddLoadedProduct(r.Context(), operation.AddLoadedParams{
		OperationID: id,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		RecordedBy:  actor,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toLoadedResponse(p))
}

func (h *Handler) addReturned(w http.ResponseWriter, r *http.Request) {
	id, actor, req, ok := entryRequest[productEntryRequest](w, r)
	if !ok {
		return
	}

	p, err := h.svc.AddReturnedProduct(r.Context(), operation.AddReturnedParams{
		OperationID: id,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		Condition:   req.Condition,
		RecordedBy:  actor,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toReturnedResponse(p))
}

func (h *Handler) addUnreturned(w http.ResponseWriter, r *http.Request) {
	id, actor, req, ok := entryRequest[productEntryRequest](w, r)
	if !ok {
		return
	}

	p, err := h.svc.AddUnreturnedProduct(r.Context(), operation.AddUnreturnedParams{
		OperationID: id,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		UnitCost:    req.UnitCost,
		Reason:      req.Reason,
		Notes:       req.Notes,
		RecordedBy:  actor,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUnreturnedResponse(p))
}

type expenseRequest struct {
	Type        operation.ExpenseType `json:"type"`
	Description string                `json:"description"`
	Amount      decimal.Decimal       `json:"amount"`
	SpentAt     *time.Time            `json:"spent_at,omitempty"`
}

func (h *Handler) registerExpense(w http.ResponseWriter, r *http.Request) {
	id, actor, req, ok := entryRequest[expenseRequest](w, r)
	if !ok {
		return
	}

	params := operation.RegisterExpenseParams{
		OperationID: id,
		Type:        req.Type,
		Description: req.Description,
		Amount:      req.Amount,
		RecordedBy:  actor,
	}
	if req.SpentAt != nil {
		params.SpentAt = *req.SpentAt
	}

	e, err := h.svc.RegisterExpense(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toExpenseResponse(e))
}

type invoiceRequest struct {
	ClientName    string          `json:"client_name"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       string          `json:"due_date"`
	Observations  string          `json:"observations"`
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	id, actor, req, ok := entryRequest[invoiceRequest](w, r)
	if !ok {
		return
	}

	due, err := parseDate(req.DueDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid due date", Field: "due_date"})
		return
	}

	inv, err := h.svc.CreateInvoice(r.Context(), operation.CreateInvoiceParams{
		OperationID:   id,
		ClientName:    req.ClientName,
		InvoiceNumber: req.InvoiceNumber,
		Amount:        req.Amount,
		DueDate:       due,
		Observations:  req.Observations,
		RecordedBy:    actor,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toInvoiceResponse(inv))
}

type updateInvoiceStatusRequest struct {
	Status operation.InvoiceStatus `json:"status"`
}

func (h *Handler) updateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	id, actor, req, ok := entryRequest[updateInvoiceStatusRequest](w, r)
	if !ok {
		return
	}

	invoiceID, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}

	if err := h.svc.UpdateInvoiceStatus(r.Context(), operation.UpdateInvoiceStatusParams{
		OperationID: id,
		InvoiceID:   invoiceID,
		Status:      req.Status,
		UpdatedBy:   actor,
	}); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeEntry(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	entryID, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}

	if err := h.svc.RemoveEntry(r.Context(), operation.RemoveEntryParams{
		OperationID: id,
		Kind:        operation.EntryKind(chi.URLParam(r, "kind")),
		EntryID:     entryID,
		RemovedBy:   actor,
	}); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type closeDayRequest struct {
	DeliveredCash *decimal.Decimal `json:"delivered_cash"`
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	id, actor, req, ok := entryRequest[closeDayRequest](w, r)
	if !ok {
		return
	}

	op, err := h.svc.CloseDay(r.Context(), operation.CloseDayParams{
		OperationID:   id,
		DeliveredCash: req.DeliveredCash,
		ClosedBy:      actor,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOperationResponse(op))
}

func (h *Handler) previewClose(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req closeDayRequest
	if !decode(w, r, &req) {
		return
	}

	if req.DeliveredCash == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "delivered_cash is required", Field: "delivered_cash"})
		return
	}

	summary, alerts, err := h.svc.PreviewClose(r.Context(), id, *req.DeliveredCash)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, previewResponse{Summary: summary, Alerts: toAlertResponses(alerts)})
}

// entryRequest reads the actor, the operation id and a JSON body, writing the
// error response itself when any of them is missing or malformed.
func entryRequest[T any](w http.ResponseWriter, r *http.Request) (uuid.UUID, string, T, bool) {
	var req T

	actor, ok := requireActor(w, r)
	if !ok {
		return uuid.Nil, "", req, false
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return uuid.Nil, "", req, false
	}

	if !decode(w, r, &req) {
		return uuid.Nil, "", req, false
	}

	return id, actor, req, true
}

func requireActor(w http.ResponseWriter, r *http.Request) (string, bool) {
	actor := r.Header.Get(ActorHeader)
	if actor == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing " + ActorHeader + " header"})
		return "", false
	}

	return actor, true
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id", Field: param})
		return uuid.Nil, false
	}

	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return false
	}

	return true
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}

// writeError maps service errors onto status codes: bad input is 400, missing
// records 404, store failures 502 and anything unexpected 500.
func writeError(w http.ResponseWriter, err error) {
	var verr *operation.ValidationError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Field: verr.Field})
	case errors.Is(err, operation.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, operation.ErrStore):
		logger.Log.Error().Err(err).Msg("store failure")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "store unavailable"})
	default:
		logger.Log.Error().Err(err).Msg("unexpected error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error().Err(err).Msg("failed to encode response")
	}
}
